package export

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ctessum/sparse"

	"github.com/RohanGharibgard/hfire-sub000/grid"
)

func TestRasterStampFileName(t *testing.T) {
	s := RasterStamp{Year: 2026, Month: 7, Day: 30, Hour: 1400}
	if got := s.FileName("fid", "asc"); got != "fid202607301400.asc" {
		t.Fatalf("unexpected filename: %q", got)
	}
}

func TestWriteASCIIIntRoundTrip(t *testing.T) {
	g := grid.New(grid.Georef{Rows: 2, Cols: 2, CellSize: 30, XLLCorner: 0, YLLCorner: 0})
	arr := sparse.ZerosDenseInt(2, 2)
	arr.Set(1, 0, 0)
	arr.Set(2, 1, 1)

	dir := t.TempDir()
	stamp := RasterStamp{Year: 2026, Month: 1, Day: 1, Hour: 0}
	if err := WriteASCIIInt(dir, stamp, "fid", arr, g, -9999); err != nil {
		t.Fatalf("WriteASCIIInt: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "fid202601010000.asc"))
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	content := string(data)
	if !strings.Contains(content, "ncols 2") || !strings.Contains(content, "NODATA_value -9999") {
		t.Fatalf("unexpected header in %q", content)
	}
	if !strings.Contains(content, "1 0\n0 2\n") {
		t.Fatalf("unexpected data rows in %q", content)
	}
}

func TestWriteASCIIFloatMapsNaNToNoData(t *testing.T) {
	g := grid.New(grid.Georef{Rows: 1, Cols: 2, CellSize: 30})
	arr := sparse.ZerosDense(1, 2)
	arr.Set(5.5, 0, 0)
	arr.Set(math.NaN(), 0, 1)

	dir := t.TempDir()
	stamp := RasterStamp{Year: 2026, Month: 1, Day: 1, Hour: 0}
	if err := WriteASCIIFloat(dir, stamp, "sage", arr, g, -9999); err != nil {
		t.Fatalf("WriteASCIIFloat: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "sage202601010000.asc"))
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if !strings.Contains(string(data), "5.5 -9999\n") {
		t.Fatalf("unexpected data row: %q", string(data))
	}
}
