package export

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ctessum/sparse"

	"github.com/RohanGharibgard/hfire-sub000/grid"
	"github.com/RohanGharibgard/hfire-sub000/internal/errs"
)

// RasterStamp names one snapshot point in the calendar, used to build the
// "<stem><YYYY><MM><DD><HHHH>.asc" filenames.
type RasterStamp struct {
	Year, Month, Day, Hour int
}

// FileName returns the conventional filename for stem at this stamp (e.g.
// "fid202607300000.asc" for stem "fid"). Hour is the military-time hour
// of day, written as four digits.
func (s RasterStamp) FileName(stem, ext string) string {
	return fmt.Sprintf("%s%04d%02d%02d%04d.%s", stem, s.Year, s.Month, s.Day, s.Hour, ext)
}

// WriteASCIIInt writes arr as an Esri ASCII grid with integer cell values,
// using g's georeferencing and noData as the NODATA_value.
func WriteASCIIInt(dir string, stamp RasterStamp, stem string, arr *sparse.DenseArrayInt, g *grid.Grid, noData int) error {
	path := filepath.Join(dir, stamp.FileName(stem, "asc"))
	f, err := os.Create(path)
	if err != nil {
		return errs.Wrap(errs.IO, "export.WriteASCIIInt", "creating "+path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if err := writeASCIIHeader(w, g, float64(noData)); err != nil {
		return err
	}
	for r := 0; r < g.Rows; r++ {
		for c := 0; c < g.Cols; c++ {
			if c > 0 {
				fmt.Fprint(w, " ")
			}
			fmt.Fprintf(w, "%d", arr.Get(r, c))
		}
		fmt.Fprint(w, "\n")
	}
	if err := w.Flush(); err != nil {
		return errs.Wrap(errs.IO, "export.WriteASCIIInt", "flushing "+path, err)
	}
	return nil
}

// WriteASCIIFloat writes arr as an Esri ASCII grid with float cell values.
// NaN cells are written as noData.
func WriteASCIIFloat(dir string, stamp RasterStamp, stem string, arr *sparse.DenseArray, g *grid.Grid, noData float64) error {
	path := filepath.Join(dir, stamp.FileName(stem, "asc"))
	f, err := os.Create(path)
	if err != nil {
		return errs.Wrap(errs.IO, "export.WriteASCIIFloat", "creating "+path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if err := writeASCIIHeader(w, g, noData); err != nil {
		return err
	}
	for r := 0; r < g.Rows; r++ {
		for c := 0; c < g.Cols; c++ {
			if c > 0 {
				fmt.Fprint(w, " ")
			}
			v := arr.Get(r, c)
			if v != v { // NaN
				v = noData
			}
			fmt.Fprintf(w, "%g", v)
		}
		fmt.Fprint(w, "\n")
	}
	if err := w.Flush(); err != nil {
		return errs.Wrap(errs.IO, "export.WriteASCIIFloat", "flushing "+path, err)
	}
	return nil
}

func writeASCIIHeader(w *bufio.Writer, g *grid.Grid, noData float64) error {
	_, err := fmt.Fprintf(w, "ncols %d\nnrows %d\nxllcorner %g\nyllcorner %g\ncellsize %g\nNODATA_value %g\n",
		g.Cols, g.Rows, g.XLLCorner, g.YLLCorner, g.CellSize, noData)
	if err != nil {
		return errs.Wrap(errs.IO, "export.writeASCIIHeader", "writing header", err)
	}
	return nil
}
