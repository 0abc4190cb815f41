// Package raster implements the Esri-style ASCII and binary grid formats the
// core reads its elevation/slope/aspect/fuels/stand-age/ignition-probability
// layers from, plus a gob-encoded checkpoint format for mid-run snapshots.
// Grounded on the config package's RasterFamily settings and the teacher's
// cenkalti/backoff retry pattern in sr/sr.go for flaky filesystem reads.
package raster

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/ctessum/sparse"

	"github.com/RohanGharibgard/hfire-sub000/config"
	"github.com/RohanGharibgard/hfire-sub000/grid"
	"github.com/RohanGharibgard/hfire-sub000/internal/errs"
)

// Header is the shared Esri-style grid header, common to both the ASCII and
// binary on-disk formats.
type Header struct {
	NCols, NRows        int
	XLLCorner, YLLCorner float64
	CellSize            float64
	NoDataValue          float64
	MSBFirst             bool
}

// ReadFloat reads an ASCII or binary float grid into a *sparse.DenseArray,
// according to fam.Format. Cells equal to the header's NODATA_value are set
// to math.NaN; callers decide how NaN maps onto their domain (e.g. the
// fuels loader maps it to "unburnable").
func ReadFloat(fam config.RasterFamily) (*sparse.DenseArray, Header, error) {
	var hdr Header
	var arr *sparse.DenseArray
	var err error

	op := func() error {
		switch strings.ToUpper(fam.Format) {
		case "", "ASCII":
			arr, hdr, err = readASCII(fam.MainFile)
		case "BINARY":
			arr, hdr, err = readBinary(fam.MainFile, fam.HeaderFile)
		default:
			return backoff.Permanent(errs.New(errs.Config, "raster.ReadFloat", fmt.Sprintf("unknown raster format %q", fam.Format)))
		}
		return err
	}
	if retryErr := retry(op); retryErr != nil {
		return nil, Header{}, retryErr
	}
	return arr, hdr, nil
}

// retry wraps op in an exponential backoff, permanently failing (no retry)
// on configuration errors but retrying transient I/O failures, mirroring
// the teacher's sr.go use of backoff.RetryNotify around flaky remote calls.
func retry(op func() error) error {
	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = 5 * time.Second
	var lastErr error
	notify := func(err error, d time.Duration) { lastErr = err }
	if err := backoff.RetryNotify(op, b, notify); err != nil {
		if lastErr != nil {
			return lastErr
		}
		return err
	}
	return nil
}

func readASCII(path string) (*sparse.DenseArray, Header, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, Header{}, errs.Wrap(errs.IO, "raster.readASCII", "opening ASCII grid", err)
	}
	defer f.Close()

	hdr := Header{NoDataValue: -9999}
	scanner := bufio.NewScanner(f)
	var arr *sparse.DenseArray
	row := 0
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if key := strings.ToLower(fields[0]); isHeaderKey(key) {
			if err := setHeaderField(&hdr, key, fields[1]); err != nil {
				return nil, Header{}, errs.Wrap(errs.IO, "raster.readASCII", "parsing header", err)
			}
			continue
		}
		if arr == nil {
			if hdr.NRows == 0 || hdr.NCols == 0 {
				return nil, Header{}, errs.New(errs.IO, "raster.readASCII", "data row encountered before nrows/ncols header")
			}
			arr = sparse.ZerosDense(hdr.NRows, hdr.NCols)
		}
		if len(fields) != hdr.NCols {
			return nil, Header{}, errs.New(errs.IO, "raster.readASCII", fmt.Sprintf("row %d: expected %d columns, got %d", row, hdr.NCols, len(fields)))
		}
		for col, tok := range fields {
			v, err := strconv.ParseFloat(tok, 64)
			if err != nil {
				return nil, Header{}, errs.Wrap(errs.IO, "raster.readASCII", fmt.Sprintf("row %d col %d", row, col), err)
			}
			if v == hdr.NoDataValue {
				v = math.NaN()
			}
			arr.Set(v, row, col)
		}
		row++
	}
	if err := scanner.Err(); err != nil {
		return nil, Header{}, errs.Wrap(errs.IO, "raster.readASCII", "scanning ASCII grid", err)
	}
	return arr, hdr, nil
}

func isHeaderKey(k string) bool {
	switch k {
	case "ncols", "nrows", "xllcorner", "yllcorner", "cellsize", "nodata_value", "byteorder":
		return true
	}
	return false
}

func setHeaderField(hdr *Header, key, val string) error {
	var err error
	switch key {
	case "ncols":
		hdr.NCols, err = strconv.Atoi(val)
	case "nrows":
		hdr.NRows, err = strconv.Atoi(val)
	case "xllcorner":
		hdr.XLLCorner, err = strconv.ParseFloat(val, 64)
	case "yllcorner":
		hdr.YLLCorner, err = strconv.ParseFloat(val, 64)
	case "cellsize":
		hdr.CellSize, err = strconv.ParseFloat(val, 64)
	case "nodata_value":
		hdr.NoDataValue, err = strconv.ParseFloat(val, 64)
	case "byteorder":
		hdr.MSBFirst = strings.EqualFold(val, "MSBFIRST")
	}
	return err
}

// readBinary reads a separate .hdr text header (same keys as the ASCII
// format) plus a row-major 4-byte-float data file.
func readBinary(dataPath, hdrPath string) (*sparse.DenseArray, Header, error) {
	if hdrPath == "" {
		hdrPath = strings.TrimSuffix(dataPath, filepath.Ext(dataPath)) + ".hdr"
	}
	hf, err := os.Open(hdrPath)
	if err != nil {
		return nil, Header{}, errs.Wrap(errs.IO, "raster.readBinary", "opening header file", err)
	}
	defer hf.Close()

	hdr := Header{NoDataValue: -9999}
	scanner := bufio.NewScanner(hf)
	for scanner.Scan() {
		fields := strings.Fields(strings.TrimSpace(scanner.Text()))
		if len(fields) != 2 {
			continue
		}
		if err := setHeaderField(&hdr, strings.ToLower(fields[0]), fields[1]); err != nil {
			return nil, Header{}, errs.Wrap(errs.IO, "raster.readBinary", "parsing header", err)
		}
	}

	df, err := os.Open(dataPath)
	if err != nil {
		return nil, Header{}, errs.Wrap(errs.IO, "raster.readBinary", "opening data file", err)
	}
	defer df.Close()

	order := binary.ByteOrder(binary.LittleEndian)
	if hdr.MSBFirst {
		order = binary.BigEndian
	}

	arr := sparse.ZerosDense(hdr.NRows, hdr.NCols)
	buf := make([]byte, 4*hdr.NCols)
	for row := 0; row < hdr.NRows; row++ {
		if _, err := df.Read(buf); err != nil {
			return nil, Header{}, errs.Wrap(errs.IO, "raster.readBinary", fmt.Sprintf("reading row %d", row), err)
		}
		for col := 0; col < hdr.NCols; col++ {
			bits := order.Uint32(buf[col*4 : col*4+4])
			v := float64(math.Float32frombits(bits))
			if v == hdr.NoDataValue {
				v = math.NaN()
			}
			arr.Set(v, row, col)
		}
	}
	return arr, hdr, nil
}

// checkpoint is the gob-encoded snapshot of a grid's ambient layers,
// analogous to the teacher's cached VariableGridData file. Per-year layers
// and the fire-metadata table are not included.
type checkpoint struct {
	Georef grid.Georef
	Fuels  []int
	Elev, Slope, Aspect, StandAge []float64
}

// WriteCheckpoint gob-encodes g's ambient layers (fuels, elevation, slope,
// aspect, stand age) to path.
func WriteCheckpoint(path string, g *grid.Grid) error {
	cp := checkpoint{
		Georef:   g.Georef,
		Fuels:    flattenInt(g.Fuels, g.Rows, g.Cols),
		Elev:     flatten(g.Elev, g.Rows, g.Cols),
		Slope:    flatten(g.Slope, g.Rows, g.Cols),
		Aspect:   flatten(g.Aspect, g.Rows, g.Cols),
		StandAge: flatten(g.StandAge, g.Rows, g.Cols),
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(cp); err != nil {
		return errs.Wrap(errs.IO, "raster.WriteCheckpoint", "encoding checkpoint", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return errs.Wrap(errs.IO, "raster.WriteCheckpoint", "writing checkpoint file", err)
	}
	return nil
}

// ReadCheckpoint reconstructs a *grid.Grid from a gob-encoded snapshot.
func ReadCheckpoint(path string) (*grid.Grid, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.Wrap(errs.IO, "raster.ReadCheckpoint", "reading checkpoint file", err)
	}
	var cp checkpoint
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&cp); err != nil {
		return nil, errs.Wrap(errs.IO, "raster.ReadCheckpoint", "decoding checkpoint", err)
	}
	g := grid.New(cp.Georef)
	unflattenInt(g.Fuels, cp.Fuels, cp.Georef.Cols)
	unflatten(g.Elev, cp.Elev, cp.Georef.Cols)
	unflatten(g.Slope, cp.Slope, cp.Georef.Cols)
	unflatten(g.Aspect, cp.Aspect, cp.Georef.Cols)
	unflatten(g.StandAge, cp.StandAge, cp.Georef.Cols)
	return g, nil
}

func flatten(a *sparse.DenseArray, rows, cols int) []float64 {
	out := make([]float64, rows*cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			out[r*cols+c] = a.Get(r, c)
		}
	}
	return out
}

func flattenInt(a *sparse.DenseArrayInt, rows, cols int) []int {
	out := make([]int, rows*cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			out[r*cols+c] = a.Get(r, c)
		}
	}
	return out
}

func unflatten(a *sparse.DenseArray, flat []float64, cols int) {
	for i, v := range flat {
		a.Set(v, i/cols, i%cols)
	}
}

func unflattenInt(a *sparse.DenseArrayInt, flat []int, cols int) {
	for i, v := range flat {
		a.Set(v, i/cols, i%cols)
	}
}
