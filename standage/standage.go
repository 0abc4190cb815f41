// Package standage owns fuel-regrowth reclassification: loading the
// stand-age-to-fuel-model table and applying it to a grid's fuels layer at
// year end, so a burnable cell's fuel model changes as vegetation recovers
// from fire. Grounded on original_source/FuelsRegrowth.c and StandAge.c,
// which the distilled spec dropped and SPEC_FULL.md's ambient addition
// restores; grid.EndYear owns the stand-age counter itself, this package
// owns what a cell becomes once its age crosses a table threshold.
package standage

import (
	"bufio"
	"os"
	"strconv"
	"strings"

	"github.com/ctessum/sparse"

	"github.com/RohanGharibgard/hfire-sub000/internal/errs"
)

// Table maps a stand age (in years) to the fuel-model number a cell of
// that age converts to.
type Table map[int]int

// LoadTable reads a whitespace/comma-delimited two-column file, "age
// fuel_model_number" per line, '#'-prefixed comments and blank lines
// ignored.
func LoadTable(path string) (Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errs.Wrap(errs.IO, "standage.LoadTable", "opening regrowth table", err)
	}
	defer f.Close()

	t := make(Table)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.FieldsFunc(line, func(r rune) bool { return r == ',' || r == ' ' || r == '\t' })
		if len(fields) != 2 {
			return nil, errs.New(errs.Config, "standage.LoadTable", "expected 'age fuel_model_number' per line: "+line)
		}
		age, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, errs.Wrap(errs.Config, "standage.LoadTable", "parsing age", err)
		}
		fm, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, errs.Wrap(errs.Config, "standage.LoadTable", "parsing fuel model number", err)
		}
		t[age] = fm
	}
	if err := scanner.Err(); err != nil {
		return nil, errs.Wrap(errs.IO, "standage.LoadTable", "scanning regrowth table", err)
	}
	return t, nil
}

// Reclassify walks every cell in standAge and, for any cell whose age has
// an entry in the table, rewrites fuels to the mapped fuel-model number.
// burnable reports whether a cell should be considered at all (a cell
// already Unburnable in its base fuel model is never reclassified).
func Reclassify(t Table, standAge *sparse.DenseArray, fuels *sparse.DenseArrayInt, rows, cols int, burnable func(row, col int) bool) {
	if t == nil {
		return
	}
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			if !burnable(r, c) {
				continue
			}
			age := int(standAge.Get(r, c))
			if fm, ok := t[age]; ok {
				fuels.Set(fm, r, c)
			}
		}
	}
}
