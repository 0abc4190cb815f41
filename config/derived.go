package config

import (
	"sort"
	"strings"

	"github.com/Knetic/govaluate"

	"github.com/RohanGharibgard/hfire-sub000/internal/errs"
)

// DerivedColumns holds user-defined output-variable expressions, each keyed
// by the extra CSV column name it produces. Grounded directly on the
// teacher's io.go Outputter, which compiles govaluate expressions from a
// map[string]string of output-variable definitions once and evaluates them
// per row; here the row is a CSV record's fields instead of a model layer.
type DerivedColumns struct {
	names   []string
	exprs   map[string]*govaluate.EvaluableExpression
}

// LoadDerivedColumns compiles every "EXPORT_DERIVED_<NAME>" key in s into a
// govaluate expression producing the CSV column <NAME>. Returns nil and a
// nil error if no such keys are present.
func LoadDerivedColumns(s *Settings) (*DerivedColumns, error) {
	const prefix = "EXPORT_DERIVED_"
	var names []string
	for k := range s.values {
		if strings.HasPrefix(k, prefix) && s.Has(k) {
			names = append(names, strings.TrimPrefix(k, prefix))
		}
	}
	if len(names) == 0 {
		return nil, nil
	}
	sort.Strings(names)

	dc := &DerivedColumns{names: names, exprs: make(map[string]*govaluate.EvaluableExpression, len(names))}
	for _, name := range names {
		formula := s.values[prefix+name]
		expr, err := govaluate.NewEvaluableExpression(formula)
		if err != nil {
			return nil, errs.Wrap(errs.Config, "config.LoadDerivedColumns", "compiling expression for "+name, err)
		}
		dc.exprs[name] = expr
	}
	return dc, nil
}

// Names returns the derived column names in a stable order, suitable for
// appending to a CSV header row.
func (dc *DerivedColumns) Names() []string {
	if dc == nil {
		return nil
	}
	return dc.names
}

// Evaluate computes every derived column against the given row of named
// field values (e.g. a fire-area CSV row's NUM_CELLS, NUM_CELLS_SA), in the
// same order as Names.
func (dc *DerivedColumns) Evaluate(row map[string]interface{}) ([]float64, error) {
	if dc == nil {
		return nil, nil
	}
	out := make([]float64, len(dc.names))
	for i, name := range dc.names {
		v, err := dc.exprs[name].Evaluate(row)
		if err != nil {
			return nil, errs.Wrap(errs.Domain, "config.DerivedColumns.Evaluate", "evaluating "+name, err)
		}
		f, ok := v.(float64)
		if !ok {
			return nil, errs.New(errs.Domain, "config.DerivedColumns.Evaluate", name+" did not evaluate to a number")
		}
		out[i] = f
	}
	return out, nil
}
