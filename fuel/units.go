// Package fuel implements the fuel particle and fuel bed model: per-size-class
// particle properties and the bed-wide aggregates derived from them.
package fuel

import "github.com/ctessum/unit"

// System identifies which unit system a Model's fields are expressed in.
type System int

const (
	// English is the unit system the spread pipeline requires.
	English System = iota
	// Metric is the unit system fuel-definition files may be authored in.
	Metric
)

func (s System) String() string {
	if s == Metric {
		return "METRIC"
	}
	return "ENGLISH"
}

// Named conversion factors, grounded on the fixed constants the pipeline
// requires. These are expressed as unit.Unit length/mass/energy quantities
// so that a reader can see the dimension each factor carries, matching the
// way the wider codebase documents ctessum/unit conversions; the pipeline's
// own hot-path arithmetic still operates on bare float64s; see DESIGN.md.
var (
	meterToFoot        = unit.New(3.28084, unit.Dimensions{unit.LengthDim: 1})
	mpsToFtPerMin       = unit.New(196.8504, unit.Dimensions{unit.LengthDim: 1, unit.TimeDim: -1})
	kJPerKgToBTUPerLb   = unit.New(0.4299, unit.Dimensions{})
	cmToMeter           = unit.New(0.01, unit.Dimensions{unit.LengthDim: 1})
	savMetricToEnglish  = unit.New(0.33025, unit.Dimensions{unit.LengthDim: -1})
	loadMetricToEnglish = unit.New(0.204816, unit.Dimensions{unit.MassDim: 1, unit.LengthDim: -2})
)

// lengthFactor, savFactor and loadFactor return the scalar multiplier to
// apply when converting from Metric to English; their reciprocal converts
// back. They exist to keep the conversion-factor table in one place while
// RothFuelModelMetricToEnglish/EnglishToMetric do the actual field-by-field
// work in the order the original does it.
func lengthFactor() float64       { return meterToFoot.Value() }
func velocityFactor() float64     { return mpsToFtPerMin.Value() }
func heatContentFactor() float64  { return kJPerKgToBTUPerLb.Value() }
func depthFactor() float64        { return cmToMeter.Value() * meterToFoot.Value() }
func savFactor() float64          { return savMetricToEnglish.Value() }
func loadFactor() float64         { return loadMetricToEnglish.Value() }
