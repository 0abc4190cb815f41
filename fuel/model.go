package fuel

import "math"

// SizeClass indexes the five fixed fuel particle classes. Order matches
// every per-class array in this package and is never reordered.
type SizeClass int

const (
	D1H SizeClass = iota
	D10H
	D100H
	LH
	LW
	// NumSizeClasses is the fixed count of fuel particle classes.
	NumSizeClasses
)

func (c SizeClass) String() string {
	switch c {
	case D1H:
		return "d1h"
	case D10H:
		return "d10h"
	case D100H:
		return "d100h"
	case LH:
		return "lh"
	case LW:
		return "lw"
	default:
		return "unknown"
	}
}

// Default standard values used to fill unsupplied FMD fields, grounded on
// RothFuelModel.c's ROTH_FM_* constants.
const (
	stdD10HSAVEnglish  = 109.0
	stdD100HSAVEnglish = 30.0
	stdDensityEnglish  = 32.0
	stdTotalSilica     = 0.0555
	stdEffSilica       = 0.0100
	zeroROSAdjFactor   = 1.0
)

// Epsilon is the single floating-point tolerance used throughout the fuel
// and pipeline packages for zero/equality/positivity tests.
const Epsilon = 1e-6

func gtZero(v float64) bool { return v > Epsilon }

// Model is an immutable-after-Init fuel bed: per-size-class particle
// properties plus the bed-wide aggregates derived from them.
type Model struct {
	Number     int
	Burnable   bool
	Units      System
	NumParticles int

	Load [NumSizeClasses]float64
	SAV  [NumSizeClasses]float64
	Dens [NumSizeClasses]float64
	HC   [NumSizeClasses]float64
	Stot [NumSizeClasses]float64
	Seff [NumSizeClasses]float64

	Depth    float64
	ExtMoist float64 // fraction, not percent
	ROSAdj   float64

	// Derived aggregates, recomputed by setDerivedProperties.
	SArea [NumSizeClasses]float64
	EffHN [NumSizeClasses]float64
	AWtg  [NumSizeClasses]float64
	LArea float64
	DArea float64
	FDens float64
	FSAV  float64
	PkRat float64
}

// Record is the parsed form of one FMD data row: model number plus the 12
// fields in the order the file format specifies.
type Record struct {
	Number                                     int
	D1HLoad, D10HLoad, D100HLoad, LHLoad, LWLoad float64
	D1HSAV, LHSAV, LWSAV                         float64
	Depth                                        float64
	ExtMoistPct                                  float64
	DeadHC, LiveHC                                float64
}

// NewUnburnable returns a zeroed, flagged-unburnable fuel bed. The fuel-model
// number 0 is never used by convention but is not rejected here; callers
// enforce that.
func NewUnburnable(number int) *Model {
	return &Model{Number: number, Burnable: false, Units: English}
}

// NewFromRecord builds a burnable Model from a parsed FMD record, filling
// defaults for fields the format doesn't carry (10h/100h SAV, particle
// density, silica fractions), then computing derived aggregates.
func NewFromRecord(rec Record, units System) *Model {
	m := &Model{Number: rec.Number, Burnable: true, Units: units}

	m.Depth = rec.Depth
	if units == Metric {
		m.Depth = rec.Depth / 100.0 // cm to m
	}
	m.ExtMoist = rec.ExtMoistPct / 100.0
	m.ROSAdj = zeroROSAdjFactor

	m.Load[D1H] = rec.D1HLoad
	m.Load[D10H] = rec.D10HLoad
	m.Load[D100H] = rec.D100HLoad
	m.Load[LH] = rec.LHLoad
	m.Load[LW] = rec.LWLoad

	m.SAV[D1H] = rec.D1HSAV
	if units == English {
		m.SAV[D10H] = stdD10HSAVEnglish
		m.SAV[D100H] = stdD100HSAVEnglish
	} else {
		m.SAV[D10H] = stdD10HSAVEnglish / savFactor()
		m.SAV[D100H] = stdD100HSAVEnglish / savFactor()
	}
	m.SAV[LH] = rec.LHSAV
	m.SAV[LW] = rec.LWSAV

	dens := stdDensityEnglish
	if units == Metric {
		dens = stdDensityEnglish / loadFactor() // lb/ft3 -> kg/m3 via the same mass/length^-2-ish factor table
	}
	for i := range m.Dens {
		m.Dens[i] = dens
	}

	hc := [2]float64{rec.DeadHC, rec.LiveHC}
	for i := 0; i < int(NumSizeClasses); i++ {
		if SizeClass(i) == LH || SizeClass(i) == LW {
			m.HC[i] = hc[1]
		} else {
			m.HC[i] = hc[0]
		}
	}

	for i := range m.Stot {
		m.Stot[i] = stdTotalSilica
		m.Seff[i] = stdEffSilica
	}

	for i := range m.Load {
		if gtZero(m.Load[i]) {
			m.NumParticles++
		}
	}

	m.setDerivedProperties()
	return m
}

// setDerivedProperties implements the bed-wide aggregate algorithm: per-class
// surface area, effective heating number, live/dead weighting, characteristic
// density and SAV, and packing ratio. Grounded on
// RothFuelModelSetDerivedProperties in RothFuelModel.c; the order of
// operations is preserved exactly.
func (m *Model) setDerivedProperties() {
	if !m.Burnable {
		return
	}

	for i := range m.SArea {
		if gtZero(m.Dens[i]) {
			m.SArea[i] = (m.Load[i] * m.SAV[i]) / m.Dens[i]
		} else {
			m.SArea[i] = 0
		}
		switch m.Units {
		case English:
			if gtZero(m.SAV[i]) {
				m.EffHN[i] = math.Exp(-138.0 / m.SAV[i])
			} else {
				m.EffHN[i] = 0
			}
		case Metric:
			if gtZero(m.SAV[i]) {
				m.EffHN[i] = math.Exp(-1.0 / (0.0022 * m.SAV[i]))
			} else {
				m.EffHN[i] = 0
			}
		}
		m.AWtg[i] = 0
	}

	m.LArea = m.SArea[LH] + m.SArea[LW]
	m.DArea = m.SArea[D1H] + m.SArea[D10H] + m.SArea[D100H]

	if gtZero(m.LArea) {
		m.AWtg[LH] = m.SArea[LH] / m.LArea
		m.AWtg[LW] = m.SArea[LW] / m.LArea
	}
	if gtZero(m.DArea) {
		m.AWtg[D1H] = m.SArea[D1H] / m.DArea
		m.AWtg[D10H] = m.SArea[D10H] / m.DArea
		m.AWtg[D100H] = m.SArea[D100H] / m.DArea
	}

	tarea := m.LArea + m.DArea
	if gtZero(tarea) {
		m.LArea /= tarea
		m.DArea /= tarea
	} else {
		m.LArea, m.DArea = 0, 0
	}

	m.FDens = 0
	if gtZero(m.Depth) {
		m.FDens = (m.Load[LH] + m.Load[LW] + m.Load[D1H] + m.Load[D10H] + m.Load[D100H]) / m.Depth
	}

	lsav := m.AWtg[LH]*m.SAV[LH] + m.AWtg[LW]*m.SAV[LW]
	dsav := m.AWtg[D1H]*m.SAV[D1H] + m.AWtg[D10H]*m.SAV[D10H] + m.AWtg[D100H]*m.SAV[D100H]
	m.FSAV = m.LArea*lsav + m.DArea*dsav

	m.PkRat = 0
	for i := range m.Load {
		if gtZero(m.Dens[i]) {
			m.PkRat += m.Load[i] / m.Dens[i]
		}
	}
	if gtZero(m.Depth) {
		m.PkRat /= m.Depth
	}
}

// ConvertTo converts the bed's fields to the requested unit system and
// recomputes derived aggregates. Converting to the system the bed is
// already in is a warning (logged by the caller), not a state change.
// Grounded on RothFuelModelMetricToEnglish/EnglishToMetric.
func (m *Model) ConvertTo(target System) (alreadyThere bool) {
	if !m.Burnable {
		return false
	}
	if m.Units == target {
		return true
	}

	toEnglish := target == English
	for i := range m.Load {
		if gtZero(m.Load[i]) {
			if toEnglish {
				m.Load[i] *= loadFactor()
			} else {
				m.Load[i] /= loadFactor()
			}
		}
		if gtZero(m.SAV[i]) {
			if toEnglish {
				m.SAV[i] *= savFactor()
			} else {
				m.SAV[i] /= savFactor()
			}
		}
		if gtZero(m.Dens[i]) {
			if toEnglish {
				m.Dens[i] *= loadFactor()
			} else {
				m.Dens[i] /= loadFactor()
			}
		}
		if gtZero(m.HC[i]) {
			if toEnglish {
				m.HC[i] *= heatContentFactor()
			} else {
				m.HC[i] /= heatContentFactor()
			}
		}
	}

	if gtZero(m.Depth) {
		if toEnglish {
			m.Depth *= lengthFactor()
		} else {
			m.Depth /= lengthFactor()
		}
	}
	if gtZero(m.FDens) {
		if toEnglish {
			m.FDens *= loadFactor()
		} else {
			m.FDens /= loadFactor()
		}
	}
	if gtZero(m.FSAV) {
		if toEnglish {
			m.FSAV *= savFactor()
		} else {
			m.FSAV /= savFactor()
		}
	}

	m.Units = target
	m.setDerivedProperties()
	return false
}
