// Package weather implements the FireEnv capability set: the strategies
// that supply wind, fuel moisture, ignition, and regrowth forcing to the
// growth engine. It replaces the original's function-pointer table
// ("FireEnv" virtual dispatch) with a Go interface satisfied by
// strategy-specific implementations, grounded on Ignition.c's FIXED/RANDU/
// RANDS dispatch and the moisture/wind lookup routines it calls alongside.
package weather

import (
	"math/rand"

	"github.com/RohanGharibgard/hfire-sub000/grid"
)

// Moistures bundles the five fuel-moisture fractions the pipeline needs
// per cell per iteration.
type Moistures struct {
	D1H, D10H, D100H, LH, LW float64
}

// Ignition is a candidate new-fire location in real-world coordinates.
type Ignition struct {
	X, Y float64
}

// Env is the capability set an engine iteration consults for forcing data.
// Implementations need not supply every method meaningfully: a strategy
// that never triggers ignitions still satisfies the interface by always
// reporting "no ignition this timestep".
type Env interface {
	// Wind returns the azimuth the wind blows from (degrees) and its
	// speed (ft/min) at the given cell, day-of-year, and second-of-day.
	Wind(row, col, dayOfYear, secOfDay int) (azDeg, speedFpm float64)
	// FuelMoist returns dead-fuel moisture fractions for the given cell.
	FuelMoist(row, col, dayOfYear, secOfDay int) Moistures
	// LiveFuelMoist returns live-fuel moisture fractions; always sourced
	// from the normal (non-Santa-Ana) provider per the engine's contract.
	LiveFuelMoist(row, col int) (lh, lw float64)
	// Ignitions returns zero or more new-ignition candidates for the
	// current timestep.
	Ignitions(g *grid.Grid, dayOfYear, secOfDay int, rng *rand.Rand) []Ignition
	// FuelsRegrowth returns the fuel-model number a cell of the given
	// stand age converts to, and whether regrowth reclassification
	// applies at all (false when the table is NULL-disabled).
	FuelsRegrowth(standAge int) (fuelModelNum int, ok bool)
}

// Fixed supplies constant wind and moisture values and a fixed list of
// ignition points consumed once each, grounded on
// IsIgnitionNowFIXEDFromProps/GetIgnitionLocFIXEDFromProps.
type Fixed struct {
	WindAzDeg, WindSpeedFpm float64
	Moist                   Moistures
	LiveLH, LiveLW          float64
	Points                  []Ignition
	consumed                bool
	Regrowth                map[int]int // stand age -> fuel model number
}

func (f *Fixed) Wind(row, col, dayOfYear, secOfDay int) (float64, float64) {
	return f.WindAzDeg, f.WindSpeedFpm
}

func (f *Fixed) FuelMoist(row, col, dayOfYear, secOfDay int) Moistures { return f.Moist }

func (f *Fixed) LiveFuelMoist(row, col int) (float64, float64) { return f.LiveLH, f.LiveLW }

func (f *Fixed) Ignitions(g *grid.Grid, dayOfYear, secOfDay int, rng *rand.Rand) []Ignition {
	if f.consumed || secOfDay != 0 {
		return nil
	}
	f.consumed = true
	return f.Points
}

func (f *Fixed) FuelsRegrowth(standAge int) (int, bool) {
	if f.Regrowth == nil {
		return 0, false
	}
	fm, ok := f.Regrowth[standAge]
	return fm, ok
}

// RandomUniform draws wind, moisture, and ignition location from uniform
// ranges, grounded on GetIgnitionLocRANDUFromProps's rejection-sampling
// loop (redrawn coordinates are rejected until one lands on a burnable
// cell) and IsIgnitionNowRANDFromProps's per-hour Bernoulli trial derived
// from IGNITION_FREQUENCY_PER_DAY.
type RandomUniform struct {
	WindAzRange   [2]float64
	WindSpeedRange [2]float64
	MoistRanges   [5][2]float64
	FreqPerDay    float64
	MaxTrials     int
	Regrowth      map[int]int
}

func uniform(rng *rand.Rand, lo, hi float64) float64 { return lo + rng.Float64()*(hi-lo) }

func (r *RandomUniform) Wind(row, col, dayOfYear, secOfDay int) (float64, float64) {
	rng := rand.New(rand.NewSource(int64(row)*1000003 + int64(col)*97 + int64(dayOfYear)*86400 + int64(secOfDay)))
	return uniform(rng, r.WindAzRange[0], r.WindAzRange[1]), uniform(rng, r.WindSpeedRange[0], r.WindSpeedRange[1])
}

func (r *RandomUniform) FuelMoist(row, col, dayOfYear, secOfDay int) Moistures {
	rng := rand.New(rand.NewSource(int64(row)*911 + int64(col)*7 + int64(dayOfYear)*86400 + int64(secOfDay)))
	return Moistures{
		D1H:   uniform(rng, r.MoistRanges[0][0], r.MoistRanges[0][1]),
		D10H:  uniform(rng, r.MoistRanges[1][0], r.MoistRanges[1][1]),
		D100H: uniform(rng, r.MoistRanges[2][0], r.MoistRanges[2][1]),
		LH:    uniform(rng, r.MoistRanges[3][0], r.MoistRanges[3][1]),
		LW:    uniform(rng, r.MoistRanges[4][0], r.MoistRanges[4][1]),
	}
}

func (r *RandomUniform) LiveFuelMoist(row, col int) (float64, float64) {
	rng := rand.New(rand.NewSource(int64(row)*13 + int64(col)*131))
	return uniform(rng, r.MoistRanges[3][0], r.MoistRanges[3][1]), uniform(rng, r.MoistRanges[4][0], r.MoistRanges[4][1])
}

func (r *RandomUniform) Ignitions(g *grid.Grid, dayOfYear, secOfDay int, rng *rand.Rand) []Ignition {
	probPerHour := r.FreqPerDay / 24.0
	if rng.Float64() > probPerHour {
		return nil
	}
	maxTrials := r.MaxTrials
	if maxTrials == 0 {
		maxTrials = 1000000
	}
	for t := 0; t < maxTrials; t++ {
		rwx := g.XLLCorner + rng.Float64()*float64(g.Cols)*g.CellSize
		rwy := g.YLLCorner + rng.Float64()*float64(g.Rows)*g.CellSize
		row, col, err := g.RealToRaster(rwx, rwy)
		if err != nil {
			continue
		}
		if g.IsBoundary(row, col) {
			continue
		}
		if g.StateAt(row, col) == grid.NoFire {
			return []Ignition{{X: rwx, Y: rwy}}
		}
	}
	return nil
}

func (r *RandomUniform) FuelsRegrowth(standAge int) (int, bool) {
	if r.Regrowth == nil {
		return 0, false
	}
	fm, ok := r.Regrowth[standAge]
	return fm, ok
}

// RandomSpatial layers a per-cell ignition-probability raster on top of
// RandomUniform's location draw, grounded on GetIgnitionLocRANDSFromProps.
// The probability raster is loaded once per run (not per year), per the
// resolved Open Question on raster reuse: repeated IGNITION_RSP_ lookups
// across years would otherwise reopen and reparse the same file needlessly.
type RandomSpatial struct {
	RandomUniform
	Prob *grid.Grid // reuses grid.Grid solely as a float raster container for the probability surface
}

func (r *RandomSpatial) Ignitions(g *grid.Grid, dayOfYear, secOfDay int, rng *rand.Rand) []Ignition {
	base := r.RandomUniform.Ignitions(g, dayOfYear, secOfDay, rng)
	if len(base) == 0 || r.Prob == nil {
		return base
	}
	row, col, err := g.RealToRaster(base[0].X, base[0].Y)
	if err != nil {
		return nil
	}
	p := r.Prob.Elev.Get(row, col)
	if rng.Float64() > p {
		return nil
	}
	return base
}

// RandomHistorical draws wind and moisture from a historical time series
// keyed by day-of-year instead of a uniform range, grounded on the same
// dispatch family but substituting a lookup table for a distribution.
type RandomHistorical struct {
	ByDayOfYear map[int]Moistures
	WindByDayOfYear map[int][2]float64 // az, speed
	Fallback        RandomUniform
}

func (r *RandomHistorical) Wind(row, col, dayOfYear, secOfDay int) (float64, float64) {
	if w, ok := r.WindByDayOfYear[dayOfYear]; ok {
		return w[0], w[1]
	}
	return r.Fallback.Wind(row, col, dayOfYear, secOfDay)
}

func (r *RandomHistorical) FuelMoist(row, col, dayOfYear, secOfDay int) Moistures {
	if m, ok := r.ByDayOfYear[dayOfYear]; ok {
		return m
	}
	return r.Fallback.FuelMoist(row, col, dayOfYear, secOfDay)
}

func (r *RandomHistorical) LiveFuelMoist(row, col int) (float64, float64) {
	return r.Fallback.LiveFuelMoist(row, col)
}

func (r *RandomHistorical) Ignitions(g *grid.Grid, dayOfYear, secOfDay int, rng *rand.Rand) []Ignition {
	return r.Fallback.Ignitions(g, dayOfYear, secOfDay, rng)
}

func (r *RandomHistorical) FuelsRegrowth(standAge int) (int, bool) {
	return r.Fallback.FuelsRegrowth(standAge)
}

// SantaAna wraps a normal Env and substitutes wind/dead-fuel-moisture
// forcing when the given day falls inside a configured window. Live-fuel
// moisture always passes through to the normal provider, per the
// per-iteration contract: "Live-fuel moisture always comes from the
// normal provider."
type SantaAna struct {
	Normal  Env
	Overlay Env
	Windows [][2]int // [startDayOfYear, endDayOfYear] inclusive pairs
}

// Active reports whether dayOfYear falls inside a configured Santa-Ana
// window.
func (s *SantaAna) Active(dayOfYear int) bool {
	for _, w := range s.Windows {
		if dayOfYear >= w[0] && dayOfYear <= w[1] {
			return true
		}
	}
	return false
}

func (s *SantaAna) envFor(dayOfYear int) Env {
	if s.Active(dayOfYear) {
		return s.Overlay
	}
	return s.Normal
}

func (s *SantaAna) Wind(row, col, dayOfYear, secOfDay int) (float64, float64) {
	return s.envFor(dayOfYear).Wind(row, col, dayOfYear, secOfDay)
}

func (s *SantaAna) FuelMoist(row, col, dayOfYear, secOfDay int) Moistures {
	return s.envFor(dayOfYear).FuelMoist(row, col, dayOfYear, secOfDay)
}

func (s *SantaAna) LiveFuelMoist(row, col int) (float64, float64) {
	return s.Normal.LiveFuelMoist(row, col)
}

func (s *SantaAna) Ignitions(g *grid.Grid, dayOfYear, secOfDay int, rng *rand.Rand) []Ignition {
	return s.Normal.Ignitions(g, dayOfYear, secOfDay, rng)
}

func (s *SantaAna) FuelsRegrowth(standAge int) (int, bool) {
	return s.Normal.FuelsRegrowth(standAge)
}
