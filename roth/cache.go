// Package roth implements the Rothermel (1972) four-stage fire spread
// pipeline: a pure function of a fuel bed plus environmental inputs that
// yields a steady-state rate of spread in any requested direction, cached
// across stages on a per-model handle.
package roth

import "github.com/RohanGharibgard/hfire-sub000/fuel"

// Stage tags the pipeline's progress through its four stages. A stage may
// only run once the previous stage has completed on the same Cache.
type Stage int

const (
	Init Stage = iota
	FuelBedSet
	NoWindNoSlopeDone
	WindSlopeMaxDone
	AtAzimuthDone
)

// Cache holds the scalar intermediates carried between pipeline stages for
// one fuel model. It is attached to the model it describes (one Cache per
// fuel.Model) and mutated in place; see SPEC_FULL.md Section 5 for why this
// is safe under the engine's single-threaded, one-fuel-model-per-cell-visit
// access pattern.
type Cache struct {
	stage Stage

	// Stage 1 outputs.
	lrx, drx         float64
	taur             float64
	ppflux           float64
	slpK, wndB       float64
	wndK, wndE       float64
	fdead, lmex      float64

	// Stage 2 inputs (for idempotence short-circuit) and outputs.
	d1hfm, d10hfm, d100hfm, lhfm, lwfm float64
	fm                                 [fuel.NumSizeClasses]float64
	rxint, hpua                        float64
	ros0                               float64

	// Stage 3 inputs (for change-detection) and outputs.
	slp, phiS   float64
	wndFpm, phiW float64
	asp, wndVec  float64
	phiEW        float64
	wndEff       float64
	wndLim       bool
	rosMax       float64
	rosAzMax     float64
	lwRatio      float64
	eccen        float64

	// Stage 4 outputs.
	rosAny   float64
	rosAzAny float64
}

// Stage reports the cache's current position in the pipeline.
func (c *Cache) Stage() Stage { return c.stage }

// RosMax returns the maximum rate of spread computed by WindSlopeMax.
func (c *Cache) RosMax() float64 { return c.rosMax }

// RosAzMax returns the azimuth (degrees) of the maximum rate of spread.
func (c *Cache) RosAzMax() float64 { return c.rosAzMax }

// RosAny returns the rate of spread at the last-queried azimuth.
func (c *Cache) RosAny() float64 { return c.rosAny }

// Eccen returns the fire-ellipse eccentricity computed by WindSlopeMax.
func (c *Cache) Eccen() float64 { return c.eccen }

// WindLimited reports whether the last WindSlopeMax call saturated the
// effective wind against the reaction-intensity-derived cap.
func (c *Cache) WindLimited() bool { return c.wndLim }

// EffectiveWind returns the effective wind speed (ft/min) used to derive
// the fire ellipse in the last WindSlopeMax call.
func (c *Cache) EffectiveWind() float64 { return c.wndEff }

// HeatPerUnitArea returns the reaction-intensity-integrated heat released
// per unit area.
func (c *Cache) HeatPerUnitArea() float64 { return c.hpua }

// ReactionIntensity returns the moisture-damped reaction intensity computed
// by NoWindNoSlope.
func (c *Cache) ReactionIntensity() float64 { return c.rxint }

// Ros0 returns the no-wind, no-slope rate of spread computed by
// NoWindNoSlope.
func (c *Cache) Ros0() float64 { return c.ros0 }

func eq(a, b float64) bool  { return abs(a-b) < fuel.Epsilon }
func gt0(v float64) bool    { return v > fuel.Epsilon }
func lt0(v float64) bool    { return v < -fuel.Epsilon }
func isZero(v float64) bool { return abs(v) < fuel.Epsilon }

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// stageError is a domain error: the caller violated the pipeline's stage
// ordering. It is fatal by design; see SPEC_FULL.md Section 7.
type stageError struct {
	need Stage
	have Stage
	op   string
}

func (e *stageError) Error() string {
	return "roth: " + e.op + " requires stage >= " + stageName(e.need) + ", have " + stageName(e.have)
}

func stageName(s Stage) string {
	switch s {
	case Init:
		return "Init"
	case FuelBedSet:
		return "FuelBedSet"
	case NoWindNoSlopeDone:
		return "NoWindNoSlopeDone"
	case WindSlopeMaxDone:
		return "WindSlopeMaxDone"
	case AtAzimuthDone:
		return "AtAzimuthDone"
	default:
		return "Unknown"
	}
}

func (c *Cache) requireStage(min Stage, op string) error {
	if c.stage < min {
		return &stageError{need: min, have: c.stage, op: op}
	}
	return nil
}
