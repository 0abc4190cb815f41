package engine

import (
	"container/list"
	"context"
	"math/rand"
	"testing"

	"github.com/RohanGharibgard/hfire-sub000/fuel"
	"github.com/RohanGharibgard/hfire-sub000/grid"
	"github.com/RohanGharibgard/hfire-sub000/roth"
	"github.com/RohanGharibgard/hfire-sub000/weather"
)

func burnableModel() *fuel.Model {
	return fuel.NewFromRecord(fuel.Record{
		Number:      10,
		D1HLoad:     0.1380,
		D10HLoad:    0.0920,
		D100HLoad:   0.2300,
		LHLoad:      0.0230,
		LWLoad:      0.0,
		D1HSAV:      3500,
		LHSAV:       1500,
		LWSAV:       1500,
		Depth:       1.0,
		ExtMoistPct: 25,
		DeadHC:      8000,
		LiveHC:      8000,
	}, fuel.English)
}

func newTestContext(rows, cols int, env weather.Env) *Context {
	g := grid.New(grid.Georef{Rows: rows, Cols: cols, CellSize: 30})
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			g.Fuels.Set(10, r, c)
		}
	}
	cfg := Config{
		TimestepSecs:            3600,
		ExtinctionConsume:       true,
		ExtinctionHours:         0,
		ExtinctionROSMps:        0,
		FailedIgnitionThreshold: 0,
		EllipseAdjustmentFactor: 1.0,
		RandNumSeed:             7,
	}
	clock := NewClock(2026, 6, 1, 0, 2026, 6, 2, 0)
	models := map[int]*fuel.Model{10: burnableModel()}
	ctx := NewContext(cfg, g, env, clock, models, nil)
	return ctx
}

func unburnableFunc(num int) bool { return num == 0 }

func TestFuelModelResolvesPreloaded(t *testing.T) {
	ctx := newTestContext(5, 5, &weather.Fixed{})
	m, c, err := ctx.FuelModel(10)
	if err != nil {
		t.Fatalf("FuelModel: %v", err)
	}
	if m == nil || c == nil {
		t.Fatal("expected non-nil model and cache")
	}
}

func TestFuelModelUnknownWithoutLoaderErrors(t *testing.T) {
	ctx := newTestContext(5, 5, &weather.Fixed{})
	if _, _, err := ctx.FuelModel(999); err == nil {
		t.Fatal("expected error resolving unknown fuel model with no loader")
	}
}

func TestFuelModelLazyLoaderCaches(t *testing.T) {
	ctx := newTestContext(5, 5, &weather.Fixed{})
	calls := 0
	ctx.loadFM = func(num int) (*fuel.Model, error) {
		calls++
		return burnableModel(), nil
	}
	if _, _, err := ctx.FuelModel(20); err != nil {
		t.Fatalf("FuelModel: %v", err)
	}
	if _, _, err := ctx.FuelModel(20); err != nil {
		t.Fatalf("FuelModel: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected loader invoked once and cached, got %d calls", calls)
	}
}

func TestRunYearIgnitesAndSpreadsSingleFire(t *testing.T) {
	env := &weather.Fixed{
		WindAzDeg: 0, WindSpeedFpm: 0,
		Moist:  weather.Moistures{D1H: 0.06, D10H: 0.07, D100H: 0.08},
		LiveLH: 0.6, LiveLW: 0.9,
		Points: []weather.Ignition{{X: 150, Y: 150}},
	}
	ctx := newTestContext(11, 11, env)

	if err := ctx.RunYear(context.Background(), unburnableFunc); err != nil {
		t.Fatalf("RunYear: %v", err)
	}

	if len(ctx.Grid.Fires) != 1 {
		t.Fatalf("expected exactly 1 fire, got %d", len(ctx.Grid.Fires))
	}
	if ctx.Grid.Fires[0].CellsBurned < 2 {
		t.Fatalf("expected the fire to spread beyond its origin cell, got %d cells burned", ctx.Grid.Fires[0].CellsBurned)
	}
}

// everySeasonStartIgnite fires once at the first timestep of every season
// (June 1, secOfDay 0) so a multi-season test can observe whether a
// later season's timestep loop actually ran.
type everySeasonStartIgnite struct {
	x, y float64
}

func (e *everySeasonStartIgnite) Wind(row, col, dayOfYear, secOfDay int) (float64, float64) {
	return 0, 0
}
func (e *everySeasonStartIgnite) FuelMoist(row, col, dayOfYear, secOfDay int) weather.Moistures {
	return weather.Moistures{D1H: 0.06, D10H: 0.07, D100H: 0.08}
}
func (e *everySeasonStartIgnite) LiveFuelMoist(row, col int) (float64, float64) { return 0.6, 0.9 }
func (e *everySeasonStartIgnite) Ignitions(g *grid.Grid, dayOfYear, secOfDay int, rng *rand.Rand) []weather.Ignition {
	const juneFirst = 31 + 28 + 31 + 30 + 31 + 1 // day-of-year for June 1 under the fixed 28-day-February calendar
	if dayOfYear != juneFirst || secOfDay != 0 {
		return nil
	}
	return []weather.Ignition{{X: e.x, Y: e.y}}
}
func (e *everySeasonStartIgnite) FuelsRegrowth(standAge int) (int, bool) { return 0, false }

func TestRunYearAdvancesClockAcrossMultipleSeasons(t *testing.T) {
	g := grid.New(grid.Georef{Rows: 11, Cols: 11, CellSize: 30})
	for r := 0; r < 11; r++ {
		for c := 0; c < 11; c++ {
			g.Fuels.Set(10, r, c)
		}
	}
	cfg := Config{
		TimestepSecs:            3600,
		ExtinctionConsume:       true,
		FailedIgnitionThreshold: 0,
		EllipseAdjustmentFactor: 1.0,
		RandNumSeed:             7,
	}
	clock := NewClock(2026, 6, 1, 0, 2027, 6, 2, 0)
	models := map[int]*fuel.Model{10: burnableModel()}
	env := &everySeasonStartIgnite{x: 150, y: 150}
	ctx := NewContext(cfg, g, env, clock, models, nil)

	if err := ctx.RunYear(context.Background(), unburnableFunc); err != nil {
		t.Fatalf("RunYear year 1: %v", err)
	}
	if len(ctx.Grid.Fires) == 0 {
		t.Fatal("expected at least 1 fire in the first season")
	}
	if clock.Year != 2026 {
		t.Fatalf("expected clock still on first season year after RunYear, got %d", clock.Year)
	}

	if err := ctx.RunYear(context.Background(), unburnableFunc); err != nil {
		t.Fatalf("RunYear year 2: %v", err)
	}
	if clock.Year != 2027 {
		t.Fatalf("expected clock advanced to second season year, got %d", clock.Year)
	}
	if len(ctx.Grid.Fires) == 0 {
		t.Fatalf("expected second season's own timestep loop to run and record a fire, got 0 fires")
	}
}

func TestRunYearCancelledContextStopsEarly(t *testing.T) {
	env := &weather.Fixed{Points: []weather.Ignition{{X: 150, Y: 150}}}
	ctx := newTestContext(11, 11, env)

	cancelCtx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := ctx.RunYear(cancelCtx, unburnableFunc); err != nil {
		t.Fatalf("expected cancellation to return cleanly, got %v", err)
	}
}

func TestComputeCellRatesConvertsFtPerMinToMetersPerSecond(t *testing.T) {
	env := &weather.Fixed{WindAzDeg: 0, WindSpeedFpm: 300, Moist: weather.Moistures{D1H: 0.06, D10H: 0.07, D100H: 0.08}, LiveLH: 0.6, LiveLW: 0.9}
	ctx := newTestContext(5, 5, env)
	ctx.Grid.StartYear(unburnableFunc)

	bc := &burnCell{row: 2, col: 2}
	if err := ctx.computeCellRates(bc); err != nil {
		t.Fatalf("computeCellRates: %v", err)
	}

	m, cache, err := ctx.FuelModel(10)
	if err != nil {
		t.Fatalf("FuelModel: %v", err)
	}
	if err := roth.AtAzimuth(m, cache, grid.Northwest.Degrees()); err != nil {
		t.Fatalf("AtAzimuth: %v", err)
	}
	wantMps := cache.RosAny() / 196.8504
	if got := bc.rate[grid.Northwest]; got != wantMps {
		t.Fatalf("expected rate converted ft/min -> m/sec (%v), got %v", wantMps, got)
	}
}

func TestApplyROSExtinctionSparesZeroRate(t *testing.T) {
	ctx := newTestContext(5, 5, &weather.Fixed{})
	ctx.Grid.StartYear(unburnableFunc)
	ctx.Grid.Ignite(2, 2, 0, 0, 0, 2026, 6, 1, 0, false)
	ctx.trackBurning(2, 2)
	ctx.Cfg.ExtinctionROSMps = 1000

	bc := &burnCell{row: 2, col: 2}
	ctx.applyROSExtinction([]*burnCell{bc})

	if ctx.Grid.StateAt(2, 2) != grid.HasFire {
		t.Fatalf("expected zero-rate cell spared by ROS extinction, got state %v", ctx.Grid.StateAt(2, 2))
	}
}

func TestApplyROSExtinctionExtinguishesBelowThreshold(t *testing.T) {
	ctx := newTestContext(5, 5, &weather.Fixed{})
	ctx.Grid.StartYear(unburnableFunc)
	ctx.Grid.Ignite(2, 2, 0, 0, 0, 2026, 6, 1, 0, false)
	ctx.trackBurning(2, 2)
	ctx.Cfg.ExtinctionROSMps = 1000
	ctx.Cfg.ExtinctionConsume = false

	bc := &burnCell{row: 2, col: 2}
	bc.rate[grid.North] = 0.01
	ctx.applyROSExtinction([]*burnCell{bc})

	if ctx.Grid.StateAt(2, 2) != grid.NoFire {
		t.Fatalf("expected below-threshold cell extinguished, got state %v", ctx.Grid.StateAt(2, 2))
	}
}

func TestSeedBurningListFindsExistingFire(t *testing.T) {
	ctx := newTestContext(5, 5, &weather.Fixed{})
	ctx.Grid.StartYear(unburnableFunc)
	ctx.Grid.Ignite(1, 1, 0, 0, 0, 2026, 6, 1, 0, false)
	ctx.seedBurningList()

	if ctx.burning.Len() != 1 {
		t.Fatalf("expected 1 burning cell tracked, got %d", ctx.burning.Len())
	}
}

func TestTrackAndUntrackBurning(t *testing.T) {
	ctx := newTestContext(5, 5, &weather.Fixed{})
	ctx.burning.Init()
	ctx.burningAt = make(map[int]*list.Element)
	ctx.trackBurning(1, 1)
	ctx.trackBurning(1, 1) // duplicate should be a no-op
	if ctx.burning.Len() != 1 {
		t.Fatalf("expected duplicate track to be ignored, got len %d", ctx.burning.Len())
	}
	ctx.untrackBurning(1, 1)
	if ctx.burning.Len() != 0 {
		t.Fatalf("expected untrack to remove cell, got len %d", ctx.burning.Len())
	}
}
