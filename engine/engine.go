// Package engine implements the adaptive cellular fire-growth loop: nested
// year/timestep/iteration loops over a grid.Grid, driving the roth
// pipeline per burning cell and applying the 8-neighbor spread, extinction,
// and fire-ID bookkeeping rules. Grounded on HFire.c's main loop.
package engine

import (
	"container/list"
	"context"
	"log"
	"math/rand"

	lru "github.com/golang/groupcache/lru"

	"github.com/RohanGharibgard/hfire-sub000/fuel"
	"github.com/RohanGharibgard/hfire-sub000/grid"
	"github.com/RohanGharibgard/hfire-sub000/internal/errs"
	"github.com/RohanGharibgard/hfire-sub000/roth"
	"github.com/RohanGharibgard/hfire-sub000/weather"
)

const epsilon = 1e-6

// Config holds the simulation-wide settings the original memoized in
// file-scope statics inside its extinction and ignition routines. Carrying
// them as fields here, rather than package state, is what makes a Context
// safe to run more than once in a process.
type Config struct {
	TimestepSecs            int
	ExtinctionConsume        bool // true = CONSUME policy, false = REIGNITE
	ExtinctionHours          int
	ExtinctionROSMps         float64
	FailedIgnitionThreshold  int
	EllipseAdjustmentFactor  float64
	RandNumSeed              int64
}

// Context owns everything the growth engine mutates over the life of a
// run: the grid, the fuel-model table, one roth.Cache per fuel model
// (mutated in place, safe because each model is visited only ever
// sequentially), the weather strategy, and the run's PRNG.
type Context struct {
	Cfg     Config
	Grid    *grid.Grid
	Env     weather.Env
	Clock   *Clock
	Rand    *rand.Rand
	fuels   map[int]*fuel.Model
	caches  map[int]*roth.Cache
	lookup  *lru.Cache
	loadFM  func(num int) (*fuel.Model, error)

	burning    *list.List
	burningAt  map[int]*list.Element
	seasonsRun int
}

// NewContext builds a Context over a pre-populated fuel-model table. load,
// if non-nil, lazily resolves fuel-model numbers not present in the
// initial table (e.g. PNV regrowth targets encountered only at runtime);
// its results are cached in a bounded LRU, mirroring a teacher package's
// groupcache-backed recent-lookup cache rather than growing the table
// without bound.
func NewContext(cfg Config, g *grid.Grid, env weather.Env, clock *Clock, initial map[int]*fuel.Model, load func(int) (*fuel.Model, error)) *Context {
	c := &Context{
		Cfg:       cfg,
		Grid:      g,
		Env:       env,
		Clock:     clock,
		Rand:      rand.New(rand.NewSource(cfg.RandNumSeed)),
		fuels:     initial,
		caches:    make(map[int]*roth.Cache, len(initial)),
		lookup:    lru.New(256),
		loadFM:    load,
		burning:   list.New(),
		burningAt: make(map[int]*list.Element),
	}
	for num := range initial {
		c.caches[num] = &roth.Cache{}
	}
	return c
}

// FuelModel resolves a fuel-model number to its Model and Cache, consulting
// the preloaded table first, then the bounded LRU, then the lazy loader.
func (c *Context) FuelModel(num int) (*fuel.Model, *roth.Cache, error) {
	if m, ok := c.fuels[num]; ok {
		return m, c.caches[num], nil
	}
	if v, ok := c.lookup.Get(num); ok {
		m := v.(*fuel.Model)
		return m, c.caches[num], nil
	}
	if c.loadFM == nil {
		return nil, nil, errs.New(errs.Domain, "engine.FuelModel", "unknown fuel model number, no loader configured")
	}
	m, err := c.loadFM(num)
	if err != nil {
		return nil, nil, errs.Wrap(errs.Domain, "engine.FuelModel", "load failed", err)
	}
	c.lookup.Add(num, m)
	c.caches[num] = &roth.Cache{}
	return m, c.caches[num], nil
}

// burnCell is one entry in the burning-cell bookkeeping list: the 8
// per-azimuth spread rates computed this iteration, the terrain distance
// to each neighbor's center, and the accumulated travel distance carried
// forward iteration to iteration.
type burnCell struct {
	row, col int
	rate     [grid.NumAzimuths]float64
	terrain  [grid.NumAzimuths]float64
	dist     [grid.NumAzimuths]float64
}

func cellKey(row, col, cols int) int { return row*cols + col }

// RunYear advances the clock through one fire season's worth of fixed
// timesteps, each subdivided into adaptive iterations, until the season
// end or ctx cancellation. It returns early (without error) if ctx is
// cancelled at a timestep boundary. The year's layers and fire table are
// left in place for the caller to export; the caller ends the year with
// Grid.EndYear.
func (c *Context) RunYear(ctx context.Context, unburnable func(int) bool) error {
	if c.seasonsRun > 0 {
		c.Clock.Year++
		c.Clock.ResetToSeasonStart()
	}
	c.seasonsRun++

	c.Grid.StartYear(unburnable)
	c.seedBurningList()

	for !c.Clock.AtOrPastSeasonEnd() {
		select {
		case <-ctx.Done():
			return nil
		default:
		}
		if err := c.runTimestep(); err != nil {
			return err
		}
	}

	c.Grid.ApplyFailedIgnitions(c.Cfg.FailedIgnitionThreshold)
	log.Printf("year=%d END num_fires=%d", c.Clock.Year, len(c.Grid.Fires))
	return nil
}

func (c *Context) seedBurningList() {
	c.burning.Init()
	c.burningAt = make(map[int]*list.Element)
	for r := 0; r < c.Grid.Rows; r++ {
		for col := 0; col < c.Grid.Cols; col++ {
			if c.Grid.StateAt(r, col) == grid.HasFire {
				c.trackBurning(r, col)
			}
		}
	}
}

func (c *Context) trackBurning(row, col int) {
	key := cellKey(row, col, c.Grid.Cols)
	if _, ok := c.burningAt[key]; ok {
		return
	}
	el := c.burning.PushBack(&burnCell{row: row, col: col})
	c.burningAt[key] = el
}

func (c *Context) untrackBurning(row, col int) {
	key := cellKey(row, col, c.Grid.Cols)
	if el, ok := c.burningAt[key]; ok {
		c.burning.Remove(el)
		delete(c.burningAt, key)
	}
}

// runTimestep checks for new ignitions at the timestep's start time, then
// drives adaptive iterations until the configured timestep elapses, then
// applies end-of-timestep bookkeeping (hours-burning increment and
// extinction-by-hours).
func (c *Context) runTimestep() error {
	c.processIgnitions()

	exposed := 0
	for exposed < c.Cfg.TimestepSecs {
		dt, err := c.runIteration(c.Cfg.TimestepSecs - exposed)
		if err != nil {
			return err
		}
		exposed += dt
		c.Clock.Advance(dt)
	}

	for el := c.burning.Front(); el != nil; el = el.Next() {
		bc := el.Value.(*burnCell)
		hrs := c.Grid.HrsBurning.Get(bc.row, bc.col) + 1
		c.Grid.HrsBurning.Set(hrs, bc.row, bc.col)
	}
	c.applyHourlyExtinction()

	log.Printf("year=%d mo=%d dy=%d hr=%d timestep done, %d cells burning", c.Clock.Year, c.Clock.Month, c.Clock.Day, c.Clock.Hour(), c.burning.Len())
	return nil
}

func (c *Context) applyHourlyExtinction() {
	if c.Cfg.ExtinctionHours <= 0 {
		return
	}
	var toExtinguish []*burnCell
	for el := c.burning.Front(); el != nil; el = el.Next() {
		bc := el.Value.(*burnCell)
		if int(c.Grid.HrsBurning.Get(bc.row, bc.col)) >= c.Cfg.ExtinctionHours {
			toExtinguish = append(toExtinguish, bc)
		}
	}
	for _, bc := range toExtinguish {
		c.Grid.Extinguish(bc.row, bc.col, c.Cfg.ExtinctionConsume)
		c.untrackBurning(bc.row, bc.col)
	}
}

// processIgnitions consults the weather strategy for new-fire candidates
// and ignites any that land on a burnable, unburned, non-boundary cell.
func (c *Context) processIgnitions() {
	ignitions := c.Env.Ignitions(c.Grid, c.Clock.DayOfYear(), c.Clock.SecOfDay, c.Rand)
	for _, ign := range ignitions {
		row, col, err := c.Grid.RealToRaster(ign.X, ign.Y)
		if err != nil {
			continue
		}
		if c.Grid.IsBoundary(row, col) || c.Grid.StateAt(row, col) != grid.NoFire {
			continue
		}
		duringSA := false
		if sa, ok := c.Env.(*weather.SantaAna); ok {
			duringSA = sa.Active(c.Clock.DayOfYear())
		}
		c.Grid.Ignite(row, col, 0, ign.X, ign.Y, c.Clock.Year, c.Clock.Month, c.Clock.Day, c.Clock.Hour(), duringSA)
		c.trackBurning(row, col)
		log.Printf("year=%d mo=%d dy=%d hr=%d ignition at (%d,%d)", c.Clock.Year, c.Clock.Month, c.Clock.Day, c.Clock.Hour(), row, col)
	}
}

// runIteration runs one adaptive substep: compute max spread per burning
// cell and candidate neighbor rates, choose dt bounded by the CFL-like
// rule, then advance distance accumulators and apply ignitions/extinction.
// It returns the chosen substep length in seconds.
func (c *Context) runIteration(remaining int) (int, error) {
	cells := make([]*burnCell, 0, c.burning.Len())
	for el := c.burning.Front(); el != nil; el = el.Next() {
		cells = append(cells, el.Value.(*burnCell))
	}

	maxRate := 0.0
	for _, bc := range cells {
		if err := c.computeCellRates(bc); err != nil {
			return 0, err
		}
		for _, r := range bc.rate {
			if r > maxRate {
				maxRate = r
			}
		}
	}

	var dt int
	if maxRate <= epsilon {
		dt = remaining
	} else {
		candidate := int(0.25 * c.Grid.CellSize / maxRate)
		if candidate <= 0 {
			candidate = 1
		}
		if candidate > remaining {
			candidate = remaining
		}
		dt = candidate
	}

	var consumed []*burnCell
	for _, bc := range cells {
		nonNoFire := 0
		for az := grid.Azimuth(0); az < grid.NumAzimuths; az++ {
			nrow, ncol := az.Offset(bc.row, bc.col)
			if !c.Grid.InBounds(nrow, ncol) {
				nonNoFire++
				continue
			}
			if c.Grid.StateAt(nrow, ncol) != grid.NoFire {
				nonNoFire++
			}
		}
		if nonNoFire == int(grid.NumAzimuths) {
			consumed = append(consumed, bc)
			continue
		}

		for az := grid.Azimuth(0); az < grid.NumAzimuths; az++ {
			if bc.terrain[az] <= 0 {
				continue
			}
			bc.dist[az] += bc.rate[az] * float64(dt)
			if bc.dist[az] < bc.terrain[az] {
				continue
			}
			nrow, ncol := az.Offset(bc.row, bc.col)
			if !c.Grid.InBounds(nrow, ncol) || c.Grid.IsBoundary(nrow, ncol) {
				continue
			}
			if c.Grid.StateAt(nrow, ncol) != grid.NoFire {
				continue
			}
			fireID := c.Grid.FireIDAt(bc.row, bc.col)
			duringSA := c.Grid.SantaAnaAt(bc.row, bc.col) == grid.SABurnedSA
			c.Grid.Ignite(nrow, ncol, fireID, 0, 0, c.Clock.Year, c.Clock.Month, c.Clock.Day, c.Clock.Hour(), duringSA)
			overshoot := bc.dist[az] - bc.terrain[az]
			c.trackBurning(nrow, ncol)
			if el, ok := c.burningAt[cellKey(nrow, ncol, c.Grid.Cols)]; ok {
				nb := el.Value.(*burnCell)
				nb.dist[az] = overshoot
			}
		}
	}

	for _, bc := range consumed {
		c.Grid.Consume(bc.row, bc.col)
		c.untrackBurning(bc.row, bc.col)
	}

	c.applyROSExtinction(cells)
	return dt, nil
}

// computeCellRates fetches the cell's fuel model and environmental
// forcing, runs pipeline stages 2-3 to get the cell's max rate and
// bearing, then runs stage 4 at each of the 8 neighbor azimuths to
// populate bc.rate/bc.terrain.
func (c *Context) computeCellRates(bc *burnCell) error {
	row, col := bc.row, bc.col
	bc.rate = [grid.NumAzimuths]float64{}
	fuelNum := c.Grid.Fuels.Get(row, col)
	m, cache, err := c.FuelModel(fuelNum)
	if err != nil {
		return err
	}
	if err := roth.SetFuelBed(m, cache); err != nil {
		return err
	}

	moist := c.Env.FuelMoist(row, col, c.Clock.DayOfYear(), c.Clock.SecOfDay)
	lh, lw := c.Env.LiveFuelMoist(row, col)
	if err := roth.NoWindNoSlope(m, cache, moist.D1H, moist.D10H, moist.D100H, lh, lw); err != nil {
		return err
	}

	windAz, windSpd := c.Env.Wind(row, col, c.Clock.DayOfYear(), c.Clock.SecOfDay)
	slope := c.Grid.Slope.Get(row, col)
	aspect := c.Grid.Aspect.Get(row, col)
	if err := roth.WindSlopeMax(m, cache, windSpd, windAz, slope, aspect, c.Cfg.EllipseAdjustmentFactor); err != nil {
		return err
	}

	elev := c.Grid.Elev.Get(row, col)
	for az := grid.Azimuth(0); az < grid.NumAzimuths; az++ {
		nrow, ncol := az.Offset(row, col)
		if !c.Grid.InBounds(nrow, ncol) || c.Grid.IsBoundary(nrow, ncol) {
			continue
		}
		if c.Grid.StateAt(nrow, ncol) != grid.NoFire {
			continue
		}
		if err := roth.AtAzimuth(m, cache, az.Degrees()); err != nil {
			return err
		}
		bc.rate[az] = cache.RosAny() / 196.8504 // ft/min -> m/sec, matches meter-based terrain distances
		nelev := c.Grid.Elev.Get(nrow, ncol)
		bc.terrain[az] = grid.TerrainDistance(az, c.Grid.CellSize, nelev-elev)
	}
	return nil
}

// applyROSExtinction extinguishes any burning cell whose peak rate fell
// below the configured meters-per-second threshold this iteration. The peak
// is taken over the rates toward unburned neighbors; a cell whose peak is
// zero is left burning.
func (c *Context) applyROSExtinction(cells []*burnCell) {
	if c.Cfg.ExtinctionROSMps <= 0 {
		return
	}
	for _, bc := range cells {
		if c.Grid.StateAt(bc.row, bc.col) != grid.HasFire {
			continue
		}
		peak := 0.0
		for _, r := range bc.rate {
			if r > peak {
				peak = r
			}
		}
		if peak > 0 && peak < c.Cfg.ExtinctionROSMps {
			c.Grid.Extinguish(bc.row, bc.col, c.Cfg.ExtinctionConsume)
			c.untrackBurning(bc.row, bc.col)
		}
	}
}
