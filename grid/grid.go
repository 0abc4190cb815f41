// Package grid implements the cell grid and state automaton: the
// rectangular raster of georeferenced cells, their per-layer state, and the
// fire-ID bookkeeping that ties burned cells back to their originating
// fire. Layers are backed by ctessum/sparse dense arrays, replacing the
// union-over-primitive-types GridData of the original engine with a
// monomorphized wrapper per concern.
package grid

import (
	"fmt"

	"github.com/ctessum/sparse"
)

// State is a cell's position in the four-state fire automaton.
type State int

const (
	Unburnable State = iota
	NoFire
	HasFire
	Consumed
)

func (s State) String() string {
	switch s {
	case Unburnable:
		return "Unburnable"
	case NoFire:
		return "NoFire"
	case HasFire:
		return "HasFire"
	case Consumed:
		return "Consumed"
	default:
		return "Unknown"
	}
}

// SantaAna is the tri-state Santa-Ana overlay marker.
type SantaAna int

const (
	SAUnburnable SantaAna = -9999
	SANotBurned  SantaAna = 0
	SABurnedNoSA SantaAna = 1
	SABurnedSA   SantaAna = 2
)

// UnburnableFireID is the sentinel fire_id carried by every Unburnable cell.
const UnburnableFireID = -9999

// Georef is the shared georeferencing for every layer in a Grid: a square
// cell size, and the real-world coordinate of the lower-left corner.
type Georef struct {
	Rows, Cols int
	CellSize   float64
	XLLCorner  float64
	YLLCorner  float64
}

// RangeError reports a coordinate or index transform that fell outside the
// grid; it is a domain error the caller must guard against, per the
// transform-failure contract.
type RangeError struct {
	Op   string
	Row  int
	Col  int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("grid: %s: row=%d col=%d out of bounds", e.Op, e.Row, e.Col)
}

// Grid is the full set of parallel per-cell layers for one simulation run.
// Fuels, elevation, slope, aspect, and stand age persist across years;
// state, fire_id, santa_ana, hrs_burning, and fraction_burned are owned by
// the current Year and reset at year start.
type Grid struct {
	Georef

	Fuels    *sparse.DenseArrayInt
	Elev     *sparse.DenseArray
	Slope    *sparse.DenseArray
	Aspect   *sparse.DenseArray
	StandAge *sparse.DenseArray

	*Year
}

// Year owns the per-year layers: cell state, fire identity, the Santa-Ana
// overlay, consecutive burning-hour counts, and the fractional-fill
// accumulator. A fresh Year is allocated at year start and its fields
// nilled at year end so nothing outlives the year, per the resource model.
type Year struct {
	State          *sparse.DenseArrayInt
	FireID         *sparse.DenseArrayInt
	SantaAnaMark   *sparse.DenseArrayInt
	HrsBurning     *sparse.DenseArrayInt
	FractionBurned *sparse.DenseArray

	Fires     []*FireInfo
	nextFireID int
}

// FireInfo is the per-fire metadata record indexed (1-based) by fire ID.
type FireInfo struct {
	ID             int
	OriginX, OriginY float64
	StartYear, StartMonth, StartDay, StartHour int
	EndYear, EndMonth, EndDay, EndHour         int
	CellsBurned    int
	CellsBurnedSA  int
	FailedIgnition bool
}

// New allocates a Grid with the given georeferencing and ambient rasters
// already populated by the caller (raster package). The per-year layers
// are left nil until StartYear is called.
func New(g Georef) *Grid {
	return &Grid{
		Georef:   g,
		Fuels:    sparse.ZerosDenseInt(g.Rows, g.Cols),
		Elev:     sparse.ZerosDense(g.Rows, g.Cols),
		Slope:    sparse.ZerosDense(g.Rows, g.Cols),
		Aspect:   sparse.ZerosDense(g.Rows, g.Cols),
		StandAge: sparse.ZerosDense(g.Rows, g.Cols),
	}
}

// InBounds reports whether (row, col) addresses a cell in the grid.
func (g *Grid) InBounds(row, col int) bool {
	return row >= 0 && row < g.Rows && col >= 0 && col < g.Cols
}

// IsBoundary reports whether (row, col) is on the grid's outer ring. The
// ring is a reflective guard: it never ignites and never sources spread.
func (g *Grid) IsBoundary(row, col int) bool {
	return row == 0 || row == g.Rows-1 || col == 0 || col == g.Cols-1
}

// RasterToReal converts a (row, col) cell address to the real-world
// coordinate of its center.
func (g *Grid) RasterToReal(row, col int) (x, y float64) {
	xulCenter := g.XLLCorner + g.CellSize/2
	yulCenter := g.YLLCorner + float64(g.Rows-1)*g.CellSize + g.CellSize/2
	x = xulCenter + float64(col)*g.CellSize
	y = yulCenter - float64(row)*g.CellSize
	return x, y
}

// RealToRaster converts a real-world coordinate to the nearest (row, col)
// cell address. Returns a RangeError if the result falls outside the grid.
func (g *Grid) RealToRaster(rwx, rwy float64) (row, col int, err error) {
	xulCenter := g.XLLCorner + g.CellSize/2
	yulCenter := g.YLLCorner + float64(g.Rows-1)*g.CellSize + g.CellSize/2

	col = int((rwx-xulCenter)/g.CellSize + 0.5)
	row = int((yulCenter-rwy)/g.CellSize + 0.5)
	if !g.InBounds(row, col) {
		return row, col, &RangeError{Op: "RealToRaster", Row: row, Col: col}
	}
	return row, col, nil
}

// StartYear allocates a fresh set of per-year layers, deriving the initial
// state layer from the fuels layer (a cell backed by an unburnable fuel
// model starts Unburnable; every other cell starts NoFire).
func (g *Grid) StartYear(unburnable func(fuelModelNum int) bool) {
	y := &Year{
		State:          sparse.ZerosDenseInt(g.Rows, g.Cols),
		FireID:         sparse.ZerosDenseInt(g.Rows, g.Cols),
		SantaAnaMark:   sparse.ZerosDenseInt(g.Rows, g.Cols),
		HrsBurning:     sparse.ZerosDenseInt(g.Rows, g.Cols),
		FractionBurned: sparse.ZerosDense(g.Rows, g.Cols),
	}
	for r := 0; r < g.Rows; r++ {
		for c := 0; c < g.Cols; c++ {
			if unburnable(g.Fuels.Get(r, c)) {
				y.State.Set(int(Unburnable), r, c)
				y.FireID.Set(UnburnableFireID, r, c)
				y.SantaAnaMark.Set(int(SAUnburnable), r, c)
			} else {
				y.State.Set(int(NoFire), r, c)
			}
		}
	}
	g.Year = y
}

// EndYear applies the stand-age update (reset burned cells to 1, increment
// all other burnable cells by 1) and releases the per-year layers.
func (g *Grid) EndYear(burnable func(row, col int) bool) {
	for r := 0; r < g.Rows; r++ {
		for c := 0; c < g.Cols; c++ {
			if !burnable(r, c) {
				continue
			}
			if g.FireID.Get(r, c) > 0 {
				g.StandAge.Set(1, r, c)
			} else {
				g.StandAge.Set(g.StandAge.Get(r, c)+1, r, c)
			}
		}
	}
	g.Year = nil
}

// StateAt returns the cell state at (row, col).
func (y *Year) StateAt(row, col int) State { return State(y.State.Get(row, col)) }

// SetState sets the cell state at (row, col).
func (y *Year) SetState(row, col int, s State) { y.State.Set(int(s), row, col) }

// SantaAnaAt returns the Santa-Ana marker at (row, col).
func (y *Year) SantaAnaAt(row, col int) SantaAna { return SantaAna(y.SantaAnaMark.Get(row, col)) }

// SetSantaAna sets the Santa-Ana marker at (row, col).
func (y *Year) SetSantaAna(row, col int, s SantaAna) { y.SantaAnaMark.Set(int(s), row, col) }

// FireIDAt returns the fire ID at (row, col).
func (y *Year) FireIDAt(row, col int) int { return y.FireID.Get(row, col) }

// Ignite transitions a burnable, unburned cell into HasFire, assigning it
// either a fresh fire ID (fromFireID == 0, a new origin) or inheriting one
// from the igniting neighbor (fromFireID > 0, a spread ignition).
func (y *Year) Ignite(row, col int, fromFireID int, originX, originY float64, year, month, day, hour int, duringSantaAna bool) int {
	var id int
	if fromFireID > 0 {
		id = fromFireID
	} else {
		y.nextFireID++
		id = y.nextFireID
		y.Fires = append(y.Fires, &FireInfo{
			ID:         id,
			OriginX:    originX,
			OriginY:    originY,
			StartYear:  year,
			StartMonth: month,
			StartDay:   day,
			StartHour:  hour,
		})
	}

	y.SetState(row, col, HasFire)
	y.FireID.Set(id, row, col)
	y.FractionBurned.Set(0, row, col)
	y.HrsBurning.Set(0, row, col)

	fi := y.fireByID(id)
	fi.CellsBurned++
	if duringSantaAna {
		fi.CellsBurnedSA++
		y.SetSantaAna(row, col, SABurnedSA)
	} else {
		y.SetSantaAna(row, col, SABurnedNoSA)
	}
	fi.EndYear, fi.EndMonth, fi.EndDay, fi.EndHour = year, month, day, hour
	return id
}

func (y *Year) fireByID(id int) *FireInfo {
	for _, f := range y.Fires {
		if f.ID == id {
			return f
		}
	}
	return nil
}

// Extinguish transitions a HasFire cell to Unburnable (policy "Consume") or
// NoFire (policy "Reignite").
func (y *Year) Extinguish(row, col int, consume bool) {
	if consume {
		y.SetState(row, col, Unburnable)
		y.FireID.Set(UnburnableFireID, row, col)
		y.SetSantaAna(row, col, SAUnburnable)
	} else {
		y.SetState(row, col, NoFire)
		y.FractionBurned.Set(0, row, col)
	}
	y.HrsBurning.Set(0, row, col)
}

// Consume transitions a HasFire cell to Consumed once every neighbor is
// non-NoFire.
func (y *Year) Consume(row, col int) { y.SetState(row, col, Consumed) }

// ApplyFailedIgnitions reverts every cell belonging to a fire whose
// CellsBurned is at or below threshold: fire_id -> 0, santa_ana ->
// NotBurned, and flags the FireInfo so CSV export omits it.
func (g *Grid) ApplyFailedIgnitions(threshold int) {
	failed := make(map[int]bool)
	for _, f := range g.Fires {
		if f.CellsBurned <= threshold {
			f.FailedIgnition = true
			failed[f.ID] = true
		}
	}
	if len(failed) == 0 {
		return
	}
	for r := 0; r < g.Rows; r++ {
		for c := 0; c < g.Cols; c++ {
			id := g.FireID.Get(r, c)
			if id > 0 && failed[id] {
				g.FireID.Set(0, r, c)
				g.SantaAnaMark.Set(int(SANotBurned), r, c)
			}
		}
	}
}
