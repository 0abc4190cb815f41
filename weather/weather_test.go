package weather

import (
	"math/rand"
	"testing"

	"github.com/RohanGharibgard/hfire-sub000/grid"
)

func TestFixedIgnitionsConsumedOnce(t *testing.T) {
	f := &Fixed{Points: []Ignition{{X: 10, Y: 20}}}
	g := grid.New(grid.Georef{Rows: 5, Cols: 5, CellSize: 30})
	rng := rand.New(rand.NewSource(1))

	first := f.Ignitions(g, 0, 0, rng)
	if len(first) != 1 {
		t.Fatalf("expected 1 ignition on first call, got %d", len(first))
	}
	second := f.Ignitions(g, 0, 0, rng)
	if len(second) != 0 {
		t.Fatalf("expected fixed ignitions consumed after first call, got %d", len(second))
	}
}

func TestFixedIgnitionsOnlyAtMidnight(t *testing.T) {
	f := &Fixed{Points: []Ignition{{X: 10, Y: 20}}}
	g := grid.New(grid.Georef{Rows: 5, Cols: 5, CellSize: 30})
	rng := rand.New(rand.NewSource(1))

	got := f.Ignitions(g, 0, 3600, rng)
	if len(got) != 0 {
		t.Fatalf("expected no fixed ignition outside sec-of-day 0, got %d", len(got))
	}
}

func TestFixedWindAndMoistureConstant(t *testing.T) {
	f := &Fixed{WindAzDeg: 270, WindSpeedFpm: 500, Moist: Moistures{D1H: 0.08}}
	az, spd := f.Wind(1, 1, 0, 0)
	if az != 270 || spd != 500 {
		t.Fatalf("expected fixed wind, got az=%v spd=%v", az, spd)
	}
	if f.FuelMoist(1, 1, 0, 0).D1H != 0.08 {
		t.Fatalf("expected fixed moisture")
	}
}

func TestFixedRegrowthDisabledWithNilTable(t *testing.T) {
	f := &Fixed{}
	if _, ok := f.FuelsRegrowth(10); ok {
		t.Fatal("expected regrowth disabled with nil table")
	}
}

func TestFixedRegrowthLookup(t *testing.T) {
	f := &Fixed{Regrowth: map[int]int{5: 12}}
	fm, ok := f.FuelsRegrowth(5)
	if !ok || fm != 12 {
		t.Fatalf("expected regrowth lookup to hit, got fm=%v ok=%v", fm, ok)
	}
}

func TestRandomUniformIgnitionRespectsBoundaryAndState(t *testing.T) {
	g := grid.New(grid.Georef{Rows: 10, Cols: 10, CellSize: 30})
	g.StartYear(func(int) bool { return false })

	r := &RandomUniform{FreqPerDay: 24 * 100} // force ~certain trial
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 20; i++ {
		ign := r.Ignitions(g, 0, 0, rng)
		for _, pt := range ign {
			row, col, err := g.RealToRaster(pt.X, pt.Y)
			if err != nil {
				t.Fatalf("ignition point out of bounds: %v", err)
			}
			if g.IsBoundary(row, col) {
				t.Fatalf("ignition landed on boundary cell (%d,%d)", row, col)
			}
			if g.StateAt(row, col) != grid.NoFire {
				t.Fatalf("ignition landed on a cell not in NoFire state (%d,%d)", row, col)
			}
		}
	}
}

func TestRandomUniformNoIgnitionBelowFrequencyThreshold(t *testing.T) {
	g := grid.New(grid.Georef{Rows: 10, Cols: 10, CellSize: 30})
	g.StartYear(func(int) bool { return false })

	r := &RandomUniform{FreqPerDay: 0}
	rng := rand.New(rand.NewSource(1))
	if ign := r.Ignitions(g, 0, 0, rng); len(ign) != 0 {
		t.Fatalf("expected no ignitions at zero frequency, got %d", len(ign))
	}
}

func TestSantaAnaSwitchesOverlayInsideWindow(t *testing.T) {
	normal := &Fixed{WindAzDeg: 90, WindSpeedFpm: 100}
	overlay := &Fixed{WindAzDeg: 45, WindSpeedFpm: 2000}
	sa := &SantaAna{Normal: normal, Overlay: overlay, Windows: [][2]int{{150, 155}}}

	az, spd := sa.Wind(0, 0, 150, 0)
	if az != 45 || spd != 2000 {
		t.Fatalf("expected overlay wind inside window, got az=%v spd=%v", az, spd)
	}

	az, spd = sa.Wind(0, 0, 10, 0)
	if az != 90 || spd != 100 {
		t.Fatalf("expected normal wind outside window, got az=%v spd=%v", az, spd)
	}
}

func TestSantaAnaLiveFuelMoistAlwaysNormal(t *testing.T) {
	normal := &Fixed{LiveLH: 90, LiveLW: 80}
	overlay := &Fixed{LiveLH: 10, LiveLW: 10}
	sa := &SantaAna{Normal: normal, Overlay: overlay, Windows: [][2]int{{150, 155}}}

	lh, lw := sa.LiveFuelMoist(0, 0)
	if lh != 90 || lw != 80 {
		t.Fatalf("expected live fuel moisture to always come from normal provider, got lh=%v lw=%v", lh, lw)
	}
}
