package roth

import (
	"math"

	"github.com/RohanGharibgard/hfire-sub000/fuel"
)

// timeLagClass maps each of the six SAV weighting bins to a moisture
// timelag class (0=1h, 1=10h, 2=100h); wtgBoundary gives each bin's lower
// SAV bound. Grounded on the TimeLagClass/WtgSzClass tables in Roth1972.c.
var (
	timeLagClass = [6]int{0, 0, 1, 1, 2, 2}
	wtgBoundary  = [6]float64{1200.0, 192.0, 96.0, 48.0, 16.0, 0.0}
)

// SetFuelBed is pipeline stage 1. It computes moisture-independent
// intermediates from the bed's derived aggregates and resets the cache to
// hold only this stage's outputs. Must be called before NoWindNoSlope.
func SetFuelBed(m *fuel.Model, c *Cache) error {
	*c = Cache{stage: FuelBedSet}
	if !m.Burnable {
		return nil
	}
	if m.Units != fuel.English {
		m.ConvertTo(fuel.English)
	}

	if isZero(m.LArea + m.DArea) {
		return nil
	}

	lload := m.AWtg[fuel.LH]*m.Load[fuel.LH]*(1-m.Stot[fuel.LH]) +
		m.AWtg[fuel.LW]*m.Load[fuel.LW]*(1-m.Stot[fuel.LW])
	dload := m.AWtg[fuel.D1H]*m.Load[fuel.D1H]*(1-m.Stot[fuel.D1H]) +
		m.AWtg[fuel.D10H]*m.Load[fuel.D10H]*(1-m.Stot[fuel.D10H]) +
		m.AWtg[fuel.D100H]*m.Load[fuel.D100H]*(1-m.Stot[fuel.D100H])

	lhc := m.AWtg[fuel.LH]*m.HC[fuel.LH] + m.AWtg[fuel.LW]*m.HC[fuel.LW]
	dhc := m.AWtg[fuel.D1H]*m.HC[fuel.D1H] + m.AWtg[fuel.D10H]*m.HC[fuel.D10H] + m.AWtg[fuel.D100H]*m.HC[fuel.D100H]

	lseff := m.AWtg[fuel.LH]*m.Seff[fuel.LH] + m.AWtg[fuel.LW]*m.Seff[fuel.LW]
	dseff := m.AWtg[fuel.D1H]*m.Seff[fuel.D1H] + m.AWtg[fuel.D10H]*m.Seff[fuel.D10H] + m.AWtg[fuel.D100H]*m.Seff[fuel.D100H]

	letas := 1.0
	if gt0(lseff) {
		letas = 0.174 / math.Pow(lseff, 0.19)
		if letas > 1.0 {
			letas = 1.0
		}
	}
	detas := 1.0
	if gt0(dseff) {
		detas = 0.174 / math.Pow(dseff, 0.19)
		if detas > 1.0 {
			detas = 1.0
		}
	}

	c.lrx = lload * lhc * letas
	c.drx = dload * dhc * detas

	c.taur = 384.0 / m.FSAV
	c.ppflux = math.Exp((0.792+0.681*math.Sqrt(m.FSAV))*(m.PkRat+0.1)) / (192.0 + 0.2595*m.FSAV)

	betaOpt := 3.348 / math.Pow(m.FSAV, 0.8189)
	ratio := m.PkRat / betaOpt
	aa := 133.0 / math.Pow(m.FSAV, 0.7913)
	sigma15 := math.Pow(m.FSAV, 1.5)
	gammaMax := sigma15 / (495.0 + 0.0594*sigma15)
	gamma := gammaMax * math.Pow(ratio, aa) * math.Exp(aa*(1.0-ratio))

	c.lrx *= gamma
	c.drx *= gamma

	c.slpK = 5.275 * math.Pow(m.PkRat, -0.3)
	c.wndB = 0.02526 * math.Pow(m.FSAV, 0.54)
	cc := 7.47 * math.Exp(-0.133*math.Pow(m.FSAV, 0.55))
	ee := 0.715 * math.Exp(-0.000359*m.FSAV)
	c.wndK = cc * math.Pow(ratio, -ee)
	c.wndE = math.Pow(ratio, ee) / cc

	if isZero(lload) {
		return nil
	}

	flive := 0.0
	if gt0(m.SAV[fuel.LH]) {
		flive += m.Load[fuel.LH] * math.Exp(-500.0/m.SAV[fuel.LH])
	}
	if gt0(m.SAV[fuel.LW]) {
		flive += m.Load[fuel.LW] * math.Exp(-500.0/m.SAV[fuel.LW])
	}
	c.fdead = m.Load[fuel.D1H]*m.EffHN[fuel.D1H] + m.Load[fuel.D10H]*m.EffHN[fuel.D10H] + m.Load[fuel.D100H]*m.EffHN[fuel.D100H]
	if gt0(flive) {
		c.lmex = 2.9 * c.fdead / flive
	}
	return nil
}

// sizeClassBin returns the weighting bin (0-5) that sav falls into.
func sizeClassBin(sav float64) int {
	for j := 0; j < 6; j++ {
		if sav > wtgBoundary[j] {
			return j
		}
	}
	return 5
}

// NoWindNoSlope is pipeline stage 2. Beyond the stage bookkeeping it is a
// no-op when the supplied moistures are unchanged from the last call.
func NoWindNoSlope(m *fuel.Model, c *Cache, d1hfm, d10hfm, d100hfm, lhfm, lwfm float64) error {
	if err := c.requireStage(FuelBedSet, "NoWindNoSlope"); err != nil {
		return err
	}
	c.stage = NoWindNoSlopeDone
	if !m.Burnable {
		return nil
	}
	if eq(c.d1hfm, d1hfm) && eq(c.d10hfm, d10hfm) && eq(c.d100hfm, d100hfm) && eq(c.lhfm, lhfm) && eq(c.lwfm, lwfm) {
		return nil
	}
	c.d1hfm, c.d10hfm, c.d100hfm, c.lhfm, c.lwfm = d1hfm, d10hfm, d100hfm, lhfm, lwfm
	c.ros0, c.hpua, c.rxint = 0, 0, 0
	c.rosMax, c.rosAzMax = 0, 0
	c.rosAny, c.rosAzAny = 0, 0

	var fm [fuel.NumSizeClasses]float64
	for i := 0; i < int(fuel.NumSizeClasses); i++ {
		switch fuel.SizeClass(i) {
		case fuel.LH:
			fm[i] = lhfm
		case fuel.LW:
			fm[i] = lwfm
		default:
			switch timeLagClass[sizeClassBin(m.SAV[i])] {
			case 0:
				fm[i] = d1hfm
			case 1:
				fm[i] = d10hfm
			default:
				fm[i] = d100hfm
			}
		}
	}
	c.fm = fm

	wfmd := fm[fuel.D1H]*m.EffHN[fuel.D1H]*m.Load[fuel.D1H] +
		fm[fuel.D10H]*m.EffHN[fuel.D10H]*m.Load[fuel.D10H] +
		fm[fuel.D100H]*m.EffHN[fuel.D100H]*m.Load[fuel.D100H]

	lmex := 0.0
	if gt0(m.Load[fuel.LH]) || gt0(m.Load[fuel.LW]) {
		fdmois := 0.0
		if gt0(c.fdead) {
			fdmois = wfmd / c.fdead
		}
		lmex = c.lmex*(1.0-fdmois/m.ExtMoist) - 0.226
		if lmex < m.ExtMoist {
			lmex = m.ExtMoist
		}
	}
	dmex := m.ExtMoist

	rbqig := 0.0
	for i := 0; i < int(fuel.NumSizeClasses); i++ {
		qig := 250.0 + 1116.0*fm[i]
		if fuel.SizeClass(i) == fuel.LH || fuel.SizeClass(i) == fuel.LW {
			rbqig += qig * m.AWtg[i] * m.LArea * m.EffHN[i]
		} else {
			rbqig += qig * m.AWtg[i] * m.DArea * m.EffHN[i]
		}
	}
	rbqig *= m.FDens

	lm := m.AWtg[fuel.LH]*fm[fuel.LH] + m.AWtg[fuel.LW]*fm[fuel.LW]
	dm := m.AWtg[fuel.D1H]*fm[fuel.D1H] + m.AWtg[fuel.D10H]*fm[fuel.D10H] + m.AWtg[fuel.D100H]*fm[fuel.D100H]

	letam := 0.0
	if gt0(lmex) && lm < lmex {
		r := lm / lmex
		letam = 1.0 - 2.59*r + 5.11*r*r - 3.52*r*r*r
	}
	c.rxint += c.lrx * letam

	detam := 0.0
	if gt0(dmex) && dm < dmex {
		r := dm / dmex
		detam = 1.0 - 2.59*r + 5.11*r*r - 3.52*r*r*r
	}
	c.rxint += c.drx * detam

	c.hpua = c.rxint * c.taur

	if gt0(rbqig) {
		c.ros0 = c.rxint * c.ppflux / rbqig
	}
	c.rosMax = c.ros0
	c.rosAny = c.ros0
	return nil
}

// WindSlopeMax is pipeline stage 3. wndFpm is wind speed in ft/min, wndAz
// is the azimuth the wind blows from in degrees, slpPcnt is slope percent
// rise, asp is aspect in degrees, ellAdj is the ellipse adjustment factor.
func WindSlopeMax(m *fuel.Model, c *Cache, wndFpm, wndAz, slpPcnt, asp, ellAdj float64) error {
	if err := c.requireStage(NoWindNoSlopeDone, "WindSlopeMax"); err != nil {
		return err
	}
	c.stage = WindSlopeMaxDone
	if !m.Burnable {
		return nil
	}

	if lt0(slpPcnt) {
		slpPcnt = 0
	}
	slpPcnt /= 100.0
	if !eq(c.slp, slpPcnt) {
		c.phiS = c.slpK * slpPcnt * slpPcnt
		c.slp = slpPcnt
	}

	wndAz = math.Mod(math.Trunc(wndAz+180.0), 360.0)

	if !eq(c.wndFpm, wndFpm) {
		if gt0(wndFpm) {
			c.phiW = c.wndK * math.Pow(wndFpm, c.wndB)
		} else {
			c.phiW = 0
		}
		c.wndFpm = wndFpm
	}

	phiEW := c.phiS + c.phiW
	wndLim := false
	lwRatio := 1.0
	eccen := 0.0

	var upslp float64
	if asp >= 180.0 {
		upslp = asp - 180.0
	} else {
		upslp = asp + 180.0
	}

	var spreadMax, azMax, effWnd float64
	var doEffWnd, ckWndLim bool

	switch {
	case !gt0(c.ros0):
		spreadMax, azMax, effWnd = 0, 0, 0
	case !gt0(phiEW):
		phiEW, effWnd, azMax = 0, 0, 0
		spreadMax = c.ros0
	case !gt0(slpPcnt):
		effWnd = wndFpm
		spreadMax = c.ros0 * (1.0 + phiEW)
		azMax = wndAz
		ckWndLim = true
	case !gt0(wndFpm):
		spreadMax = c.ros0 * (1.0 + phiEW)
		azMax = upslp
		doEffWnd, ckWndLim = true, true
	case eq(upslp, wndAz):
		spreadMax = c.ros0 * (1.0 + phiEW)
		azMax = upslp
		doEffWnd, ckWndLim = true, true
	default:
		var splitDeg float64
		if upslp <= wndAz {
			splitDeg = wndAz - upslp
		} else {
			splitDeg = 360.0 - upslp + wndAz
		}
		splitRad := splitDeg * math.Pi / 180.0
		slpRate := c.ros0 * c.phiS
		wndRate := c.ros0 * c.phiW
		x := slpRate + wndRate*math.Cos(splitRad)
		y := wndRate * math.Sin(splitRad)
		rv := math.Sqrt(x*x + y*y)
		spreadMax = c.ros0 + rv

		phiEW = spreadMax/c.ros0 - 1.0
		doEffWnd = gt0(phiEW)
		ckWndLim = true

		al := math.Asin(math.Abs(y) / rv)
		var a float64
		switch {
		case x >= 0 && y >= 0:
			a = al
		case x >= 0 && y < 0:
			a = math.Pi + math.Pi - al
		case x < 0 && y >= 0:
			a = math.Pi - al
		default:
			a = math.Pi + al
		}
		splitDeg = a * 180.0 / math.Pi
		azMax = upslp + splitDeg
		if azMax > 360.0 {
			azMax -= 360.0
		}
	}

	if doEffWnd {
		effWnd = math.Pow(phiEW*c.wndE, 1.0/c.wndB)
	}

	if ckWndLim {
		maxWnd := 0.9 * c.rxint
		if effWnd > maxWnd {
			if !gt0(maxWnd) {
				phiEW = 0
			} else {
				phiEW = c.wndK * math.Pow(maxWnd, c.wndB)
			}
			spreadMax = c.ros0 * (1.0 + phiEW)
			effWnd = maxWnd
			wndLim = true
		}
	}

	if gt0(effWnd) {
		lwRatio = 1.0 + 0.002840909*ellAdj*effWnd
		eccen = math.Sqrt(lwRatio*lwRatio-1.0) / lwRatio
	}

	c.asp = asp
	c.wndVec = wndAz
	c.phiEW = phiEW
	c.wndEff = effWnd
	c.wndLim = wndLim
	c.rosMax, c.rosAny = spreadMax, spreadMax
	c.rosAzMax, c.rosAzAny = azMax, azMax
	c.lwRatio = lwRatio
	c.eccen = eccen
	return nil
}

// AtAzimuth is pipeline stage 4: the rate of spread at an arbitrary azimuth
// derived from the fire-ellipse eccentricity computed by WindSlopeMax. If
// the bed has no spread, RosAny/RosAzAny are left exactly as
// WindSlopeMax set them; a dead fire's azimuth is not recorded.
func AtAzimuth(m *fuel.Model, c *Cache, az float64) error {
	if err := c.requireStage(WindSlopeMaxDone, "AtAzimuth"); err != nil {
		return err
	}
	c.stage = AtAzimuthDone
	if !m.Burnable {
		return nil
	}
	if !gt0(c.rosMax) {
		return nil
	}
	if !gt0(c.phiEW) || eq(c.rosAzMax, az) {
		c.rosAny = c.rosMax
	} else {
		dirDeg := math.Abs(c.rosAzMax - az)
		if dirDeg > 180.0 {
			dirDeg = 360.0 - dirDeg
		}
		dirRad := dirDeg * math.Pi / 180.0
		c.rosAny = c.rosMax * (1.0 - c.eccen) / (1.0 - c.eccen*math.Cos(dirRad))
	}
	c.rosAzAny = az
	return nil
}
