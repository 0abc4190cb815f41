package weather

import (
	"strings"

	"github.com/RohanGharibgard/hfire-sub000/config"
	"github.com/RohanGharibgard/hfire-sub000/grid"
	"github.com/RohanGharibgard/hfire-sub000/internal/errs"
	"github.com/RohanGharibgard/hfire-sub000/raster"
)

// FromConfig selects and builds an Env from the settings table's
// IGNITION_STRATEGY/WIND_*/FUEL_MOISTURE_* keys, dispatching by the
// strategy-name enum the way Ignition.c dispatches on its FIXED/RANDU/RANDS
// constants, replacing that switch with one Go type per strategy.
// regrowth is the stand-age-to-fuel-model table shared by every strategy
// (nil if FUELS_REGROWTH_TABLE_FILE is NULL-disabled).
func FromConfig(s *config.Settings, regrowth map[int]int) (Env, error) {
	strategy := strings.ToUpper(s.String("IGNITION_STRATEGY", "FIXED"))

	var base Env
	switch strategy {
	case "FIXED":
		f := &Fixed{
			WindAzDeg:    mustFloat(s, "WIND_AZ_DEG"),
			WindSpeedFpm: mustFloat(s, "WIND_SPEED_FPM"),
			Moist: Moistures{
				D1H:   mustFloat(s, "FUEL_MOISTURE_D1H"),
				D10H:  mustFloat(s, "FUEL_MOISTURE_D10H"),
				D100H: mustFloat(s, "FUEL_MOISTURE_D100H"),
				LH:    mustFloat(s, "FUEL_MOISTURE_LH"),
				LW:    mustFloat(s, "FUEL_MOISTURE_LW"),
			},
			LiveLH:   mustFloat(s, "FUEL_MOISTURE_LH"),
			LiveLW:   mustFloat(s, "FUEL_MOISTURE_LW"),
			Regrowth: regrowth,
		}
		if s.Has("IGNITION_FIXED_X") && s.Has("IGNITION_FIXED_Y") {
			f.Points = []Ignition{{X: mustFloat(s, "IGNITION_FIXED_X"), Y: mustFloat(s, "IGNITION_FIXED_Y")}}
		}
		base = f
	case "RANDOM_UNIFORM", "RANDOM_SPATIAL":
		ru := RandomUniform{
			WindAzRange:    [2]float64{mustFloat(s, "WIND_AZ_MIN"), mustFloat(s, "WIND_AZ_MAX")},
			WindSpeedRange: [2]float64{mustFloat(s, "WIND_SPEED_MIN"), mustFloat(s, "WIND_SPEED_MAX")},
			MoistRanges: [5][2]float64{
				{mustFloat(s, "FUEL_MOISTURE_D1H_MIN"), mustFloat(s, "FUEL_MOISTURE_D1H_MAX")},
				{mustFloat(s, "FUEL_MOISTURE_D10H_MIN"), mustFloat(s, "FUEL_MOISTURE_D10H_MAX")},
				{mustFloat(s, "FUEL_MOISTURE_D100H_MIN"), mustFloat(s, "FUEL_MOISTURE_D100H_MAX")},
				{mustFloat(s, "FUEL_MOISTURE_LH_MIN"), mustFloat(s, "FUEL_MOISTURE_LH_MAX")},
				{mustFloat(s, "FUEL_MOISTURE_LW_MIN"), mustFloat(s, "FUEL_MOISTURE_LW_MAX")},
			},
			FreqPerDay: mustFloat(s, "IGNITION_FREQUENCY_PER_DAY"),
			Regrowth:   regrowth,
		}
		if strategy == "RANDOM_SPATIAL" {
			rs := &RandomSpatial{RandomUniform: ru}
			if fam, ok := s.Raster("IGNITION_RSP_"); ok {
				prob, hdr, err := raster.ReadFloat(fam)
				if err != nil {
					return nil, err
				}
				rs.Prob = grid.New(grid.Georef{Rows: hdr.NRows, Cols: hdr.NCols, CellSize: hdr.CellSize, XLLCorner: hdr.XLLCorner, YLLCorner: hdr.YLLCorner})
				rs.Prob.Elev = prob
			}
			base = rs
		} else {
			base = &ru
		}
	default:
		return nil, errs.New(errs.Config, "weather.FromConfig", "unknown IGNITION_STRATEGY: "+strategy)
	}

	if !s.Has("SANTA_ANA_WINDOWS") {
		return base, nil
	}
	windows, err := parseWindows(s.String("SANTA_ANA_WINDOWS", ""))
	if err != nil {
		return nil, err
	}
	overlay := &Fixed{
		WindAzDeg:    mustFloat(s, "SANTA_ANA_WIND_AZ_DEG"),
		WindSpeedFpm: mustFloat(s, "SANTA_ANA_WIND_SPEED_FPM"),
		Moist: Moistures{
			D1H:   mustFloat(s, "SANTA_ANA_FUEL_MOISTURE_D1H"),
			D10H:  mustFloat(s, "SANTA_ANA_FUEL_MOISTURE_D10H"),
			D100H: mustFloat(s, "SANTA_ANA_FUEL_MOISTURE_D100H"),
		},
		Regrowth: regrowth,
	}
	return &SantaAna{Normal: base, Overlay: overlay, Windows: windows}, nil
}

func mustFloat(s *config.Settings, key string) float64 {
	v, _ := s.Float(key, 0)
	return v
}

// parseWindows parses "startDay-endDay,startDay-endDay,..." into pairs.
func parseWindows(raw string) ([][2]int, error) {
	var out [][2]int
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		bounds := strings.SplitN(part, "-", 2)
		if len(bounds) != 2 {
			return nil, errs.New(errs.Config, "weather.parseWindows", "expected 'start-end' pair, got "+part)
		}
		start, err := parseDay(bounds[0])
		if err != nil {
			return nil, err
		}
		end, err := parseDay(bounds[1])
		if err != nil {
			return nil, err
		}
		out = append(out, [2]int{start, end})
	}
	return out, nil
}

func parseDay(s string) (int, error) {
	var d int
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, errs.New(errs.Config, "weather.parseDay", "expected integer day-of-year, got "+s)
		}
		d = d*10 + int(r-'0')
	}
	return d, nil
}
