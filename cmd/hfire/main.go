// Command hfire is the command-line entry point for the wildland fire
// spread simulator, adapted from cmd/inmap/main.go's thin-wrapper shape:
// parse arguments, hand off to the command tree, translate a fatal error
// into a process exit code.
package main

import (
	"context"
	"fmt"
	"log"
	"math"
	"os"
	"strings"

	"github.com/ctessum/sparse"

	"github.com/RohanGharibgard/hfire-sub000/cliutil"
	"github.com/RohanGharibgard/hfire-sub000/config"
	"github.com/RohanGharibgard/hfire-sub000/engine"
	"github.com/RohanGharibgard/hfire-sub000/export"
	"github.com/RohanGharibgard/hfire-sub000/fuel"
	"github.com/RohanGharibgard/hfire-sub000/grid"
	"github.com/RohanGharibgard/hfire-sub000/internal/errs"
	"github.com/RohanGharibgard/hfire-sub000/raster"
	"github.com/RohanGharibgard/hfire-sub000/standage"
	"github.com/RohanGharibgard/hfire-sub000/weather"
)

func main() {
	cfg := cliutil.New(run)
	err := cfg.Root.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	os.Exit(cliutil.ExitCode(err))
}

func run(cfg *cliutil.Cfg) error {
	path := cfg.GetString("config")
	if path == "" {
		return errs.New(errs.Config, "main.run", "no configuration file given")
	}
	s, err := config.Load(path)
	if err != nil {
		return err
	}
	cliutil.ApplyOverrides(cfg, s)

	logFile, err := cliutil.OpenLog(cfg.Root, cfg)
	if err != nil {
		return err
	}
	defer logFile.Close()

	g, regrowthTable, err := loadGrid(s)
	if err != nil {
		return err
	}
	env, err := weather.FromConfig(s, regrowthTable)
	if err != nil {
		return err
	}
	models, err := loadFuelModels(s)
	if err != nil {
		return err
	}
	unburnableNums, err := s.IntSlice("FUELS_PROPS_FM_NUMS_UNBURNABLE")
	if err != nil {
		return err
	}
	unburnableSet := make(map[int]bool, len(unburnableNums))
	for _, n := range unburnableNums {
		unburnableSet[n] = true
	}
	isUnburnableFM := func(num int) bool { return unburnableSet[num] }

	econf, err := loadEngineConfig(s)
	if err != nil {
		return err
	}

	startYear, _ := s.Int("SIMULATION_START_YEAR", 2026)
	startMonth, _ := s.Int("SIMULATION_START_MONTH", 6)
	startDay, _ := s.Int("SIMULATION_START_DAY", 1)
	startHour, _ := s.Int("SIMULATION_START_HOUR", 0)
	endYear, _ := s.Int("SIMULATION_END_YEAR", startYear)
	endMonth, _ := s.Int("SIMULATION_END_MONTH", 10)
	endDay, _ := s.Int("SIMULATION_END_DAY", 31)
	endHour, _ := s.Int("SIMULATION_END_HOUR", 2400)
	clock := engine.NewClock(startYear, startMonth, startDay, startHour, endYear, endMonth, endDay, endHour)

	eng := engine.NewContext(econf, g, env, clock, models, nil)

	derived, err := config.LoadDerivedColumns(s)
	if err != nil {
		return err
	}
	outDir := cfg.GetString("output_dir")
	out, err := export.Open(outDir, derived)
	if err != nil {
		return err
	}
	defer out.Close()

	totals := map[string]int{}
	for year := startYear; year <= endYear; year++ {
		log.Printf("year=%d starting fire season", year)
		if err := eng.RunYear(context.Background(), isUnburnableFM); err != nil {
			return errs.Wrap(errs.Domain, "main.run", "running fire season", err)
		}

		unburnableCell := func(row, col int) bool { return g.StateAt(row, col) == grid.Unburnable }
		burnedAt := func(row, col int) (bool, bool) {
			return g.FireIDAt(row, col) > 0, g.SantaAnaAt(row, col) == grid.SABurnedSA
		}
		bins := export.BuildAgeHistogram(g.Rows, g.Cols,
			func(row, col int) int { return int(g.StandAge.Get(row, col)) },
			burnedAt, unburnableCell)

		if err := out.WriteIgnitions(year, g.Fires); err != nil {
			return err
		}
		if err := out.WriteFireArea(year, g.Fires, g.Rows*g.Cols); err != nil {
			return err
		}
		if err := out.WriteFireInfo(g.Fires); err != nil {
			return err
		}
		if err := out.WriteAgeHistogram(year, bins); err != nil {
			return err
		}
		if err := out.WriteAgeBurnStats(year, export.ComputeAgeBurnStats(bins)); err != nil {
			return err
		}

		if sa, ok := env.(*weather.SantaAna); ok {
			events := export.DetectSantaAnaEvents(sa.Active, clock.DayOfYear(), dayOfYearToMonthDay)
			if err := out.WriteSantaAnaEvents(year, events); err != nil {
				return err
			}
		}

		stamp := export.RasterStamp{Year: year, Month: clock.Month, Day: clock.Day, Hour: clock.Hour()}
		if err := export.WriteASCIIInt(outDir, stamp, "fid", g.FireID, g, grid.UnburnableFireID); err != nil {
			return err
		}
		if err := export.WriteASCIIInt(outDir, stamp, "sana", g.SantaAnaMark, g, int(grid.SAUnburnable)); err != nil {
			return err
		}
		if err := export.WriteASCIIInt(outDir, stamp, "fuels", g.Fuels, g, -9999); err != nil {
			return err
		}
		if err := export.WriteASCIIFloat(outDir, stamp, "sage", g.StandAge, g, -9999); err != nil {
			return err
		}
		if s.String("EXPORT_IMAGE_ENABLED", "false") == "true" {
			if err := export.WriteFireIDImage(outDir, stamp, g.FireID, g.Rows, g.Cols); err != nil {
				return err
			}
		}

		totals["fires"] += len(g.Fires)

		standage.Reclassify(regrowthTable, g.StandAge, g.Fuels, g.Rows, g.Cols, func(row, col int) bool { return !unburnableCell(row, col) })
		g.EndYear(func(row, col int) bool { return !unburnableCell(row, col) })
	}

	if s.String("EXPORT_SUMMARY_XLSX", "false") == "true" {
		if err := export.WriteSummaryXLSX(outDir, totals); err != nil {
			return err
		}
	}
	if bucket := s.String("EXPORT_UPLOAD_S3_BUCKET", ""); bucket != "" {
		if err := export.UploadDirToS3(outDir, bucket, s.String("EXPORT_UPLOAD_S3_REGION", "us-west-2")); err != nil {
			return err
		}
	}
	return nil
}

func loadEngineConfig(s *config.Settings) (engine.Config, error) {
	timestep, err := s.Int("SIMULATION_TIMESTEP_SECS", 3600)
	if err != nil {
		return engine.Config{}, err
	}
	seed, err := s.Int("SIMULATION_RAND_NUM_SEED", 1)
	if err != nil {
		return engine.Config{}, err
	}
	hours, err := s.Int("FIRE_EXTINCTION_HOURS", 24)
	if err != nil {
		return engine.Config{}, err
	}
	ros, err := s.Float("FIRE_EXTINCTION_ROS_MPS", 0)
	if err != nil {
		return engine.Config{}, err
	}
	threshold, err := s.Int("FIRE_FAILED_IGNITION_NUM_CELLS", 4)
	if err != nil {
		return engine.Config{}, err
	}
	ellipse, err := s.Float("FIRE_ELLIPSE_ADJUSTMENT_FACTOR", 1.0)
	if err != nil {
		return engine.Config{}, err
	}
	return engine.Config{
		TimestepSecs:            timestep,
		ExtinctionConsume:       strings.EqualFold(s.String("FIRE_EXTINCTION_TYPE", "CONSUME"), "CONSUME"),
		ExtinctionHours:         hours,
		ExtinctionROSMps:        ros,
		FailedIgnitionThreshold: threshold,
		EllipseAdjustmentFactor: ellipse,
		RandNumSeed:             int64(seed),
	}, nil
}

func loadFuelModels(s *config.Settings) (map[int]*fuel.Model, error) {
	fmdPath := s.String("FUELS_PROPS_FMD_FILE", "")
	if fmdPath == "" {
		return nil, errs.New(errs.Config, "main.loadFuelModels", "FUELS_PROPS_FMD_FILE not set")
	}
	records, units, err := config.FMDFile(fmdPath)
	if err != nil {
		return nil, err
	}
	unburnable, err := s.IntSlice("FUELS_PROPS_FM_NUMS_UNBURNABLE")
	if err != nil {
		return nil, err
	}
	return fuel.BuildModels(records, units, unburnable), nil
}

func loadGrid(s *config.Settings) (*grid.Grid, standage.Table, error) {
	elevFam, ok := s.Raster("ELEV_")
	if !ok {
		return nil, nil, errs.New(errs.Config, "main.loadGrid", "ELEV_RASTER_MAIN_FILE not set")
	}
	elev, hdr, err := raster.ReadFloat(elevFam)
	if err != nil {
		return nil, nil, err
	}

	g := grid.New(grid.Georef{
		Rows: hdr.NRows, Cols: hdr.NCols, CellSize: hdr.CellSize,
		XLLCorner: hdr.XLLCorner, YLLCorner: hdr.YLLCorner,
	})
	g.Elev = elev

	if arr, ok, err := readOptionalFloat(s, "SLOPE_"); err != nil {
		return nil, nil, err
	} else if ok {
		g.Slope = arr
	}
	if arr, ok, err := readOptionalFloat(s, "ASPECT_"); err != nil {
		return nil, nil, err
	} else if ok {
		g.Aspect = arr
	}
	if arr, ok, err := readOptionalFloat(s, "STAND_AGE_"); err != nil {
		return nil, nil, err
	} else if ok {
		g.StandAge = arr
	}
	if err := loadFuelsRaster(s, g); err != nil {
		return nil, nil, err
	}

	regrowthPath := s.String("FUELS_REGROWTH_TABLE_FILE", "")
	var table standage.Table
	if regrowthPath != "" && regrowthPath != config.Null {
		table, err = standage.LoadTable(regrowthPath)
		if err != nil {
			return nil, nil, err
		}
	}
	return g, table, nil
}

func readOptionalFloat(s *config.Settings, prefix string) (*sparse.DenseArray, bool, error) {
	fam, ok := s.Raster(prefix)
	if !ok {
		return nil, false, nil
	}
	arr, _, err := raster.ReadFloat(fam)
	if err != nil {
		return nil, false, err
	}
	return arr, true, nil
}

func loadFuelsRaster(s *config.Settings, g *grid.Grid) error {
	fam, ok := s.Raster("FUELS_STATIC_")
	if !ok {
		return errs.New(errs.Config, "main.loadFuelsRaster", "FUELS_STATIC_RASTER_MAIN_FILE not set")
	}
	arr, _, err := raster.ReadFloat(fam)
	if err != nil {
		return err
	}
	unburnable, err := s.IntSlice("FUELS_PROPS_FM_NUMS_UNBURNABLE")
	if err != nil {
		return err
	}
	for r := 0; r < g.Rows; r++ {
		for c := 0; c < g.Cols; c++ {
			v := arr.Get(r, c)
			if math.IsNaN(v) {
				if len(unburnable) == 0 {
					return errs.New(errs.Config, "main.loadFuelsRaster", "NODATA fuels cell but FUELS_PROPS_FM_NUMS_UNBURNABLE is empty")
				}
				g.Fuels.Set(unburnable[0], r, c)
				continue
			}
			g.Fuels.Set(int(v), r, c)
		}
	}
	return nil
}

func dayOfYearToMonthDay(dayOfYear int) (month, day int) {
	daysInMonth := [13]int{0, 31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}
	d := dayOfYear
	m := 1
	for d > daysInMonth[m] {
		d -= daysInMonth[m]
		m++
		if m > 12 {
			m = 1
		}
	}
	return m, d
}
