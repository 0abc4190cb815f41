// Package export writes a completed run's outputs: the five tabular CSV
// formats, per-timestep/annual ASCII rasters, and a set of optional ambient
// outputs (fire-ID PNG, summary.xlsx workbook, S3 upload of the output
// directory). Grounded on the teacher's io.go Outputter for the general
// shape of a model-output writer, adapted from its layer/species columns to
// this domain's fire-ID/fire-area/Santa-Ana/stand-age tables.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/RohanGharibgard/hfire-sub000/config"
	"github.com/RohanGharibgard/hfire-sub000/grid"
	"github.com/RohanGharibgard/hfire-sub000/internal/errs"
)

// Writer bundles the open CSV files for one run's tabular output, plus the
// output directory everything else (rasters, images, the summary workbook)
// is written beneath.
type Writer struct {
	Dir string

	Derived *config.DerivedColumns

	ignitions  *csv.Writer
	ignitionsF *os.File
	fireArea   *csv.Writer
	fireAreaF  *os.File
	santaAna   *csv.Writer
	santaAnaF  *os.File
	fireInfo   *csv.Writer
	fireInfoF  *os.File
	ageHist    *csv.Writer
	ageHistF   *os.File
	ageStats   *csv.Writer
	ageStatsF  *os.File
}

// Open creates dir if needed and opens all six CSV output files, writing
// their verbatim header rows.
func Open(dir string, derived *config.DerivedColumns) (*Writer, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errs.Wrap(errs.IO, "export.Open", "creating output directory", err)
	}
	w := &Writer{Dir: dir, Derived: derived}

	var err error
	if w.ignitionsF, w.ignitions, err = openCSV(dir, "ignitions.csv", []string{"YYYY", "MO", "DY", "HHHH", "X", "Y", "FID"}); err != nil {
		return nil, err
	}
	if w.fireAreaF, w.fireArea, err = openCSV(dir, "firearea.csv", append([]string{"YYYY", "FID", "NUM_CELLS", "NUM_CELLS_SA"}, derived.Names()...)); err != nil {
		return nil, err
	}
	if w.santaAnaF, w.santaAna, err = openCSV(dir, "santaana.csv", []string{"YYYY", "MO", "DY", "NUM_DAYS"}); err != nil {
		return nil, err
	}
	if w.fireInfoF, w.fireInfo, err = openCSV(dir, "fireinfo.csv", []string{
		"FID", "X", "Y",
		"START_YYYY", "START_MO", "START_DY", "START_HR",
		"END_YYYY", "END_MO", "END_DY", "END_HR",
		"NUM_BURNED", "IS_FAILED_IG", "NUM_BURNED_SA",
	}); err != nil {
		return nil, err
	}
	if w.ageHistF, w.ageHist, err = openCSV(dir, "agehist.csv", []string{"YYYY", "AGE", "NUM_UNBURNED", "NUM_BURNED", "NUM_BURNED_SA"}); err != nil {
		return nil, err
	}
	if w.ageStatsF, w.ageStats, err = openCSV(dir, "agestats.csv", []string{"YYYY", "MEAN_BURNED", "VARIANCE_BURNED", "MEAN_BURNED_SA", "VARIANCE_BURNED_SA"}); err != nil {
		return nil, err
	}
	return w, nil
}

func openCSV(dir, name string, header []string) (*os.File, *csv.Writer, error) {
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return nil, nil, errs.Wrap(errs.IO, "export.openCSV", "creating "+name, err)
	}
	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		f.Close()
		return nil, nil, errs.Wrap(errs.IO, "export.openCSV", "writing header for "+name, err)
	}
	return f, w, nil
}

// Close flushes and closes every open CSV file, returning the first error
// encountered.
func (w *Writer) Close() error {
	var first error
	for _, c := range []*csv.Writer{w.ignitions, w.fireArea, w.santaAna, w.fireInfo, w.ageHist, w.ageStats} {
		c.Flush()
		if err := c.Error(); err != nil && first == nil {
			first = errs.Wrap(errs.IO, "export.Writer.Close", "flushing CSV writer", err)
		}
	}
	for _, f := range []*os.File{w.ignitionsF, w.fireAreaF, w.santaAnaF, w.fireInfoF, w.ageHistF, w.ageStatsF} {
		if err := f.Close(); err != nil && first == nil {
			first = errs.Wrap(errs.IO, "export.Writer.Close", "closing CSV file", err)
		}
	}
	return first
}

// WriteIgnitions appends one row per fire origin recorded this year.
func (w *Writer) WriteIgnitions(year int, fires []*grid.FireInfo) error {
	for _, f := range fires {
		row := []string{
			itoa(year), itoa(f.StartMonth), itoa(f.StartDay), itoa(f.StartHour),
			ftoa(f.OriginX), ftoa(f.OriginY), itoa(f.ID),
		}
		if err := w.ignitions.Write(row); err != nil {
			return errs.Wrap(errs.IO, "export.WriteIgnitions", "writing row", err)
		}
	}
	return nil
}

// WriteFireArea appends one row per non-failed fire, plus any derived
// columns configured for the fire-area output.
func (w *Writer) WriteFireArea(year int, fires []*grid.FireInfo, totalCells int) error {
	for _, f := range fires {
		if f.FailedIgnition {
			continue
		}
		row := []string{itoa(year), itoa(f.ID), itoa(f.CellsBurned), itoa(f.CellsBurnedSA)}
		if w.Derived != nil {
			vals, err := w.Derived.Evaluate(map[string]interface{}{
				"NUM_CELLS":    float64(f.CellsBurned),
				"NUM_CELLS_SA": float64(f.CellsBurnedSA),
				"TOTAL_CELLS":  float64(totalCells),
			})
			if err != nil {
				return errs.Wrap(errs.Domain, "export.WriteFireArea", "evaluating derived columns", err)
			}
			for _, v := range vals {
				row = append(row, ftoa(v))
			}
		}
		if err := w.fireArea.Write(row); err != nil {
			return errs.Wrap(errs.IO, "export.WriteFireArea", "writing row", err)
		}
	}
	return nil
}

// SantaAnaEvent is one contiguous run of Santa-Ana-active days within a
// year, as detected by DetectSantaAnaEvents.
type SantaAnaEvent struct {
	StartMonth, StartDay int
	NumDays              int
}

// DetectSantaAnaEvents scans days 1..lastDayOfYear of year, grouping
// consecutive active days (per active) into events, converting each
// event's start day-of-year back to month/day via dayToMonthDay.
func DetectSantaAnaEvents(active func(dayOfYear int) bool, lastDayOfYear int, dayToMonthDay func(dayOfYear int) (month, day int)) []SantaAnaEvent {
	var events []SantaAnaEvent
	inEvent := false
	for d := 1; d <= lastDayOfYear; d++ {
		if active(d) {
			if !inEvent {
				m, dy := dayToMonthDay(d)
				events = append(events, SantaAnaEvent{StartMonth: m, StartDay: dy, NumDays: 0})
				inEvent = true
			}
			events[len(events)-1].NumDays++
		} else {
			inEvent = false
		}
	}
	return events
}

// WriteSantaAnaEvents appends one row per detected Santa-Ana episode.
func (w *Writer) WriteSantaAnaEvents(year int, events []SantaAnaEvent) error {
	for _, e := range events {
		row := []string{itoa(year), itoa(e.StartMonth), itoa(e.StartDay), itoa(e.NumDays)}
		if err := w.santaAna.Write(row); err != nil {
			return errs.Wrap(errs.IO, "export.WriteSantaAnaEvents", "writing row", err)
		}
	}
	return nil
}

// WriteFireInfo appends one row per non-failed fire's full lifecycle
// record.
func (w *Writer) WriteFireInfo(fires []*grid.FireInfo) error {
	for _, f := range fires {
		if f.FailedIgnition {
			continue
		}
		row := []string{
			itoa(f.ID), ftoa(f.OriginX), ftoa(f.OriginY),
			itoa(f.StartYear), itoa(f.StartMonth), itoa(f.StartDay), itoa(f.StartHour),
			itoa(f.EndYear), itoa(f.EndMonth), itoa(f.EndDay), itoa(f.EndHour),
			itoa(f.CellsBurned), boolToYN(f.FailedIgnition), itoa(f.CellsBurnedSA),
		}
		if err := w.fireInfo.Write(row); err != nil {
			return errs.Wrap(errs.IO, "export.WriteFireInfo", "writing row", err)
		}
	}
	return nil
}

// AgeBin is one row of the age-at-burn histogram: the number of unburned,
// burned, and Santa-Ana-burned cells whose stand age falls in this bin.
type AgeBin struct {
	Age                                    int
	NumUnburned, NumBurned, NumBurnedSA int
}

// BuildAgeHistogram bins a year's burn outcomes by stand age at the start
// of the year, using 100 bins with the final bin saturating (any age >=
// 99 is folded into bin 99), per the fixed bin count.
func BuildAgeHistogram(rows, cols int, standAgeAt func(row, col int) int, burnedAt func(row, col int) (burned, burnedSA bool), unburnableAt func(row, col int) bool) []AgeBin {
	const numBins = 100
	bins := make([]AgeBin, numBins)
	for i := range bins {
		bins[i].Age = i
	}
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			if unburnableAt(r, c) {
				continue
			}
			age := standAgeAt(r, c)
			if age >= numBins {
				age = numBins - 1
			}
			if age < 0 {
				age = 0
			}
			burned, burnedSA := burnedAt(r, c)
			switch {
			case burnedSA:
				bins[age].NumBurnedSA++
				bins[age].NumBurned++
			case burned:
				bins[age].NumBurned++
			default:
				bins[age].NumUnburned++
			}
		}
	}
	return bins
}

// WriteAgeHistogram appends one row per non-empty age bin.
func (w *Writer) WriteAgeHistogram(year int, bins []AgeBin) error {
	for _, b := range bins {
		if b.NumUnburned == 0 && b.NumBurned == 0 && b.NumBurnedSA == 0 {
			continue
		}
		row := []string{itoa(year), itoa(b.Age), itoa(b.NumUnburned), itoa(b.NumBurned), itoa(b.NumBurnedSA)}
		if err := w.ageHist.Write(row); err != nil {
			return errs.Wrap(errs.IO, "export.WriteAgeHistogram", "writing row", err)
		}
	}
	return nil
}

// WriteAgeBurnStats appends one row summarizing a year's age-at-burn
// histogram with the mean and variance ComputeAgeBurnStats derives from it.
func (w *Writer) WriteAgeBurnStats(year int, s AgeBurnStats) error {
	row := []string{itoa(year), ftoa(s.MeanBurned), ftoa(s.VarianceBurned), ftoa(s.MeanBurnedSA), ftoa(s.VarianceBurnedSA)}
	if err := w.ageStats.Write(row); err != nil {
		return errs.Wrap(errs.IO, "export.WriteAgeBurnStats", "writing row", err)
	}
	return nil
}

func itoa(v int) string     { return fmt.Sprintf("%d", v) }
func ftoa(v float64) string { return fmt.Sprintf("%g", v) }
func boolToYN(b bool) string {
	if b {
		return "Y"
	}
	return "N"
}
