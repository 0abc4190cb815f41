package export

import (
	"encoding/csv"
	"os"
	"path/filepath"

	"github.com/tealeg/xlsx"

	"github.com/RohanGharibgard/hfire-sub000/internal/errs"
)

// sheetSources names each CSV output and the sheet it becomes in the
// summary workbook.
var sheetSources = []struct {
	sheet, file string
}{
	{"Ignitions", "ignitions.csv"},
	{"FireArea", "firearea.csv"},
	{"SantaAna", "santaana.csv"},
	{"FireInfo", "fireinfo.csv"},
	{"AgeHistogram", "agehist.csv"},
	{"AgeStats", "agestats.csv"},
}

// WriteSummaryXLSX builds summary.xlsx in dir, one sheet per CSV output
// plus a Totals sheet, mirroring the teacher's use of tealeg/xlsx for
// spreadsheet-shaped output.
func WriteSummaryXLSX(dir string, totals map[string]int) error {
	f := xlsx.NewFile()
	for _, src := range sheetSources {
		if err := addCSVSheet(f, src.sheet, filepath.Join(dir, src.file)); err != nil {
			return err
		}
	}

	totalsSheet, err := f.AddSheet("Totals")
	if err != nil {
		return errs.Wrap(errs.IO, "export.WriteSummaryXLSX", "adding Totals sheet", err)
	}
	header := totalsSheet.AddRow()
	header.AddCell().SetString("METRIC")
	header.AddCell().SetString("VALUE")
	for _, name := range sortedKeys(totals) {
		row := totalsSheet.AddRow()
		row.AddCell().SetString(name)
		row.AddCell().SetInt(totals[name])
	}

	path := filepath.Join(dir, "summary.xlsx")
	if err := f.Save(path); err != nil {
		return errs.Wrap(errs.IO, "export.WriteSummaryXLSX", "saving workbook", err)
	}
	return nil
}

func addCSVSheet(f *xlsx.File, sheetName, csvPath string) error {
	in, err := os.Open(csvPath)
	if err != nil {
		return errs.Wrap(errs.IO, "export.addCSVSheet", "opening "+csvPath, err)
	}
	defer in.Close()

	sheet, err := f.AddSheet(sheetName)
	if err != nil {
		return errs.Wrap(errs.IO, "export.addCSVSheet", "adding sheet "+sheetName, err)
	}
	r := csv.NewReader(in)
	records, err := r.ReadAll()
	if err != nil {
		return errs.Wrap(errs.IO, "export.addCSVSheet", "reading "+csvPath, err)
	}
	for _, rec := range records {
		row := sheet.AddRow()
		for _, v := range rec {
			row.AddCell().SetString(v)
		}
	}
	return nil
}

func sortedKeys(m map[string]int) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1] > out[j]; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}
