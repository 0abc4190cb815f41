package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/RohanGharibgard/hfire-sub000/internal/errs"
)

func writeTemp(t *testing.T, name, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatalf("writing temp file: %v", err)
	}
	return path
}

func TestLoadParsesEqualsAndSpaceForms(t *testing.T) {
	path := writeTemp(t, "cfg.txt", "# comment\nSIMULATION_TIMESTEP_SECS = 3600\nSIMULATION_RAND_NUM_SEED 42\n\n")
	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if v, err := s.Int("SIMULATION_TIMESTEP_SECS", 0); err != nil || v != 3600 {
		t.Fatalf("expected 3600, got %v err=%v", v, err)
	}
	if v, err := s.Int("SIMULATION_RAND_NUM_SEED", 0); err != nil || v != 42 {
		t.Fatalf("expected 42, got %v err=%v", v, err)
	}
}

func TestNullDisablesKey(t *testing.T) {
	path := writeTemp(t, "cfg.txt", "FUELS_REGROWTH_TABLE_FILE = NULL\n")
	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !s.IsNull("FUELS_REGROWTH_TABLE_FILE") {
		t.Fatal("expected key to be recognized as NULL")
	}
	if s.Has("FUELS_REGROWTH_TABLE_FILE") {
		t.Fatal("expected Has to report false for a NULL key")
	}
}

func TestRasterFamilyAbsentReturnsFalse(t *testing.T) {
	path := writeTemp(t, "cfg.txt", "SIMULATION_TIMESTEP_SECS = 3600\n")
	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, ok := s.Raster("ELEV_"); ok {
		t.Fatal("expected absent raster family to report ok=false")
	}
}

func TestRasterFamilyParsed(t *testing.T) {
	path := writeTemp(t, "cfg.txt", "ELEV_RASTER_FORMAT = ASCII\nELEV_RASTER_MAIN_FILE = elev.asc\nELEV_RASTER_TYPE = FLOAT\n")
	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	rf, ok := s.Raster("ELEV_")
	if !ok {
		t.Fatal("expected raster family present")
	}
	if rf.MainFile != "elev.asc" || rf.Format != "ASCII" || rf.Type != "FLOAT" {
		t.Fatalf("unexpected raster family: %+v", rf)
	}
}

func TestFMDFileParsesEnglishUnitsAndRows(t *testing.T) {
	path := writeTemp(t, "fuel.fmd", "ENGLISH\n# comment\n10 0.138 0.092 0.23 0.023 0.0 3500 1500 1500 1.0 25 8000 8000\n")
	records, units, err := FMDFile(path)
	if err != nil {
		t.Fatalf("FMDFile: %v", err)
	}
	if units.String() != "ENGLISH" {
		t.Fatalf("expected ENGLISH units, got %v", units)
	}
	if len(records) != 1 || records[0].Number != 10 {
		t.Fatalf("expected 1 record with model number 10, got %+v", records)
	}
	if records[0].D1HLoad != 0.138 {
		t.Fatalf("expected d1h load 0.138, got %v", records[0].D1HLoad)
	}
}

func TestFMDFileRejectsWrongFieldCount(t *testing.T) {
	path := writeTemp(t, "fuel.fmd", "ENGLISH\n10 0.138 0.092\n")
	if _, _, err := FMDFile(path); err == nil {
		t.Fatal("expected error for malformed FMD row")
	}
}

func TestLoadMissingFileIsIOError(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "does-not-exist.txt"))
	if err == nil {
		t.Fatal("expected error for missing config file")
	}
	var e *errs.E
	if !errors.As(err, &e) || e.Kind != errs.IO {
		t.Fatalf("expected an IO-kind error, got %v", err)
	}
}
