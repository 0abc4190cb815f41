package standage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ctessum/sparse"
)

func TestLoadTableParsesAgeFuelPairs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "regrowth.txt")
	if err := os.WriteFile(path, []byte("# comment\n1 98\n5 20\n10 10\n"), 0644); err != nil {
		t.Fatalf("writing table: %v", err)
	}
	tbl, err := LoadTable(path)
	if err != nil {
		t.Fatalf("LoadTable: %v", err)
	}
	if tbl[5] != 20 {
		t.Fatalf("expected age 5 -> fuel model 20, got %v", tbl[5])
	}
	if len(tbl) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(tbl))
	}
}

func TestLoadTableRejectsMalformedLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "regrowth.txt")
	if err := os.WriteFile(path, []byte("1 2 3\n"), 0644); err != nil {
		t.Fatalf("writing table: %v", err)
	}
	if _, err := LoadTable(path); err == nil {
		t.Fatal("expected error for malformed line")
	}
}

func TestReclassifyAppliesMappedFuelModel(t *testing.T) {
	standAge := sparse.ZerosDense(2, 2)
	standAge.Set(5, 0, 0)
	standAge.Set(1, 1, 1)
	fuels := sparse.ZerosDenseInt(2, 2)
	fuels.Set(98, 0, 0)
	fuels.Set(98, 1, 1)

	tbl := Table{5: 20}
	Reclassify(tbl, standAge, fuels, 2, 2, func(r, c int) bool { return true })

	if fuels.Get(0, 0) != 20 {
		t.Fatalf("expected cell at age 5 reclassified to fuel model 20, got %v", fuels.Get(0, 0))
	}
	if fuels.Get(1, 1) != 98 {
		t.Fatalf("expected cell at age 1 (no table entry) unchanged, got %v", fuels.Get(1, 1))
	}
}

func TestReclassifyNilTableIsNoop(t *testing.T) {
	standAge := sparse.ZerosDense(1, 1)
	fuels := sparse.ZerosDenseInt(1, 1)
	fuels.Set(7, 0, 0)
	Reclassify(nil, standAge, fuels, 1, 1, func(r, c int) bool { return true })
	if fuels.Get(0, 0) != 7 {
		t.Fatal("expected nil table to leave fuels unchanged")
	}
}
