package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/RohanGharibgard/hfire-sub000/grid"
)

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return string(data)
}

func TestOpenWritesHeaders(t *testing.T) {
	dir := t.TempDir()
	w, err := Open(dir, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	cases := map[string]string{
		"ignitions.csv": "YYYY,MO,DY,HHHH,X,Y,FID\n",
		"firearea.csv":  "YYYY,FID,NUM_CELLS,NUM_CELLS_SA\n",
		"santaana.csv":  "YYYY,MO,DY,NUM_DAYS\n",
		"agehist.csv":   "YYYY,AGE,NUM_UNBURNED,NUM_BURNED,NUM_BURNED_SA\n",
		"agestats.csv":  "YYYY,MEAN_BURNED,VARIANCE_BURNED,MEAN_BURNED_SA,VARIANCE_BURNED_SA\n",
	}
	for name, want := range cases {
		got := readFile(t, filepath.Join(dir, name))
		if got != want {
			t.Fatalf("%s: expected header %q, got %q", name, want, got)
		}
	}
}

func TestWriteIgnitionsAndFireArea(t *testing.T) {
	dir := t.TempDir()
	w, err := Open(dir, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	fires := []*grid.FireInfo{
		{ID: 1, OriginX: 100.5, OriginY: 200.5, StartMonth: 7, StartDay: 4, StartHour: 1300, CellsBurned: 12, CellsBurnedSA: 2},
		{ID: 2, StartMonth: 7, StartDay: 5, StartHour: 900, CellsBurned: 3, FailedIgnition: true},
	}
	if err := w.WriteIgnitions(2026, fires); err != nil {
		t.Fatalf("WriteIgnitions: %v", err)
	}
	if err := w.WriteFireArea(2026, fires, 400); err != nil {
		t.Fatalf("WriteFireArea: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	ign := readFile(t, filepath.Join(dir, "ignitions.csv"))
	if !strings.Contains(ign, "2026,7,4,1300,100.5,200.5,1") {
		t.Fatalf("unexpected ignitions.csv contents: %q", ign)
	}
	if !strings.Contains(ign, "2026,7,5,900,0,0,2") {
		t.Fatalf("expected failed ignition still recorded in ignitions.csv: %q", ign)
	}

	area := readFile(t, filepath.Join(dir, "firearea.csv"))
	if !strings.Contains(area, "2026,1,12,2") {
		t.Fatalf("unexpected firearea.csv contents: %q", area)
	}
	if strings.Contains(area, ",2,3,0") {
		t.Fatalf("expected failed-ignition fire omitted from firearea.csv: %q", area)
	}
}

func TestWriteFireInfoOmitsFailedIgnitions(t *testing.T) {
	dir := t.TempDir()
	w, err := Open(dir, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	fires := []*grid.FireInfo{
		{ID: 1, CellsBurned: 50, EndYear: 2026, EndMonth: 8, EndDay: 1, EndHour: 1800},
		{ID: 2, CellsBurned: 2, FailedIgnition: true},
	}
	if err := w.WriteFireInfo(fires); err != nil {
		t.Fatalf("WriteFireInfo: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	info := readFile(t, filepath.Join(dir, "fireinfo.csv"))
	if strings.Count(info, "\n") != 2 {
		t.Fatalf("expected header + 1 data row, got: %q", info)
	}
	if !strings.Contains(info, "1,0,0,0,0,0,0,2026,8,1,1800,50,N,0") {
		t.Fatalf("unexpected fireinfo.csv row: %q", info)
	}
}

func TestDetectSantaAnaEvents(t *testing.T) {
	active := map[int]bool{3: true, 4: true, 5: true, 10: true}
	toMonthDay := func(day int) (int, int) { return 1, day }
	events := DetectSantaAnaEvents(func(d int) bool { return active[d] }, 12, toMonthDay)
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d: %+v", len(events), events)
	}
	if events[0].StartDay != 3 || events[0].NumDays != 3 {
		t.Fatalf("unexpected first event: %+v", events[0])
	}
	if events[1].StartDay != 10 || events[1].NumDays != 1 {
		t.Fatalf("unexpected second event: %+v", events[1])
	}
}

func TestBuildAgeHistogramSaturatesTopBin(t *testing.T) {
	unburnable := map[[2]int]bool{{0, 0}: true}
	standAge := map[[2]int]int{
		{0, 1}: 150,
		{1, 0}: 5,
		{1, 1}: 5,
	}
	burned := map[[2]int]bool{{1, 0}: true}
	burnedSA := map[[2]int]bool{{1, 1}: true}

	bins := BuildAgeHistogram(2, 2,
		func(r, c int) int { return standAge[[2]int{r, c}] },
		func(r, c int) (bool, bool) { return burned[[2]int{r, c}], burnedSA[[2]int{r, c}] },
		func(r, c int) bool { return unburnable[[2]int{r, c}] },
	)
	if bins[99].NumUnburned != 1 {
		t.Fatalf("expected age 150 folded into bin 99, got %+v", bins[99])
	}
	if bins[5].NumBurned != 2 {
		t.Fatalf("expected the burned and the SA-burned cell both counted as burned in bin 5, got %+v", bins[5])
	}
	if bins[5].NumBurnedSA != 1 {
		t.Fatalf("expected one SA-burned cell counted in bin 5, got %+v", bins[5])
	}
}

func TestComputeAgeBurnStats(t *testing.T) {
	bins := []AgeBin{
		{Age: 10, NumBurned: 2},
		{Age: 20, NumBurned: 2},
	}
	s := ComputeAgeBurnStats(bins)
	if s.MeanBurned != 15 {
		t.Fatalf("expected mean 15, got %v", s.MeanBurned)
	}
}

func TestWriteAgeBurnStats(t *testing.T) {
	dir := t.TempDir()
	w, err := Open(dir, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	s := ComputeAgeBurnStats([]AgeBin{{Age: 10, NumBurned: 2}, {Age: 20, NumBurned: 2}})
	if err := w.WriteAgeBurnStats(2026, s); err != nil {
		t.Fatalf("WriteAgeBurnStats: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	got := readFile(t, filepath.Join(dir, "agestats.csv"))
	if !strings.Contains(got, "2026,15,") {
		t.Fatalf("unexpected agestats.csv contents: %q", got)
	}
}
