package fuel

import "testing"

func TestBuildModelsFlagsUnburnableNumbers(t *testing.T) {
	records := []Record{
		{Number: 1, D1HLoad: 0.1, D1HSAV: 2000, Depth: 1, ExtMoistPct: 25, DeadHC: 8000, LiveHC: 8000},
		{Number: 98},
	}
	models := BuildModels(records, English, []int{98})
	if models[1].Burnable != true {
		t.Fatalf("expected model 1 burnable, got %+v", models[1])
	}
	if models[98].Burnable {
		t.Fatal("expected model 98 flagged unburnable")
	}
}

func TestBuildModelsAddsUnburnableNotInRecords(t *testing.T) {
	models := BuildModels(nil, English, []int{99})
	if models[99] == nil || models[99].Burnable {
		t.Fatalf("expected synthesized unburnable model 99, got %+v", models[99])
	}
}
