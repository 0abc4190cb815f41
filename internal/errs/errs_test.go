package errs

import (
	"errors"
	"testing"
)

func TestWrapUnwraps(t *testing.T) {
	cause := errors.New("boom")
	e := Wrap(IO, "pkg.Op", "reading file", cause)
	if !errors.Is(e, cause) {
		t.Fatalf("expected errors.Is to find wrapped cause")
	}
}

func TestNewHasNoCause(t *testing.T) {
	e := New(Config, "pkg.Op", "bad value")
	if e.Unwrap() != nil {
		t.Fatalf("expected New to carry no wrapped cause")
	}
}

func TestKindString(t *testing.T) {
	cases := map[Kind]string{Config: "config", IO: "io", Domain: "domain"}
	for k, want := range cases {
		if got := k.String(); got != want {
			t.Errorf("Kind(%d).String() = %q, want %q", k, got, want)
		}
	}
}

func TestErrorMessageIncludesOpAndMsg(t *testing.T) {
	e := New(Domain, "engine.FuelModel", "unknown fuel model")
	got := e.Error()
	if got != "domain: engine.FuelModel: unknown fuel model" {
		t.Fatalf("unexpected error string: %q", got)
	}
}
