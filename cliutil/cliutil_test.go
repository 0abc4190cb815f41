package cliutil

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/RohanGharibgard/hfire-sub000/config"
	"github.com/RohanGharibgard/hfire-sub000/internal/errs"
)

func TestNewBuildsCommandTree(t *testing.T) {
	called := false
	cfg := New(func(c *Cfg) error {
		called = true
		return nil
	})
	cfg.Root.SetArgs([]string{"version"})
	if err := cfg.Root.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if called {
		t.Fatal("version subcommand should not invoke runFunc")
	}
}

func TestApplyOverridesLayersFlagOntoSettings(t *testing.T) {
	cfg := New(func(c *Cfg) error { return nil })
	cfg.Root.PersistentFlags().Set("rand_num_seed", "99")

	s, err := config.Load(writeMinimalConfig(t))
	if err != nil {
		t.Fatalf("config.Load: %v", err)
	}
	ApplyOverrides(cfg, s)

	v, err := s.Int("SIMULATION_RAND_NUM_SEED", 0)
	if err != nil || v != 99 {
		t.Fatalf("expected override to set 99, got %v err=%v", v, err)
	}
}

func TestExitCodeMapsErrorKinds(t *testing.T) {
	cases := map[error]int{
		nil:                                     0,
		errs.New(errs.Config, "op", "msg"):      2,
		errs.New(errs.IO, "op", "msg"):          3,
		errs.New(errs.Domain, "op", "msg"):      4,
		errors.New("unrecognized plain error"): 1,
	}
	for err, want := range cases {
		if got := ExitCode(err); got != want {
			t.Fatalf("ExitCode(%v) = %d, want %d", err, got, want)
		}
	}
}

func TestLoadProfileFillsDefaultsBelowFlags(t *testing.T) {
	cfg := New(func(c *Cfg) error { return nil })
	profilePath := filepath.Join(t.TempDir(), "profile.toml")
	if err := os.WriteFile(profilePath, []byte("output_dir = \"/tmp/profile-out\"\nextinction_hours = \"48\"\n"), 0644); err != nil {
		t.Fatalf("writing profile: %v", err)
	}
	cfg.Root.PersistentFlags().Set("cli_profile", profilePath)
	cfg.Root.PersistentFlags().Set("extinction_hours", "12")

	if err := loadProfile(cfg); err != nil {
		t.Fatalf("loadProfile: %v", err)
	}
	if got := cfg.GetString("output_dir"); got != "/tmp/profile-out" {
		t.Fatalf("expected profile default to fill output_dir, got %q", got)
	}
	if got := cfg.GetString("extinction_hours"); got != "12" {
		t.Fatalf("expected explicit flag to win over profile default, got %q", got)
	}
}

func writeMinimalConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cfg.txt")
	if err := os.WriteFile(path, []byte("SIMULATION_RAND_NUM_SEED = 1\n"), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}
