// Package cliutil wires the Cobra command tree and Viper-backed
// configuration binding for the hfire command line, adapted from
// inmaputil/cmd.go's declarative options table: a Cobra root plus run and
// version subcommands, flags bound into a viper.Viper instance with an
// HFIRE_ environment prefix, so that a setting's precedence is flag > env
// > config file > default.
package cliutil

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/lnashier/viper"
	"github.com/spf13/cobra"

	"github.com/RohanGharibgard/hfire-sub000/config"
	"github.com/RohanGharibgard/hfire-sub000/internal/errs"
)

// Version is the build-time version string, overridden via -ldflags in
// release builds.
var Version = "dev"

// Cfg bundles the Viper-backed configuration with the Cobra command tree
// that binds to it.
type Cfg struct {
	*viper.Viper

	Root, runCmd, versionCmd *cobra.Command
}

type option struct {
	name, usage string
	defaultVal  string
}

// options is the declarative flag table: every setting the program accepts
// on the command line, mirrored into the HFIRE_ environment namespace and
// the config file by Viper automatically once bound.
var options = []option{
	{"config", "path to the simulation configuration file", ""},
	{"output_dir", "directory to write CSV/raster/image outputs into", "."},
	{"log_file", "path to the per-run log file (relative to output_dir if not absolute)", "hfire.log"},
	{"rand_num_seed", "overrides SIMULATION_RAND_NUM_SEED", ""},
	{"timestep_secs", "overrides SIMULATION_TIMESTEP_SECS", ""},
	{"extinction_hours", "overrides FIRE_EXTINCTION_HOURS", ""},
	{"extinction_ros_mps", "overrides FIRE_EXTINCTION_ROS_MPS", ""},
	{"failed_ignition_num_cells", "overrides FIRE_FAILED_IGNITION_NUM_CELLS", ""},
	{"cli_profile", "path to a TOML file of default CLI option values, lowest precedence after flag/env/config file", ""},
}

// overrideKeys maps an option's flag name to the config.Settings key it
// overrides when explicitly set via flag or HFIRE_ environment variable.
var overrideKeys = map[string]string{
	"rand_num_seed":             "SIMULATION_RAND_NUM_SEED",
	"timestep_secs":             "SIMULATION_TIMESTEP_SECS",
	"extinction_hours":          "FIRE_EXTINCTION_HOURS",
	"extinction_ros_mps":        "FIRE_EXTINCTION_ROS_MPS",
	"failed_ignition_num_cells": "FIRE_FAILED_IGNITION_NUM_CELLS",
}

// ApplyOverrides layers cfg's explicitly-set flag/environment values onto s,
// the settings table config.Load parsed from the config file, completing
// the flag > env > config file > default precedence chain: s already holds
// the config-file/default layer, this adds the flag/env layer on top.
func ApplyOverrides(cfg *Cfg, s *config.Settings) {
	for flagName, settingsKey := range overrideKeys {
		flag := cfg.Root.PersistentFlags().Lookup(flagName)
		_, inEnv := os.LookupEnv("HFIRE_" + strings.ToUpper(flagName))
		if (flag == nil || !flag.Changed) && !inEnv {
			continue
		}
		if v := cfg.GetString(flagName); v != "" {
			s.Set(settingsKey, v)
		}
	}
}

// New builds the command tree and returns the bound Cfg. RunFunc is called
// by both the root command (when given a config file argument) and the
// explicit "run" subcommand.
func New(runFunc func(cfg *Cfg) error) *Cfg {
	cfg := &Cfg{Viper: viper.New()}
	cfg.SetEnvPrefix("HFIRE")
	cfg.AutomaticEnv()

	cfg.Root = &cobra.Command{
		Use:   "hfire [config file]",
		Short: "A cellular wildland fire spread simulator.",
		Long: `hfire simulates wildland fire ignition, spread, and extinction on a
raster grid under configurable weather and fuel conditions.

Configuration can be set via command-line flags, via HFIRE_-prefixed
environment variables, or via the config file named positionally (or with
--config). Precedence is flag > environment > config file > default.`,
		Args:              cobra.MaximumNArgs(1),
		DisableAutoGenTag: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				cfg.Set("config", args[0])
			}
			if err := bindConfig(cfg); err != nil {
				return err
			}
			return runFunc(cfg)
		},
	}

	cfg.runCmd = &cobra.Command{
		Use:               "run [config file]",
		Short:             "Run a simulation (explicit form of the root command).",
		Args:              cobra.MaximumNArgs(1),
		DisableAutoGenTag: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				cfg.Set("config", args[0])
			}
			if err := bindConfig(cfg); err != nil {
				return err
			}
			return runFunc(cfg)
		},
	}

	cfg.versionCmd = &cobra.Command{
		Use:               "version",
		Short:             "Print the version number.",
		DisableAutoGenTag: true,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "hfire v%s\n", Version)
		},
	}

	for _, o := range options {
		cfg.Root.PersistentFlags().String(o.name, o.defaultVal, o.usage)
		cfg.BindPFlag(o.name, cfg.Root.PersistentFlags().Lookup(o.name))
	}

	cfg.Root.AddCommand(cfg.runCmd, cfg.versionCmd)
	return cfg
}

// bindConfig loads the optional cli_profile defaults, then checks that the
// config file named by the "config" setting, if any, exists. The file's
// contents are parsed later by config.Load, not by Viper.
func bindConfig(cfg *Cfg) error {
	if err := loadProfile(cfg); err != nil {
		return err
	}
	path := cfg.GetString("config")
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		return errs.Wrap(errs.Config, "cliutil.bindConfig", "locating config file", err)
	}
	return nil
}

// loadProfile decodes cli_profile's TOML file, if set, into a flat table of
// default option values. Viper's SetDefault sits below flag/env/explicit
// config-file values, so a profile only fills in options the user didn't
// otherwise specify.
func loadProfile(cfg *Cfg) error {
	path := cfg.GetString("cli_profile")
	if path == "" {
		return nil
	}
	var profile map[string]string
	if _, err := toml.DecodeFile(path, &profile); err != nil {
		return errs.Wrap(errs.Config, "cliutil.loadProfile", "decoding cli_profile", err)
	}
	for k, v := range profile {
		cfg.SetDefault(k, v)
	}
	return nil
}

// OpenLog opens the per-run log file under cfg's output_dir and points the
// standard log package at an io.MultiWriter of the command's own stdout and
// that file, mirroring the teacher's Run function.
func OpenLog(cmd *cobra.Command, cfg *Cfg) (*os.File, error) {
	dir := cfg.GetString("output_dir")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errs.Wrap(errs.IO, "cliutil.OpenLog", "creating output directory", err)
	}
	logPath := cfg.GetString("log_file")
	if !filepath.IsAbs(logPath) {
		logPath = filepath.Join(dir, logPath)
	}
	f, err := os.Create(logPath)
	if err != nil {
		return nil, errs.Wrap(errs.IO, "cliutil.OpenLog", "creating log file", err)
	}
	mw := io.MultiWriter(cmd.OutOrStdout(), f)
	log.SetOutput(mw)
	return f, nil
}

// ExitCode maps an internal error kind to a process exit code, the only
// place the kind taxonomy is translated into an operating-system-visible
// signal.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var e *errs.E
	if errors.As(err, &e) {
		switch e.Kind {
		case errs.Config:
			return 2
		case errs.IO:
			return 3
		case errs.Domain:
			return 4
		}
	}
	return 1
}
