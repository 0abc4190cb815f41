// Package config parses the simulation's flat key/value configuration file
// and its supporting fuel-definition (FMD) file, producing the typed
// settings the rest of the program consumes. Grounded on the teacher's
// inmaputil/cmd.go declarative-options approach, adapted from a Viper/Cobra
// flag table to the core's simpler line-oriented file format (Viper/Cobra
// remain the CLI-layer's job, in cliutil).
package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/RohanGharibgard/hfire-sub000/fuel"
	"github.com/RohanGharibgard/hfire-sub000/internal/errs"
)

// Null is the sentinel value that disables whichever key carries it.
const Null = "NULL"

// Settings is the flat key/value table loaded from a configuration file.
// Typed accessors below convert and validate individual keys on demand,
// rather than eagerly populating a fixed struct, so that a config file
// naming only the keys a particular run needs never trips a missing-field
// error for sections it doesn't use.
type Settings struct {
	Path   string
	values map[string]string
}

// Load reads and parses the configuration file at path. Lines are
// "KEY = value" or "KEY value"; '#'-prefixed and blank lines are ignored.
func Load(path string) (*Settings, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errs.Wrap(errs.IO, "config.Load", "opening config file", err)
	}
	defer f.Close()

	s := &Settings{Path: path, values: make(map[string]string)}
	scanner := bufio.NewScanner(f)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, val, err := splitKV(line)
		if err != nil {
			return nil, errs.New(errs.Config, "config.Load", fmt.Sprintf("line %d: %v", lineNum, err))
		}
		s.values[key] = val
	}
	if err := scanner.Err(); err != nil {
		return nil, errs.Wrap(errs.IO, "config.Load", "reading config file", err)
	}
	return s, nil
}

func splitKV(line string) (key, val string, err error) {
	if i := strings.Index(line, "="); i >= 0 {
		return strings.TrimSpace(line[:i]), strings.TrimSpace(line[i+1:]), nil
	}
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return "", "", fmt.Errorf("expected 'KEY = value' or 'KEY value', got %q", line)
	}
	return fields[0], strings.Join(fields[1:], " "), nil
}

// Set overrides key's raw string value, used by cliutil to apply
// command-line-flag and environment-variable overrides on top of a loaded
// file, per the flag > env > config file > default precedence order.
func (s *Settings) Set(key, val string) {
	s.values[key] = val
}

// IsNull reports whether key is present and set to the literal NULL.
func (s *Settings) IsNull(key string) bool {
	v, ok := s.values[key]
	return ok && v == Null
}

// Has reports whether key is present and not NULL.
func (s *Settings) Has(key string) bool {
	v, ok := s.values[key]
	return ok && v != Null
}

// String returns key's raw string value, or def if absent/NULL.
func (s *Settings) String(key, def string) string {
	if !s.Has(key) {
		return def
	}
	return s.values[key]
}

// Int parses key as an integer.
func (s *Settings) Int(key string, def int) (int, error) {
	if !s.Has(key) {
		return def, nil
	}
	v, err := strconv.Atoi(s.values[key])
	if err != nil {
		return 0, errs.Wrap(errs.Config, "config.Int", fmt.Sprintf("key %q", key), err)
	}
	return v, nil
}

// Float parses key as a float64.
func (s *Settings) Float(key string, def float64) (float64, error) {
	if !s.Has(key) {
		return def, nil
	}
	v, err := strconv.ParseFloat(s.values[key], 64)
	if err != nil {
		return 0, errs.Wrap(errs.Config, "config.Float", fmt.Sprintf("key %q", key), err)
	}
	return v, nil
}

// IntSlice parses key as a whitespace-separated list of integers.
func (s *Settings) IntSlice(key string) ([]int, error) {
	if !s.Has(key) {
		return nil, nil
	}
	fields := strings.Fields(s.values[key])
	out := make([]int, len(fields))
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return nil, errs.Wrap(errs.Config, "config.IntSlice", fmt.Sprintf("key %q", key), err)
		}
		out[i] = v
	}
	return out, nil
}

// RasterFamily bundles one raster-layer family's config keys
// (ELEV_, SLOPE_, FUELS_STATIC_, etc., per the prefix passed to Raster).
type RasterFamily struct {
	Format     string // ASCII | BINARY
	MainFile   string
	HeaderFile string
	Type       string // BYTE | INT | LONGINT | FLOAT | DOUBLE
}

// Raster reads a raster-layer family's settings for the given key prefix
// (e.g. "ELEV_"). Returns ok=false if the family is NULL-disabled or absent.
func (s *Settings) Raster(prefix string) (RasterFamily, bool) {
	mainKey := prefix + "RASTER_MAIN_FILE"
	if !s.Has(mainKey) {
		return RasterFamily{}, false
	}
	return RasterFamily{
		Format:     s.String(prefix+"RASTER_FORMAT", "ASCII"),
		MainFile:   s.values[mainKey],
		HeaderFile: s.String(prefix+"RASTER_HEADER_FILE", ""),
		Type:       s.String(prefix+"RASTER_TYPE", "FLOAT"),
	}, true
}

// FMDFile parses a fuel-definition file: a leading ENGLISH|METRIC unit
// token, then one row per fuel model of exactly 12 numeric fields, per
// Section 6's field order. Grounded on fuel.Record's field layout.
func FMDFile(path string) ([]fuel.Record, fuel.System, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, errs.Wrap(errs.IO, "config.FMDFile", "opening FMD file", err)
	}
	defer f.Close()

	units := fuel.English
	unitsSet := false
	var records []fuel.Record

	scanner := bufio.NewScanner(f)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := tokenizeFMD(line)
		if !unitsSet {
			switch strings.ToUpper(fields[0]) {
			case "ENGLISH":
				units = fuel.English
			case "METRIC":
				units = fuel.Metric
			default:
				return nil, 0, errs.New(errs.Config, "config.FMDFile", fmt.Sprintf("line %d: expected ENGLISH or METRIC, got %q", lineNum, fields[0]))
			}
			unitsSet = true
			continue
		}
		if len(fields) != 13 {
			return nil, 0, errs.New(errs.Config, "config.FMDFile", fmt.Sprintf("line %d: expected model number + 12 fields, got %d tokens", lineNum, len(fields)))
		}
		rec, err := parseFMDRow(fields)
		if err != nil {
			return nil, 0, errs.New(errs.Config, "config.FMDFile", fmt.Sprintf("line %d: %v", lineNum, err))
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, 0, errs.Wrap(errs.IO, "config.FMDFile", "reading FMD file", err)
	}
	return records, units, nil
}

func tokenizeFMD(line string) []string {
	replacer := strings.NewReplacer(",", " ", "=", " ", "\t", " ")
	return strings.Fields(replacer.Replace(line))
}

func parseFMDRow(fields []string) (fuel.Record, error) {
	vals := make([]float64, 13)
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return fuel.Record{}, fmt.Errorf("field %d (%q): %v", i, f, err)
		}
		vals[i] = v
	}
	return fuel.Record{
		Number:      int(vals[0]),
		D1HLoad:     vals[1],
		D10HLoad:    vals[2],
		D100HLoad:   vals[3],
		LHLoad:      vals[4],
		LWLoad:      vals[5],
		D1HSAV:      vals[6],
		LHSAV:       vals[7],
		LWSAV:       vals[8],
		Depth:       vals[9],
		ExtMoistPct: vals[10],
		DeadHC:      vals[11],
		LiveHC:      vals[12],
	}, nil
}
