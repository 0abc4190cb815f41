package fuel

// BuildModels turns a parsed FMD record set into a lookup table keyed by
// fuel-model number, flagging every number in unburnable as an
// Init-unburnable bed instead of a burnable one built from its record.
// Grounded on config.FMDFile's record list feeding directly into the
// per-model cache table the engine preloads at startup.
func BuildModels(records []Record, units System, unburnable []int) map[int]*Model {
	unb := make(map[int]bool, len(unburnable))
	for _, n := range unburnable {
		unb[n] = true
	}
	out := make(map[int]*Model, len(records))
	for _, rec := range records {
		if unb[rec.Number] {
			out[rec.Number] = NewUnburnable(rec.Number)
			continue
		}
		out[rec.Number] = NewFromRecord(rec, units)
	}
	for n := range unb {
		if _, ok := out[n]; !ok {
			out[n] = NewUnburnable(n)
		}
	}
	return out
}
