package activity

// Criteria holds the optional constraints applied to an index. A zero value
// accepts every record.
type Criteria struct {
	// Types is the accepted set of activity types. Empty accepts all types.
	// Matching is a case-sensitive exact comparison; the type vocabulary is
	// closed and service-defined.
	Types []string
	// Year restricts records to a calendar year. Zero accepts all years.
	Year int
}

// Empty reports whether the criteria impose no constraints.
func (c Criteria) Empty() bool {
	return len(c.Types) == 0 && c.Year == 0
}

// Matches reports whether a record satisfies every constraint.
func (c Criteria) Matches(r Record) bool {
	if len(c.Types) > 0 && !containsType(c.Types, r.Type) {
		return false
	}
	if c.Year != 0 && r.Date.Year() != c.Year {
		return false
	}
	return true
}

// Filter returns the records matching the criteria, preserving source order.
// The input slice is never modified.
func Filter(records []Record, c Criteria) []Record {
	if c.Empty() {
		out := make([]Record, len(records))
		copy(out, records)
		return out
	}
	out := make([]Record, 0, len(records))
	for _, rec := range records {
		if c.Matches(rec) {
			out = append(out, rec)
		}
	}
	return out
}

func containsType(types []string, value string) bool {
	for _, t := range types {
		if t == value {
			return true
		}
	}
	return false
}
