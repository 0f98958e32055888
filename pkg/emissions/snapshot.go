package emissions

import "sort"

// SuccessorCutoff is the first year in which every successor state reports
// its own figure.
const SuccessorCutoff = 1990

// SuccessorStates receive Russia's figure for every year before
// SuccessorCutoff. The list includes RUS itself.
var SuccessorStates = []string{
	"ARM", "AZE", "BLR", "EST", "GEO", "KAZ", "KGZ", "LVA", "LTU", "MDA",
	"TKM", "TJK", "UKR", "UZB", "RUS", "DEU", "CZE", "SVK", "POL",
}

const successorSource = "RUS"

// Snapshot maps country codes to their emission value for a single year.
// A code missing from the snapshot has no data; it is not zero.
type Snapshot struct {
	Year   int
	values map[string]float64
}

// Lookup reports the value for code and whether any record contributed one.
func (s Snapshot) Lookup(code string) (float64, bool) {
	v, ok := s.values[code]
	return v, ok
}

// Value is Lookup as an optional value.
func (s Snapshot) Value(code string) Value {
	if v, ok := s.values[code]; ok {
		return Some(v)
	}
	return None
}

func (s Snapshot) Len() int { return len(s.values) }

// Codes returns the codes present in the snapshot in sorted order.
func (s Snapshot) Codes() []string {
	codes := make([]string, 0, len(s.values))
	for c := range s.values {
		codes = append(codes, c)
	}
	sort.Strings(codes)
	return codes
}

// Values returns a copy of the underlying mapping.
func (s Snapshot) Values() map[string]float64 {
	out := make(map[string]float64, len(s.values))
	for c, v := range s.values {
		out[c] = v
	}
	return out
}

// Resolve builds the snapshot for year from scratch.
//
// Before SuccessorCutoff the RUS record is broadcast to every code in
// SuccessorStates. Directly reported records are applied afterwards, so a
// successor state that reports its own figure for a pre-1990 year keeps it.
// Records without a value contribute nothing. Duplicate records for the same
// code resolve to the last one.
func Resolve(records []Record, year int) Snapshot {
	values := make(map[string]float64)
	if year < SuccessorCutoff {
		for _, r := range records {
			if r.Year != year || r.CountryCode != successorSource || !r.Value.Valid {
				continue
			}
			for _, code := range SuccessorStates {
				values[code] = r.Value.V
			}
		}
	}
	for _, r := range records {
		if r.Year != year || !r.Value.Valid {
			continue
		}
		if r.CountryCode == successorSource && year < SuccessorCutoff {
			continue
		}
		values[r.CountryCode] = r.Value.V
	}
	return Snapshot{Year: year, values: values}
}
