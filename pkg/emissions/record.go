// Package emissions maps a time series of per-country CO2 records onto the
// visual state of the choropleth: year snapshots, color domains, the
// comparison selection and the derived chart data.
package emissions

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// WorldCode is the aggregate code used by the dataset for world totals.
const WorldCode = "WLD"

// Value is an emission figure that may be absent. Zero is a valid figure and
// is never treated as missing.
type Value struct {
	V     float64
	Valid bool
}

// Some returns a present value.
func Some(v float64) Value { return Value{V: v, Valid: true} }

// None is the absent value.
var None = Value{}

// Or returns the value, or def when it is absent.
func (v Value) Or(def float64) float64 {
	if !v.Valid {
		return def
	}
	return v.V
}

func (v Value) MarshalJSON() ([]byte, error) {
	if !v.Valid {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(v.V, 'f', -1, 64)), nil
}

func (v *Value) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) || len(b) == 0 {
		*v = None
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*v = Some(f)
	return nil
}

// Record is one (country, year, value) row of the emissions dataset.
type Record struct {
	CountryCode string `json:"country_code"`
	CountryName string `json:"country_name"`
	Year        int    `json:"year"`
	Value       Value  `json:"value"`
}

// Lookup returns the record for code in year. Duplicates resolve to the last
// one in the sequence, matching Resolve.
func Lookup(records []Record, code string, year int) (Record, bool) {
	var found Record
	ok := false
	for _, r := range records {
		if r.Year == year && r.CountryCode == code {
			found, ok = r, true
		}
	}
	return found, ok
}

// CodeSet is the set of country codes known to the map.
type CodeSet map[string]struct{}

func NewCodeSet(codes ...string) CodeSet {
	s := make(CodeSet, len(codes))
	for _, c := range codes {
		s[c] = struct{}{}
	}
	return s
}

func (s CodeSet) Has(code string) bool {
	_, ok := s[code]
	return ok
}
