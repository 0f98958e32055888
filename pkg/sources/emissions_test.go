package sources

import (
	"errors"
	"strings"
	"testing"
)

func TestParseEmissions(t *testing.T) {
	data := `[
		{"country_code": "USA", "country_name": "United States", "year": 1960, "value": 2890696.1},
		{"country_code": "FRA", "country_name": "France", "year": "1960", "value": 0},
		{"country_code": "AFG", "country_name": "Afghanistan", "year": 1960, "value": null},
		{"country_code": "", "country_name": "Nowhere", "year": 1960, "value": 1},
		{"country_code": "XXX", "country_name": "Bad", "year": "soon", "value": 1}
	]`
	records, err := ParseEmissions(strings.NewReader(data))
	if err != nil {
		t.Fatalf("ParseEmissions failed: %v", err)
	}

	if len(records) != 3 {
		t.Fatalf("Expected 3 records, got %d", len(records))
	}
	if r := records[0]; r.CountryCode != "USA" || r.Year != 1960 || r.Value.V != 2890696.1 {
		t.Errorf("Unexpected record: %+v", r)
	}
	if r := records[1]; r.Year != 1960 || !r.Value.Valid || r.Value.V != 0 {
		t.Errorf("string year or zero value mishandled: %+v", r)
	}
	if r := records[2]; r.Value.Valid {
		t.Errorf("null value should be absent: %+v", r)
	}
}

func TestParseEmissionsErrors(t *testing.T) {
	if _, err := ParseEmissions(strings.NewReader(`[]`)); !errors.Is(err, ErrEmptyDataset) {
		t.Errorf("empty array: err = %v; want ErrEmptyDataset", err)
	}
	if _, err := ParseEmissions(strings.NewReader(`{"oops": true}`)); err == nil {
		t.Errorf("object input should fail")
	}
}
