package sources

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/sudorandom/co2-atlas/pkg/emissions"
)

var ErrEmptyDataset = errors.New("dataset is empty")

// rawRecord accepts the year either as a number or as a string, which is how
// some exports of the dataset encode it.
type rawRecord struct {
	CountryCode string          `json:"country_code"`
	CountryName string          `json:"country_name"`
	Year        json.RawMessage `json:"year"`
	Value       emissions.Value `json:"value"`
}

// ParseEmissions decodes a JSON array of emission records, keeping their
// order. Records without a country code or a readable year are skipped.
func ParseEmissions(r io.Reader) ([]emissions.Record, error) {
	var raw []rawRecord
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode emissions: %w", err)
	}
	records := make([]emissions.Record, 0, len(raw))
	for _, rr := range raw {
		if rr.CountryCode == "" {
			continue
		}
		year, err := parseYear(rr.Year)
		if err != nil {
			continue
		}
		records = append(records, emissions.Record{
			CountryCode: rr.CountryCode,
			CountryName: rr.CountryName,
			Year:        year,
			Value:       rr.Value,
		})
	}
	if len(records) == 0 {
		return nil, ErrEmptyDataset
	}
	return records, nil
}

func parseYear(b json.RawMessage) (int, error) {
	b = bytes.TrimSpace(b)
	if len(b) > 1 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return 0, err
		}
		return strconv.Atoi(s)
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return 0, err
	}
	return int(f), nil
}
