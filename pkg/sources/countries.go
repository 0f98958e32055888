package sources

import (
	"strings"

	"github.com/biter777/countries"
)

// CountryName returns the English short name for an ISO code, or "" when the
// code is not a country (aggregates such as WLD, or "-99" placeholders).
func CountryName(code string) string {
	countryName := countries.ByName(code).String()
	if countryName == "Unknown" {
		return ""
	}
	if idx := strings.Index(countryName, " ("); idx != -1 {
		countryName = countryName[:idx]
	}
	if strings.Contains(countryName, "Hong Kong") {
		countryName = "Hong Kong"
	}
	if strings.Contains(countryName, "Macao") {
		countryName = "Macao"
	}
	if strings.Contains(countryName, "Taiwan") {
		countryName = "Taiwan"
	}
	return countryName
}

// recordName returns name, or the ISO table name for code when name is
// empty. Lookups are memoized in names.
func recordName(names map[string]string, code, name string) string {
	if name != "" {
		return name
	}
	if n, ok := names[code]; ok {
		return n
	}
	n := CountryName(code)
	names[code] = n
	return n
}
