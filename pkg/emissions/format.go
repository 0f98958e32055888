package emissions

import (
	"math"
	"strconv"
	"strings"
)

var compactUnits = []struct {
	div    float64
	suffix string
}{
	{1, ""},
	{1e3, "K"},
	{1e6, "M"},
	{1e9, "B"},
	{1e12, "T"},
}

// FormatCompact formats v in en-US compact notation with at most two
// fraction digits: 1234 -> "1.23K", 2890696.1 -> "2.89M".
func FormatCompact(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	if math.IsInf(v, 0) {
		if v < 0 {
			return "-∞"
		}
		return "∞"
	}
	sign := ""
	if v < 0 {
		sign, v = "-", -v
	}
	u := 0
	for u+1 < len(compactUnits) && v >= compactUnits[u+1].div {
		u++
	}
	scaled := round2(v / compactUnits[u].div)
	// 999999 rounds to 1000K; promote it to 1M.
	if scaled >= 1000 && u+1 < len(compactUnits) {
		u++
		scaled = round2(v / compactUnits[u].div)
	}
	s := strconv.FormatFloat(scaled, 'f', 2, 64)
	s = strings.TrimRight(strings.TrimRight(s, "0"), ".")
	return sign + s + compactUnits[u].suffix
}

// TooltipText is the label shown when a country is clicked.
func TooltipText(name string, v Value) string {
	text := "Data not available"
	if v.Valid {
		text = FormatCompact(v.V)
	}
	return name + "\nCO2 Emission: " + text
}
