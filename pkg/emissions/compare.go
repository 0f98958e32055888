package emissions

import (
	"math"
	"sort"
)

// Category10 is the categorical palette used for the comparison charts.
var Category10 = []string{
	"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd",
	"#8c564b", "#e377c2", "#7f7f7f", "#bcbd22", "#17becf",
}

// BarPoint is one year of a country's history. Absent values stay absent.
type BarPoint struct {
	Year  int   `json:"year"`
	Value Value `json:"value"`
}

// BarSeries returns every record for code in year order. Duplicate years
// resolve to the last record, like Resolve.
func BarSeries(records []Record, code string) []BarPoint {
	byYear := make(map[int]int)
	var series []BarPoint
	for _, r := range records {
		if r.CountryCode != code {
			continue
		}
		if i, ok := byYear[r.Year]; ok {
			series[i].Value = r.Value
			continue
		}
		byYear[r.Year] = len(series)
		series = append(series, BarPoint{Year: r.Year, Value: r.Value})
	}
	sort.SliceStable(series, func(i, j int) bool { return series[i].Year < series[j].Year })
	return series
}

// CountrySeries is the bar chart data for one selected country.
type CountrySeries struct {
	Country Country    `json:"country"`
	Color   string     `json:"color"`
	Points  []BarPoint `json:"points"`
}

// Max returns the largest present value of the series, or 0.
func (cs CountrySeries) Max() float64 {
	m := 0.0
	for _, p := range cs.Points {
		if p.Value.Valid && p.Value.V > m {
			m = p.Value.V
		}
	}
	return m
}

// TickYears returns every tenth year plus the last one, the labels used on
// the bar chart axis.
func (cs CountrySeries) TickYears() []int {
	var ticks []int
	for i, p := range cs.Points {
		if i%10 == 0 || i == len(cs.Points)-1 {
			ticks = append(ticks, p.Year)
		}
	}
	return ticks
}

// PairKind says what a pie pair compares.
type PairKind string

const (
	PairCountries PairKind = "countries"
	PairWorld     PairKind = "world"
)

// Slice is one half of a pie pair. Share is a percentage rounded to two
// decimals.
type Slice struct {
	Code  string  `json:"code"`
	Label string  `json:"label"`
	Value float64 `json:"value"`
	Share float64 `json:"share"`
	Color string  `json:"color"`
}

// PiePair is a two-slice comparison.
type PiePair struct {
	Kind   PairKind `json:"kind"`
	Year   int      `json:"year"`
	Slices [2]Slice `json:"slices"`
}

// AssemblePiePair compares a and b in year. A missing record or value counts
// as 0. When both values are 0 both shares are 0.
func AssemblePiePair(records []Record, a, b Country, year int) PiePair {
	sa := pieSlice(records, a, year)
	sb := pieSlice(records, b, year)
	sa.Share, sb.Share = Shares(sa.Value, sb.Value)
	return PiePair{Kind: PairCountries, Year: year, Slices: [2]Slice{sa, sb}}
}

func pieSlice(records []Record, c Country, year int) Slice {
	s := Slice{Code: c.Code, Label: c.Name}
	if r, ok := Lookup(records, c.Code, year); ok {
		s.Value = r.Value.Or(0)
		if r.CountryName != "" {
			s.Label = r.CountryName
		}
	}
	if s.Label == "" {
		s.Label = c.Code
	}
	return s
}

// Shares returns the percentage of a+b held by each value, rounded to two
// decimals.
func Shares(a, b float64) (float64, float64) {
	sum := a + b
	if sum == 0 || math.IsNaN(sum) {
		return 0, 0
	}
	return round2(a / sum * 100), round2(b / sum * 100)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Comparison is everything the charts need for the current selection.
type Comparison struct {
	Year   int             `json:"year"`
	Series []CountrySeries `json:"series"`
	Pairs  []PiePair       `json:"pairs"`
}

// World returns the pairs comparing a country with the world aggregate.
func (c Comparison) World() []PiePair {
	var out []PiePair
	for _, p := range c.Pairs {
		if p.Kind == PairWorld {
			out = append(out, p)
		}
	}
	return out
}

// Compare assembles the chart data for sel in year. Bar series are produced
// for every selected country; pie pairs only once two are selected. World
// pairs are omitted when the year has no world record.
func Compare(records []Record, sel Selection, year int) Comparison {
	cmp := Comparison{Year: year}
	for i, c := range sel.items {
		cmp.Series = append(cmp.Series, CountrySeries{
			Country: c,
			Color:   Category10[i%len(Category10)],
			Points:  BarSeries(records, c.Code),
		})
	}
	if !sel.Full() {
		return cmp
	}

	a, b := sel.items[0], sel.items[1]
	pair := AssemblePiePair(records, a, b, year)
	pair.Slices[0].Color, pair.Slices[1].Color = Category10[0], Category10[1]
	cmp.Pairs = append(cmp.Pairs, pair)

	world, ok := Lookup(records, WorldCode, year)
	if !ok {
		return cmp
	}
	w := Country{Code: WorldCode, Name: world.CountryName}
	for i, c := range sel.items {
		p := AssemblePiePair(records, c, w, year)
		p.Kind = PairWorld
		p.Slices[0].Color, p.Slices[1].Color = Category10[i], Category10[2]
		cmp.Pairs = append(cmp.Pairs, p)
	}
	return cmp
}
