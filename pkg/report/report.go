// Package report renders the current map state as an HTML page of echarts
// charts: the top emitters of the year, a bar chart per selected country and
// the pie comparisons.
package report

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/sudorandom/co2-atlas/pkg/emissions"
)

const DefaultAssetsHost = "https://go-echarts.github.io/go-echarts-assets/assets/"

type Options struct {
	AssetsHost string
	// TopN is how many of the year's largest emitters to chart. Zero means 15.
	TopN int
}

// Emitter is one bar of the top emitters chart.
type Emitter struct {
	Code  string
	Value float64
	Color string
}

// TopEmitters returns the n largest values of the snapshot among map codes,
// colored with the state's scale.
func TopEmitters(d emissions.Data, st emissions.State, n int) []Emitter {
	var out []Emitter
	for code, v := range st.Snapshot.Values() {
		if !d.MapCodes.Has(code) {
			continue
		}
		out = append(out, Emitter{Code: code, Value: v, Color: emissions.Hex(st.Scale.Color(emissions.Some(v)))})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Value != out[j].Value {
			return out[i].Value > out[j].Value
		}
		return out[i].Code < out[j].Code
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// Render writes the page for st to w.
func Render(w io.Writer, d emissions.Data, st emissions.State, o Options) error {
	if o.AssetsHost == "" {
		o.AssetsHost = DefaultAssetsHost
	}
	if o.TopN <= 0 {
		o.TopN = 15
	}

	page := components.NewPage()
	page.PageTitle = fmt.Sprintf("CO2 emissions %d", st.Year)
	page.SetAssetsHost(o.AssetsHost)
	page.SetLayout(components.PageFlexLayout)

	page.AddCharts(topChart(d, st, o))
	for _, cs := range st.Comparison.Series {
		page.AddCharts(seriesChart(cs, o))
	}
	for _, p := range st.Comparison.Pairs {
		page.AddCharts(pieChart(p, o))
	}
	if err := page.Render(w); err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	return nil
}

func topChart(d emissions.Data, st emissions.State, o Options) *charts.Bar {
	top := TopEmitters(d, st, o.TopN)
	x := make([]string, 0, len(top))
	y := make([]opts.BarData, 0, len(top))
	for _, e := range top {
		x = append(x, e.Code)
		y = append(y, opts.BarData{Name: e.Code, Value: e.Value, ItemStyle: &opts.ItemStyle{Color: e.Color}})
	}

	subtitle := "no data"
	if st.Domain.Valid {
		subtitle = fmt.Sprintf("range %s to %s", emissions.FormatCompact(st.Domain.Min), emissions.FormatCompact(st.Domain.Max))
	}
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Theme: "dark", Width: "1000px", Height: "400px", AssetsHost: o.AssetsHost}),
		charts.WithTitleOpts(opts.Title{Title: fmt.Sprintf("Largest emitters, %d", st.Year), Subtitle: subtitle}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(x).AddSeries("emissions", y)
	return bar
}

func seriesChart(cs emissions.CountrySeries, o Options) *charts.Bar {
	x := make([]string, 0, len(cs.Points))
	y := make([]opts.BarData, 0, len(cs.Points))
	for _, p := range cs.Points {
		x = append(x, strconv.Itoa(p.Year))
		var v interface{}
		if p.Value.Valid {
			v = p.Value.V
		}
		y = append(y, opts.BarData{Value: v})
	}
	name := cs.Country.Name
	if name == "" {
		name = cs.Country.Code
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Theme: "dark", Width: "500px", Height: "300px", AssetsHost: o.AssetsHost}),
		charts.WithTitleOpts(opts.Title{Title: name}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{Min: 0, Max: cs.Max()}),
	)
	bar.SetXAxis(x).AddSeries(cs.Country.Code, y, charts.WithItemStyleOpts(opts.ItemStyle{Color: cs.Color}))
	return bar
}

func pieChart(p emissions.PiePair, o Options) *charts.Pie {
	data := make([]opts.PieData, 0, len(p.Slices))
	for _, s := range p.Slices {
		data = append(data, opts.PieData{Name: SliceLabel(s), Value: s.Value, ItemStyle: &opts.ItemStyle{Color: s.Color}})
	}
	title := "Country comparison"
	if p.Kind == emissions.PairWorld {
		title = "Share of world"
	}

	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Theme: "dark", Width: "500px", Height: "300px", AssetsHost: o.AssetsHost}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: strconv.Itoa(p.Year)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	pie.AddSeries(string(p.Kind), data,
		charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Formatter: "{b}"}),
		charts.WithPieChartOpts(opts.PieChart{Radius: "60%"}),
	)
	return pie
}

// SliceLabel is the legend text of a pie slice.
func SliceLabel(s emissions.Slice) string {
	return fmt.Sprintf("%s (%.2f%%)", s.Label, s.Share)
}
