package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"go.uber.org/zap"

	"github.com/sudorandom/co2-atlas/pkg/emissions"
	"github.com/sudorandom/co2-atlas/pkg/logging"
	"github.com/sudorandom/co2-atlas/pkg/report"
	"github.com/sudorandom/co2-atlas/pkg/server"
	"github.com/sudorandom/co2-atlas/pkg/sources"
)

var cli struct {
	Sources sources.Flags `embed:""`
	Log     logging.Flags `embed:"" prefix:"log-"`

	Year   int      `help:"Year to resolve." default:"1960"`
	Select []string `help:"Country code to add to the selection, oldest first. Repeatable." short:"s"`
	Top    int      `help:"Number of largest emitters to list." default:"10"`
	JSON   bool     `help:"Print the state view as JSON instead."`
}

func main() {
	kong.Parse(&cli,
		kong.Name("co2-inspect"),
		kong.Description("Prints the resolved map state for a year and selection."))

	logger, err := cli.Log.Logger()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ds, err := cli.Sources.Load(context.Background(), logger)
	if err != nil {
		logger.Fatal("failed to load data", zap.Error(err))
	}
	d := ds.Data(cli.Sources.MinYear, cli.Sources.MaxYear)
	if err := d.CheckYear(cli.Year); err != nil {
		logger.Fatal("invalid year", zap.Error(err))
	}
	st := resolve(d, cli.Year, cli.Select)

	if cli.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(server.NewView(d, st)); err != nil {
			logger.Fatal("failed to encode", zap.Error(err))
		}
		return
	}
	printState(os.Stdout, d, st, cli.Top)
}

// resolve builds the state for year with codes selected in order.
func resolve(d emissions.Data, year int, codes []string) emissions.State {
	st := emissions.NewState(d, year)
	for _, code := range codes {
		code = strings.ToUpper(code)
		st = emissions.Apply(d, st, emissions.SelectCountry{Code: code, Name: countryName(d.Records, code)})
	}
	return st
}

func countryName(records []emissions.Record, code string) string {
	for _, r := range records {
		if r.CountryCode == code && r.CountryName != "" {
			return r.CountryName
		}
	}
	return sources.CountryName(code)
}

func printState(w io.Writer, d emissions.Data, st emissions.State, top int) {
	line := strings.Repeat("-", 50)
	fmt.Fprintf(w, "CO2 emissions, %d\n", st.Year)
	fmt.Fprintln(w, line)
	fmt.Fprintf(w, "Snapshot:   %d countries (%d map codes)\n", st.Snapshot.Len(), len(d.MapCodes))
	fmt.Fprintf(w, "Domain:     %s\n", st.Domain)
	lo, hi := "no data", "no data"
	if st.Scale.Valid {
		lo, hi = emissions.FormatCompact(st.Scale.Low()), emissions.FormatCompact(st.Scale.High())
	}
	fmt.Fprintf(w, "Legend:     %s .. %s\n", lo, hi)
	fmt.Fprintln(w, line)

	if top > 0 {
		fmt.Fprintf(w, "Top %d emitters:\n", top)
		for i, e := range report.TopEmitters(d, st, top) {
			fmt.Fprintf(w, "  %2d. %-4s %10s  %s\n", i+1, e.Code, emissions.FormatCompact(e.Value), e.Color)
		}
		fmt.Fprintln(w, line)
	}

	countries := st.Selection.Countries()
	if len(countries) == 0 {
		fmt.Fprintln(w, "Selection:  empty")
		return
	}
	fmt.Fprintln(w, "Selection:")
	for _, cs := range st.Comparison.Series {
		present := 0
		for _, p := range cs.Points {
			if p.Value.Valid {
				present++
			}
		}
		fmt.Fprintf(w, "  %s %-20s %d years (%d with data), max %s, %s\n",
			cs.Country.Code, cs.Country.Name, len(cs.Points), present, emissions.FormatCompact(cs.Max()), cs.Color)
		fmt.Fprintf(w, "      %s\n", emissions.TooltipText(cs.Country.Name, st.Snapshot.Value(cs.Country.Code)))
	}
	if len(st.Comparison.Pairs) > 0 {
		fmt.Fprintln(w, line)
		fmt.Fprintln(w, "Pie pairs:")
		for _, p := range st.Comparison.Pairs {
			fmt.Fprintf(w, "  [%s] %s / %s\n", p.Kind, report.SliceLabel(p.Slices[0]), report.SliceLabel(p.Slices[1]))
		}
	}
}
