package mapengine

import (
	"testing"

	"github.com/sudorandom/co2-atlas/pkg/emissions"
)

func TestLegendColors(t *testing.T) {
	scale := emissions.NewColorScale(emissions.ColorDomain{Min: 11, Max: 2890696.10, Valid: true})
	cols := legendColors(scale, legendWidth)
	if len(cols) != legendWidth {
		t.Fatalf("len = %d; want %d", len(cols), legendWidth)
	}
	first, last := cols[0], cols[len(cols)-1]
	if first.G <= first.R {
		t.Errorf("low end = %v; want green", first)
	}
	if last.R <= last.G {
		t.Errorf("high end = %v; want red", last)
	}

	for i, c := range legendColors(emissions.ColorScale{}, 10) {
		if c != emissions.NoDataColor {
			t.Errorf("invalid scale column %d = %v; want no data color", i, c)
		}
	}
}

func TestLegendLabels(t *testing.T) {
	lo, hi := legendLabels(emissions.DefaultScale)
	if lo != "11" || hi != "2.89M" {
		t.Errorf("legendLabels = (%q, %q); want (11, 2.89M)", lo, hi)
	}
	lo, hi = legendLabels(emissions.ColorScale{})
	if lo != "no data" || hi != "no data" {
		t.Errorf("invalid legendLabels = (%q, %q)", lo, hi)
	}
}
