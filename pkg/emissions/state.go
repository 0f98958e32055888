package emissions

import (
	"errors"
	"fmt"
)

// Default year range of the dataset.
const (
	DefaultMinYear = 1960
	DefaultMaxYear = 2019
)

var ErrYearOutOfRange = errors.New("year out of range")

// Data is the immutable input every transition is computed from.
type Data struct {
	Records  []Record
	MapCodes CodeSet
	MinYear  int
	MaxYear  int
}

// NewData builds Data for records and the map feature codes using the
// default year range.
func NewData(records []Record, mapCodes []string) Data {
	return Data{
		Records:  records,
		MapCodes: NewCodeSet(mapCodes...),
		MinYear:  DefaultMinYear,
		MaxYear:  DefaultMaxYear,
	}
}

// CheckYear reports whether year lies in the data's range.
func (d Data) CheckYear(year int) error {
	if year < d.MinYear || year > d.MaxYear {
		return fmt.Errorf("%w: %d not in [%d, %d]", ErrYearOutOfRange, year, d.MinYear, d.MaxYear)
	}
	return nil
}

func (d Data) clamp(year int) int {
	if year < d.MinYear {
		return d.MinYear
	}
	if year > d.MaxYear {
		return d.MaxYear
	}
	return year
}

// State is the visual state after a transition. A State is never modified;
// Apply returns a new one.
type State struct {
	Revision   uint64
	Year       int
	Snapshot   Snapshot
	Domain     ColorDomain
	Scale      ColorScale
	Selection  Selection
	Comparison Comparison
	Playing    bool
	// PlaybackRun identifies the current playback run; ticks from an older
	// run are ignored.
	PlaybackRun uint64
	// ViewEpoch changes whenever the map view must be recentered.
	ViewEpoch uint64
}

// NewState resolves the initial state for year.
func NewState(d Data, year int) State {
	return withYear(d, State{Revision: 1}, d.clamp(year))
}

func withYear(d Data, s State, year int) State {
	s.Year = year
	s.Snapshot = Resolve(d.Records, year)
	s.Domain = ComputeDomain(s.Snapshot, d.MapCodes)
	s.Scale = NewColorScale(s.Domain)
	s.Comparison = Compare(d.Records, s.Selection, year)
	return s
}

// Event is a user or timer input.
type Event interface {
	eventName() string
}

type (
	SetYear       struct{ Year int }
	SelectCountry struct{ Code, Name string }
	Play          struct{}
	Pause         struct{}
	TogglePlay    struct{}
	Recenter      struct{}
	// PlaybackTick advances the year; Run must match State.PlaybackRun.
	PlaybackTick struct{ Run uint64 }
)

func (SetYear) eventName() string       { return "set_year" }
func (SelectCountry) eventName() string { return "select_country" }
func (Play) eventName() string          { return "play" }
func (Pause) eventName() string         { return "pause" }
func (TogglePlay) eventName() string    { return "toggle_play" }
func (Recenter) eventName() string      { return "recenter" }
func (PlaybackTick) eventName() string  { return "tick" }

// EventName returns a stable name for ev, used in logs and metrics.
func EventName(ev Event) string {
	if ev == nil {
		return "none"
	}
	return ev.eventName()
}

// Apply computes the state that follows s after ev. Events that change
// nothing return s unchanged, including its Revision.
func Apply(d Data, s State, ev Event) State {
	next := s
	switch ev := ev.(type) {
	case SetYear:
		year := d.clamp(ev.Year)
		if year == s.Year {
			return s
		}
		next = withYear(d, next, year)
	case SelectCountry:
		if s.Selection.Contains(ev.Code) {
			return s
		}
		next.Selection = s.Selection.Select(ev.Code, ev.Name)
		next.Comparison = Compare(d.Records, next.Selection, s.Year)
	case Play:
		if s.Playing {
			return s
		}
		next = startPlayback(next)
	case Pause:
		if !s.Playing {
			return s
		}
		next.Playing = false
	case TogglePlay:
		if s.Playing {
			next.Playing = false
		} else {
			next = startPlayback(next)
		}
	case Recenter:
		next.ViewEpoch++
	case PlaybackTick:
		if !s.Playing || ev.Run != s.PlaybackRun {
			return s
		}
		step := Tick(s.Year, d.MaxYear)
		if !step.Continue {
			next.Playing = false
		} else {
			next = withYear(d, next, step.Year)
		}
	default:
		return s
	}
	next.Revision = s.Revision + 1
	return next
}

// Starting playback also recenters the map.
func startPlayback(s State) State {
	s.Playing = true
	s.PlaybackRun++
	s.ViewEpoch++
	return s
}
