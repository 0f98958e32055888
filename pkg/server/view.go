package server

import (
	"errors"
	"fmt"

	"github.com/sudorandom/co2-atlas/pkg/emissions"
)

// Domain is the JSON form of a valid color domain.
type Domain struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// View is the JSON view of a state sent to HTTP and websocket clients.
// Values and Colors only hold map codes; Colors has an entry for every map
// code, including those without data.
type View struct {
	Revision   uint64               `json:"revision"`
	Year       int                  `json:"year"`
	MinYear    int                  `json:"min_year"`
	MaxYear    int                  `json:"max_year"`
	Playing    bool                 `json:"playing"`
	ViewEpoch  uint64               `json:"view_epoch"`
	Domain     *Domain              `json:"domain"`
	Values     map[string]float64   `json:"values"`
	Colors     map[string]string    `json:"colors"`
	Selection  []emissions.Country  `json:"selection"`
	Comparison emissions.Comparison `json:"comparison"`
}

func NewView(d emissions.Data, st emissions.State) View {
	v := View{
		Revision:   st.Revision,
		Year:       st.Year,
		MinYear:    d.MinYear,
		MaxYear:    d.MaxYear,
		Playing:    st.Playing,
		ViewEpoch:  st.ViewEpoch,
		Values:     make(map[string]float64),
		Colors:     make(map[string]string, len(d.MapCodes)),
		Selection:  st.Selection.Countries(),
		Comparison: st.Comparison,
	}
	if st.Domain.Valid {
		v.Domain = &Domain{Min: st.Domain.Min, Max: st.Domain.Max}
	}
	for code := range d.MapCodes {
		val := st.Snapshot.Value(code)
		if val.Valid {
			v.Values[code] = val.V
		}
		v.Colors[code] = emissions.Hex(st.Scale.Color(val))
	}
	return v
}

var ErrUnknownCommand = errors.New("unknown command")

// Command is a message sent by a websocket client.
type Command struct {
	Type string `json:"type"`
	Year int    `json:"year,omitempty"`
	Code string `json:"code,omitempty"`
	Name string `json:"name,omitempty"`
}

// Event converts c to a state event.
func (c Command) Event() (emissions.Event, error) {
	switch c.Type {
	case "year":
		return emissions.SetYear{Year: c.Year}, nil
	case "select":
		if c.Code == "" {
			return nil, errors.New("select: missing code")
		}
		return emissions.SelectCountry{Code: c.Code, Name: c.Name}, nil
	case "play":
		return emissions.Play{}, nil
	case "pause":
		return emissions.Pause{}, nil
	case "toggle":
		return emissions.TogglePlay{}, nil
	case "recenter":
		return emissions.Recenter{}, nil
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownCommand, c.Type)
}

// Message is sent to websocket clients.
type Message struct {
	Type     string `json:"type"`
	ClientID string `json:"client_id,omitempty"`
	State    *View  `json:"state,omitempty"`
	Error    string `json:"error,omitempty"`
}
