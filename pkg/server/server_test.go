package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sudorandom/co2-atlas/pkg/emissions"
	"github.com/sudorandom/co2-atlas/pkg/metrics"
	"github.com/sudorandom/co2-atlas/pkg/session"
)

func testData() emissions.Data {
	var records []emissions.Record
	for year := 1988; year <= 1995; year++ {
		records = append(records,
			emissions.Record{CountryCode: "RUS", CountryName: "Russia", Year: year, Value: emissions.Some(2000)},
			emissions.Record{CountryCode: "FRA", CountryName: "France", Year: year, Value: emissions.Some(400)},
			emissions.Record{CountryCode: emissions.WorldCode, CountryName: "World", Year: year, Value: emissions.Some(20000)},
		)
	}
	d := emissions.NewData(records, []string{"RUS", "FRA", "UKR", "ATA"})
	d.MinYear, d.MaxYear = 1988, 1995
	return d
}

type fixture struct {
	ctrl *session.Controller
	srv  *Server
	http *httptest.Server
	reg  *prometheus.Registry
}

func newFixture(t *testing.T, load bool) *fixture {
	t.Helper()
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	ctrl := session.NewController(time.Hour, nil, m)
	if load {
		_, err := ctrl.Load(testData(), 1988)
		require.NoError(t, err)
	}
	srv := New(ctrl, Config{Metrics: m, Gatherer: reg, Interval: time.Hour})
	hs := httptest.NewServer(srv.Routes())
	t.Cleanup(func() {
		hs.Close()
		srv.Close()
		ctrl.Close()
	})
	return &fixture{ctrl: ctrl, srv: srv, http: hs, reg: reg}
}

func (f *fixture) get(t *testing.T, path string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get(f.http.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func TestNotLoaded(t *testing.T) {
	f := newFixture(t, false)
	for _, path := range []string{"/", "/api/state", "/ws"} {
		resp, _ := f.get(t, path)
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode, path)
	}
}

func TestState(t *testing.T) {
	f := newFixture(t, true)
	resp, body := f.get(t, "/api/state")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var v View
	require.NoError(t, json.Unmarshal([]byte(body), &v))
	assert.Equal(t, 1988, v.Year)
	assert.Equal(t, 1988, v.MinYear)
	assert.Equal(t, 1995, v.MaxYear)
	require.NotNil(t, v.Domain)
	assert.Equal(t, 400.0, v.Domain.Min)
	assert.Equal(t, 2000.0, v.Domain.Max)
	// UKR inherits Russia's value before 1990.
	assert.Equal(t, 2000.0, v.Values["UKR"])
	_, ok := v.Values["WLD"]
	assert.False(t, ok, "aggregates are not map codes")
	assert.Equal(t, "#cccccc", v.Colors["ATA"])
	assert.Len(t, v.Colors, 4)
}

func TestReport(t *testing.T) {
	f := newFixture(t, true)
	_, err := f.ctrl.Dispatch(emissions.SelectCountry{Code: "FRA", Name: "France"})
	require.NoError(t, err)

	resp, body := f.get(t, "/")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	assert.Contains(t, body, "Largest emitters, 1988")
	assert.Contains(t, body, "France")
}

func TestMetricsEndpoint(t *testing.T) {
	f := newFixture(t, true)
	_, err := f.ctrl.Dispatch(emissions.SetYear{Year: 1990})
	require.NoError(t, err)

	resp, body := f.get(t, "/metrics")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `co2_atlas_transitions_total{event="set_year"} 1`)
	assert.Contains(t, body, "co2_atlas_year 1990")
}

func dial(t *testing.T, f *fixture) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(f.http.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readUntil(t *testing.T, conn *websocket.Conn, match func(Message) bool) Message {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	for {
		var msg Message
		require.NoError(t, conn.ReadJSON(&msg))
		if match(msg) {
			return msg
		}
	}
}

func TestWebsocket(t *testing.T) {
	f := newFixture(t, true)
	conn := dial(t, f)

	hello := readUntil(t, conn, func(m Message) bool { return m.Type == "hello" })
	_, err := uuid.Parse(hello.ClientID)
	assert.NoError(t, err)

	initial := readUntil(t, conn, func(m Message) bool { return m.Type == "state" })
	assert.Equal(t, 1988, initial.State.Year)

	require.NoError(t, conn.WriteJSON(Command{Type: "year", Year: 1993}))
	msg := readUntil(t, conn, func(m Message) bool { return m.Type == "state" && m.State.Year == 1993 })
	_, ok := msg.State.Values["UKR"]
	assert.False(t, ok, "no substitution after the cutoff")

	require.NoError(t, conn.WriteJSON(Command{Type: "select", Code: "FRA", Name: "France"}))
	msg = readUntil(t, conn, func(m Message) bool { return m.Type == "state" && len(m.State.Selection) == 1 })
	assert.Equal(t, "FRA", msg.State.Selection[0].Code)

	require.NoError(t, conn.WriteJSON(Command{Type: "recenter"}))
	msg = readUntil(t, conn, func(m Message) bool { return m.Type == "state" && m.State.ViewEpoch > initial.State.ViewEpoch })
	assert.False(t, msg.State.Playing)

	require.NoError(t, conn.WriteJSON(Command{Type: "year", Year: 1800}))
	msg = readUntil(t, conn, func(m Message) bool { return m.Type == "error" })
	assert.Contains(t, msg.Error, "year out of range")

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("not json")))
	readUntil(t, conn, func(m Message) bool { return m.Type == "error" })

	require.Eventually(t, func() bool { return f.srv.hub.len() == 1 }, time.Second, 10*time.Millisecond)
}

func TestWebsocketSessionsAreIndependent(t *testing.T) {
	f := newFixture(t, true)
	a, b := dial(t, f), dial(t, f)
	helloA := readUntil(t, a, func(m Message) bool { return m.Type == "hello" })
	readUntil(t, a, func(m Message) bool { return m.Type == "state" })
	readUntil(t, b, func(m Message) bool { return m.Type == "state" })

	require.NoError(t, a.WriteJSON(Command{Type: "select", Code: "FRA", Name: "France"}))
	readUntil(t, a, func(m Message) bool { return m.Type == "state" && len(m.State.Selection) == 1 })
	require.NoError(t, a.WriteJSON(Command{Type: "play"}))
	readUntil(t, a, func(m Message) bool { return m.Type == "state" && m.State.Playing })

	require.NoError(t, b.WriteJSON(Command{Type: "year", Year: 1990}))
	msg := readUntil(t, b, func(m Message) bool { return m.Type == "state" && m.State.Year == 1990 })
	assert.Empty(t, msg.State.Selection, "selection leaked between connections")
	assert.False(t, msg.State.Playing, "playback leaked between connections")

	var v View
	_, body := f.get(t, "/api/state")
	require.NoError(t, json.Unmarshal([]byte(body), &v))
	assert.Equal(t, 1988, v.Year, "default session changed by a client")
	assert.Empty(t, v.Selection)

	resp, body := f.get(t, "/api/state?client="+helloA.ClientID)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal([]byte(body), &v))
	require.Len(t, v.Selection, 1)
	assert.Equal(t, "FRA", v.Selection[0].Code)
	assert.True(t, v.Playing)

	resp, body = f.get(t, "/?client="+helloA.ClientID)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "France")
}

func TestUnknownClient(t *testing.T) {
	f := newFixture(t, true)
	for _, path := range []string{"/api/state?client=" + uuid.NewString(), "/?client=nope"} {
		resp, _ := f.get(t, path)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, path)
	}
}

func TestWebsocketStartsFromDefaultSession(t *testing.T) {
	f := newFixture(t, true)
	_, err := f.ctrl.Dispatch(emissions.SetYear{Year: 1991})
	require.NoError(t, err)
	_, err = f.ctrl.Dispatch(emissions.Play{})
	require.NoError(t, err)

	conn := dial(t, f)
	msg := readUntil(t, conn, func(m Message) bool { return m.Type == "state" && m.State.Playing })
	assert.Equal(t, 1991, msg.State.Year)
}

func TestCloseDisconnectsClients(t *testing.T) {
	f := newFixture(t, true)
	conn := dial(t, f)
	readUntil(t, conn, func(m Message) bool { return m.Type == "state" })

	done := make(chan struct{})
	go func() {
		f.srv.Close()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Close did not return")
	}
	assert.Equal(t, 0, f.srv.hub.len())

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

func TestCommandEvent(t *testing.T) {
	tests := []struct {
		cmd     Command
		want    emissions.Event
		wantErr bool
	}{
		{Command{Type: "year", Year: 1990}, emissions.SetYear{Year: 1990}, false},
		{Command{Type: "select", Code: "USA", Name: "United States"}, emissions.SelectCountry{Code: "USA", Name: "United States"}, false},
		{Command{Type: "select"}, nil, true},
		{Command{Type: "play"}, emissions.Play{}, false},
		{Command{Type: "pause"}, emissions.Pause{}, false},
		{Command{Type: "toggle"}, emissions.TogglePlay{}, false},
		{Command{Type: "recenter"}, emissions.Recenter{}, false},
		{Command{Type: "rewind"}, nil, true},
	}
	for _, tt := range tests {
		got, err := tt.cmd.Event()
		if tt.wantErr {
			assert.Error(t, err, tt.cmd.Type)
			continue
		}
		require.NoError(t, err, tt.cmd.Type)
		assert.Equal(t, tt.want, got)
	}
}
