// Package session serializes state transitions of one map session and runs
// its playback timer.
package session

import (
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/sudorandom/co2-atlas/pkg/emissions"
	"github.com/sudorandom/co2-atlas/pkg/metrics"
)

var (
	ErrNotLoaded = errors.New("session: no data loaded")
	ErrClosed    = errors.New("session: closed")
)

// Listener is called after every transition that changed the state.
// Listeners run with the controller locked and must not call back into it.
type Listener func(emissions.State)

// Controller holds the current state and applies events to it one at a time.
type Controller struct {
	mu     sync.Mutex
	data   emissions.Data
	state  emissions.State
	loaded bool
	closed bool

	listeners map[uint64]Listener
	nextID    uint64

	player  *Player
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// NewController returns an empty controller. interval is the playback tick
// interval; zero means DefaultInterval. logger and m may be nil.
func NewController(interval time.Duration, logger *zap.Logger, m *metrics.Metrics) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{
		listeners: make(map[uint64]Listener),
		player:    NewPlayer(interval),
		logger:    logger,
		metrics:   m,
	}
}

// Load replaces the data and resets the state to year. Any playback stops.
func (c *Controller) Load(d emissions.Data, year int) (emissions.State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return emissions.State{}, ErrClosed
	}
	st := emissions.NewState(d, year)
	st.Revision = c.state.Revision + 1
	st.PlaybackRun = c.state.PlaybackRun
	st.ViewEpoch = c.state.ViewEpoch + 1
	c.data = d
	c.loaded = true
	c.commit("load", st)
	c.logger.Info("data loaded",
		zap.Int("records", len(d.Records)),
		zap.Int("map_codes", len(d.MapCodes)),
		zap.Int("year", st.Year))
	return st, nil
}

// State returns the current state.
func (c *Controller) State() (emissions.State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.loaded {
		return emissions.State{}, ErrNotLoaded
	}
	return c.state, nil
}

// Data returns the loaded data.
func (c *Controller) Data() (emissions.Data, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.loaded {
		return emissions.Data{}, ErrNotLoaded
	}
	return c.data, nil
}

// Dispatch applies ev and returns the resulting state.
func (c *Controller) Dispatch(ev emissions.Event) (emissions.State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return c.state, ErrClosed
	}
	if !c.loaded {
		return emissions.State{}, ErrNotLoaded
	}
	if _, ok := ev.(emissions.PlaybackTick); ok {
		c.metrics.IncrementPlaybackTicks()
	}
	next := emissions.Apply(c.data, c.state, ev)
	if next.Revision != c.state.Revision {
		c.commit(emissions.EventName(ev), next)
	}
	return next, nil
}

// SetYear is SetYear for external callers: years outside the data range are
// rejected instead of clamped.
func (c *Controller) SetYear(year int) (emissions.State, error) {
	d, err := c.Data()
	if err != nil {
		return emissions.State{}, err
	}
	if err := d.CheckYear(year); err != nil {
		return emissions.State{}, err
	}
	return c.Dispatch(emissions.SetYear{Year: year})
}

// Subscribe registers fn and returns a function that removes it.
func (c *Controller) Subscribe(fn Listener) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextID
	c.nextID++
	c.listeners[id] = fn
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.listeners, id)
	}
}

// Close stops playback and waits for the timer to exit.
func (c *Controller) Close() {
	c.mu.Lock()
	c.closed = true
	c.player.Stop()
	c.mu.Unlock()
	c.player.Wait()
}

// commit must be called with mu held.
func (c *Controller) commit(event string, st emissions.State) {
	c.state = st
	c.logger.Debug("transition",
		zap.String("event", event),
		zap.Uint64("revision", st.Revision),
		zap.Int("year", st.Year),
		zap.Bool("playing", st.Playing))
	c.metrics.ObserveTransition(event, st.Year)

	run, active := c.player.Active()
	switch {
	case st.Playing && (!active || run != st.PlaybackRun):
		c.player.Start(st.PlaybackRun, c.Dispatch)
	case !st.Playing && active:
		c.player.Stop()
	}

	for _, fn := range c.listeners {
		fn(st)
	}
}
