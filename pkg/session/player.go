package session

import (
	"context"
	"sync"
	"time"

	"github.com/sudorandom/co2-atlas/pkg/emissions"
)

// DefaultInterval is the time between playback ticks.
const DefaultInterval = 500 * time.Millisecond

// Player owns the playback timer. There is at most one live timer; starting
// a new run cancels the previous one. Player is not safe for concurrent use,
// the Controller calls it with its lock held.
type Player struct {
	interval time.Duration
	run      uint64
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

func NewPlayer(interval time.Duration) *Player {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Player{interval: interval}
}

// Active reports the run the live timer belongs to, or false when stopped.
func (p *Player) Active() (uint64, bool) {
	return p.run, p.cancel != nil
}

// Start replaces any live timer with one that sends ticks for run. The timer
// exits as soon as a tick comes back with playback stopped or a newer run.
func (p *Player) Start(run uint64, dispatch func(emissions.Event) (emissions.State, error)) {
	p.Stop()
	ctx, cancel := context.WithCancel(context.Background())
	p.run = run
	p.cancel = cancel
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		t := time.NewTicker(p.interval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				if ctx.Err() != nil {
					return
				}
				st, err := dispatch(emissions.PlaybackTick{Run: run})
				if err != nil || !st.Playing || st.PlaybackRun != run {
					return
				}
			}
		}
	}()
}

// Stop cancels the live timer without waiting for it.
func (p *Player) Stop() {
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
}

// Wait blocks until every timer goroutine has exited.
func (p *Player) Wait() {
	p.wg.Wait()
}
