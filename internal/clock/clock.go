// Package clock provides the wall clock and the cancellable one-second tick
// source owned by a session controller.
package clock

import (
	"sync"
	"time"
)

// Clock abstracts the wall clock so day keys are deterministic in tests.
type Clock interface {
	Now() time.Time
}

// System reads the local wall clock.
type System struct{}

// Now returns the current local time.
func (System) Now() time.Time { return time.Now() }

// Tick is one firing of a Ticker. Gen identifies the ticker that produced
// it; consumers drop ticks whose generation is no longer current.
type Tick struct {
	Gen uint64
	At  time.Time
}

// Ticker is a periodic tick source. C is closed once Stop has been called
// and the forwarding goroutine has exited. Stop is idempotent.
type Ticker interface {
	C() <-chan Tick
	Stop()
}

// NewTickerFunc creates a Ticker for the given generation and period.
type NewTickerFunc func(gen uint64, period time.Duration) Ticker

// timeTicker forwards time.Ticker firings, tagged with a generation, onto an
// unbuffered channel it owns.
type timeTicker struct {
	t    *time.Ticker
	out  chan Tick
	done chan struct{}
	once sync.Once
}

// NewTicker starts a Ticker backed by time.Ticker.
func NewTicker(gen uint64, period time.Duration) Ticker {
	tt := &timeTicker{
		t:    time.NewTicker(period),
		out:  make(chan Tick),
		done: make(chan struct{}),
	}
	go tt.forward(gen)
	return tt
}

func (tt *timeTicker) forward(gen uint64) {
	defer close(tt.out)
	for {
		select {
		case <-tt.done:
			return
		case at := <-tt.t.C:
			select {
			case tt.out <- Tick{Gen: gen, At: at}:
			case <-tt.done:
				return
			}
		}
	}
}

// C returns the tick channel.
func (tt *timeTicker) C() <-chan Tick { return tt.out }

// Stop halts the underlying ticker and ends the forwarding goroutine.
func (tt *timeTicker) Stop() {
	tt.once.Do(func() {
		tt.t.Stop()
		close(tt.done)
	})
}
