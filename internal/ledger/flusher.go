package ledger

import (
	"context"
	"sync"
	"time"
)

// flusher runs the write-behind loop: a single goroutine persists dirty
// counters on a ticker, on an explicit kick, and once more on stop. Callers
// never wait on it.
type flusher struct {
	ledger   *Ledger
	interval time.Duration

	kickCh    chan struct{}
	doneCh    chan struct{}
	stoppedCh chan struct{}

	startOnce sync.Once
	stopOnce  sync.Once
	started   bool
}

func newFlusher(l *Ledger, interval time.Duration) *flusher {
	return &flusher{
		ledger:    l,
		interval:  interval,
		kickCh:    make(chan struct{}, 1),
		doneCh:    make(chan struct{}),
		stoppedCh: make(chan struct{}),
	}
}

func (f *flusher) start() {
	f.startOnce.Do(func() {
		f.started = true
		go f.loop()
	})
}

// kick requests an immediate flush. Coalesces if one is already pending.
func (f *flusher) kick() {
	if !f.started {
		return
	}
	select {
	case f.kickCh <- struct{}{}:
	default:
	}
}

// stop flushes one final time and waits for the loop to exit. Safe to call
// multiple times, and a no-op when the loop never started (short-lived CLI
// invocations flush synchronously instead).
func (f *flusher) stop() {
	f.stopOnce.Do(func() {
		if !f.started {
			return
		}
		close(f.doneCh)
		<-f.stoppedCh
	})
}

func (f *flusher) loop() {
	defer close(f.stoppedCh)

	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			f.ledger.flush(context.Background()) //nolint:errcheck // logged inside
		case <-f.kickCh:
			f.ledger.flush(context.Background()) //nolint:errcheck // logged inside
		case <-f.doneCh:
			f.ledger.flush(context.Background()) //nolint:errcheck // logged inside
			return
		}
	}
}
