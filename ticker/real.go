package ticker

import (
	"sync"
	"time"
)

// RealScheduler implements Scheduler on top of time.Ticker.
// Each schedule gets its own goroutine, so its firings are serialized.
type RealScheduler struct{}

// NewRealScheduler creates a new RealScheduler
func NewRealScheduler() *RealScheduler {
	return &RealScheduler{}
}

// Now returns the wall clock time
func (s *RealScheduler) Now() time.Time {
	return time.Now()
}

// Every calls action every period until the returned handle is cancelled.
// It panics if period is not positive, like time.NewTicker.
func (s *RealScheduler) Every(period time.Duration, action func()) Handle {
	h := &RealHandle{
		stopCh: make(chan struct{}),
		done:   make(chan struct{}),
	}

	tk := time.NewTicker(period)

	go func() {
		defer close(h.done)
		defer tk.Stop()

		for {
			select {
			case <-h.stopCh:
				return
			case <-tk.C:
				// a tick and a cancel can be ready at the same time
				select {
				case <-h.stopCh:
					return
				default:
				}

				action()
			}
		}
	}()

	return h
}

// RealHandle is the Handle returned by RealScheduler
type RealHandle struct {
	stopCh chan struct{}
	done   chan struct{}
	once   sync.Once
}

// Cancel stops the schedule; an action already running is not interrupted
func (h *RealHandle) Cancel() bool {
	cancelled := false
	h.once.Do(func() {
		close(h.stopCh)
		cancelled = true
	})
	return cancelled
}

// Done is closed once the schedule goroutine has exited
func (h *RealHandle) Done() <-chan struct{} {
	return h.done
}
