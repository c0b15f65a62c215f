package resttimer

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/Dhayashisan/MuscleCreater/ticker"
)

// Session is one running countdown
type Session struct {
	ID        string
	StartedAt time.Time

	timer    *Timer
	onTick   func(remaining int)
	onFinish func()
	log      zerolog.Logger

	// mu guards the fields below and is never held while callbacks run
	mu        sync.Mutex
	remaining int
	state     State
	handle    ticker.Handle

	done      chan struct{}
	closeOnce sync.Once
}

// fire is the scheduled action, called once per period
func (s *Session) fire() {
	s.mu.Lock()
	if s.state != StateRunning {
		s.mu.Unlock()
		return
	}

	s.remaining--
	if s.remaining < 0 {
		s.remaining = 0
	}
	remaining := s.remaining

	finished := remaining == 0
	if finished {
		s.state = StateFinished
		s.cancelHandle()
	}
	s.mu.Unlock()

	s.tick(remaining)

	if finished {
		s.complete()
	}
}

func (s *Session) tick(remaining int) {
	s.timer.metrics.IncTicks()
	s.log.Debug().Int("remaining", remaining).Msg("tick")

	if s.onTick != nil {
		s.onTick(remaining)
	}
}

// complete plays the alert and then runs OnFinish
func (s *Session) complete() {
	defer s.close()

	s.timer.alert(s)
	s.timer.metrics.IncSessionsFinished()
	s.log.Info().Msg("session finished")

	if s.onFinish != nil {
		s.onFinish()
	}
}

// cancelHandle must be called with mu held
func (s *Session) cancelHandle() {
	if s.handle != nil {
		s.handle.Cancel()
	}
}

func (s *Session) close() {
	s.closeOnce.Do(func() {
		s.timer.sessionEnded(s)
		close(s.done)
	})
}

// Cancel stops the countdown. No tick, alert or OnFinish happens after it
// returns, except for a firing already in progress. It returns false when the
// session had already finished or been canceled. Cancel may be called from
// inside OnTick.
func (s *Session) Cancel() bool {
	s.mu.Lock()
	if s.state != StateRunning {
		s.mu.Unlock()
		return false
	}

	s.state = StateCanceled
	s.cancelHandle()
	remaining := s.remaining
	s.mu.Unlock()

	s.timer.metrics.IncSessionsCanceled()
	s.log.Info().Int("remaining", remaining).Msg("session canceled")

	s.close()
	return true
}

// Handle returns the session as a ticker.Handle; cancelling it is Cancel
func (s *Session) Handle() ticker.Handle {
	return s
}

// Remaining returns the seconds left
func (s *Session) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.remaining
}

// State returns the current state. It becomes Finished when the 0 tick is
// taken, before the alert and OnFinish have run; use Done or Wait to wait for
// those.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Elapsed returns the scheduler time since the session started
func (s *Session) Elapsed() time.Duration {
	return s.timer.config.Scheduler.Now().Sub(s.StartedAt)
}

// Done is closed once the session is canceled or has run OnFinish
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Wait blocks until the session ends. It returns nil when the countdown
// finished, ErrCanceled when it was canceled, or the context error.
func (s *Session) Wait(ctx context.Context) error {
	select {
	case <-s.done:
		if s.State() == StateCanceled {
			return ErrCanceled
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
