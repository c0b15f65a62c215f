package ticker

import (
	"sync"
	"time"
)

// ManualScheduler is a Scheduler whose clock only moves when Advance is
// called. Actions run synchronously on the goroutine calling Advance.
type ManualScheduler struct {
	mu      sync.Mutex
	now     time.Time
	entries []*manualEntry
	seq     int
}

type manualEntry struct {
	s         *ManualScheduler
	period    time.Duration
	next      time.Time
	action    func()
	seq       int
	cancelled bool
}

// NewManualScheduler creates a ManualScheduler whose clock starts at start
func NewManualScheduler(start time.Time) *ManualScheduler {
	return &ManualScheduler{now: start}
}

// Now returns the simulated time
func (s *ManualScheduler) Now() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}

// Every registers action to run every period of simulated time
func (s *ManualScheduler) Every(period time.Duration, action func()) Handle {
	if period <= 0 {
		panic("ticker: non-positive period for ManualScheduler.Every")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	e := &manualEntry{
		s:      s,
		period: period,
		next:   s.now.Add(period),
		action: action,
		seq:    s.seq,
	}
	s.entries = append(s.entries, e)
	return e
}

// Advance moves the clock forward by d, running every action that comes due
// in order of due time, ties broken by registration order
func (s *ManualScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	target := s.now.Add(d)
	s.mu.Unlock()

	for {
		s.mu.Lock()
		e := s.due(target)
		if e == nil {
			s.now = target
			s.mu.Unlock()
			return
		}

		s.now = e.next
		e.next = e.next.Add(e.period)
		s.mu.Unlock()

		// actions may call Every or Cancel, so the lock is not held here
		e.action()
	}
}

// due returns the earliest entry scheduled at or before target
func (s *ManualScheduler) due(target time.Time) *manualEntry {
	var earliest *manualEntry
	for _, e := range s.entries {
		if e.next.After(target) {
			continue
		}
		if earliest == nil || e.next.Before(earliest.next) ||
			(e.next.Equal(earliest.next) && e.seq < earliest.seq) {
			earliest = e
		}
	}
	return earliest
}

// Pending returns the number of active schedules
func (s *ManualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (e *manualEntry) Cancel() bool {
	e.s.mu.Lock()
	defer e.s.mu.Unlock()

	if e.cancelled {
		return false
	}
	e.cancelled = true

	for i, other := range e.s.entries {
		if other == e {
			e.s.entries = append(e.s.entries[:i], e.s.entries[i+1:]...)
			break
		}
	}
	return true
}
