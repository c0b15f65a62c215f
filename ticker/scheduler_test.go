package ticker

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestRealSchedulerEveryAndCancel(t *testing.T) {
	s := NewRealScheduler()

	var calls int32
	var handle atomic.Value
	stopped := make(chan struct{})

	h := s.Every(5*time.Millisecond, func() {
		if atomic.AddInt32(&calls, 1) == 3 {
			if !handle.Load().(Handle).Cancel() {
				t.Error("First Cancel should report an active schedule")
			}
			close(stopped)
		}
	})

	handle.Store(h)

	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("Schedule did not reach 3 calls")
	}

	rh, ok := h.(*RealHandle)
	if !ok {
		t.Fatalf("Expected *RealHandle, got %T", h)
	}
	<-rh.Done()

	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Errorf("Expected 3 calls before cancel, got %d", got)
	}

	time.Sleep(20 * time.Millisecond)
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Errorf("No calls expected after cancel, got %d", got)
	}

	if h.Cancel() {
		t.Error("Second Cancel should return false")
	}
}

func TestRealSchedulerCancelFromOutside(t *testing.T) {
	s := NewRealScheduler()

	var calls int32
	h := s.Every(time.Hour, func() {
		atomic.AddInt32(&calls, 1)
	})

	if !h.Cancel() {
		t.Error("Cancel should report an active schedule")
	}
	<-h.(*RealHandle).Done()

	if got := atomic.LoadInt32(&calls); got != 0 {
		t.Errorf("Expected no calls, got %d", got)
	}
}

func TestManualSchedulerAdvance(t *testing.T) {
	start := time.Date(2026, 2, 3, 10, 12, 0, 0, time.UTC)
	s := NewManualScheduler(start)

	var fired []time.Time
	h := s.Every(time.Second, func() {
		fired = append(fired, s.Now())
	})

	s.Advance(500 * time.Millisecond)
	if len(fired) != 0 {
		t.Fatalf("Nothing should fire before the first period, got %d", len(fired))
	}

	s.Advance(3 * time.Second)
	if len(fired) != 3 {
		t.Fatalf("Expected 3 firings, got %d", len(fired))
	}
	for i, at := range fired {
		want := start.Add(time.Duration(i+1) * time.Second)
		if !at.Equal(want) {
			t.Errorf("Firing %d at %s, want %s", i, at, want)
		}
	}

	if got := s.Now(); !got.Equal(start.Add(3500 * time.Millisecond)) {
		t.Errorf("Now() = %s after advancing 3.5s", got)
	}

	if s.Pending() != 1 {
		t.Errorf("Pending() = %d, want 1", s.Pending())
	}
	if !h.Cancel() {
		t.Error("Cancel should report an active schedule")
	}
	if h.Cancel() {
		t.Error("Second Cancel should return false")
	}
	if s.Pending() != 0 {
		t.Errorf("Pending() = %d after cancel, want 0", s.Pending())
	}

	s.Advance(10 * time.Second)
	if len(fired) != 3 {
		t.Errorf("Cancelled schedule fired again, got %d firings", len(fired))
	}
}

func TestManualSchedulerOrdering(t *testing.T) {
	s := NewManualScheduler(time.Time{})

	var log []string
	s.Every(2*time.Second, func() { log = append(log, "slow") })
	s.Every(time.Second, func() { log = append(log, "fast") })

	s.Advance(4 * time.Second)

	// registration order breaks the tie at 2s and 4s
	want := []string{"fast", "slow", "fast", "fast", "slow", "fast"}
	if len(log) != len(want) {
		t.Fatalf("Expected %v, got %v", want, log)
	}
	for i := range want {
		if log[i] != want[i] {
			t.Fatalf("Expected %v, got %v", want, log)
		}
	}
}

func TestManualSchedulerCancelInsideAction(t *testing.T) {
	s := NewManualScheduler(time.Time{})

	calls := 0
	var h Handle
	h = s.Every(time.Second, func() {
		calls++
		if calls == 2 {
			h.Cancel()
		}
	})

	s.Advance(time.Minute)

	if calls != 2 {
		t.Errorf("Expected 2 calls, got %d", calls)
	}
}

func TestManualSchedulerNonPositivePeriodPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Expected panic for zero period")
		}
	}()

	NewManualScheduler(time.Time{}).Every(0, func() {})
}
