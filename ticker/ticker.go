package ticker

import (
	"fmt"
	"sync"
	"time"
	_ "time/tzdata" // schedules may name any IANA zone
)

// MaxOccurrenceIterations is the safety limit for occurrence calculations
const MaxOccurrenceIterations = 10000

// Handle cancels a repeating schedule returned by Scheduler.Every
type Handle interface {
	// Cancel stops the schedule. It reports whether this call stopped an
	// active schedule; cancelling twice returns false.
	Cancel() bool
}

// Scheduler runs an action repeatedly at a fixed period.
// Firings of one schedule never overlap.
type Scheduler interface {
	Every(period time.Duration, action func()) Handle
	Now() time.Time
}

// Fire is emitted by a Ticker every time its calendar schedule comes due
type Fire struct {
	ScheduledTime time.Time
	ActualTime    time.Time
}

// Config provides common configuration for all tickers
type Config struct {
	StartTime *time.Time
	EndTime   *time.Time
	Timezone  string
}

// schedule computes the first occurrence strictly after the given time.
// fired is the number of fires already emitted by the ticker.
type schedule interface {
	next(after time.Time, fired int) (time.Time, bool)
}

// Ticker emits a Fire on its channel each time a calendar schedule comes due.
// The channel is closed once the schedule is exhausted or the ticker stops.
type Ticker struct {
	kind     string
	sched    schedule
	config   Config
	location *time.Location

	ch      chan Fire
	stopCh  chan struct{}
	started bool
	running bool
	stopped bool
	fired   int
	mu      sync.RWMutex
}

func newTicker(kind string, sched schedule, config Config) (*Ticker, error) {
	loc, err := loadLocation(config.Timezone)
	if err != nil {
		return nil, err
	}

	return &Ticker{
		kind:     kind,
		sched:    sched,
		config:   config,
		location: loc,
		ch:       make(chan Fire, 10),
		stopCh:   make(chan struct{}),
	}, nil
}

// loadLocation defaults to UTC if no timezone is specified
func loadLocation(timezone string) (*time.Location, error) {
	if timezone == "" {
		timezone = "UTC"
	}

	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %s: %w", timezone, err)
	}
	return loc, nil
}

// Kind returns "cron", "interval" or "once"
func (t *Ticker) Kind() string {
	return t.kind
}

// Location returns the time zone the schedule is evaluated in
func (t *Ticker) Location() *time.Location {
	return t.location
}

// Start begins the schedule
func (t *Ticker) Start() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.stopped {
		return fmt.Errorf("%s ticker has already been stopped", t.kind)
	}

	if t.started {
		return nil
	}

	t.started = true
	t.running = true
	go t.run()
	return nil
}

// run is the main ticker loop
func (t *Ticker) run() {
	defer func() {
		t.mu.Lock()
		t.running = false
		t.mu.Unlock()
		close(t.ch)
	}()

	after := time.Now().In(t.location)

	for {
		t.mu.RLock()
		fired := t.fired
		t.mu.RUnlock()

		next, ok := t.nextAfter(after, fired)
		if !ok {
			return
		}

		timer := time.NewTimer(time.Until(next))

		select {
		case <-timer.C:
			fire := Fire{
				ScheduledTime: next,
				ActualTime:    time.Now().In(t.location),
			}

			t.mu.Lock()
			t.fired++
			t.mu.Unlock()

			// Non-blocking send
			select {
			case t.ch <- fire:
			default:
				// Channel full, skip this fire (prevents blocking)
			}

			after = next
		case <-t.stopCh:
			timer.Stop()
			return
		}
	}
}

// nextAfter applies the configured time window on top of the schedule
func (t *Ticker) nextAfter(after time.Time, fired int) (time.Time, bool) {
	after = after.In(t.location)

	if t.config.StartTime != nil && after.Before(*t.config.StartTime) {
		after = t.config.StartTime.Add(-time.Nanosecond).In(t.location)
	}

	next, ok := t.sched.next(after, fired)
	if !ok {
		return time.Time{}, false
	}

	if t.config.EndTime != nil && next.After(*t.config.EndTime) {
		return time.Time{}, false
	}

	// only a once schedule can land before the window opens
	if t.config.StartTime != nil && next.Before(*t.config.StartTime) {
		return time.Time{}, false
	}

	return next, true
}

// Channel returns the fire channel
func (t *Ticker) Channel() <-chan Fire {
	return t.ch
}

// Stop halts the ticker. A stopped ticker cannot be started again.
func (t *Ticker) Stop() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.stopped {
		return nil
	}

	t.stopped = true
	close(t.stopCh)

	if !t.started {
		// run never started, so nobody else will close the channel
		close(t.ch)
	}
	return nil
}

// IsRunning reports whether the ticker loop is active
func (t *Ticker) IsRunning() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.running
}

// NextRun returns the next time the ticker will fire, or nil when the
// schedule is exhausted
func (t *Ticker) NextRun() (*time.Time, error) {
	t.mu.RLock()
	fired := t.fired
	t.mu.RUnlock()

	next, ok := t.nextAfter(time.Now(), fired)
	if !ok {
		return nil, nil
	}
	return &next, nil
}

// OccurrencesBetween returns every scheduled time in (start, end]
func (t *Ticker) OccurrencesBetween(start, end time.Time) ([]time.Time, error) {
	var occurrences []time.Time
	current := start.In(t.location)
	end = end.In(t.location)

	for iterations := 0; current.Before(end); iterations++ {
		if iterations >= MaxOccurrenceIterations {
			return nil, fmt.Errorf("too many iterations while computing occurrences")
		}

		next, ok := t.nextAfter(current, len(occurrences))
		if !ok || next.After(end) {
			break
		}

		if next.After(start) {
			occurrences = append(occurrences, next)
		}

		if !next.After(current) {
			// once schedules report their time regardless of the cursor
			break
		}
		current = next
	}

	return occurrences, nil
}
