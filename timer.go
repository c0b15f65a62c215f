// Package resttimer runs rest countdowns between training sets.
//
// A countdown ticks once when it starts and then once per second until it
// reaches zero, at which point the alert is played and the finish callback
// runs.
package resttimer

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/Dhayashisan/MuscleCreater/alert"
	"github.com/Dhayashisan/MuscleCreater/concurrency"
	"github.com/Dhayashisan/MuscleCreater/id"
	"github.com/Dhayashisan/MuscleCreater/metrics"
	"github.com/Dhayashisan/MuscleCreater/ticker"
)

var errAlertDropped = errors.New("alert pool is full or stopped")

// Timer starts countdown sessions sharing one scheduler, notifier and pool
type Timer struct {
	config   Config
	pool     *concurrency.WorkerPool
	ownsPool bool
	metrics  metrics.MetricsCollector
	log      zerolog.Logger

	mu      sync.Mutex
	running int
}

// New creates a Timer, filling unset config fields with defaults
func New(config Config) *Timer {
	if config.Period <= 0 {
		config.Period = DefaultPeriod
	}
	if config.DefaultSeconds <= 0 {
		config.DefaultSeconds = DefaultSeconds
	}
	if config.AlertTimeout <= 0 {
		config.AlertTimeout = DefaultAlertTimeout
	}
	if config.Scheduler == nil {
		config.Scheduler = ticker.NewRealScheduler()
	}
	if config.Notifier == nil {
		config.Notifier = alert.NewBellNotifier(os.Stdout)
	}

	mc := config.Metrics
	if mc == nil {
		mc = metrics.NewNoOpMetrics()
	}

	log := zerolog.Nop()
	if config.Logger != nil {
		log = *config.Logger
	}

	t := &Timer{
		config:  config,
		pool:    config.Pool,
		metrics: mc,
		log:     log.With().Str("component", "resttimer").Logger(),
	}

	if t.pool == nil {
		t.pool = concurrency.NewWorkerPool(1)
		t.pool.Start()
		t.ownsPool = true
	}

	return t
}

var (
	defaultTimer     *Timer
	defaultTimerOnce sync.Once
)

// Default returns the Timer used by the package-level Start. It is created
// on first use with the default Config and is never closed, so its alert
// worker lives for the rest of the process.
func Default() *Timer {
	defaultTimerOnce.Do(func() {
		defaultTimer = New(Config{})
	})
	return defaultTimer
}

// Start begins a countdown on the default Timer
func Start(opts Options) *Session {
	return Default().Start(opts)
}

// Start begins a countdown. OnTick is called with the initial value before
// Start returns.
func (t *Timer) Start(opts Options) *Session {
	seconds := opts.Seconds
	if seconds == 0 {
		seconds = t.config.DefaultSeconds
	}

	s := &Session{
		ID:        id.NewSessionID(),
		StartedAt: t.config.Scheduler.Now(),
		timer:     t,
		onTick:    opts.OnTick,
		onFinish:  opts.OnFinish,
		remaining: seconds,
		state:     StateRunning,
		done:      make(chan struct{}),
	}
	s.log = t.log.With().Str("session", s.ID).Logger()

	t.sessionStarted()
	s.log.Debug().Int("seconds", seconds).Msg("session started")

	if seconds < 0 {
		s.remaining = 0
		s.state = StateFinished
		s.tick(0)
		s.complete()
		return s
	}

	s.tick(seconds)

	h := t.config.Scheduler.Every(t.config.Period, s.fire)

	s.mu.Lock()
	s.handle = h
	// Cancel may have run from the initial tick or a concurrent caller
	if s.state != StateRunning {
		h.Cancel()
	}
	s.mu.Unlock()

	return s
}

// Close stops the pool the Timer created for itself, waiting for queued
// alerts. Sessions still running after Close drop their alert.
func (t *Timer) Close() {
	if t.ownsPool {
		t.pool.Stop()
	}
}

// Running returns the number of sessions that have not reached a terminal state
func (t *Timer) Running() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running
}

func (t *Timer) sessionStarted() {
	t.mu.Lock()
	t.running++
	n := t.running
	t.mu.Unlock()

	t.metrics.IncSessionsStarted()
	t.metrics.SetSessionsRunning(n)
}

func (t *Timer) sessionEnded(s *Session) {
	t.mu.Lock()
	t.running--
	n := t.running
	t.mu.Unlock()

	t.metrics.SetSessionsRunning(n)
	t.metrics.ObserveSessionDuration(t.config.Scheduler.Now().Sub(s.StartedAt))
}

// alert runs the notifier on the pool and waits, up to AlertTimeout, for
// Notify to return. Failures are logged and counted, never returned.
func (t *Timer) alert(s *Session) {
	returned := make(chan struct{})

	notify := func() {
		defer close(returned)
		defer func() {
			if r := recover(); r != nil {
				t.alertFailed(s, fmt.Errorf("notifier panicked: %v", r))
			}
		}()

		if err := t.config.Notifier.Notify(); err != nil {
			t.alertFailed(s, err)
			return
		}
		t.metrics.IncAlerts(metrics.AlertStatusSent)
	}

	if !t.pool.TrySubmit(notify) {
		t.alertFailed(s, errAlertDropped)
		return
	}

	wait := time.NewTimer(t.config.AlertTimeout)
	defer wait.Stop()

	select {
	case <-returned:
	case <-wait.C:
		s.log.Warn().Dur("timeout", t.config.AlertTimeout).Msg("alert still running, finishing anyway")
	}
}

func (t *Timer) alertFailed(s *Session, err error) {
	t.metrics.IncAlerts(metrics.AlertStatusFailed)
	s.log.Warn().Err(err).Msg("alert failed")
}

