// Package reminder starts a rest countdown every time a calendar trigger
// fires.
package reminder

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	resttimer "github.com/Dhayashisan/MuscleCreater"
	"github.com/Dhayashisan/MuscleCreater/id"
	"github.com/Dhayashisan/MuscleCreater/metrics"
	"github.com/Dhayashisan/MuscleCreater/ticker"
)

// ErrShutdownTimeout is returned by Shutdown when the watcher did not exit in time
var ErrShutdownTimeout = errors.New("reminder shutdown timed out")

// Trigger emits a Fire each time a countdown should start. *ticker.Ticker
// implements it.
type Trigger interface {
	Start() error
	Stop() error
	Channel() <-chan ticker.Fire
}

// Config configures a Reminder
type Config struct {
	Name string

	// Options is used for every session; OnTick and OnFinish are shared
	Options resttimer.Options

	// OnStart is called with each session right after it starts
	OnStart func(fireID string, s *resttimer.Session)

	Metrics metrics.MetricsCollector
	Logger  *zerolog.Logger
}

// Reminder watches a Trigger and starts a session on each fire. A fire that
// arrives while the previous session is still running is skipped.
type Reminder struct {
	ID   string
	Name string

	trigger Trigger
	timer   *resttimer.Timer
	config  Config
	metrics metrics.MetricsCollector
	log     zerolog.Logger

	mu      sync.Mutex
	current *resttimer.Session
	started int
	skipped int

	runningMu sync.Mutex
	running   bool
	stopCh    chan struct{}
	done      chan struct{}
}

// New creates a Reminder. Sessions are started on timer.
func New(trigger Trigger, timer *resttimer.Timer, config Config) *Reminder {
	if config.Name == "" {
		config.Name = "rest"
	}

	mc := config.Metrics
	if mc == nil {
		mc = metrics.NewNoOpMetrics()
	}

	log := zerolog.Nop()
	if config.Logger != nil {
		log = *config.Logger
	}

	reminderID := id.GenerateReminderID(config.Name)

	return &Reminder{
		ID:      reminderID,
		Name:    config.Name,
		trigger: trigger,
		timer:   timer,
		config:  config,
		metrics: mc,
		log:     log.With().Str("reminder", reminderID).Str("name", config.Name).Logger(),
		done:    make(chan struct{}),
	}
}

// Start starts the trigger and the goroutine watching it
func (r *Reminder) Start() error {
	r.runningMu.Lock()
	defer r.runningMu.Unlock()

	if r.running {
		return fmt.Errorf("reminder %s already running", r.Name)
	}
	if r.stopCh != nil {
		return fmt.Errorf("reminder %s has been shut down", r.Name)
	}

	if err := r.trigger.Start(); err != nil {
		return fmt.Errorf("starting trigger: %w", err)
	}

	r.stopCh = make(chan struct{})
	r.running = true
	go r.watch()

	r.log.Info().Msg("reminder started")
	return nil
}

// watch runs until the trigger channel closes or Shutdown is called
func (r *Reminder) watch() {
	defer close(r.done)

	for {
		select {
		case <-r.stopCh:
			return
		case fire, ok := <-r.trigger.Channel():
			if !ok {
				r.log.Debug().Msg("trigger exhausted")
				return
			}
			r.handleFire(fire)
		}
	}
}

// handleFire starts a session unless one is still running
func (r *Reminder) handleFire(fire ticker.Fire) {
	fireID := id.GenerateFireID(r.ID, fire.ScheduledTime)
	log := r.log.With().Str("fire", fireID).Time("scheduled", fire.ScheduledTime).Logger()

	r.mu.Lock()
	if r.current != nil && !ended(r.current) {
		r.skipped++
		r.mu.Unlock()

		r.metrics.IncRemindersSkipped(r.Name)
		log.Info().Msg("previous session still running, skipping fire")
		return
	}
	r.mu.Unlock()

	s := r.timer.Start(r.config.Options)

	r.mu.Lock()
	r.current = s
	r.started++
	r.mu.Unlock()

	log.Info().Str("session", s.ID).Msg("rest session started")

	if r.config.OnStart != nil {
		r.config.OnStart(fireID, s)
	}
}

// ended reports whether s has been canceled or has run OnFinish
func ended(s *resttimer.Session) bool {
	select {
	case <-s.Done():
		return true
	default:
		return false
	}
}

// Current returns the most recently started session, nil before the first fire
func (r *Reminder) Current() *resttimer.Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// Stats returns how many fires started a session and how many were skipped
func (r *Reminder) Stats() (started, skipped int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.started, r.skipped
}

// Done is closed when the watcher exits, either because the trigger was
// exhausted or because of Shutdown
func (r *Reminder) Done() <-chan struct{} {
	return r.done
}

// Shutdown stops the trigger, cancels the running session and waits up to
// timeout for the watcher to exit
func (r *Reminder) Shutdown(timeout time.Duration) error {
	r.runningMu.Lock()
	defer r.runningMu.Unlock()

	if !r.running {
		return nil
	}
	r.running = false

	if err := r.trigger.Stop(); err != nil {
		r.log.Warn().Err(err).Msg("stopping trigger")
	}
	close(r.stopCh)

	var err error
	select {
	case <-r.done:
	case <-time.After(timeout):
		err = ErrShutdownTimeout
	}

	if s := r.Current(); s != nil && s.Cancel() {
		r.log.Info().Str("session", s.ID).Msg("canceled running session on shutdown")
	}

	r.log.Info().Msg("reminder stopped")
	return err
}
