package resttimer

import (
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/Dhayashisan/MuscleCreater/alert"
	"github.com/Dhayashisan/MuscleCreater/concurrency"
	"github.com/Dhayashisan/MuscleCreater/metrics"
	"github.com/Dhayashisan/MuscleCreater/ticker"
)

const (
	// DefaultSeconds is used when Options.Seconds is zero
	DefaultSeconds = 10

	// DefaultPeriod is the time between two ticks
	DefaultPeriod = time.Second

	// DefaultAlertTimeout bounds how long OnFinish waits for Notify to return
	DefaultAlertTimeout = 2 * time.Second
)

// ErrCanceled is returned by Session.Wait when the session was canceled
var ErrCanceled = errors.New("rest session canceled")

// State represents the lifecycle state of a session
type State string

const (
	StateRunning  State = "Running"
	StateFinished State = "Finished"
	StateCanceled State = "Canceled"
)

// Options describes one countdown
type Options struct {
	// Seconds to count down from. Zero means DefaultSeconds, a negative
	// value finishes immediately.
	Seconds int

	// OnTick receives the remaining seconds: once synchronously from Start,
	// then once per period down to 0
	OnTick func(remaining int)

	// OnFinish is called once after the 0 tick and the alert
	OnFinish func()
}

// Config holds timer-level configuration. Zero fields take defaults.
type Config struct {
	Period         time.Duration
	DefaultSeconds int

	// AlertTimeout is the longest OnFinish waits for Notify to return.
	// A notifier still running after it keeps running; OnFinish goes ahead.
	AlertTimeout time.Duration

	Scheduler ticker.Scheduler
	Notifier  alert.Notifier

	// Pool runs the alert. When nil the Timer starts its own single-worker
	// pool and stops it on Close. A pool that is never started runs the
	// alert synchronously.
	Pool *concurrency.WorkerPool

	Metrics metrics.MetricsCollector
	Logger  *zerolog.Logger
}
