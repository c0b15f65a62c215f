// Package alert plays the signal that a rest countdown has finished.
package alert

import (
	"fmt"
	"io"
	"sync"

	"github.com/Dhayashisan/MuscleCreater/config"
)

// Notifier triggers the alert. Notify returns once the alert has started;
// an alert that keeps going afterwards, like a sound, implements Waiter.
type Notifier interface {
	Notify() error
}

// Waiter is implemented by notifiers whose alert outlasts Notify
type Waiter interface {
	Wait()
}

// Wait blocks until n's alerts have finished when n is a Waiter
func Wait(n Notifier) {
	if w, ok := n.(Waiter); ok {
		w.Wait()
	}
}

// Func adapts an ordinary function to Notifier
type Func func() error

func (f Func) Notify() error {
	return f()
}

// Nop is a Notifier that does nothing
type Nop struct{}

func (Nop) Notify() error { return nil }

// BellNotifier rings the terminal bell by writing BEL to w
type BellNotifier struct {
	w  io.Writer
	mu sync.Mutex
}

func NewBellNotifier(w io.Writer) *BellNotifier {
	return &BellNotifier{w: w}
}

func (n *BellNotifier) Notify() error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if _, err := io.WriteString(n.w, "\a"); err != nil {
		return fmt.Errorf("ringing bell: %w", err)
	}
	return nil
}

// FromConfig builds the Notifier selected by cfg.Kind. bell is where the
// terminal bell is written for the "bell" kind.
func FromConfig(cfg config.AlertConfig, bell io.Writer) (Notifier, error) {
	switch cfg.Kind {
	case config.AlertKindBell:
		return NewBellNotifier(bell), nil
	case config.AlertKindSound:
		n, err := NewSoundNotifier(cfg.SoundPath, cfg.Volume)
		if err != nil {
			return nil, err
		}
		return n, nil
	case config.AlertKindDesktop:
		return NewDesktopNotifier(cfg.Title, cfg.Message, ""), nil
	case config.AlertKindNone:
		return Nop{}, nil
	default:
		return nil, fmt.Errorf("unknown alert kind %q", cfg.Kind)
	}
}
