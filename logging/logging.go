// Package logging builds the zerolog logger used by the CLI.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/diode"
)

const (
	FormatTerminal = "terminal"
	FormatJSON     = "json"
)

// Setup returns a logger writing to output. The terminal format uses a
// zerolog.ConsoleWriter, colored when stdout is a TTY or forceColor is set.
func Setup(output io.Writer, level zerolog.Level, format string, forceColor bool) zerolog.Logger {
	o := output
	if format == FormatTerminal {
		useColor := forceColor || isatty.IsTerminal(os.Stdout.Fd())

		o = zerolog.ConsoleWriter{
			Out:        o,
			TimeFormat: time.RFC3339,
			NoColor:    !useColor,
		}
	}

	z := zerolog.New(o).With().Timestamp()
	if level <= zerolog.DebugLevel {
		z = z.Caller()
	}

	return z.Logger().Level(level)
}

// Output opens f for appending behind a non-blocking diode writer.
// Closing the writer flushes pending entries and closes the file.
func Output(f string) (io.WriteCloser, error) {
	out, err := os.OpenFile(filepath.Clean(f), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening log file %q: %w", f, err)
	}

	return diode.NewWriter(out, 1000, 10*time.Millisecond, nil), nil
}

// ParseLevel accepts zerolog level names; empty means info.
func ParseLevel(s string) (zerolog.Level, error) {
	if strings.TrimSpace(s) == "" {
		return zerolog.InfoLevel, nil
	}

	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("parsing log level %q: %w", s, err)
	}
	return lvl, nil
}
