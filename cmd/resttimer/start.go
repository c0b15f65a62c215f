package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	resttimer "github.com/Dhayashisan/MuscleCreater"
	"github.com/Dhayashisan/MuscleCreater/alert"
	"github.com/Dhayashisan/MuscleCreater/display"
	"github.com/Dhayashisan/MuscleCreater/metrics"
)

var startSeconds int

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Count down one rest",
	Long: `Count down from --seconds (timer.default_seconds when unset), printing the
remaining time every second. The alert plays when it reaches zero.
Ctrl-C cancels the rest.`,
	Args: cobra.NoArgs,
	RunE: runStart,
}

func init() {
	startCmd.Flags().IntVarP(&startSeconds, "seconds", "s", 0, "seconds to rest")
}

func runStart(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	mc := metrics.NewInMemoryMetrics()

	tm, notifier, err := newTimer(out, mc)
	if err != nil {
		return err
	}
	// let the last sound finish after the pool has drained
	defer alert.Wait(notifier)
	defer tm.Close()

	loc, err := time.LoadLocation(cfg.Display.Timezone)
	if err != nil {
		return fmt.Errorf("loading display timezone: %w", err)
	}

	s := tm.Start(resttimer.Options{
		Seconds:  startSeconds,
		OnTick:   printTick(out, loc),
		OnFinish: func() { fmt.Fprintln(out, "\nRest is over.") },
	})

	err = s.Wait(ctx)
	if errors.Is(err, context.Canceled) {
		s.Cancel()
		fmt.Fprintln(out, "\nRest canceled.")
		err = nil
	}

	logSummary(mc)
	return err
}

// printTick rewrites one terminal line with the time left and when the rest ends
func printTick(out io.Writer, loc *time.Location) func(int) {
	return func(remaining int) {
		ends := time.Now().Add(time.Duration(remaining) * cfg.Timer.Period)
		fmt.Fprintf(out, "\rRest %s  (until %s)", formatRemaining(remaining), display.FormatIn(ends, loc))
	}
}

func formatRemaining(seconds int) string {
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
