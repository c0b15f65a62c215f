package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	resttimer "github.com/Dhayashisan/MuscleCreater"
	"github.com/Dhayashisan/MuscleCreater/alert"
	"github.com/Dhayashisan/MuscleCreater/display"
	"github.com/Dhayashisan/MuscleCreater/metrics"
	"github.com/Dhayashisan/MuscleCreater/reminder"
	"github.com/Dhayashisan/MuscleCreater/ticker"
)

var (
	remindCron    string
	remindEvery   time.Duration
	remindCount   int
	remindAt      string
	remindSeconds int
	remindName    string
)

var remindCmd = &cobra.Command{
	Use:   "remind",
	Short: "Start a rest on a schedule",
	Long: `Start a rest countdown every time a schedule fires, until interrupted.
Exactly one of --cron, --every or --at selects the schedule. A fire that
arrives while the previous rest is still counting down is skipped.`,
	Example: `  resttimer remind --cron "*/5 * * * *" --seconds 90
  resttimer remind --every 3m --count 5
  resttimer remind --at 2026-02-03T10:12:00Z`,
	Args: cobra.NoArgs,
	RunE: runRemind,
}

func init() {
	f := remindCmd.Flags()
	f.StringVar(&remindCron, "cron", "", "five-field cron expression")
	f.DurationVar(&remindEvery, "every", 0, "fixed interval between rests")
	f.IntVar(&remindCount, "count", 0, "number of --every fires, 0 for unlimited")
	f.StringVar(&remindAt, "at", "", "single UTC timestamp to start a rest at")
	f.IntVarP(&remindSeconds, "seconds", "s", 0, "seconds to rest (reminder.seconds when unset)")
	f.StringVar(&remindName, "name", "", "reminder name (reminder.name when unset)")

	remindCmd.MarkFlagsMutuallyExclusive("cron", "every", "at")
	remindCmd.MarkFlagsOneRequired("cron", "every", "at")
}

func buildTrigger() (*ticker.Ticker, error) {
	tc := ticker.Config{Timezone: cfg.Reminder.Timezone}

	switch {
	case remindCron != "":
		return ticker.NewCronTicker(remindCron, tc)
	case remindEvery > 0:
		return ticker.NewIntervalTicker(remindEvery, time.Now().Add(remindEvery), remindCount, tc)
	case remindAt != "":
		at, err := display.Parse(remindAt)
		if err != nil {
			return nil, err
		}
		return ticker.NewOnceTicker(at, tc)
	default:
		return nil, fmt.Errorf("--every must be positive")
	}
}

func runRemind(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	mc := metrics.NewInMemoryMetrics()

	trigger, err := buildTrigger()
	if err != nil {
		return err
	}

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

	seconds := cfg.Reminder.Seconds
	if cmd.Flags().Changed("seconds") {
		seconds = remindSeconds
	}
	name := cfg.Reminder.Name
	if remindName != "" {
		name = remindName
	}

	r := reminder.New(trigger, tm, reminder.Config{
		Name: name,
		Options: resttimer.Options{
			Seconds:  seconds,
			OnTick:   printTick(out, loc),
			OnFinish: func() { fmt.Fprintln(out, "\nRest is over.") },
		},
		OnStart: func(fireID string, s *resttimer.Session) {
			fmt.Fprintf(out, "\n%s: rest started\n", display.FormatIn(s.StartedAt, loc))
		},
		Metrics: mc,
		Logger:  &log,
	})

	if next, err := trigger.NextRun(); err == nil && next != nil {
		fmt.Fprintf(out, "Next rest at %s\n", display.FormatIn(*next, loc))
	}

	if err := r.Start(); err != nil {
		return err
	}

	select {
	case <-ctx.Done():
	case <-r.Done():
		// schedule exhausted, let the last rest finish
		if s := r.Current(); s != nil {
			s.Wait(ctx)
		}
	}

	err = r.Shutdown(5 * time.Second)
	logSummary(mc)
	log.Debug().Int64("skipped", mc.GetRemindersSkipped(name)).Msg("reminder summary")
	return err
}
