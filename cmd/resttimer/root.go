package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	resttimer "github.com/Dhayashisan/MuscleCreater"
	"github.com/Dhayashisan/MuscleCreater/alert"
	"github.com/Dhayashisan/MuscleCreater/config"
	"github.com/Dhayashisan/MuscleCreater/logging"
	"github.com/Dhayashisan/MuscleCreater/metrics"
)

var (
	configPath string
	logLevel   string
	logFormat  string
	version    = "dev" // set via ldflags at build time
)

// state shared by the subcommands, filled in by PersistentPreRunE
var (
	cfg       *config.Config
	log       zerolog.Logger
	logOutput io.Closer
)

var rootCmd = &cobra.Command{
	Use:   "resttimer",
	Short: "Rest timer for the time between training sets",
	Long: `resttimer counts down the rest between sets, printing every second and
playing an alert when the rest is over. It can also start a rest on a
schedule and convert timestamps to Japan Standard Time.`,
	Version:           version,
	SilenceErrors:     true,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logOutput != nil {
			logOutput.Close()
		}
	},
}

// Execute runs the root command. Called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.resttimer/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: trace, debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format: terminal or json")

	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(remindCmd)
	rootCmd.AddCommand(jstCmd)
	rootCmd.AddCommand(halfwidthCmd)
	rootCmd.AddCommand(configCmd)
}

// setup loads the config file and builds the logger
func setup(cmd *cobra.Command, args []string) error {
	path, err := resolveConfigPath()
	if err != nil {
		return err
	}

	cfg, err = config.Load(path)
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("log-level") {
		cfg.Log.Level = logLevel
	}
	if cmd.Flags().Changed("log-format") {
		cfg.Log.Format = logFormat
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}

	var out io.Writer = cmd.ErrOrStderr()
	logOutput = nil
	if cfg.Log.Output != "" {
		w, err := logging.Output(cfg.Log.Output)
		if err != nil {
			return err
		}
		out = w
		logOutput = w
	}

	log = logging.Setup(out, level, cfg.Log.Format, false)
	log.Debug().Str("config", path).Msg("configuration loaded")
	return nil
}

func resolveConfigPath() (string, error) {
	if configPath != "" {
		return configPath, nil
	}
	return config.DefaultPath()
}

// newTimer builds a Timer and its notifier from the loaded config. The bell
// is written to out.
func newTimer(out io.Writer, mc metrics.MetricsCollector) (*resttimer.Timer, alert.Notifier, error) {
	notifier, err := alert.FromConfig(cfg.Alert, out)
	if err != nil {
		return nil, nil, fmt.Errorf("building alert: %w", err)
	}

	return resttimer.New(resttimer.Config{
		Period:         cfg.Timer.Period,
		DefaultSeconds: cfg.Timer.DefaultSeconds,
		Notifier:       notifier,
		Metrics:        mc,
		Logger:         &log,
	}), notifier, nil
}

func logSummary(mc *metrics.InMemoryMetrics) {
	var total time.Duration
	for _, d := range mc.GetSessionDurations() {
		total += d
	}

	log.Debug().
		Int64("started", mc.GetSessionsStarted()).
		Int64("finished", mc.GetSessionsFinished()).
		Int64("canceled", mc.GetSessionsCanceled()).
		Int64("ticks", mc.GetTicks()).
		Int64("alerts_sent", mc.GetAlerts(metrics.AlertStatusSent)).
		Int64("alerts_failed", mc.GetAlerts(metrics.AlertStatusFailed)).
		Dur("rested", total).
		Msg("summary")
}
