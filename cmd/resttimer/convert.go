package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Dhayashisan/MuscleCreater/display"
)

var jstZone string

var jstCmd = &cobra.Command{
	Use:   "jst <utc-timestamp>...",
	Short: "Convert UTC timestamps to Japan Standard Time",
	Long: `Print each UTC timestamp as "YYYY/MM/DD HH:mm" in Asia/Tokyo, or in the
zone given by --tz or display.timezone.`,
	Example: `  resttimer jst 2026-02-03T10:12:00.000Z`,
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		zone := cfg.Display.Timezone
		if jstZone != "" {
			zone = jstZone
		}

		loc, err := time.LoadLocation(zone)
		if err != nil {
			return fmt.Errorf("loading timezone %q: %w", zone, err)
		}

		for _, arg := range args {
			s, err := display.ToZone(arg, loc)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), s)
		}
		return nil
	},
}

var halfwidthCmd = &cobra.Command{
	Use:     "halfwidth <text>...",
	Short:   "Convert full-width digits to half-width",
	Example: `  resttimer halfwidth １２回`,
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), display.HalfWidthDigits(strings.Join(args, " ")))
		return nil
	},
}

func init() {
	jstCmd.Flags().StringVar(&jstZone, "tz", "", "IANA zone to convert to")
}
