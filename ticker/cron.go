package ticker

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// cronParser accepts the standard five fields plus descriptors like @hourly
var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

type cronSchedule struct {
	expression string
	schedule   cron.Schedule
}

func (s *cronSchedule) next(after time.Time, _ int) (time.Time, bool) {
	next := s.schedule.Next(after)
	if next.IsZero() {
		// robfig/cron gives up after five years without a match
		return time.Time{}, false
	}
	return next, true
}

// NewCronTicker creates a ticker firing on a cron expression, evaluated in
// the configured timezone
func NewCronTicker(expression string, config Config) (*Ticker, error) {
	schedule, err := cronParser.Parse(expression)
	if err != nil {
		return nil, fmt.Errorf("invalid cron expression %s: %w", expression, err)
	}

	return newTicker("cron", &cronSchedule{expression: expression, schedule: schedule}, config)
}
