package ticker

import (
	"fmt"
	"time"
)

type intervalSchedule struct {
	interval    time.Duration
	startTime   time.Time
	repetitions int // 0 means infinite
}

func (s *intervalSchedule) next(after time.Time, _ int) (time.Time, bool) {
	var index int64
	if !after.Before(s.startTime) {
		index = int64(after.Sub(s.startTime)/s.interval) + 1
	}

	if s.repetitions > 0 && index >= int64(s.repetitions) {
		return time.Time{}, false
	}

	return s.startTime.Add(time.Duration(index) * s.interval), true
}

// NewIntervalTicker creates a ticker firing every interval from startTime.
// repetitions limits the number of fires (0 for infinite).
func NewIntervalTicker(interval time.Duration, startTime time.Time, repetitions int, config Config) (*Ticker, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("interval must be positive")
	}
	if repetitions < 0 {
		return nil, fmt.Errorf("repetitions must not be negative")
	}

	loc, err := loadLocation(config.Timezone)
	if err != nil {
		return nil, err
	}

	return newTicker("interval", &intervalSchedule{
		interval:    interval,
		startTime:   startTime.In(loc),
		repetitions: repetitions,
	}, config)
}
