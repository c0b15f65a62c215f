package ticker

import (
	"time"
)

type onceSchedule struct {
	scheduledTime time.Time
}

// next reports the scheduled time until the ticker has fired once. A time
// already in the past is still reported so that it fires immediately.
func (s *onceSchedule) next(_ time.Time, fired int) (time.Time, bool) {
	if fired > 0 {
		return time.Time{}, false
	}
	return s.scheduledTime, true
}

// NewOnceTicker creates a ticker that fires a single time
func NewOnceTicker(scheduledTime time.Time, config Config) (*Ticker, error) {
	loc, err := loadLocation(config.Timezone)
	if err != nil {
		return nil, err
	}

	return newTicker("once", &onceSchedule{scheduledTime: scheduledTime.In(loc)}, config)
}
