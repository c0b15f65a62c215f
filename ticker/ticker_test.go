package ticker

import (
	"testing"
	"time"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestCronTickerCreation(t *testing.T) {
	tests := []struct {
		name        string
		expression  string
		shouldError bool
	}{
		{"valid every minute", "*/1 * * * *", false},
		{"valid daily at midnight", "0 0 * * *", false},
		{"valid weekly on monday", "0 0 * * 1", false},
		{"valid descriptor", "@hourly", false},
		{"invalid expression", "invalid", true},
		{"invalid too many fields", "* * * * * *", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := Config{Timezone: "UTC"}
			_, err := NewCronTicker(tt.expression, config)

			if tt.shouldError && err == nil {
				t.Errorf("Expected error for expression %s, got nil", tt.expression)
			}
			if !tt.shouldError && err != nil {
				t.Errorf("Unexpected error for expression %s: %v", tt.expression, err)
			}
		})
	}
}

func TestCronTickerInvalidTimezone(t *testing.T) {
	_, err := NewCronTicker("0 * * * *", Config{Timezone: "Invalid/Timezone"})
	if err == nil {
		t.Error("Expected error for invalid timezone")
	}
}

func TestCronTickerNextRun(t *testing.T) {
	ticker, err := NewCronTicker("*/5 * * * *", Config{Timezone: "UTC"})
	if err != nil {
		t.Fatalf("Failed to create ticker: %v", err)
	}

	nextRun, err := ticker.NextRun()
	if err != nil {
		t.Fatalf("Failed to get next run: %v", err)
	}
	if nextRun == nil {
		t.Fatal("Next run should not be nil")
	}

	now := time.Now().UTC()
	if nextRun.Before(now) {
		t.Errorf("Next run should be in the future, got %s (now: %s)", nextRun, now)
	}
	if nextRun.Minute()%5 != 0 {
		t.Errorf("Next run should be on a 5 minute boundary, got %s", nextRun)
	}
}

func TestCronTickerOccurrencesBetween(t *testing.T) {
	ticker, err := NewCronTicker("0 * * * *", Config{Timezone: "UTC"}) // Every hour
	if err != nil {
		t.Fatalf("Failed to create ticker: %v", err)
	}

	start := time.Date(2026, 2, 3, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 2, 3, 5, 0, 0, 0, time.UTC)

	occurrences, err := ticker.OccurrencesBetween(start, end)
	if err != nil {
		t.Fatalf("Failed to get occurrences: %v", err)
	}

	// Should have 5 occurrences: 1:00, 2:00, 3:00, 4:00, 5:00
	if len(occurrences) != 5 {
		t.Fatalf("Expected 5 occurrences, got %d", len(occurrences))
	}

	for i, occ := range occurrences {
		expectedHour := i + 1
		if occ.Hour() != expectedHour {
			t.Errorf("Occurrence %d: expected hour %d, got %d", i, expectedHour, occ.Hour())
		}
		if occ.Minute() != 0 {
			t.Errorf("Occurrence %d: expected minute 0, got %d", i, occ.Minute())
		}
	}
}

func TestCronTickerEvaluatesInTimezone(t *testing.T) {
	// 09:00 every day in Tokyo is 00:00 UTC
	ticker, err := NewCronTicker("0 9 * * *", Config{Timezone: "Asia/Tokyo"})
	if err != nil {
		t.Fatalf("Failed to create ticker: %v", err)
	}

	start := time.Date(2026, 2, 3, 12, 0, 0, 0, time.UTC)
	end := time.Date(2026, 2, 5, 12, 0, 0, 0, time.UTC)

	occurrences, err := ticker.OccurrencesBetween(start, end)
	if err != nil {
		t.Fatalf("Failed to get occurrences: %v", err)
	}

	if len(occurrences) != 2 {
		t.Fatalf("Expected 2 occurrences, got %d", len(occurrences))
	}
	for _, occ := range occurrences {
		if utc := occ.UTC(); utc.Hour() != 0 || utc.Minute() != 0 {
			t.Errorf("Expected 00:00 UTC, got %s", utc)
		}
	}
}

func TestCronTickerWithTimeWindow(t *testing.T) {
	startTime := time.Date(2026, 2, 3, 9, 0, 0, 0, time.UTC)
	endTime := time.Date(2026, 2, 3, 17, 0, 0, 0, time.UTC)

	config := Config{
		Timezone:  "UTC",
		StartTime: &startTime,
		EndTime:   &endTime,
	}

	ticker, err := NewCronTicker("0 * * * *", config)
	if err != nil {
		t.Fatalf("Failed to create ticker: %v", err)
	}

	queryStart := time.Date(2026, 2, 3, 0, 0, 0, 0, time.UTC)
	queryEnd := time.Date(2026, 2, 3, 23, 59, 0, 0, time.UTC)

	occurrences, err := ticker.OccurrencesBetween(queryStart, queryEnd)
	if err != nil {
		t.Fatalf("Failed to get occurrences: %v", err)
	}

	// 9:00 through 17:00 inclusive
	if len(occurrences) != 9 {
		t.Errorf("Expected 9 occurrences, got %d", len(occurrences))
	}

	for _, occ := range occurrences {
		if occ.Before(startTime) || occ.After(endTime) {
			t.Errorf("Occurrence %s outside of time window [%s, %s]", occ, startTime, endTime)
		}
	}
}

func TestIntervalTickerCreation(t *testing.T) {
	config := Config{Timezone: "UTC"}

	ticker, err := NewIntervalTicker(25*time.Minute, time.Now(), 0, config)
	if err != nil {
		t.Errorf("Failed to create ticker: %v", err)
	}
	if ticker == nil {
		t.Fatal("Ticker should not be nil")
	}
	if ticker.Kind() != "interval" {
		t.Errorf("Kind() = %q, want interval", ticker.Kind())
	}

	if _, err = NewIntervalTicker(-1*time.Hour, time.Now(), 0, config); err == nil {
		t.Error("Expected error for negative interval")
	}

	if _, err = NewIntervalTicker(time.Hour, time.Now(), -1, config); err == nil {
		t.Error("Expected error for negative repetitions")
	}

	badConfig := Config{Timezone: "Invalid/Timezone"}
	if _, err = NewIntervalTicker(1*time.Hour, time.Now(), 0, badConfig); err == nil {
		t.Error("Expected error for invalid timezone")
	}
}

func TestIntervalTickerNextRun(t *testing.T) {
	startTime := time.Now().Add(10 * time.Minute)

	ticker, err := NewIntervalTicker(30*time.Minute, startTime, 5, Config{Timezone: "UTC"})
	if err != nil {
		t.Fatalf("Failed to create ticker: %v", err)
	}

	nextRun, err := ticker.NextRun()
	if err != nil {
		t.Fatalf("Failed to get next run: %v", err)
	}
	if nextRun == nil {
		t.Fatal("Next run should not be nil")
	}

	// Next run should be the start time
	if !nextRun.Equal(startTime) {
		t.Errorf("Next run should be %s, got %s", startTime, nextRun)
	}
}

func TestIntervalTickerOccurrencesBetween(t *testing.T) {
	startTime := time.Date(2026, 2, 3, 0, 0, 0, 0, time.UTC)

	ticker, err := NewIntervalTicker(2*time.Hour, startTime, 5, Config{Timezone: "UTC"})
	if err != nil {
		t.Fatalf("Failed to create ticker: %v", err)
	}

	queryStart := startTime.Add(-time.Hour)
	queryEnd := time.Date(2026, 2, 3, 23, 59, 0, 0, time.UTC)

	occurrences, err := ticker.OccurrencesBetween(queryStart, queryEnd)
	if err != nil {
		t.Fatalf("Failed to get occurrences: %v", err)
	}

	// Should have exactly 5 occurrences (limited by repetitions)
	if len(occurrences) != 5 {
		t.Fatalf("Expected 5 occurrences, got %d", len(occurrences))
	}

	if !occurrences[0].Equal(startTime) {
		t.Errorf("First occurrence should be the start time, got %s", occurrences[0])
	}

	for i := 0; i < len(occurrences)-1; i++ {
		interval := occurrences[i+1].Sub(occurrences[i])
		if interval != 2*time.Hour {
			t.Errorf("Expected 2 hour interval, got %s", interval)
		}
	}
}

func TestIntervalTickerFiresAndCloses(t *testing.T) {
	ticker, err := NewIntervalTicker(20*time.Millisecond, time.Now().Add(20*time.Millisecond), 3, Config{})
	if err != nil {
		t.Fatalf("Failed to create ticker: %v", err)
	}

	if err := ticker.Start(); err != nil {
		t.Fatalf("Failed to start: %v", err)
	}

	fires := 0
	timeout := time.After(2 * time.Second)
	for done := false; !done; {
		select {
		case _, ok := <-ticker.Channel():
			if !ok {
				done = true
				continue
			}
			fires++
		case <-timeout:
			t.Fatalf("Ticker did not close its channel, got %d fires", fires)
		}
	}

	if fires != 3 {
		t.Errorf("Expected 3 fires, got %d", fires)
	}

	nextRun, err := ticker.NextRun()
	if err != nil {
		t.Fatalf("Failed to get next run: %v", err)
	}
	if nextRun != nil {
		t.Errorf("Exhausted ticker should have no next run, got %s", nextRun)
	}

	if err := ticker.Stop(); err != nil {
		t.Errorf("Failed to stop: %v", err)
	}
}

func TestOnceTickerCreation(t *testing.T) {
	config := Config{Timezone: "UTC"}
	scheduledTime := time.Now().Add(1 * time.Hour)

	ticker, err := NewOnceTicker(scheduledTime, config)
	if err != nil {
		t.Errorf("Failed to create ticker: %v", err)
	}
	if ticker == nil {
		t.Error("Ticker should not be nil")
	}

	badConfig := Config{Timezone: "Invalid/Timezone"}
	if _, err = NewOnceTicker(scheduledTime, badConfig); err == nil {
		t.Error("Expected error for invalid timezone")
	}
}

func TestOnceTickerNextRun(t *testing.T) {
	scheduledTime := time.Date(2030, 12, 25, 0, 0, 0, 0, time.UTC)

	ticker, err := NewOnceTicker(scheduledTime, Config{Timezone: "UTC"})
	if err != nil {
		t.Fatalf("Failed to create ticker: %v", err)
	}

	nextRun, err := ticker.NextRun()
	if err != nil {
		t.Fatalf("Failed to get next run: %v", err)
	}
	if nextRun == nil {
		t.Fatal("Next run should not be nil")
	}

	if !nextRun.Equal(scheduledTime) {
		t.Errorf("Next run should be %s, got %s", scheduledTime, nextRun)
	}
}

func TestOnceTickerOccurrencesBetween(t *testing.T) {
	scheduledTime := time.Date(2026, 2, 3, 12, 0, 0, 0, time.UTC)

	ticker, err := NewOnceTicker(scheduledTime, Config{Timezone: "UTC"})
	if err != nil {
		t.Fatalf("Failed to create ticker: %v", err)
	}

	// Query window that includes the scheduled time
	queryStart := time.Date(2026, 2, 3, 0, 0, 0, 0, time.UTC)
	queryEnd := time.Date(2026, 2, 3, 23, 59, 0, 0, time.UTC)

	occurrences, err := ticker.OccurrencesBetween(queryStart, queryEnd)
	if err != nil {
		t.Fatalf("Failed to get occurrences: %v", err)
	}

	if len(occurrences) != 1 {
		t.Fatalf("Expected 1 occurrence, got %d", len(occurrences))
	}
	if !occurrences[0].Equal(scheduledTime) {
		t.Errorf("Occurrence should be %s, got %s", scheduledTime, occurrences[0])
	}

	// Query window that excludes the scheduled time
	queryStart2 := time.Date(2026, 2, 4, 0, 0, 0, 0, time.UTC)
	queryEnd2 := time.Date(2026, 2, 5, 0, 0, 0, 0, time.UTC)

	occurrences2, err := ticker.OccurrencesBetween(queryStart2, queryEnd2)
	if err != nil {
		t.Fatalf("Failed to get occurrences: %v", err)
	}

	if len(occurrences2) != 0 {
		t.Errorf("Expected 0 occurrences, got %d", len(occurrences2))
	}
}

func TestOnceTickerInPastFiresImmediately(t *testing.T) {
	ticker, err := NewOnceTicker(time.Now().Add(-time.Minute), Config{})
	if err != nil {
		t.Fatalf("Failed to create ticker: %v", err)
	}

	if err := ticker.Start(); err != nil {
		t.Fatalf("Failed to start: %v", err)
	}

	select {
	case fire, ok := <-ticker.Channel():
		if !ok {
			t.Fatal("Channel closed before the fire was delivered")
		}
		if fire.ActualTime.Before(fire.ScheduledTime) {
			t.Errorf("Fire delivered before its scheduled time: %+v", fire)
		}
	case <-time.After(time.Second):
		t.Fatal("Once ticker in the past should fire immediately")
	}

	// Exhausted after one fire
	select {
	case _, ok := <-ticker.Channel():
		if ok {
			t.Error("Once ticker should fire only once")
		}
	case <-time.After(time.Second):
		t.Error("Once ticker should close its channel after firing")
	}
}

func TestTickerControlMethods(t *testing.T) {
	ticker, err := NewCronTicker("*/1 * * * *", Config{Timezone: "UTC"})
	if err != nil {
		t.Fatalf("Failed to create ticker: %v", err)
	}

	if ticker.IsRunning() {
		t.Error("Ticker should not be running before Start")
	}

	if err := ticker.Start(); err != nil {
		t.Errorf("Failed to start: %v", err)
	}
	if !ticker.IsRunning() {
		t.Error("Ticker should be running after Start")
	}

	// Starting again should be a no-op
	if err := ticker.Start(); err != nil {
		t.Errorf("Second start should be a no-op: %v", err)
	}

	if err := ticker.Stop(); err != nil {
		t.Errorf("Failed to stop: %v", err)
	}

	// The channel closes once the loop exits
	select {
	case _, ok := <-ticker.Channel():
		if ok {
			t.Error("Expected closed channel after Stop")
		}
	case <-time.After(time.Second):
		t.Error("Channel should close after Stop")
	}

	if err := ticker.Start(); err == nil {
		t.Error("Start after Stop should fail")
	}

	// Stopping twice should be a no-op
	if err := ticker.Stop(); err != nil {
		t.Errorf("Second stop should be a no-op: %v", err)
	}
}

func TestTickerStopBeforeStart(t *testing.T) {
	ticker, err := NewOnceTicker(time.Now().Add(time.Hour), Config{})
	if err != nil {
		t.Fatalf("Failed to create ticker: %v", err)
	}

	if err := ticker.Stop(); err != nil {
		t.Fatalf("Failed to stop: %v", err)
	}

	if _, ok := <-ticker.Channel(); ok {
		t.Error("Expected closed channel for a ticker stopped before Start")
	}
}
