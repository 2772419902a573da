package reminder

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dugout-labs/teambot/internal/config"
	"github.com/dugout-labs/teambot/pkg/logger"
)

func newTestScheduler(now time.Time) *Scheduler {
	cfg := &config.Config{ReminderStartHour: 9, ReminderEndHour: 21}
	s := New(nil, nil, nil, cfg, logger.NewNop())
	s.now = func() time.Time { return now }
	return s
}

func TestParseGameDatetime(t *testing.T) {
	date := time.Date(2025, 1, 18, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		in   string
		hour int
		min  int
	}{
		{"10:00 AM", 10, 0},
		{"3:30 PM", 15, 30},
		{"3:30PM", 15, 30},
		{"14:00", 14, 0},
		{"14:00:30", 14, 0},
	}

	for _, tt := range tests {
		dt, err := parseGameDatetime(date, tt.in)
		require.NoError(t, err, "time %q", tt.in)
		assert.Equal(t, 2025, dt.Year())
		assert.Equal(t, time.January, dt.Month())
		assert.Equal(t, 18, dt.Day())
		assert.Equal(t, tt.hour, dt.Hour(), "time %q", tt.in)
		assert.Equal(t, tt.min, dt.Minute(), "time %q", tt.in)
	}

	_, err := parseGameDatetime(date, "TBD")
	assert.Error(t, err)
	_, err = parseGameDatetime(date, "")
	assert.Error(t, err)
}

func TestWithinReminderHours(t *testing.T) {
	day := time.Date(2025, 1, 15, 0, 0, 0, 0, time.Local)

	tests := []struct {
		hour int
		want bool
	}{
		{8, false},
		{9, true},
		{14, true},
		{20, true},
		{21, false},
		{23, false},
	}

	for _, tt := range tests {
		s := newTestScheduler(day.Add(time.Duration(tt.hour) * time.Hour))
		assert.Equal(t, tt.want, s.withinReminderHours(), "hour %d", tt.hour)
	}
}

func TestMarkSentDedupes(t *testing.T) {
	s := newTestScheduler(time.Now())

	assert.True(t, s.markSent(s.sent24h, "2025-01-18T10:00 AM"))
	assert.False(t, s.markSent(s.sent24h, "2025-01-18T10:00 AM"))

	// The 15-minute set is independent
	assert.True(t, s.markSent(s.sent15m, "2025-01-18T10:00 AM"))
}

func TestCleanupDropsOldMarkers(t *testing.T) {
	now := time.Date(2025, 1, 20, 12, 0, 0, 0, time.Local)
	s := newTestScheduler(now)

	s.markSent(s.sent24h, "2025-01-15T10:00 AM")
	s.markSent(s.sent24h, "2025-01-20T10:00 AM")
	s.markSent(s.sent24h, "2025-01-21T10:00 AM")
	s.markSent(s.sent15m, "garbage-key")

	s.cleanup()

	_, old := s.sent24h["2025-01-15T10:00 AM"]
	assert.False(t, old)
	_, today := s.sent24h["2025-01-20T10:00 AM"]
	assert.True(t, today)
	_, upcoming := s.sent24h["2025-01-21T10:00 AM"]
	assert.True(t, upcoming)
	_, garbage := s.sent15m["garbage-key"]
	assert.False(t, garbage)
}
