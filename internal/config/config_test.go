package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		GroupMeBotID:      "bot-id",
		GroupMeBotName:    "PirateBot",
		SheetID:           "sheet-id",
		GoogleAPIKey:      "api-key",
		ReminderStartHour: 9,
		ReminderEndHour:   21,
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "PirateBot", cfg.GroupMeBotName)
	assert.Equal(t, "Pirates", cfg.TeamName)
	assert.True(t, cfg.EnableTeamFacts)
	assert.Equal(t, 3*time.Minute, cfg.SessionTimeout)
	assert.Equal(t, 9, cfg.ReminderStartHour)
	assert.Equal(t, 21, cfg.ReminderEndHour)
	assert.Equal(t, 60, cfg.RateLimitRequests)
	assert.Equal(t, time.Minute, cfg.RateLimitWindow)
	assert.False(t, cfg.TracingEnabled)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("TEAM_NAME", "Cubs")
	t.Setenv("ENABLE_TEAM_FACTS", "false")
	t.Setenv("SESSION_TIMEOUT", "10m")
	t.Setenv("REMINDER_START_HOUR", "8")

	cfg := Load()

	assert.Equal(t, "9999", cfg.ServerPort)
	assert.Equal(t, "Cubs", cfg.TeamName)
	assert.False(t, cfg.EnableTeamFacts)
	assert.Equal(t, 10*time.Minute, cfg.SessionTimeout)
	assert.Equal(t, 8, cfg.ReminderStartHour)
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("SESSION_TIMEOUT", "not-a-duration")
	t.Setenv("REMINDER_START_HOUR", "soon")
	t.Setenv("ENABLE_TEAM_FACTS", "yep")

	cfg := Load()

	assert.Equal(t, 3*time.Minute, cfg.SessionTimeout)
	assert.Equal(t, 9, cfg.ReminderStartHour)
	assert.True(t, cfg.EnableTeamFacts)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, validConfig().Validate())

	cfg := validConfig()
	cfg.GroupMeBotID = ""
	requireValidationError(t, cfg, "GROUPME_BOT_ID")

	cfg = validConfig()
	cfg.SheetID = ""
	requireValidationError(t, cfg, "SHEET_ID")

	cfg = validConfig()
	cfg.GoogleAPIKey = ""
	requireValidationError(t, cfg, "GOOGLE_API_KEY")

	// A service account file satisfies the Google credential requirement
	cfg = validConfig()
	cfg.GoogleAPIKey = ""
	cfg.ServiceAccountFile = "/etc/teambot/sa.json"
	assert.NoError(t, cfg.Validate())
}

func TestValidateReminderHours(t *testing.T) {
	cfg := validConfig()
	cfg.ReminderStartHour = -1
	requireValidationError(t, cfg, "REMINDER_START_HOUR")

	cfg = validConfig()
	cfg.ReminderEndHour = 25
	requireValidationError(t, cfg, "REMINDER_END_HOUR")

	cfg = validConfig()
	cfg.ReminderStartHour = 21
	cfg.ReminderEndHour = 9
	requireValidationError(t, cfg, "REMINDER_START_HOUR")
}

func requireValidationError(t *testing.T, cfg *Config, field string) {
	t.Helper()
	err := cfg.Validate()
	require.Error(t, err)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Field, field)
}
