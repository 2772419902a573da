// Package config provides environment configuration for the bot server.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the application.
type Config struct {
	// Server settings
	ServerPort         string
	ServerReadTimeout  time.Duration
	ServerWriteTimeout time.Duration

	// GroupMe settings
	GroupMeBotID       string
	GroupMeBotName     string
	GroupMeAccessToken string
	GroupMeGroupID     string

	// Google settings
	SheetID            string
	GoogleAPIKey       string
	ServiceAccountFile string
	CalendarWebcalURL  string

	// Team customization
	TeamName        string
	TeamEmoji       string
	EnableTeamFacts bool
	TeamFactsFile   string

	// Admin / moderation
	AdminUserID string

	// Database (moderator persistence; empty URL keeps moderators in memory)
	DatabaseURL string

	// Conversation context
	SessionTimeout time.Duration

	// Reminders
	ReminderStartHour int
	ReminderEndHour   int

	// Rate limiting
	RateLimitRequests int
	RateLimitWindow   time.Duration

	// Logging
	LogLevel string

	// Tracing
	TracingEndpoint string
	TracingEnabled  bool
}

// Load reads configuration from environment variables.
func Load() *Config {
	return &Config{
		// Server
		ServerPort:         getEnv("PORT", "8080"),
		ServerReadTimeout:  getDurationEnv("SERVER_READ_TIMEOUT", 30*time.Second),
		ServerWriteTimeout: getDurationEnv("SERVER_WRITE_TIMEOUT", 60*time.Second),

		// GroupMe
		GroupMeBotID:       getEnv("GROUPME_BOT_ID", ""),
		GroupMeBotName:     getEnv("GROUPME_BOT_NAME", "PirateBot"),
		GroupMeAccessToken: getEnv("GROUPME_ACCESS_TOKEN", ""),
		GroupMeGroupID:     getEnv("GROUPME_GROUP_ID", ""),

		// Google
		SheetID:            getEnv("SHEET_ID", ""),
		GoogleAPIKey:       getEnv("GOOGLE_API_KEY", ""),
		ServiceAccountFile: getEnv("GOOGLE_SERVICE_ACCOUNT_JSON", ""),
		CalendarWebcalURL:  getEnv("CALENDAR_WEBCAL_URL", ""),

		// Team
		TeamName:        getEnv("TEAM_NAME", "Pirates"),
		TeamEmoji:       getEnv("TEAM_EMOJI", "🏴‍☠️"),
		EnableTeamFacts: getBoolEnv("ENABLE_TEAM_FACTS", true),
		TeamFactsFile:   getEnv("TEAM_FACTS_FILE", ""),

		// Admin
		AdminUserID: getEnv("ADMIN_USER_ID", ""),

		// Database
		DatabaseURL: getEnv("DATABASE_URL", ""),

		// Conversation context
		SessionTimeout: getDurationEnv("SESSION_TIMEOUT", 3*time.Minute),

		// Reminders
		ReminderStartHour: getIntEnv("REMINDER_START_HOUR", 9),
		ReminderEndHour:   getIntEnv("REMINDER_END_HOUR", 21),

		// Rate limiting
		RateLimitRequests: getIntEnv("RATE_LIMIT_REQUESTS", 60),
		RateLimitWindow:   getDurationEnv("RATE_LIMIT_WINDOW", time.Minute),

		// Logging
		LogLevel: getEnv("LOG_LEVEL", "info"),

		// Tracing
		TracingEndpoint: getEnv("TRACING_ENDPOINT", "localhost:4318"),
		TracingEnabled:  getBoolEnv("TRACING_ENABLED", false),
	}
}

// Validate checks required settings and hour ranges.
func (c *Config) Validate() error {
	if c.GroupMeBotID == "" {
		return errMissing("GROUPME_BOT_ID")
	}
	if c.GroupMeBotName == "" {
		return errMissing("GROUPME_BOT_NAME")
	}
	if c.SheetID == "" {
		return errMissing("SHEET_ID")
	}
	if c.GoogleAPIKey == "" && c.ServiceAccountFile == "" {
		return errMissing("GOOGLE_API_KEY or GOOGLE_SERVICE_ACCOUNT_JSON")
	}
	if c.ReminderStartHour < 0 || c.ReminderStartHour > 23 {
		return &ValidationError{Field: "REMINDER_START_HOUR", Reason: "must be between 0 and 23"}
	}
	if c.ReminderEndHour < 1 || c.ReminderEndHour > 24 {
		return &ValidationError{Field: "REMINDER_END_HOUR", Reason: "must be between 1 and 24"}
	}
	if c.ReminderStartHour >= c.ReminderEndHour {
		return &ValidationError{Field: "REMINDER_START_HOUR", Reason: "must be less than REMINDER_END_HOUR"}
	}
	return nil
}

// ValidationError describes an invalid or missing configuration value.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return "config: " + e.Field + " " + e.Reason
}

func errMissing(field string) error {
	return &ValidationError{Field: field, Reason: "is required"}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
