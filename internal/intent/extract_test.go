package intent

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestExtractDateRelative(t *testing.T) {
	// Wednesday
	now := time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		text string
		want time.Time
	}{
		{"today", "i've got snacks today", time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)},
		{"tomorrow", "snacks tomorrow", time.Date(2025, 1, 16, 0, 0, 0, 0, time.UTC)},
		{"upcoming saturday", "snacks for saturday", time.Date(2025, 1, 18, 0, 0, 0, 0, time.UTC)},
		{"next saturday", "snacks for next saturday", time.Date(2025, 1, 25, 0, 0, 0, 0, time.UTC)},
		{"same weekday rolls a week", "snacks wednesday", time.Date(2025, 1, 22, 0, 0, 0, 0, time.UTC)},
		{"past weekday rolls a week", "snacks monday", time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC)},
		{"iso date", "snacks 2025-01-20", time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC)},
		{"us slash date", "snacks on 1/20/2025", time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC)},
		{"yearless date", "snacks 3/15", time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)},
		{"no date", "i've got snacks", time.Time{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractDate(tt.text, now))
		})
	}
}

func TestExtractRoles(t *testing.T) {
	tests := []struct {
		text string
		want []string
	}{
		{"i've got snacks", []string{"snacks"}},
		{"i'll do the livestream", []string{"livestream"}},
		{"snacks and livestream", []string{"snacks", "livestream"}},
		// Output order is family order, not mention order
		{"livestream and snacks", []string{"snacks", "livestream"}},
		{"i'll handle the scoreboard", []string{"scoreboard"}},
		{"pitch count for me", []string{"pitchcount"}},
		{"gamechanger duty", []string{"scoreboard"}},
		{"nothing relevant", nil},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ExtractRoles(tt.text), "text: %q", tt.text)
	}
}

func TestExtractPersonName(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"for pattern", "I've got snacks for John", "John"},
		{"for pattern skips weekday", "I've got snacks for Saturday John", "John"},
		{"multi word name", "snacks for Mary Beth", "Mary Beth"},
		{"hyphen pattern", "snacks saturday - Mary Beth", "Mary Beth"},
		{"capitalized run fallback", "Hobbs have snacks", "Hobbs"},
		{"mention token excluded", "@PirateBot Hobbs have snacks", "Hobbs"},
		{"pronoun excluded", "I'll bring snacks", ""},
		{"all lowercase", "i'll bring snacks for the game", ""},
		{"single letter excluded", "snacks for J", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractPersonName(tt.text))
		})
	}
}

func TestExtractGameCategory(t *testing.T) {
	assert.Equal(t, "time", extractGameCategory("what time is the game"))
	assert.Equal(t, "where", extractGameCategory("where is the next game"))
	// "time" outranks "location" in the priority list
	assert.Equal(t, "time", extractGameCategory("what time and location"))
	assert.Equal(t, "", extractGameCategory("next game"))
}

func TestExtractGameCount(t *testing.T) {
	assert.Equal(t, 3, extractGameCount("next 3 games"))
	assert.Equal(t, 3, extractGameCount("next three games"))
	assert.Equal(t, 5, extractGameCount("show 5 games please"))
	// Integer not followed by a game token does not count
	assert.Equal(t, 0, extractGameCount("3 snacks please"))
	assert.Equal(t, 0, extractGameCount("next game"))
}

func TestExtractRelativeGame(t *testing.T) {
	assert.Equal(t, 0, extractRelativeGame("snacks for the next game"))
	assert.Equal(t, 1, extractRelativeGame("snacks for the game after next"))
	assert.Equal(t, 1, extractRelativeGame("snacks for the second game"))
	assert.Equal(t, 2, extractRelativeGame("snacks for the third game"))
	assert.Equal(t, -1, extractRelativeGame("i've got snacks"))
}

func TestExtractRelativeTime(t *testing.T) {
	assert.Equal(t, "next", extractRelativeTime("next game"))
	assert.Equal(t, "upcoming", extractRelativeTime("upcoming games"))
	assert.Equal(t, "", extractRelativeTime("schedule"))
}
