package intent

import (
	"strconv"
	"strings"
	"time"
	"unicode"
)

// extractDate pulls a calendar date out of free text, relative to now.
// Checks run in order: today/tomorrow, weekday names (next occurrence,
// "+next" pushes a week), then explicit date tokens. Returns the zero
// time when nothing matches.
func extractDate(text string, now time.Time) time.Time {
	today := civilDate(now.UTC())

	if strings.Contains(text, "today") {
		return today
	}
	if strings.Contains(text, "tomorrow") {
		return today.AddDate(0, 0, 1)
	}

	if d, ok := weekdayDate(text, today); ok {
		return d
	}

	return explicitDate(text, today)
}

// weekdays are checked in listed order; full names precede their
// abbreviations so "saturday" is not consumed as "sat".
var weekdays = []struct {
	name   string
	target int // Monday = 0
}{
	{"monday", 0}, {"mon", 0},
	{"tuesday", 1}, {"tues", 1}, {"tue", 1},
	{"wednesday", 2}, {"wed", 2},
	{"thursday", 3}, {"thurs", 3}, {"thu", 3},
	{"friday", 4}, {"fri", 4},
	{"saturday", 5}, {"sat", 5},
	{"sunday", 6}, {"sun", 6},
}

func weekdayDate(text string, today time.Time) (time.Time, bool) {
	for _, wd := range weekdays {
		if !strings.Contains(text, wd.name) {
			continue
		}

		current := (int(today.Weekday()) + 6) % 7 // Monday = 0
		daysAhead := wd.target - current
		// Same weekday or already passed this week rolls to next week.
		if daysAhead <= 0 {
			daysAhead += 7
		}
		if strings.Contains(text, "next") {
			daysAhead += 7
		}
		return today.AddDate(0, 0, daysAhead), true
	}
	return time.Time{}, false
}

// dateLayouts are tried left to right for every whitespace token. The
// non-padded forms accept both "03/05" and "3/5" style tokens.
var dateLayouts = []string{
	"2006-1-2",
	"1/2/2006",
	"1-2-2006",
	"2/1/2006",
	"2006/1/2",
}

func explicitDate(text string, today time.Time) time.Time {
	year := strconv.Itoa(today.Year())
	for _, word := range strings.Fields(text) {
		for _, layout := range dateLayouts {
			if d, err := time.Parse(layout, word); err == nil {
				return civilDate(d)
			}
		}
		// Year-less month/day tokens assume the current year.
		if d, err := time.Parse("1/2/2006", word+"/"+year); err == nil {
			return civilDate(d)
		}
	}
	return time.Time{}
}

func civilDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// extractRelativeGame maps relative-game phrases to a zero-based game
// index. Returns -1 when no phrase matches.
func extractRelativeGame(text string) int {
	if strings.Contains(text, "next game") ||
		(strings.Contains(text, "next") && !strings.Contains(text, "after")) {
		return 0
	}
	if strings.Contains(text, "game after next") || strings.Contains(text, "after next") {
		return 1
	}
	if strings.Contains(text, "two games") || strings.Contains(text, "2 games") ||
		strings.Contains(text, "second game") {
		return 1
	}
	if strings.Contains(text, "three games") || strings.Contains(text, "3 games") ||
		strings.Contains(text, "third game") {
		return 2
	}
	return -1
}

// roleFamilies maps keyword families to canonical role names, in the fixed
// order roles are reported in.
var roleFamilies = []struct {
	keywords []string
	role     string
}{
	{[]string{"snacks", "snack", "food", "treats"}, "snacks"},
	{[]string{"livestream", "stream", "streaming", "live"}, "livestream"},
	{[]string{"scoreboard", "score", "scoring", "gamechanger", "game changer"}, "scoreboard"},
	{[]string{"pitchcount", "pitch count", "pitch", "pitches"}, "pitchcount"},
}

// ExtractRoles returns every canonical role whose keyword family appears
// in the text, in family-scan order.
func ExtractRoles(text string) []string {
	var roles []string
	for _, f := range roleFamilies {
		if containsAny(text, f.keywords) {
			roles = append(roles, f.role)
		}
	}
	return roles
}

// nameExclusions are tokens that can start with a capital but never name a
// volunteer: pronouns and contractions, plus calendar words (so "snacks
// for Saturday John" names John, not Saturday).
var nameExclusions = map[string]struct{}{
	"i": {}, "i've": {}, "i'll": {}, "i'm": {},
	"we": {}, "we've": {}, "we'll": {}, "we're": {},
	"you": {}, "you've": {}, "you'll": {},
	"he": {}, "she": {}, "they": {}, "it": {},
	"today": {}, "tomorrow": {},
	"monday": {}, "mon": {},
	"tuesday": {}, "tues": {}, "tue": {},
	"wednesday": {}, "wed": {},
	"thursday": {}, "thurs": {}, "thu": {},
	"friday": {}, "fri": {},
	"saturday": {}, "sat": {},
	"sunday": {}, "sun": {},
}

func nameExcluded(word string) bool {
	if strings.HasPrefix(word, "@") || len(word) <= 1 {
		return true
	}
	normalized := strings.Trim(strings.ToLower(word), "'")
	_, excluded := nameExclusions[normalized]
	return excluded
}

func startsUpper(word string) bool {
	for _, r := range word {
		return unicode.IsUpper(r)
	}
	return false
}

// captureName collects the run of capitalized tokens starting at words[i].
// Excluded tokens inside the run are dropped without ending it; the first
// non-capitalized token ends it.
func captureName(words []string, i int) string {
	var parts []string
	for _, w := range words[i:] {
		if !startsUpper(w) {
			break
		}
		if nameExcluded(w) {
			continue
		}
		parts = append(parts, w)
	}
	return strings.Join(parts, " ")
}

// ExtractPersonName finds a person's name in original-cased text. It tries
// "for NAME", then "- NAME", then any run of capitalized tokens. Returns
// "" when nothing qualifies; callers may fall back to the sender's name.
func ExtractPersonName(text string) string {
	words := strings.Fields(text)

	for i, w := range words {
		if strings.ToLower(w) == "for" && i+1 < len(words) {
			if name := captureName(words, i+1); name != "" {
				return name
			}
			break
		}
	}

	for i, w := range words {
		if w == "-" && i+1 < len(words) {
			if name := captureName(words, i+1); name != "" {
				return name
			}
			break
		}
	}

	for i, w := range words {
		if startsUpper(w) && !nameExcluded(w) {
			if name := captureName(words, i); name != "" {
				return name
			}
		}
	}

	return ""
}

// gameCategories in priority order; the first literal match wins.
var gameCategories = []string{
	"time", "location", "where", "home", "snacks",
	"livestream", "scoreboard", "pitchcount", "pitch count",
}

func extractGameCategory(text string) string {
	for _, cat := range gameCategories {
		if strings.Contains(text, cat) {
			return cat
		}
	}
	return ""
}

var numberWords = []struct {
	word string
	n    int
}{
	{"one", 1}, {"two", 2}, {"three", 3}, {"four", 4}, {"five", 5},
	{"six", 6}, {"seven", 7}, {"eight", 8}, {"nine", 9}, {"ten", 10},
}

// extractGameCount finds "3 games" style counts, then spelled-out numbers
// co-occurring with "game". Returns 0 when no count is present.
func extractGameCount(text string) int {
	words := strings.Fields(text)
	for i, w := range words {
		if n, err := strconv.Atoi(w); err == nil {
			if i+1 < len(words) && strings.Contains(words[i+1], "game") {
				return n
			}
		}
	}

	if strings.Contains(text, "game") {
		for _, nw := range numberWords {
			if strings.Contains(text, nw.word) {
				return nw.n
			}
		}
	}
	return 0
}

func extractRelativeTime(text string) string {
	if strings.Contains(text, "next") {
		return "next"
	}
	if strings.Contains(text, "upcoming") {
		return "upcoming"
	}
	return ""
}
