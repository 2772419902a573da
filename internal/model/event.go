package model

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// EventData holds the per-game details sourced from the volunteer sheet.
// Empty volunteer fields mean the role is still open.
type EventData struct {
	Date       time.Time
	Time       string
	Location   string
	HomeTeam   string
	Snacks     string
	Livestream string
	Scoreboard string
	PitchCount string
}

// CorrelatedEvent joins a calendar entry with its sheet data for one date.
type CorrelatedEvent struct {
	Date    time.Time
	Summary string
	Data    EventData
}

// Field returns the value of a query category, or false if the category is
// unknown for this event.
func (e *EventData) Field(name string) (string, bool) {
	switch strings.ToLower(name) {
	case "time":
		return e.Time, true
	case "location", "where":
		return e.Location, true
	case "hometeam", "home_team", "home":
		return e.HomeTeam, true
	case "snacks":
		return e.Snacks, e.Snacks != ""
	case "livestream":
		return e.Livestream, e.Livestream != ""
	case "scoreboard":
		return e.Scoreboard, e.Scoreboard != ""
	case "pitchcount", "pitch_count", "pitch count":
		return e.PitchCount, e.PitchCount != ""
	default:
		return "", false
	}
}

// RoleAvailable reports whether a volunteer role is still open.
func (e *EventData) RoleAvailable(role string) bool {
	switch strings.ToLower(role) {
	case "snacks":
		return e.Snacks == ""
	case "livestream":
		return e.Livestream == ""
	case "scoreboard":
		return e.Scoreboard == ""
	case "pitchcount", "pitch_count":
		return e.PitchCount == ""
	default:
		return false
	}
}

// CurrentVolunteer returns who holds a role, if anyone.
func (e *EventData) CurrentVolunteer(role string) string {
	switch strings.ToLower(role) {
	case "snacks":
		return e.Snacks
	case "livestream":
		return e.Livestream
	case "scoreboard":
		return e.Scoreboard
	case "pitchcount", "pitch_count":
		return e.PitchCount
	default:
		return ""
	}
}

// AssignVolunteer fills an open role. Returns false if the role is unknown
// or already taken.
func (e *EventData) AssignVolunteer(role, person string) bool {
	switch strings.ToLower(role) {
	case "snacks":
		if e.Snacks != "" {
			return false
		}
		e.Snacks = person
	case "livestream":
		if e.Livestream != "" {
			return false
		}
		e.Livestream = person
	case "scoreboard":
		if e.Scoreboard != "" {
			return false
		}
		e.Scoreboard = person
	case "pitchcount", "pitch_count":
		if e.PitchCount != "" {
			return false
		}
		e.PitchCount = person
	default:
		return false
	}
	return true
}

// LocationLink formats the location with a Google Maps link.
func (e *EventData) LocationLink() string {
	if e.Location == "" {
		return "TBD"
	}
	return fmt.Sprintf("%s (https://maps.google.com/?q=%s)", e.Location, url.QueryEscape(e.Location))
}

func orNeeded(v string) string {
	if v == "" {
		return "⚠️ NEEDED"
	}
	return v
}

// FormatAll renders the full detail block for a game.
func (e *EventData) FormatAll() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Date: %s\n", e.Date.Format("2006-01-02"))
	fmt.Fprintf(&b, "Time: %s\n", e.Time)
	fmt.Fprintf(&b, "Location: %s\n", e.LocationLink())
	fmt.Fprintf(&b, "Home Team: %s\n", e.HomeTeam)
	fmt.Fprintf(&b, "Snacks: %s\n", orNeeded(e.Snacks))
	fmt.Fprintf(&b, "Livestream: %s\n", orNeeded(e.Livestream))
	fmt.Fprintf(&b, "Scoreboard: %s\n", orNeeded(e.Scoreboard))
	fmt.Fprintf(&b, "Pitch Count: %s\n", orNeeded(e.PitchCount))
	return b.String()
}

// FormatVolunteerNeeds lists the roles still open.
func (e *EventData) FormatVolunteerNeeds() string {
	var needs []string
	if e.Snacks == "" {
		needs = append(needs, "snacks")
	}
	if e.Livestream == "" {
		needs = append(needs, "livestream")
	}
	if e.Scoreboard == "" {
		needs = append(needs, "scoreboard")
	}
	if e.PitchCount == "" {
		needs = append(needs, "pitch_count")
	}
	if len(needs) == 0 {
		return "✅ All volunteer roles are filled!"
	}
	return "⚠️ Still needed: " + strings.Join(needs, ", ")
}

// FormatMatchup renders a friendly matchup line from the calendar summary,
// falling back to whatever event details are present.
func (ev *CorrelatedEvent) FormatMatchup() string {
	if home, opponent, ok := parseMatchup(ev.Summary); ok {
		homeLower := strings.ToLower(ev.Data.HomeTeam)
		t1, t2 := strings.ToLower(home), strings.ToLower(opponent)
		switch {
		case homeLower != "" && (strings.Contains(t1, homeLower) || strings.Contains(homeLower, t1)):
			return fmt.Sprintf("%s (Home) vs %s", home, opponent)
		case homeLower != "" && (strings.Contains(t2, homeLower) || strings.Contains(homeLower, t2)):
			return fmt.Sprintf("%s vs %s (Home)", home, opponent)
		default:
			return fmt.Sprintf("%s vs %s", home, opponent)
		}
	}

	if ev.Data.HomeTeam != "" && !strings.EqualFold(ev.Data.HomeTeam, "home") {
		return ev.Data.HomeTeam + " Game"
	}
	if ev.Data.Time != "" && ev.Data.Location != "" {
		return ev.Data.Time + " at " + ev.Data.Location
	}
	if ev.Summary != "" {
		return ev.Summary
	}
	return "Game"
}

// parseMatchup understands the TeamSideline calendar summary format
// "Vs [Opponent] - [Field] ([HomeTeam] - [Coach])" and a plain
// "Team1 vs Team2" fallback. Returns (home, opponent).
func parseMatchup(summary string) (string, string, bool) {
	summary = strings.TrimSpace(summary)
	lower := strings.ToLower(summary)

	if strings.HasPrefix(lower, "vs ") {
		if dash := strings.Index(summary, " - "); dash > 3 {
			opponent := strings.TrimSpace(summary[3:dash])
			open := strings.Index(summary, "(")
			close := strings.Index(summary, ")")
			if open >= 0 && close > open {
				paren := summary[open+1 : close]
				if pd := strings.Index(paren, " - "); pd >= 0 {
					home := strings.TrimSpace(paren[:pd])
					if opponent != "" && home != "" {
						return home, opponent, true
					}
				}
			}
		}
	}

	if vs := strings.Index(lower, " vs "); vs >= 0 {
		team1 := extractTeamName(summary[:vs])
		team2 := extractTeamName(summary[vs+4:])
		if team1 != "" && team2 != "" {
			return team1, team2, true
		}
	}

	return "", "", false
}

func extractTeamName(text string) string {
	text = strings.TrimSpace(text)
	if dash := strings.LastIndex(text, "-"); dash >= 0 {
		if after := strings.TrimSpace(text[dash+1:]); after != "" {
			return cleanTeamName(after)
		}
	}
	return cleanTeamName(text)
}

func cleanTeamName(text string) string {
	text = strings.TrimSpace(text)
	if paren := strings.Index(text, "("); paren >= 0 {
		return strings.TrimSpace(text[:paren])
	}
	return text
}
