// Package intent implements rule-based natural-language intent
// classification for group chat messages. The classifier is pure: all
// time and randomness come in through injected sources.
package intent

import (
	"strconv"
	"strings"
	"time"

	"github.com/dugout-labs/teambot/internal/model"
)

// Kind identifies a recognized request shape.
type Kind string

const (
	KindVolunteer        Kind = "volunteer"
	KindGameQuery        Kind = "game_query"
	KindVolunteerQuery   Kind = "volunteer_query"
	KindTeamSpirit       Kind = "team_spirit"
	KindHelp             Kind = "help"
	KindUnknown          Kind = "unknown"
	KindRemoveVolunteer  Kind = "remove_volunteer"
	KindAssignVolunteer  Kind = "assign_volunteer"
	KindAddModerator     Kind = "add_moderator"
	KindRemoveModerator  Kind = "remove_moderator"
	KindListModerators   Kind = "list_moderators"
	KindListBotMessages  Kind = "list_bot_messages"
	KindDeleteBotMessage Kind = "delete_bot_message"
	KindCleanBotMessages Kind = "clean_bot_messages"
	KindConversational   Kind = "conversational"
)

// ParsedIntent is the classified meaning of one message. Exactly one is
// produced per non-empty mention-bearing message. Only the fields
// meaningful to Kind are set; a zero Date means "no date extracted" and
// RelativeGame is -1 when no relative game was named.
type ParsedIntent struct {
	Kind Kind

	Roles        []string
	Date         time.Time
	Person       string
	RelativeGame int
	Category     string
	Count        int
	Relative     string
	Role         string
	UserID       string
	MessageID    string
	Message      string
}

func newIntent(kind Kind) ParsedIntent {
	return ParsedIntent{Kind: kind, RelativeGame: -1}
}

// Clock supplies the current time. Injected so tests can fix "today".
type Clock func() time.Time

// Classifier converts free-form chat text into a ParsedIntent using
// ordered keyword and phrase rules.
type Classifier struct {
	botName string
	now     Clock
	pick    func(n int) int
}

// NewClassifier creates a classifier for the given bot name. now and pick
// may be nil, in which case the wall clock and math/rand are used.
func NewClassifier(botName string, now Clock, pick func(n int) int) *Classifier {
	c := &Classifier{botName: botName, now: now, pick: pick}
	if c.now == nil {
		c.now = time.Now
	}
	if c.pick == nil {
		c.pick = defaultPick
	}
	return c
}

// Parse classifies a message. The second return value is false when the
// message does not mention the bot at all; mention-free continuations are
// the parser's concern, not the classifier's.
func (c *Classifier) Parse(text, senderName string, attachments []model.Attachment) (ParsedIntent, bool) {
	text = strings.TrimSpace(text)
	lower := strings.ToLower(text)
	mention := strings.ToLower("@" + c.botName)

	if !strings.Contains(lower, mention) {
		return ParsedIntent{}, false
	}

	cleaned := strings.TrimSpace(strings.ReplaceAll(lower, mention, ""))
	if cleaned == "" {
		return newIntent(KindHelp), true
	}

	return c.detect(cleaned, text, senderName, attachments), true
}

// Classify runs the dispatch rules directly, without requiring a mention.
// This is the entry path for mention-free continuation messages the
// caller's confidence gate has already accepted.
func (c *Classifier) Classify(text, senderName string, attachments []model.Attachment) ParsedIntent {
	text = strings.TrimSpace(text)
	lower := strings.ToLower(text)
	if lower == "" {
		return newIntent(KindHelp)
	}
	return c.detect(lower, text, senderName, attachments)
}

// detect runs the dispatch rules in priority order; the first match wins.
// Admin commands go first so "remove John from snacks" never reads as a
// volunteer sign-up.
func (c *Classifier) detect(text, original, senderName string, attachments []model.Attachment) ParsedIntent {
	if strings.Contains(text, "remove") && strings.Contains(text, "from") {
		return parseRemoveVolunteer(text)
	}
	if strings.Contains(text, "assign") && strings.Contains(text, "to") {
		return parseAssignVolunteer(text)
	}
	if strings.Contains(text, "add moderator") || strings.Contains(text, "add mod") {
		return moderatorIntent(KindAddModerator, text, attachments)
	}
	if strings.Contains(text, "remove moderator") || strings.Contains(text, "remove mod") {
		return moderatorIntent(KindRemoveModerator, text, attachments)
	}
	if strings.Contains(text, "list moderator") || strings.Contains(text, "show moderator") {
		return newIntent(KindListModerators)
	}

	if strings.Contains(text, "list") && strings.Contains(text, "message") {
		it := newIntent(KindListBotMessages)
		it.Count = firstInt(text, 10)
		return it
	}
	if strings.Contains(text, "delete") && strings.Contains(text, "message") {
		it := newIntent(KindDeleteBotMessage)
		it.MessageID = firstMessageID(text)
		return it
	}
	if strings.Contains(text, "clean") && strings.Contains(text, "message") {
		it := newIntent(KindCleanBotMessages)
		it.Count = firstInt(text, 5)
		return it
	}

	if isVolunteerIntent(text) {
		return c.parseVolunteer(text, original, senderName)
	}

	if isGameQueryIntent(text) {
		it := newIntent(KindGameQuery)
		it.Category = extractGameCategory(text)
		it.Count = extractGameCount(text)
		it.Relative = extractRelativeTime(text)
		return it
	}

	if isVolunteerQueryIntent(text) {
		it := newIntent(KindVolunteerQuery)
		it.Date = extractDate(text, c.now())
		return it
	}

	if isTeamSpiritIntent(text) {
		return newIntent(KindTeamSpirit)
	}

	if isHelpIntent(text) {
		return newIntent(KindHelp)
	}

	if isConversational(text) {
		it := newIntent(KindConversational)
		it.Message = conversationalResponse(text)
		return it
	}

	return newIntent(KindUnknown)
}

var volunteerVerbs = []string{
	"i've got", "i have", "i'll bring", "i can do", "i can bring",
	"put me down", "sign me up", "i'll do", "i'll take",
	"count me in", "i got", "i'm doing", "volunteer", "i can",
	"have got", "has got", "will bring", "will do",
}

var volunteerRoleWords = []string{
	"snacks", "snack", "livestream", "stream", "scoreboard", "score",
	"pitchcount", "pitch count", "gamechanger", "game changer",
}

func isVolunteerIntent(text string) bool {
	return containsAny(text, volunteerVerbs) || containsAny(text, volunteerRoleWords)
}

func (c *Classifier) parseVolunteer(text, original, senderName string) ParsedIntent {
	it := newIntent(KindVolunteer)
	it.Roles = ExtractRoles(text)
	it.Date = extractDate(text, c.now())
	it.Person = ExtractPersonName(original)
	it.RelativeGame = extractRelativeGame(text)

	if it.Person == "" {
		it.Person = senderName
	}
	return it
}

var gameQueryWords = []string{
	"next game", "next", "when", "what time", "where", "location",
	"schedule", "upcoming", "games",
}

func isGameQueryIntent(text string) bool {
	return containsAny(text, gameQueryWords)
}

var volunteerQueryWords = []string{
	"who", "who's", "volunteers", "volunteer status", "need", "needed",
	"available", "open", "assignments",
}

var volunteerContextWords = []string{
	"snacks", "livestream", "scoreboard", "pitchcount", "volunteer",
}

// Volunteer queries need both a query word and a volunteer context word;
// either alone belongs to the volunteer or game-query rules above.
func isVolunteerQueryIntent(text string) bool {
	return containsAny(text, volunteerQueryWords) && containsAny(text, volunteerContextWords)
}

var teamSpiritWords = []string{
	"let's go", "lets go", "go pirates", "pirates", "spirit",
	"hype", "pump", "motivation", "fact",
}

func isTeamSpiritIntent(text string) bool {
	return containsAny(text, teamSpiritWords)
}

var helpWords = []string{"help", "commands", "what can you do", "how"}

func isHelpIntent(text string) bool {
	return containsAny(text, helpWords)
}

func parseRemoveVolunteer(text string) ParsedIntent {
	it := newIntent(KindRemoveVolunteer)
	it.Person, it.Role = splitAround(text, "from")
	return it
}

func parseAssignVolunteer(text string) ParsedIntent {
	it := newIntent(KindAssignVolunteer)
	it.Person, it.Role = splitAround(text, "to")
	return it
}

// splitAround parses "<verb> <person...> <pivot> <role>" by locating the
// literal pivot token. The split breaks if the pivot word also appears in
// the person's name; that fragility is inherited and documented.
func splitAround(text, pivot string) (person, role string) {
	words := strings.Fields(text)
	for i, w := range words {
		if w == pivot {
			if i > 1 {
				person = strings.Join(words[1:i], " ")
			}
			if i+1 < len(words) {
				role = words[i+1]
			}
			return person, role
		}
	}
	return "", ""
}

func moderatorIntent(kind Kind, text string, attachments []model.Attachment) ParsedIntent {
	it := newIntent(kind)
	it.UserID = mentionedUserID(text, attachments)
	return it
}

// mentionedUserID prefers the first user id from a "mentions" attachment
// and falls back to the message's last token.
func mentionedUserID(text string, attachments []model.Attachment) string {
	for _, a := range attachments {
		if a.Type == "mentions" && len(a.UserIDs) > 0 {
			return a.UserIDs[0]
		}
	}
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}
	return words[len(words)-1]
}

func firstInt(text string, fallback int) int {
	for _, w := range strings.Fields(text) {
		if n, err := strconv.Atoi(w); err == nil {
			return n
		}
	}
	return fallback
}

// firstMessageID finds a long all-numeric token; chat message ids are
// well over ten digits.
func firstMessageID(text string) string {
	for _, w := range strings.Fields(text) {
		if len(w) > 10 && allDigits(w) {
			return w
		}
	}
	return ""
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}

func containsAny(text string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(text, n) {
			return true
		}
	}
	return false
}
