package intent

import (
	"math/rand"
	"strings"
)

func defaultPick(n int) int {
	return rand.Intn(n)
}

var conversationalKeywords = []string{
	"scared", "fear", "thank", "thanks", "hi", "hello", "funny", "lol",
}

func isConversational(text string) bool {
	return containsAny(text, conversationalKeywords)
}

// conversationalResponse picks a canned reply for small talk, matched in
// fear/thanks/humor/generic priority.
func conversationalResponse(text string) string {
	switch {
	case strings.Contains(text, "scared") || strings.Contains(text, "fear"):
		return "🏴‍☠️ No need to fear! I'm just here to help with baseball. ⚾"
	case strings.Contains(text, "thank"):
		return "🏴‍☠️ You're welcome! Happy to help. ⚾"
	case strings.Contains(text, "funny") || strings.Contains(text, "lol"):
		return "⚾ Humor setting: TARS level. 75% honesty. 🤖"
	default:
		return "🏴‍☠️ Hi! I help with schedules and volunteers. ⚾"
	}
}

var wittyResponses = []string{
	"🏴‍☠️ Ahoy! I'm not quite sure what you're asking, but I'm here to help! Try asking about the next game or volunteer to bring snacks! 🍪",
	"⚾ Hmm, that's a new one! Maybe ask me 'when's the next game?' or 'I've got snacks'? 🤔",
	"🏴‍☠️ I'm still learning pirate speak! Try asking me about games, volunteers, or say 'let's go Pirates!'",
	"⚾ Not quite sure what you mean, matey! Ask me about upcoming games or volunteer roles! 🏴‍☠️",
	"🏴‍☠️ Shiver me timbers! That's a puzzler. Try 'next game', 'I've got snacks', or 'let's go Pirates!' ⚾",
	"⚾ Arrr, I'm not sure what ye be sayin'! Ask about the next game or volunteer to help out! 🏴‍☠️",
	"🏴‍☠️ That one sailed right past me. 'next game', 'volunteers', or 'help' all work! ⚾",
	"⚾ Swing and a miss on my end! Try 'show volunteers' or 'next game'. 🏴‍☠️",
	"🏴‍☠️ My treasure map doesn't cover that. Ask about games or volunteer sign-ups! 🗺️",
	"⚾ I only speak baseball and volunteering, matey. 'when is the next game?' is a good start! 🏴‍☠️",
}

// WittyResponse returns a friendly non-answer for unrecognized input.
func (c *Classifier) WittyResponse() string {
	return wittyResponses[c.pick(len(wittyResponses))]
}
