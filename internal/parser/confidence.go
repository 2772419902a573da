package parser

import "strings"

var highConfidenceVerbs = []string{
	"i'll do", "i've got", "i can do", "i'll bring",
	"put me down", "sign me up", "i got", "i will do",
}

var mediumConfidenceVerbs = []string{
	"will do", "can do", "doing", "bringing",
}

var questionMarkers = []string{"who", "what", "when", "where", "?"}

var negationMarkers = []string{"can't", "won't", "not doing", "unable"}

// Confidence scores how likely a message continues a volunteer
// conversation. Never negative; negation overrides every other signal.
func Confidence(text string, hasContext, mentionedBot bool) int {
	lower := strings.ToLower(text)
	confidence := 0

	if mentionedBot {
		confidence += 50
	}
	if hasContext {
		confidence += 30
	}

	switch {
	case containsAny(lower, highConfidenceVerbs):
		confidence += 40
	case containsAny(lower, mediumConfidenceVerbs):
		// A capitalized token in a follow-up likely names the volunteer.
		if hasContext && strings.ToLower(text) != text {
			confidence += 40
		} else {
			confidence += 20
		}
	}

	if containsAny(lower, questionMarkers) {
		confidence -= 30
		if confidence < 0 {
			confidence = 0
		}
	}

	if containsAny(lower, negationMarkers) {
		confidence = 0
	}

	return confidence
}

func containsAny(text string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(text, n) {
			return true
		}
	}
	return false
}
