package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfidenceScoring(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		context   bool
		mentioned bool
		want      int
	}{
		{"nothing", "random chatter", false, false, 0},
		{"mention alone", "hey bot", false, true, 50},
		{"context alone", "sure thing", true, false, 30},
		{"high verb alone", "i'll do snacks", false, false, 40},
		{"high verb with context", "i've got snacks", true, false, 70},
		{"high verb with mention and context", "i'll bring snacks", true, true, 120},
		{"medium verb alone", "will do", false, false, 20},
		{"medium verb with context lowercase", "bringing snacks", true, false, 50},
		{"medium verb with context and a name", "John is bringing snacks", true, false, 70},
		{"question docks thirty", "i'll do snacks ok?", false, false, 10},
		{"question saturates at zero", "who?", false, false, 0},
		{"question after context", "what should i bring", true, false, 0},
		{"negation hard zero", "i can't do snacks", true, true, 0},
		{"negation beats everything", "i've got it but won't make it", true, true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Confidence(tt.text, tt.context, tt.mentioned))
		})
	}
}
