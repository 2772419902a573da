package parser

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dugout-labs/teambot/internal/conversation"
	"github.com/dugout-labs/teambot/internal/intent"
	"github.com/dugout-labs/teambot/internal/model"
)

// Wednesday 2025-01-15 noon.
var testNow = time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)

func newTestParser() *Parser {
	clock := func() time.Time { return testNow }
	classifier := intent.NewClassifier("PirateBot", clock, func(n int) int { return 0 })
	contexts := conversation.NewStore(30*time.Minute, clock)
	return New("PirateBot", "Pirates", classifier, contexts)
}

func TestParseVolunteerWithDateRoleAndName(t *testing.T) {
	p := newTestParser()

	cmd, err := p.Parse("@PirateBot I've got snacks for Saturday John", "Dave", "u1", nil)
	require.NoError(t, err)
	require.NotNil(t, cmd)
	assert.Equal(t, model.CmdVolunteer, cmd.Kind)
	assert.Equal(t, "snacks", cmd.Role)
	assert.Equal(t, "John", cmd.Person)
	assert.Equal(t, time.Date(2025, 1, 18, 0, 0, 0, 0, time.UTC), cmd.Date)
}

func TestParseVolunteerNextGame(t *testing.T) {
	p := newTestParser()

	cmd, err := p.Parse("@PirateBot Hobbs have snacks", "Dave", "u1", nil)
	require.NoError(t, err)
	require.NotNil(t, cmd)
	assert.Equal(t, model.CmdVolunteerNextGame, cmd.Kind)
	assert.Equal(t, "snacks", cmd.Role)
	assert.Equal(t, "Hobbs", cmd.Person)
}

func TestParseNextGame(t *testing.T) {
	p := newTestParser()

	cmd, err := p.Parse("@PirateBot when's the next game?", "Dave", "u1", nil)
	require.NoError(t, err)
	require.NotNil(t, cmd)
	assert.Equal(t, model.CmdNextGame, cmd.Kind)
}

func TestParseGameQueryCategoryAndCount(t *testing.T) {
	p := newTestParser()

	cmd, err := p.Parse("@PirateBot what time is the game", "Dave", "u1", nil)
	require.NoError(t, err)
	require.NotNil(t, cmd)
	assert.Equal(t, model.CmdNextGameCategory, cmd.Kind)
	assert.Equal(t, "time", cmd.Category)

	cmd, err = p.Parse("@PirateBot next 3 games", "Dave", "u1", nil)
	require.NoError(t, err)
	require.NotNil(t, cmd)
	assert.Equal(t, model.CmdNextGames, cmd.Kind)
	assert.Equal(t, 3, cmd.Count)

	// Oversized counts collapse to 3
	cmd, err = p.Parse("@PirateBot next 50 games", "Dave", "u1", nil)
	require.NoError(t, err)
	require.NotNil(t, cmd)
	assert.Equal(t, 3, cmd.Count)
}

func TestParseHelpAndSpirit(t *testing.T) {
	p := newTestParser()

	cmd, err := p.Parse("@PirateBot help", "Dave", "u1", nil)
	require.NoError(t, err)
	require.NotNil(t, cmd)
	assert.Equal(t, model.CmdCommands, cmd.Kind)

	cmd, err = p.Parse("@PirateBot let's go pirates!", "Dave", "u1", nil)
	require.NoError(t, err)
	require.NotNil(t, cmd)
	assert.Equal(t, model.CmdLetsGo, cmd.Kind)
	assert.Equal(t, "pirates", cmd.Team)
}

func TestParseUnknownGivesWittyReply(t *testing.T) {
	p := newTestParser()

	cmd, err := p.Parse("@PirateBot blah blah random stuff", "Dave", "u1", nil)
	assert.Nil(t, cmd)
	require.Error(t, err)

	var reply *model.ReplyError
	require.True(t, errors.As(err, &reply))
	assert.NotEmpty(t, reply.Text)
}

func TestParseIgnoresUnaddressedMessages(t *testing.T) {
	p := newTestParser()

	cmd, err := p.Parse("anyone up for pizza after the game?", "Dave", "u1", nil)
	assert.Nil(t, cmd)
	assert.NoError(t, err)
}

func TestParseMentionFreeContinuation(t *testing.T) {
	p := newTestParser()

	// A mention-bearing volunteer message opens the sender's session but
	// names no role, so it comes back as a clarification.
	cmd, err := p.Parse("@PirateBot i'll bring something", "Dave", "u1", nil)
	assert.Nil(t, cmd)
	require.Error(t, err)

	// The follow-up carries no mention; the confidence gate admits it
	// through the live context (context 30 + high verb 40).
	cmd, err = p.Parse("i'll do snacks", "Dave", "u1", nil)
	require.NoError(t, err)
	require.NotNil(t, cmd)
	assert.Equal(t, model.CmdVolunteerNextGame, cmd.Kind)
	assert.Equal(t, "snacks", cmd.Role)
	assert.Equal(t, "Dave", cmd.Person)
}

func TestParseContinuationRequiresContext(t *testing.T) {
	p := newTestParser()

	// Same text, no live session: silently ignored even though the verb
	// alone scores 40.
	cmd, err := p.Parse("i'll do snacks", "Dave", "u2", nil)
	assert.Nil(t, cmd)
	assert.NoError(t, err)
}

func TestParseVolunteerClarifications(t *testing.T) {
	p := newTestParser()

	// Role but the sender name is empty and no name is in the text
	_, err := p.Parse("@PirateBot i'll bring snacks", "", "u1", nil)
	var reply *model.ReplyError
	require.True(t, errors.As(err, &reply))
	assert.Contains(t, reply.Text, "tell me your name")

	// Name but no role
	_, err = p.Parse("@PirateBot put me down for Saturday - Mary Beth", "", "u1", nil)
	require.True(t, errors.As(err, &reply))
	assert.Contains(t, reply.Text, "Thanks Mary Beth!")

	// Neither
	_, err = p.Parse("@PirateBot i want to volunteer", "", "u1", nil)
	require.True(t, errors.As(err, &reply))
	assert.Contains(t, reply.Text, "I think you want to volunteer")
}

func TestParseDeleteMessageNeedsID(t *testing.T) {
	p := newTestParser()

	_, err := p.Parse("@PirateBot delete message", "Admin", "u1", nil)
	var reply *model.ReplyError
	require.True(t, errors.As(err, &reply))
	assert.Contains(t, reply.Text, "message ID")

	cmd, err := p.Parse("@PirateBot delete message 123456789012345", "Admin", "u1", nil)
	require.NoError(t, err)
	require.NotNil(t, cmd)
	assert.Equal(t, model.CmdDeleteBotMessage, cmd.Kind)
	assert.Equal(t, "123456789012345", cmd.MessageID)
}

func TestParseConversationalReply(t *testing.T) {
	p := newTestParser()

	_, err := p.Parse("@PirateBot thanks!", "Dave", "u1", nil)
	var reply *model.ReplyError
	require.True(t, errors.As(err, &reply))
	assert.Contains(t, reply.Text, "You're welcome")
}
