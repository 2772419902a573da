// Package parser turns raw group messages into executable commands. It
// owns the two entry paths into classification: explicit bot mentions and
// mention-free continuations admitted by the confidence gate.
package parser

import (
	"strings"

	"github.com/dugout-labs/teambot/internal/conversation"
	"github.com/dugout-labs/teambot/internal/intent"
	"github.com/dugout-labs/teambot/internal/model"
	"github.com/dugout-labs/teambot/pkg/metrics"
)

// Parser converts message text plus sender metadata into a Command, a
// conversational reply error, or nothing at all.
type Parser struct {
	botName    string
	teamName   string
	classifier *intent.Classifier
	contexts   *conversation.Store
}

// New creates a parser. The context store is injected; its lifetime is
// owned by the process entry point.
func New(botName, teamName string, classifier *intent.Classifier, contexts *conversation.Store) *Parser {
	return &Parser{
		botName:    botName,
		teamName:   teamName,
		classifier: classifier,
		contexts:   contexts,
	}
}

// Parse processes one inbound message. A nil command with nil error means
// the message is not for the bot and should be silently ignored. A
// *model.ReplyError carries conversational text the caller must post back
// to the chat.
func (p *Parser) Parse(text, senderName, userID string, attachments []model.Attachment) (*model.Command, error) {
	text = strings.TrimSpace(text)
	lower := strings.ToLower(text)
	mentioned := strings.Contains(lower, strings.ToLower("@"+p.botName))

	hasVolunteerContext := false
	if userID != "" {
		if ctx, ok := p.contexts.Get(userID); ok {
			hasVolunteerContext = ctx.VolunteerIntent
		}
	}

	confidence := Confidence(text, hasVolunteerContext, mentioned)
	metrics.VolunteerConfidence.Observe(float64(confidence))

	if !mentioned && !(confidence >= 60 && hasVolunteerContext) {
		return nil, nil
	}

	var it intent.ParsedIntent
	if mentioned {
		parsed, ok := p.classifier.Parse(text, senderName, attachments)
		if !ok {
			return nil, nil
		}
		it = parsed
	} else {
		it = p.classifier.Classify(text, senderName, attachments)
	}

	metrics.RecordIntent(string(it.Kind))

	// Context side effects: a mention-bearing volunteer message opens (or
	// restarts) the sender's session; any other processed message just
	// keeps an existing session alive.
	if mentioned && it.Kind == intent.KindVolunteer {
		if userID != "" && senderName != "" {
			p.contexts.CreateOrUpdate(userID, senderName, true, true)
		}
	} else if hasVolunteerContext && userID != "" {
		p.contexts.Touch(userID)
	}

	return p.translate(it)
}

// translate maps a classified intent onto a command, or a clarification
// when required fields are missing.
func (p *Parser) translate(it intent.ParsedIntent) (*model.Command, error) {
	switch it.Kind {
	case intent.KindVolunteer:
		return p.translateVolunteer(it)

	case intent.KindGameQuery:
		return translateGameQuery(it), nil

	case intent.KindVolunteerQuery:
		return &model.Command{Kind: model.CmdShowVolunteers, Date: it.Date}, nil

	case intent.KindTeamSpirit:
		return &model.Command{Kind: model.CmdLetsGo, Team: strings.ToLower(p.teamName)}, nil

	case intent.KindHelp:
		return &model.Command{Kind: model.CmdCommands}, nil

	case intent.KindConversational:
		return nil, &model.ReplyError{Text: it.Message}

	case intent.KindRemoveVolunteer:
		return &model.Command{Kind: model.CmdRemoveVolunteer, Person: it.Person, Role: it.Role, Date: it.Date}, nil

	case intent.KindAssignVolunteer:
		return &model.Command{Kind: model.CmdAssignVolunteer, Person: it.Person, Role: it.Role, Date: it.Date}, nil

	case intent.KindAddModerator:
		return &model.Command{Kind: model.CmdAddModerator, UserID: it.UserID}, nil

	case intent.KindRemoveModerator:
		return &model.Command{Kind: model.CmdRemoveModerator, UserID: it.UserID}, nil

	case intent.KindListModerators:
		return &model.Command{Kind: model.CmdListModerators}, nil

	case intent.KindListBotMessages:
		return &model.Command{Kind: model.CmdListBotMessages, Count: it.Count}, nil

	case intent.KindDeleteBotMessage:
		if it.MessageID == "" {
			return nil, model.Replyf("⚾ Please provide a message ID to delete. Use 'list messages' to see message IDs.")
		}
		return &model.Command{Kind: model.CmdDeleteBotMessage, MessageID: it.MessageID}, nil

	case intent.KindCleanBotMessages:
		return &model.Command{Kind: model.CmdCleanBotMessages, Count: it.Count}, nil

	default:
		return nil, &model.ReplyError{Text: p.classifier.WittyResponse()}
	}
}

// translateVolunteer resolves a volunteer intent against its missing
// fields. A relative game hint ("game after next") is accepted by the
// extractor but not yet differentiated here; any dateless sign-up targets
// the next game.
func (p *Parser) translateVolunteer(it intent.ParsedIntent) (*model.Command, error) {
	role := ""
	if len(it.Roles) > 0 {
		role = it.Roles[0]
	}

	switch {
	case role != "" && !it.Date.IsZero() && it.Person != "":
		return &model.Command{Kind: model.CmdVolunteer, Date: it.Date, Role: role, Person: it.Person}, nil

	case role != "" && it.Person != "":
		return &model.Command{Kind: model.CmdVolunteerNextGame, Role: role, Person: it.Person}, nil

	case role == "" && it.Person != "":
		return nil, model.Replyf("🏴‍☠️ Thanks %s! What would you like to volunteer for? (snacks, livestream, scoreboard, or pitch count)", it.Person)

	case role != "" && it.Person == "":
		return nil, model.Replyf("🏴‍☠️ Great! Someone wants to do %s! Could you tell me your name?", role)

	default:
		return nil, model.Replyf("🏴‍☠️ I think you want to volunteer! Tell me what role you'd like and your name, and I'll sign you up for the next game! 😊")
	}
}

func translateGameQuery(it intent.ParsedIntent) *model.Command {
	switch {
	case it.Category != "":
		return &model.Command{Kind: model.CmdNextGameCategory, Category: it.Category}

	case it.Count > 0:
		count := it.Count
		if count > 10 {
			count = 3
		}
		return &model.Command{Kind: model.CmdNextGames, Count: count}

	default:
		return &model.Command{Kind: model.CmdNextGame}
	}
}
