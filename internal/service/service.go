// Package service executes bot commands against the schedule data and
// the chat group.
package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/dugout-labs/teambot/internal/config"
	"github.com/dugout-labs/teambot/internal/facts"
	"github.com/dugout-labs/teambot/internal/google"
	"github.com/dugout-labs/teambot/internal/groupme"
	"github.com/dugout-labs/teambot/internal/model"
	"github.com/dugout-labs/teambot/internal/storage"
	"github.com/dugout-labs/teambot/pkg/logger"
)

// BotService correlates schedule data and runs parsed commands. Event
// data is cached between fetches so volunteer assignments can update
// it in place.
type BotService struct {
	cfg     *config.Config
	google  *google.Client
	groupme *groupme.Client
	mods    storage.ModeratorStore
	facts   *facts.Provider
	log     *logger.Logger
	now     func() time.Time

	mu    sync.RWMutex
	cache map[time.Time]model.CorrelatedEvent
}

func New(cfg *config.Config, googleClient *google.Client, groupmeClient *groupme.Client,
	mods storage.ModeratorStore, factsProvider *facts.Provider, log *logger.Logger) *BotService {
	return &BotService{
		cfg:     cfg,
		google:  googleClient,
		groupme: groupmeClient,
		mods:    mods,
		facts:   factsProvider,
		log:     log,
		now:     time.Now,
		cache:   make(map[time.Time]model.CorrelatedEvent),
	}
}

// CorrelateData merges calendar events with sheet rows keyed by date.
// Sheet data wins wherever both sources cover a date; calendar-only
// dates get placeholder details. The cache is replaced wholesale.
func (s *BotService) CorrelateData(ctx context.Context) (map[time.Time]model.CorrelatedEvent, error) {
	s.log.Debug("starting data correlation")

	rows, err := s.google.SheetData(ctx)
	if err != nil {
		return nil, err
	}
	calendarEvents, err := s.google.CalendarEvents(ctx)
	if err != nil {
		return nil, err
	}

	events := make(map[time.Time]model.CorrelatedEvent)

	for _, ce := range calendarEvents {
		events[ce.Date] = model.CorrelatedEvent{
			Date:    ce.Date,
			Summary: ce.Summary,
			Data: model.EventData{
				Date:     ce.Date,
				Time:     "TBD",
				Location: "TBD",
				HomeTeam: "TBD",
			},
		}
	}

	for _, row := range rows {
		data := model.EventData{
			Date:       row.Date,
			Time:       row.Time,
			Location:   row.Location,
			HomeTeam:   row.HomeTeam,
			Snacks:     row.Snacks,
			Livestream: row.Livestream,
			Scoreboard: row.Scoreboard,
			PitchCount: row.PitchCount,
		}

		if event, ok := events[row.Date]; ok {
			// The sheet is more detailed than the calendar, but the
			// calendar summary carries the matchup
			event.Data = data
			events[row.Date] = event
			continue
		}

		summary := fmt.Sprintf("Event on %s", row.Date.Format("2006-01-02"))
		if row.Time != "" && row.HomeTeam != "" {
			summary = row.Time + " - " + row.HomeTeam
		}
		events[row.Date] = model.CorrelatedEvent{
			Date:    row.Date,
			Summary: summary,
			Data:    data,
		}
	}

	s.log.Info("correlation complete", zap.Int("events", len(events)))

	s.mu.Lock()
	s.cache = make(map[time.Time]model.CorrelatedEvent, len(events))
	for date, event := range events {
		s.cache[date] = event
	}
	s.mu.Unlock()

	return events, nil
}

// CachedOrFresh returns the cached event map, correlating fresh data
// only when the cache is empty.
func (s *BotService) CachedOrFresh(ctx context.Context) (map[time.Time]model.CorrelatedEvent, error) {
	s.mu.RLock()
	if len(s.cache) > 0 {
		events := make(map[time.Time]model.CorrelatedEvent, len(s.cache))
		for date, event := range s.cache {
			events[date] = event
		}
		s.mu.RUnlock()
		return events, nil
	}
	s.mu.RUnlock()

	return s.CorrelateData(ctx)
}

func (s *BotService) today() time.Time {
	now := s.now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// FindNextEvent returns the nearest event on or after today.
func (s *BotService) FindNextEvent(ctx context.Context) (*model.CorrelatedEvent, error) {
	events, err := s.CorrelateData(ctx)
	if err != nil {
		return nil, err
	}

	today := s.today()
	var next *model.CorrelatedEvent
	for date := range events {
		if date.Before(today) {
			continue
		}
		if next == nil || date.Before(next.Date) {
			event := events[date]
			next = &event
		}
	}
	return next, nil
}

// FindEventByDate checks the cache first, then correlates fresh data.
func (s *BotService) FindEventByDate(ctx context.Context, date time.Time) (*model.CorrelatedEvent, error) {
	s.mu.RLock()
	if event, ok := s.cache[date]; ok {
		s.mu.RUnlock()
		return &event, nil
	}
	s.mu.RUnlock()

	events, err := s.CorrelateData(ctx)
	if err != nil {
		return nil, err
	}
	if event, ok := events[date]; ok {
		return &event, nil
	}
	return nil, nil
}

func (s *BotService) upcomingEvents(ctx context.Context) ([]model.CorrelatedEvent, error) {
	events, err := s.CorrelateData(ctx)
	if err != nil {
		return nil, err
	}

	today := s.today()
	upcoming := make([]model.CorrelatedEvent, 0, len(events))
	for date, event := range events {
		if !date.Before(today) {
			upcoming = append(upcoming, event)
		}
	}
	sort.Slice(upcoming, func(i, j int) bool { return upcoming[i].Date.Before(upcoming[j].Date) })
	return upcoming, nil
}

// SendResponse posts a reply to the group.
func (s *BotService) SendResponse(ctx context.Context, text string) error {
	return s.groupme.SendMessage(ctx, text)
}

// HandleCommand executes a command and returns the reply text.
// senderID identifies who sent the message and gates the privileged
// commands; cmd.UserID is the target of moderator management.
// Authorization failures come back as ReplyError so the caller posts
// them to the group instead of treating them as faults.
func (s *BotService) HandleCommand(ctx context.Context, cmd *model.Command, senderName, senderID string) (string, error) {
	switch cmd.Kind {
	case model.CmdNextGame:
		event, err := s.FindNextEvent(ctx)
		if err != nil {
			return "", err
		}
		if event == nil {
			return "⚾ No upcoming games found.", nil
		}
		return fmt.Sprintf("%s Next Game: %s\n%s",
			s.cfg.TeamEmoji, event.FormatMatchup(), event.Data.FormatAll()), nil

	case model.CmdNextGames:
		return s.handleNextGames(ctx, cmd.Count)

	case model.CmdNextGameCategory:
		return s.handleNextGameCategory(ctx, cmd.Category)

	case model.CmdLetsGo:
		return s.facts.Fact(), nil

	case model.CmdVolunteer:
		return s.handleVolunteerAssignment(ctx, cmd.Date, cmd.Role, cmd.Person, senderName)

	case model.CmdVolunteerNextGame:
		event, err := s.FindNextEvent(ctx)
		if err != nil {
			return "", err
		}
		if event == nil {
			return "❌ No upcoming games found to volunteer for.", nil
		}
		return s.handleVolunteerAssignment(ctx, event.Date, cmd.Role, cmd.Person, senderName)

	case model.CmdShowVolunteers:
		return s.handleShowVolunteers(ctx, cmd.Date)

	case model.CmdCommands:
		return s.commandsHelp(), nil

	case model.CmdRemoveVolunteer:
		if err := s.requireModerator(ctx, senderID, "remove volunteers"); err != nil {
			return "", err
		}
		return fmt.Sprintf("%s Removing %s from %s is coming soon. For now, ask a moderator to edit the sheet.",
			s.cfg.TeamEmoji, cmd.Person, cmd.Role), nil

	case model.CmdAssignVolunteer:
		if err := s.requireModerator(ctx, senderID, "assign volunteers"); err != nil {
			return "", err
		}
		return fmt.Sprintf("%s Assigning %s to %s is coming soon. For now, ask a moderator to edit the sheet.",
			s.cfg.TeamEmoji, cmd.Person, cmd.Role), nil

	case model.CmdAddModerator:
		if err := s.requireAdmin(senderID, "add moderators"); err != nil {
			return "", err
		}
		mod := storage.Moderator{UserID: cmd.UserID, Name: cmd.Person, AddedBy: senderID}
		if err := s.mods.Add(ctx, mod); err != nil {
			return "", err
		}
		return fmt.Sprintf("%s Added moderator: %s", s.cfg.TeamEmoji, mod.UserID), nil

	case model.CmdRemoveModerator:
		if err := s.requireAdmin(senderID, "remove moderators"); err != nil {
			return "", err
		}
		target := cmd.UserID
		isMod, err := s.mods.IsModerator(ctx, target)
		if err != nil {
			return "", err
		}
		if !isMod {
			return fmt.Sprintf("%s %s was not a moderator", s.cfg.TeamEmoji, target), nil
		}
		if err := s.mods.Remove(ctx, target); err != nil {
			return "", err
		}
		return fmt.Sprintf("%s Removed moderator: %s", s.cfg.TeamEmoji, target), nil

	case model.CmdListModerators:
		mods, err := s.mods.List(ctx)
		if err != nil {
			return "", err
		}
		if len(mods) == 0 {
			return fmt.Sprintf("%s No moderators assigned\nAdmin: %s",
				s.cfg.TeamEmoji, s.cfg.AdminUserID), nil
		}
		ids := make([]string, len(mods))
		for i, mod := range mods {
			ids[i] = mod.UserID
		}
		return fmt.Sprintf("%s Moderators:\n%s\n\nAdmin: %s",
			s.cfg.TeamEmoji, strings.Join(ids, "\n"), s.cfg.AdminUserID), nil

	case model.CmdListBotMessages:
		if err := s.requireModerator(ctx, senderID, "list bot messages"); err != nil {
			return "", err
		}
		return s.handleListBotMessages(ctx, cmd.Count)

	case model.CmdDeleteBotMessage:
		if err := s.requireModerator(ctx, senderID, "delete bot messages"); err != nil {
			return "", err
		}
		if err := s.groupme.DeleteMessage(ctx, cmd.MessageID); err != nil {
			return "", err
		}
		return fmt.Sprintf("%s Deleted message %s", s.cfg.TeamEmoji, cmd.MessageID), nil

	case model.CmdCleanBotMessages:
		if err := s.requireModerator(ctx, senderID, "clean bot messages"); err != nil {
			return "", err
		}
		return s.handleCleanBotMessages(ctx, cmd.Count)

	default:
		return "", fmt.Errorf("unknown command kind: %s", cmd.Kind)
	}
}

func (s *BotService) handleNextGames(ctx context.Context, count int) (string, error) {
	upcoming, err := s.upcomingEvents(ctx)
	if err != nil {
		return "", err
	}
	if len(upcoming) == 0 {
		return "⚾ No upcoming games found.", nil
	}

	if count > len(upcoming) {
		count = len(upcoming)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s Next %d Games:\n\n", s.cfg.TeamEmoji, count)
	for _, event := range upcoming[:count] {
		fmt.Fprintf(&b, "📅 %s - %s\n", event.Date.Format("2006-01-02"), event.FormatMatchup())
		fmt.Fprintf(&b, "⏰ Time: %s\n", event.Data.Time)
		fmt.Fprintf(&b, "📍 Location: %s\n", event.Data.LocationLink())
		fmt.Fprintf(&b, "🏠 Home Team: %s\n\n", event.Data.HomeTeam)
	}
	return b.String(), nil
}

func (s *BotService) handleNextGameCategory(ctx context.Context, category string) (string, error) {
	event, err := s.FindNextEvent(ctx)
	if err != nil {
		return "", err
	}
	if event == nil {
		return "⚾ No upcoming games found.", nil
	}

	if strings.EqualFold(category, "location") {
		return fmt.Sprintf("⚾ Next game location: %s", event.Data.LocationLink()), nil
	}
	if value, ok := event.Data.Field(category); ok {
		return fmt.Sprintf("⚾ Next game %s: %s", category, value), nil
	}
	return fmt.Sprintf("❌ No %s information available for the next game.", category), nil
}

func (s *BotService) handleVolunteerAssignment(ctx context.Context, date time.Time, role, person, senderName string) (string, error) {
	event, err := s.FindEventByDate(ctx, date)
	if err != nil {
		return "", err
	}
	if event == nil {
		return fmt.Sprintf("❌ No event found for %s.", date.Format("2006-01-02")), nil
	}

	if !event.Data.RoleAvailable(role) {
		if current := event.Data.CurrentVolunteer(role); current != "" {
			return fmt.Sprintf("❌ %s is already assigned to %s for %s (%s).",
				current, role, date.Format("2006-01-02"), event.FormatMatchup()), nil
		}
		return "❌ Assignment failed. Code: VOL003", nil
	}

	if err := s.google.UpdateVolunteerAssignment(ctx, date, role, person); err != nil {
		s.log.Warn("failed to update sheet", zap.Error(err))
		return "❌ Update failed. Code: VOL001", nil
	}

	if !event.Data.AssignVolunteer(role, person) {
		return "❌ Assignment failed. Code: VOL002", nil
	}

	s.mu.Lock()
	s.cache[date] = *event
	s.mu.Unlock()

	day := date.Format("2006-01-02")
	matchup := event.FormatMatchup()
	if senderName != "" && sameVolunteer(senderName, person) {
		return fmt.Sprintf("@%s ✅ You've been assigned to %s for %s (%s)!",
			senderName, role, day, matchup), nil
	}
	return fmt.Sprintf("✅ %s has been assigned to %s for %s (%s)!",
		person, role, day, matchup), nil
}

// sameVolunteer is deliberately loose so "Dave" matches "Dave Smith".
func sameVolunteer(sender, person string) bool {
	a, b := strings.ToLower(sender), strings.ToLower(person)
	return a == b || strings.Contains(a, b) || strings.Contains(b, a)
}

func (s *BotService) handleShowVolunteers(ctx context.Context, date time.Time) (string, error) {
	if !date.IsZero() {
		event, err := s.FindEventByDate(ctx, date)
		if err != nil {
			return "", err
		}
		if event == nil {
			return fmt.Sprintf("❌ No event found for %s.", date.Format("2006-01-02")), nil
		}
		return fmt.Sprintf("%s Volunteer status for %s (%s):\n\n%s\n%s",
			s.cfg.TeamEmoji, date.Format("2006-01-02"), event.FormatMatchup(),
			event.Data.FormatAll(), event.Data.FormatVolunteerNeeds()), nil
	}

	upcoming, err := s.upcomingEvents(ctx)
	if err != nil {
		return "", err
	}
	if len(upcoming) == 0 {
		return "❌ No upcoming events found.", nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s Volunteer status for upcoming events:\n\n", s.cfg.TeamEmoji)

	shown := upcoming
	if len(shown) > 5 {
		shown = shown[:5]
	}
	for _, event := range shown {
		fmt.Fprintf(&b, "%s (%s):\n", event.Date.Format("2006-01-02"), event.FormatMatchup())
		fmt.Fprintf(&b, "%s\n\n", event.Data.FormatVolunteerNeeds())
	}
	if len(upcoming) > 5 {
		fmt.Fprintf(&b, "... and %d more events", len(upcoming)-5)
	}
	return b.String(), nil
}

func (s *BotService) handleListBotMessages(ctx context.Context, count int) (string, error) {
	if s.cfg.GroupMeAccessToken == "" || s.cfg.GroupMeGroupID == "" {
		return fmt.Sprintf("%s Message management is not configured. Set GROUPME_ACCESS_TOKEN and GROUPME_GROUP_ID.",
			s.cfg.TeamEmoji), nil
	}

	botMessages, err := s.recentBotMessages(ctx, count)
	if err != nil {
		return "", err
	}
	if len(botMessages) == 0 {
		return fmt.Sprintf("%s No recent bot messages found.", s.cfg.TeamEmoji), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s Recent bot messages (last %d):\n\n", s.cfg.TeamEmoji, len(botMessages))
	for i, msg := range botMessages {
		fmt.Fprintf(&b, "%d. ID: %s - %s\n", i+1, msg.ID, preview(msg.Text, 50))
	}
	return b.String(), nil
}

func (s *BotService) handleCleanBotMessages(ctx context.Context, count int) (string, error) {
	botMessages, err := s.recentBotMessages(ctx, count)
	if err != nil {
		return "", err
	}
	if len(botMessages) == 0 {
		return fmt.Sprintf("%s No recent bot messages found.", s.cfg.TeamEmoji), nil
	}

	deleted := 0
	for _, msg := range botMessages {
		if err := s.groupme.DeleteMessage(ctx, msg.ID); err != nil {
			s.log.Warn("failed to delete bot message",
				zap.String("message_id", msg.ID), zap.Error(err))
			continue
		}
		deleted++
	}
	return fmt.Sprintf("%s Deleted %d of %d recent bot messages.",
		s.cfg.TeamEmoji, deleted, len(botMessages)), nil
}

func (s *BotService) recentBotMessages(ctx context.Context, count int) ([]model.MessageInfo, error) {
	messages, err := s.groupme.ListMessages(ctx, 100, "")
	if err != nil {
		return nil, err
	}

	var botMessages []model.MessageInfo
	for _, msg := range messages {
		if msg.SenderType != "bot" {
			continue
		}
		botMessages = append(botMessages, msg)
		if len(botMessages) >= count {
			break
		}
	}
	return botMessages, nil
}

func preview(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max]) + "..."
}

func (s *BotService) commandsHelp() string {
	bot := s.cfg.GroupMeBotName
	emoji := s.cfg.TeamEmoji

	teamSpirit := "Show team spirit!"
	if s.cfg.EnableTeamFacts {
		teamSpirit = fmt.Sprintf("Get a %s fact!", s.cfg.TeamName)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "⚾ %s Commands:\n\n", bot)
	fmt.Fprintf(&b, "%s Game Info:\n", emoji)
	fmt.Fprintf(&b, "• @%s next game - Full details for next game\n", bot)
	fmt.Fprintf(&b, "• @%s next 3 games - Show next 3 games\n", bot)
	fmt.Fprintf(&b, "• @%s next game snacks - Get snacks info for next game\n\n", bot)
	fmt.Fprintf(&b, "%s Team Spirit:\n", emoji)
	fmt.Fprintf(&b, "• @%s lets go %s - %s\n\n", bot, strings.ToLower(s.cfg.TeamName), teamSpirit)
	fmt.Fprintf(&b, "%s Volunteers:\n", emoji)
	fmt.Fprintf(&b, "• @%s volunteer snacks 2025-01-15 John - Sign up to volunteer\n", bot)
	fmt.Fprintf(&b, "• @%s volunteers - Show all volunteer needs\n", bot)
	fmt.Fprintf(&b, "• @%s volunteers 2025-01-15 - Show needs for specific date\n\n", bot)
	fmt.Fprintf(&b, "📋 Categories: time, location, home, snacks, livestream, scoreboard, pitchcount\n")
	fmt.Fprintf(&b, "%s Let's go %s! ⚾", emoji, s.cfg.TeamName)
	return b.String()
}

func (s *BotService) requireAdmin(userID, action string) error {
	if userID == "" {
		return model.Replyf("%s I couldn't tell who sent that, so I can't %s.", s.cfg.TeamEmoji, action)
	}
	if s.cfg.AdminUserID == "" || userID != s.cfg.AdminUserID {
		return model.Replyf("%s Only the admin can %s", s.cfg.TeamEmoji, action)
	}
	return nil
}

func (s *BotService) requireModerator(ctx context.Context, userID, action string) error {
	if userID == "" {
		return model.Replyf("%s I couldn't tell who sent that, so I can't %s.", s.cfg.TeamEmoji, action)
	}
	if s.cfg.AdminUserID != "" && userID == s.cfg.AdminUserID {
		return nil
	}
	isMod, err := s.mods.IsModerator(ctx, userID)
	if err != nil {
		return err
	}
	if !isMod {
		return model.Replyf("%s Only admins and moderators can %s", s.cfg.TeamEmoji, action)
	}
	return nil
}
