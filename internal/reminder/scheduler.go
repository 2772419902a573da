// Package reminder sends automatic game reminders to the group.
package reminder

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
	"github.com/dugout-labs/teambot/internal/model"
	"github.com/dugout-labs/teambot/internal/service"
	"github.com/dugout-labs/teambot/internal/weather"
	"github.com/dugout-labs/teambot/pkg/logger"
	"github.com/dugout-labs/teambot/pkg/metrics"
)

const checkInterval = 5 * time.Minute

// Scheduler checks the schedule periodically and sends a 24-hour and
// a 15-minute reminder before the next game. Reminders are only sent
// during the configured daytime window and at most once per game.
type Scheduler struct {
	svc     *service.BotService
	weather *weather.Client
	facts   *facts.Provider
	cfg     *config.Config
	log     *logger.Logger
	now     func() time.Time

	mu       sync.Mutex
	sent24h  map[string]struct{}
	sent15m  map[string]struct{}
	interval time.Duration
}

func New(svc *service.BotService, weatherClient *weather.Client, factsProvider *facts.Provider,
	cfg *config.Config, log *logger.Logger) *Scheduler {
	return &Scheduler{
		svc:      svc,
		weather:  weatherClient,
		facts:    factsProvider,
		cfg:      cfg,
		log:      log,
		now:      time.Now,
		sent24h:  make(map[string]struct{}),
		sent15m:  make(map[string]struct{}),
		interval: checkInterval,
	}
}

// Start runs the check loop until ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) {
	s.log.Info("reminder scheduler started",
		zap.Int("start_hour", s.cfg.ReminderStartHour),
		zap.Int("end_hour", s.cfg.ReminderEndHour))

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("reminder scheduler stopped")
			return
		case <-ticker.C:
			if err := s.checkAndSend(ctx); err != nil {
				s.log.Error("error checking reminders", zap.Error(err))
			}
		}
	}
}

func (s *Scheduler) withinReminderHours() bool {
	hour := s.now().Hour()
	return hour >= s.cfg.ReminderStartHour && hour < s.cfg.ReminderEndHour
}

func (s *Scheduler) checkAndSend(ctx context.Context) error {
	if !s.withinReminderHours() {
		return nil
	}

	event, err := s.nextEvent(ctx)
	if err != nil {
		s.log.Warn("error fetching game data for reminders", zap.Error(err))
		return nil
	}
	if event == nil {
		s.log.Debug("no upcoming games found for reminders")
		return nil
	}

	gameTime := strings.TrimSpace(event.Data.Time)
	gameKey := event.Date.Format("2006-01-02") + "T" + gameTime

	if gameTime == "" || strings.EqualFold(gameTime, "TBD") {
		s.log.Debug("skipping reminder, time is TBD", zap.String("game", gameKey))
		return nil
	}

	gameDatetime, err := parseGameDatetime(event.Date, gameTime)
	if err != nil {
		s.log.Warn("could not parse game time",
			zap.String("time", gameTime), zap.String("game", gameKey))
		return nil
	}

	now := s.now()
	untilGame := gameDatetime.Sub(now)
	s.log.Debug("next game timing",
		zap.String("game", gameKey),
		zap.Duration("until", untilGame))

	if untilGame <= 24*time.Hour && untilGame > 23*time.Hour && s.markSent(s.sent24h, gameKey) {
		if err := s.send24h(ctx, event); err != nil {
			return err
		}
		metrics.RemindersTotal.WithLabelValues("24h").Inc()
	}

	if untilGame <= 15*time.Minute && untilGame > 0 && s.markSent(s.sent15m, gameKey) {
		if err := s.send15m(ctx); err != nil {
			return err
		}
		metrics.RemindersTotal.WithLabelValues("15m").Inc()
	}

	s.cleanup()
	return nil
}

// nextEvent finds the nearest game that has not started yet. A game
// today with an unparseable time is assumed to still be upcoming.
func (s *Scheduler) nextEvent(ctx context.Context) (*model.CorrelatedEvent, error) {
	events, err := s.svc.CorrelateData(ctx)
	if err != nil {
		return nil, err
	}

	sorted := make([]model.CorrelatedEvent, 0, len(events))
	for _, event := range events {
		sorted = append(sorted, event)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })

	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	for i := range sorted {
		event := &sorted[i]
		if event.Date.Before(today) {
			continue
		}
		if !event.Date.Equal(today) {
			return event, nil
		}
		dt, err := parseGameDatetime(event.Date, event.Data.Time)
		if err != nil || dt.After(now) {
			return event, nil
		}
	}
	return nil, nil
}

// markSent records the key and reports whether it was new.
func (s *Scheduler) markSent(sent map[string]struct{}, key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := sent[key]; ok {
		return false
	}
	sent[key] = struct{}{}
	return true
}

func (s *Scheduler) send24h(ctx context.Context, event *model.CorrelatedEvent) error {
	var b strings.Builder
	fmt.Fprintf(&b, "⏰ Game Reminder! 24 hours until:\n\n%s %s\n",
		s.cfg.TeamEmoji, event.FormatMatchup())
	b.WriteString(event.Data.FormatAll())

	if s.weather != nil && event.Data.Location != "" {
		forecast, err := s.weather.Forecast(ctx, event.Data.Location, event.Date, event.Data.Time)
		if err != nil {
			s.log.Debug("skipping weather line", zap.Error(err))
		} else {
			b.WriteString(forecast)
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(event.Data.FormatVolunteerNeeds())

	s.log.Info("sending 24-hour reminder", zap.String("date", event.Date.Format("2006-01-02")))
	return s.svc.SendResponse(ctx, b.String())
}

func (s *Scheduler) send15m(ctx context.Context) error {
	var b strings.Builder
	fmt.Fprintf(&b, "⚾ Game starting in 15 minutes! %s\n\n", s.cfg.TeamEmoji)

	if s.facts != nil {
		b.WriteString(s.facts.Fact())
		b.WriteString("\n\n")
	}

	fmt.Fprintf(&b, "⚾ Let's go %s! %s", s.cfg.TeamName, s.cfg.TeamEmoji)

	s.log.Info("sending 15-minute reminder")
	return s.svc.SendResponse(ctx, b.String())
}

var gameTimeLayouts = []string{
	"3:04 PM",
	"3:04PM",
	"15:04",
	"15:04:05",
}

func parseGameDatetime(date time.Time, timeStr string) (time.Time, error) {
	trimmed := strings.TrimSpace(timeStr)
	for _, layout := range gameTimeLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return time.Date(date.Year(), date.Month(), date.Day(),
				t.Hour(), t.Minute(), t.Second(), 0, time.Local), nil
		}
	}
	return time.Time{}, fmt.Errorf("could not parse time: %q", timeStr)
}

// cleanup drops sent markers for games more than a day in the past so
// the sets do not grow across a season.
func (s *Scheduler) cleanup() {
	cutoff := s.now().AddDate(0, 0, -1)

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, sent := range []map[string]struct{}{s.sent24h, s.sent15m} {
		for key := range sent {
			datePart, _, _ := strings.Cut(key, "T")
			date, err := time.ParseInLocation("2006-01-02", datePart, time.Local)
			if err != nil || date.Before(cutoff) {
				delete(sent, key)
			}
		}
	}
}
