// Package conversation tracks short-lived per-user conversational state,
// enabling mention-free follow-ups during a volunteer sign-up.
package conversation

import (
	"sync"
	"time"

	"github.com/dugout-labs/teambot/pkg/metrics"
)

// Context is one user's live conversational state.
type Context struct {
	UserID         string
	UserName       string
	SessionStart   time.Time
	LastActivity   time.Time
	VolunteerIntent bool
	MentionedBot   bool
}

// Store holds per-user contexts with lazy expiry: entries older than the
// session timeout are evicted as a side effect of every read or write,
// never by a background timer. Safe for concurrent use; the store-wide
// lock also serializes per-user updates so LastActivity stays monotonic.
type Store struct {
	mu       sync.RWMutex
	contexts map[string]Context
	timeout  time.Duration
	now      func() time.Time
}

// NewStore creates a context store. now may be nil to use the wall clock.
func NewStore(timeout time.Duration, now func() time.Time) *Store {
	if now == nil {
		now = time.Now
	}
	return &Store{
		contexts: make(map[string]Context),
		timeout:  timeout,
		now:      now,
	}
}

// CreateOrUpdate overwrites the user's context. A new message replaces the
// old entry wholesale, it never merges.
func (s *Store) CreateOrUpdate(userID, userName string, volunteerIntent, mentionedBot bool) {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.evictExpired(now)
	s.contexts[userID] = Context{
		UserID:          userID,
		UserName:        userName,
		SessionStart:    now,
		LastActivity:    now,
		VolunteerIntent: volunteerIntent,
		MentionedBot:    mentionedBot,
	}
	metrics.ActiveContexts.Set(float64(len(s.contexts)))
}

// Get returns the user's live context, if any. Expired entries read as
// absent.
func (s *Store) Get(userID string) (Context, bool) {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.evictExpired(now)
	ctx, ok := s.contexts[userID]
	return ctx, ok
}

// Touch refreshes the user's last-activity timestamp without changing
// anything else.
func (s *Store) Touch(userID string) {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.evictExpired(now)
	if ctx, ok := s.contexts[userID]; ok {
		ctx.LastActivity = now
		s.contexts[userID] = ctx
	}
}

// Clear removes the user's context.
func (s *Store) Clear(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.contexts, userID)
	metrics.ActiveContexts.Set(float64(len(s.contexts)))
}

// evictExpired must be called with the write lock held.
func (s *Store) evictExpired(now time.Time) {
	for id, ctx := range s.contexts {
		if now.Sub(ctx.LastActivity) >= s.timeout {
			delete(s.contexts, id)
		}
	}
	metrics.ActiveContexts.Set(float64(len(s.contexts)))
}
