package storage

import "context"

// Moderator is a group member allowed to run privileged bot commands.
type Moderator struct {
	UserID  string
	Name    string
	AddedBy string
}

// ModeratorStore persists the set of moderators.
type ModeratorStore interface {
	Add(ctx context.Context, mod Moderator) error
	Remove(ctx context.Context, userID string) error
	List(ctx context.Context) ([]Moderator, error)
	IsModerator(ctx context.Context, userID string) (bool, error)
	Ready(ctx context.Context) error
	Close() error
}
