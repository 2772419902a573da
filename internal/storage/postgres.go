package storage

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

const schema = `
CREATE TABLE IF NOT EXISTS moderators (
	user_id  TEXT PRIMARY KEY,
	name     TEXT NOT NULL,
	added_by TEXT NOT NULL DEFAULT '',
	added_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// PostgresStore persists moderators in a single table so the list
// survives restarts.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(databaseURL string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("error connecting to the database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("error initializing database schema: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) Add(ctx context.Context, mod Moderator) error {
	query := `
		INSERT INTO moderators (user_id, name, added_by)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE SET name = EXCLUDED.name`

	if _, err := s.db.ExecContext(ctx, query, mod.UserID, mod.Name, mod.AddedBy); err != nil {
		return fmt.Errorf("error adding moderator: %w", err)
	}
	return nil
}

func (s *PostgresStore) Remove(ctx context.Context, userID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM moderators WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("error removing moderator: %w", err)
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context) ([]Moderator, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT user_id, name, added_by FROM moderators ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("error listing moderators: %w", err)
	}
	defer rows.Close()

	var mods []Moderator
	for rows.Next() {
		var mod Moderator
		if err := rows.Scan(&mod.UserID, &mod.Name, &mod.AddedBy); err != nil {
			return nil, fmt.Errorf("error scanning moderator: %w", err)
		}
		mods = append(mods, mod)
	}
	return mods, rows.Err()
}

func (s *PostgresStore) IsModerator(ctx context.Context, userID string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM moderators WHERE user_id = $1)`, userID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking moderator: %w", err)
	}
	return exists, nil
}

func (s *PostgresStore) Ready(ctx context.Context) error { return s.db.PingContext(ctx) }

func (s *PostgresStore) Close() error { return s.db.Close() }
