package session

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/fauzaanu/diet/internal/logger"
	"log/slog"
)

// PostgresStore persists sessions in the users table.
type PostgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore wraps an open database handle.
func NewPostgresStore(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const loadQuery = `
SELECT user_id, weight_unit, weight, goal, level, last_updated
FROM users
WHERE user_id = $1`

const upsertQuery = `
INSERT INTO users (user_id, weight_unit, weight, goal, level, last_updated)
VALUES (:user_id, :weight_unit, :weight, :goal, :level, :last_updated)
ON CONFLICT (user_id) DO UPDATE SET
    weight_unit  = EXCLUDED.weight_unit,
    weight       = EXCLUDED.weight,
    goal         = EXCLUDED.goal,
    level        = EXCLUDED.level,
    last_updated = EXCLUDED.last_updated`

// Load fetches the stored session for a user, reporting absence without error.
func (p *PostgresStore) Load(ctx context.Context, userID int64) (*Session, bool, error) {
	var s Session
	err := p.db.GetContext(ctx, &s, loadQuery, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		logger.Error(ctx, "service.sessions", "session.load",
			slog.String("status", "fail"),
			slog.Int64("user_id", userID),
			slog.String("err", err.Error()),
		)
		return nil, false, &PersistenceError{Op: "load", Err: err}
	}
	return &s, true, nil
}

// Save upserts the session row keyed by user id.
func (p *PostgresStore) Save(ctx context.Context, s *Session) error {
	s.LastUpdated = time.Now().UTC()
	if _, err := p.db.NamedExecContext(ctx, upsertQuery, s); err != nil {
		logger.Error(ctx, "service.sessions", "session.save",
			slog.String("status", "fail"),
			slog.Int64("user_id", s.UserID),
			slog.String("err", err.Error()),
		)
		return &PersistenceError{Op: "save", Err: err}
	}
	logger.Debug(ctx, "service.sessions", "session.save",
		slog.String("status", "ok"),
		slog.Int64("user_id", s.UserID),
		slog.String("goal", string(s.Goal)),
		slog.Int("level_choice", s.Level),
	)
	return nil
}
