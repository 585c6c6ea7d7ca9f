package postgres

import (
	"context"
	"database/sql"
	"time"

	"forumapi/internal/model"
	"forumapi/internal/repository"
)

// UserPostgres is a PostgreSQL implementation of repository.UserRepository.
type UserPostgres struct {
	db *sql.DB
}

// NewUserPostgres creates a new UserPostgres repository.
func NewUserPostgres(db *sql.DB) *UserPostgres {
	return &UserPostgres{db: db}
}

var _ repository.UserRepository = (*UserPostgres)(nil)

// FindBySessionKey fetches the user holding the session key.
func (r *UserPostgres) FindBySessionKey(ctx context.Context, key string) (*model.User, error) {
	const q = `
		SELECT id, name, session_key, admin, moderator, last_seen_at, created_at
		FROM users
		WHERE session_key = $1
	`
	var (
		u        model.User
		lastSeen sql.NullTime
	)
	if err := r.db.QueryRowContext(ctx, q, key).Scan(
		&u.ID,
		&u.Name,
		&u.SessionKey,
		&u.Admin,
		&u.Moderator,
		&lastSeen,
		&u.CreatedAt,
	); err != nil {
		return nil, err
	}
	if lastSeen.Valid {
		u.LastSeenAt = &lastSeen.Time
	}
	return &u, nil
}

// TouchActivity sets last_seen_at. A missing user is not an error.
func (r *UserPostgres) TouchActivity(ctx context.Context, userID int64, at time.Time) error {
	const q = `UPDATE users SET last_seen_at = $1 WHERE id = $2`
	_, err := r.db.ExecContext(ctx, q, at, userID)
	return err
}
