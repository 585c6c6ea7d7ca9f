package repository

import (
	"context"
	"time"

	"forumapi/internal/model"
)

// UserRepository resolves forum members.
type UserRepository interface {
	// FindBySessionKey returns the user owning the session key.
	FindBySessionKey(ctx context.Context, key string) (*model.User, error)

	// TouchActivity records that the user was seen at the given time.
	TouchActivity(ctx context.Context, userID int64, at time.Time) error
}
