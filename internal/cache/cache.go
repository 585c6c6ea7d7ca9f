// Package cache holds undecorated topic list pages between writes.
// Pages are keyed under a per-messageboard version; bumping the version
// orphans every cached page of that messageboard at once.
package cache

import (
	"context"

	"forumapi/internal/model"
	"forumapi/internal/repository"
)

// TopicListCache caches messageboard index pages.
type TopicListCache interface {
	// GetTopics returns a cached page. A miss is (nil, false, nil).
	GetTopics(ctx context.Context, messageboardID int64, page, perPage int) (*repository.PageResult[model.Topic], bool, error)

	// SetTopics stores a page.
	SetTopics(ctx context.Context, messageboardID int64, page, perPage int, res *repository.PageResult[model.Topic]) error

	// Invalidate drops every cached page of the messageboard.
	Invalidate(ctx context.Context, messageboardID int64) error
}

// Noop never hits. It is used when no Redis address is configured.
type Noop struct{}

var _ TopicListCache = Noop{}

func (Noop) GetTopics(context.Context, int64, int, int) (*repository.PageResult[model.Topic], bool, error) {
	return nil, false, nil
}

func (Noop) SetTopics(context.Context, int64, int, int, *repository.PageResult[model.Topic]) error {
	return nil
}

func (Noop) Invalidate(context.Context, int64) error {
	return nil
}
