package repository

import (
	"context"

	"forumapi/internal/model"
)

// TopicSearch is a parsed search request. MessageboardID of 0 means all messageboards.
type TopicSearch struct {
	MessageboardID int64
	Text           string
	CategorySlugs  []string
	UserNames      []string
}

// TopicRepository persists topics, their first post and their category links.
type TopicRepository interface {
	// ListByMessageboard lists topics sticky first, then most recently updated first.
	ListByMessageboard(ctx context.Context, messageboardID int64, pq PageQuery) (*PageResult[model.Topic], error)

	// ListByCategory lists non-sticky topics of a category, most recently updated first.
	ListByCategory(ctx context.Context, categoryID int64, pq PageQuery) (*PageResult[model.Topic], error)

	// Search lists topics matching s, most recently updated first.
	Search(ctx context.Context, s TopicSearch, pq PageQuery) (*PageResult[model.Topic], error)

	// FindBySlug returns a topic of the messageboard by slug.
	FindBySlug(ctx context.Context, messageboardID int64, slug string) (*model.Topic, error)

	// SlugExists reports whether the slug is taken in the messageboard by a topic other than exceptID.
	SlugExists(ctx context.Context, messageboardID int64, slug string, exceptID int64) (bool, error)

	// Create inserts the topic, its first post and category links in one transaction,
	// and bumps the messageboard counters. IDs and timestamps are written back.
	Create(ctx context.Context, topic *model.Topic, post *model.Post, categoryIDs []int64) error

	// Update saves the mutable topic columns. A nil categoryIDs leaves links untouched.
	Update(ctx context.Context, topic *model.Topic, categoryIDs []int64) error

	// Delete removes the topic and everything hanging off it, and decrements the messageboard counters.
	Delete(ctx context.Context, topic *model.Topic) error
}
