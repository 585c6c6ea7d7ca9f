package repository

import (
	"context"

	"forumapi/internal/model"
)

// MessageboardRepository reads messageboards and their categories.
type MessageboardRepository interface {
	// FindBySlug returns a messageboard by its slug.
	FindBySlug(ctx context.Context, slug string) (*model.Messageboard, error)

	// FindCategory returns a category of the messageboard by slug, falling back to its numeric id.
	FindCategory(ctx context.Context, messageboardID int64, key string) (*model.Category, error)

	// ListCategories returns every category of the messageboard ordered by name.
	ListCategories(ctx context.Context, messageboardID int64) ([]model.Category, error)

	// CategoriesForTopics returns the categories attached to each of the given topics.
	CategoriesForTopics(ctx context.Context, topicIDs []int64) (map[int64][]model.Category, error)
}
