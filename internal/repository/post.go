package repository

import (
	"context"

	"forumapi/internal/model"
)

// PostRepository reads posts.
type PostRepository interface {
	// ListByTopic lists posts of a topic oldest first.
	ListByTopic(ctx context.Context, topicID int64, pq PageQuery) (*PageResult[model.Post], error)
}
