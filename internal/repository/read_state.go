package repository

import (
	"context"

	"forumapi/internal/model"
)

// ReadStateRepository tracks how far users have read topics.
type ReadStateRepository interface {
	// ForTopics returns the user's read states keyed by topic id. Topics never read are absent.
	ForTopics(ctx context.Context, userID int64, topicIDs []int64) (map[int64]model.UserTopicReadState, error)

	// Touch moves the state forward to s.ReadAt and s.Page. Older timestamps never overwrite newer ones.
	Touch(ctx context.Context, s model.UserTopicReadState) error
}
