package mocks

import (
	"context"

	"forumapi/internal/model"
	"forumapi/internal/repository"
	"github.com/stretchr/testify/mock"
)

type MockPostRepository struct {
	mock.Mock
}

func (m *MockPostRepository) ListByTopic(ctx context.Context, topicID int64, pq repository.PageQuery) (*repository.PageResult[model.Post], error) {
	args := m.Called(ctx, topicID, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.Post]), args.Error(1)
}
