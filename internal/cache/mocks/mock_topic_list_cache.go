package mocks

import (
	"context"

	"forumapi/internal/model"
	"forumapi/internal/repository"
	"github.com/stretchr/testify/mock"
)

type MockTopicListCache struct {
	mock.Mock
}

func (m *MockTopicListCache) GetTopics(ctx context.Context, messageboardID int64, page, perPage int) (*repository.PageResult[model.Topic], bool, error) {
	args := m.Called(ctx, messageboardID, page, perPage)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*repository.PageResult[model.Topic]), args.Bool(1), args.Error(2)
}

func (m *MockTopicListCache) SetTopics(ctx context.Context, messageboardID int64, page, perPage int, res *repository.PageResult[model.Topic]) error {
	args := m.Called(ctx, messageboardID, page, perPage, res)
	return args.Error(0)
}

func (m *MockTopicListCache) Invalidate(ctx context.Context, messageboardID int64) error {
	args := m.Called(ctx, messageboardID)
	return args.Error(0)
}
