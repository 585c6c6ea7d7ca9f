package mocks

import (
	"context"

	"forumapi/internal/model"
	"github.com/stretchr/testify/mock"
)

type MockMessageboardRepository struct {
	mock.Mock
}

func (m *MockMessageboardRepository) FindBySlug(ctx context.Context, slug string) (*model.Messageboard, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Messageboard), args.Error(1)
}

func (m *MockMessageboardRepository) FindCategory(ctx context.Context, messageboardID int64, key string) (*model.Category, error) {
	args := m.Called(ctx, messageboardID, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Category), args.Error(1)
}

func (m *MockMessageboardRepository) ListCategories(ctx context.Context, messageboardID int64) ([]model.Category, error) {
	args := m.Called(ctx, messageboardID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Category), args.Error(1)
}

func (m *MockMessageboardRepository) CategoriesForTopics(ctx context.Context, topicIDs []int64) (map[int64][]model.Category, error) {
	args := m.Called(ctx, topicIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int64][]model.Category), args.Error(1)
}
