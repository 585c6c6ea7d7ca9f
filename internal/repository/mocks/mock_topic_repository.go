package mocks

import (
	"context"

	"forumapi/internal/model"
	"forumapi/internal/repository"
	"github.com/stretchr/testify/mock"
)

type MockTopicRepository struct {
	mock.Mock
}

func (m *MockTopicRepository) ListByMessageboard(ctx context.Context, messageboardID int64, pq repository.PageQuery) (*repository.PageResult[model.Topic], error) {
	args := m.Called(ctx, messageboardID, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.Topic]), args.Error(1)
}

func (m *MockTopicRepository) ListByCategory(ctx context.Context, categoryID int64, pq repository.PageQuery) (*repository.PageResult[model.Topic], error) {
	args := m.Called(ctx, categoryID, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.Topic]), args.Error(1)
}

func (m *MockTopicRepository) Search(ctx context.Context, s repository.TopicSearch, pq repository.PageQuery) (*repository.PageResult[model.Topic], error) {
	args := m.Called(ctx, s, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.Topic]), args.Error(1)
}

func (m *MockTopicRepository) FindBySlug(ctx context.Context, messageboardID int64, slug string) (*model.Topic, error) {
	args := m.Called(ctx, messageboardID, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Topic), args.Error(1)
}

func (m *MockTopicRepository) SlugExists(ctx context.Context, messageboardID int64, slug string, exceptID int64) (bool, error) {
	args := m.Called(ctx, messageboardID, slug, exceptID)
	return args.Bool(0), args.Error(1)
}

func (m *MockTopicRepository) Create(ctx context.Context, topic *model.Topic, post *model.Post, categoryIDs []int64) error {
	args := m.Called(ctx, topic, post, categoryIDs)
	return args.Error(0)
}

func (m *MockTopicRepository) Update(ctx context.Context, topic *model.Topic, categoryIDs []int64) error {
	args := m.Called(ctx, topic, categoryIDs)
	return args.Error(0)
}

func (m *MockTopicRepository) Delete(ctx context.Context, topic *model.Topic) error {
	args := m.Called(ctx, topic)
	return args.Error(0)
}
