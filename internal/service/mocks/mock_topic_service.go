package mocks

import (
	"context"

	"forumapi/internal/model"
	"forumapi/internal/service"
	"github.com/stretchr/testify/mock"
)

type MockTopicService struct {
	mock.Mock
}

func (m *MockTopicService) Index(ctx context.Context, viewer *model.User, messageboardSlug string, page int) (*service.TopicListResult, error) {
	args := m.Called(ctx, viewer, messageboardSlug, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.TopicListResult), args.Error(1)
}

func (m *MockTopicService) Show(ctx context.Context, viewer *model.User, messageboardSlug, topicSlug string, page int) (*service.ShowResult, error) {
	args := m.Called(ctx, viewer, messageboardSlug, topicSlug, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ShowResult), args.Error(1)
}

func (m *MockTopicService) Search(ctx context.Context, viewer *model.User, messageboardSlug, query string, page int) (*service.SearchResult, error) {
	args := m.Called(ctx, viewer, messageboardSlug, query, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SearchResult), args.Error(1)
}

func (m *MockTopicService) New(ctx context.Context, viewer *model.User, messageboardSlug string) (*service.FormResult, error) {
	args := m.Called(ctx, viewer, messageboardSlug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.FormResult), args.Error(1)
}

func (m *MockTopicService) Create(ctx context.Context, viewer *model.User, messageboardSlug string, in service.CreateTopicInput) (*model.Topic, error) {
	args := m.Called(ctx, viewer, messageboardSlug, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Topic), args.Error(1)
}

func (m *MockTopicService) Edit(ctx context.Context, viewer *model.User, messageboardSlug, topicSlug string) (*service.FormResult, error) {
	args := m.Called(ctx, viewer, messageboardSlug, topicSlug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.FormResult), args.Error(1)
}

func (m *MockTopicService) Update(ctx context.Context, viewer *model.User, messageboardSlug, topicSlug string, in service.UpdateTopicInput) (*model.Topic, error) {
	args := m.Called(ctx, viewer, messageboardSlug, topicSlug, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Topic), args.Error(1)
}

func (m *MockTopicService) Destroy(ctx context.Context, viewer *model.User, messageboardSlug, topicSlug string) error {
	args := m.Called(ctx, viewer, messageboardSlug, topicSlug)
	return args.Error(0)
}

func (m *MockTopicService) Category(ctx context.Context, viewer *model.User, messageboardSlug, categoryKey string, page int) (*service.TopicListResult, error) {
	args := m.Called(ctx, viewer, messageboardSlug, categoryKey, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.TopicListResult), args.Error(1)
}
