package mocks

import (
	"context"

	"forumapi/internal/model"
	"github.com/stretchr/testify/mock"
)

type MockReadStateRepository struct {
	mock.Mock
}

func (m *MockReadStateRepository) ForTopics(ctx context.Context, userID int64, topicIDs []int64) (map[int64]model.UserTopicReadState, error) {
	args := m.Called(ctx, userID, topicIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int64]model.UserTopicReadState), args.Error(1)
}

func (m *MockReadStateRepository) Touch(ctx context.Context, s model.UserTopicReadState) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}
