package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewPagination(t *testing.T) {
	assert.Equal(t, Pagination{CurrentPage: 1, PerPage: 50, TotalCount: 0, TotalPages: 1}, NewPagination(1, 50, 0))
	assert.Equal(t, 3, NewPagination(2, 25, 51).TotalPages)
	assert.Equal(t, 2, NewPagination(2, 25, 50).TotalPages)
}

func TestTopic_OwnedBy(t *testing.T) {
	uid := int64(7)
	topic := &Topic{UserID: &uid}

	assert.True(t, topic.OwnedBy(&User{ID: 7}))
	assert.False(t, topic.OwnedBy(&User{ID: 8}))
	assert.False(t, topic.OwnedBy(nil))
	assert.False(t, (&Topic{}).OwnedBy(&User{ID: 7}))
}

func TestUserTopicReadState_Covers(t *testing.T) {
	now := time.Now()
	topic := &Topic{LastPostAt: now}

	assert.True(t, (&UserTopicReadState{ReadAt: now}).Covers(topic))
	assert.True(t, (&UserTopicReadState{ReadAt: now.Add(time.Second)}).Covers(topic))
	assert.False(t, (&UserTopicReadState{ReadAt: now.Add(-time.Second)}).Covers(topic))

	var missing *UserTopicReadState
	assert.False(t, missing.Covers(topic))
}
