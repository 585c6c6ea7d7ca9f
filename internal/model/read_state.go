package model

import "time"

// UserTopicReadState records how far a user has read a topic.
type UserTopicReadState struct {
	UserID  int64     `json:"user_id"`
	TopicID int64     `json:"topic_id"`
	ReadAt  time.Time `json:"read_at"`
	Page    int       `json:"page"`
}

// Covers reports whether the state marks t as fully read.
func (s *UserTopicReadState) Covers(t *Topic) bool {
	return s != nil && !s.ReadAt.Before(t.LastPostAt)
}
