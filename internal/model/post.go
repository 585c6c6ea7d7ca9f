package model

import "time"

// Post is a single message within a topic.
type Post struct {
	ID             int64     `json:"id"`
	MessageboardID int64     `json:"messageboard_id"`
	TopicID        int64     `json:"topic_id"`
	UserID         *int64    `json:"user_id"`
	UserName       string    `json:"user_name"`
	Content        string    `json:"content"`
	IP             string    `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
