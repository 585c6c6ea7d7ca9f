package model

import "time"

// Messageboard is a named forum container holding topics.
type Messageboard struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	Locked      bool      `json:"locked"`
	TopicsCount int       `json:"topics_count"`
	PostsCount  int       `json:"posts_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Category groups topics inside a single messageboard.
type Category struct {
	ID             int64     `json:"id"`
	MessageboardID int64     `json:"messageboard_id"`
	Name           string    `json:"name"`
	Slug           string    `json:"slug"`
	Description    string    `json:"description"`
	CreatedAt      time.Time `json:"created_at"`
}
