package model

import "time"

// Topic is a discussion thread within a messageboard.
// UserName and LastUserName are joined from users and may be empty when the
// author account no longer exists.
type Topic struct {
	ID             int64      `json:"id"`
	MessageboardID int64      `json:"messageboard_id"`
	UserID         *int64     `json:"user_id"`
	LastUserID     *int64     `json:"last_user_id"`
	UserName       string     `json:"user_name"`
	LastUserName   string     `json:"last_user_name"`
	Title          string     `json:"title"`
	Slug           string     `json:"slug"`
	Sticky         bool       `json:"sticky"`
	Locked         bool       `json:"locked"`
	PostsCount     int        `json:"posts_count"`
	LastPostAt     time.Time  `json:"last_post_at"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	Categories     []Category `json:"categories,omitempty"`
}

// OwnedBy reports whether u authored the topic.
func (t *Topic) OwnedBy(u *User) bool {
	return u != nil && t.UserID != nil && *t.UserID == u.ID
}

// CategoryIDs returns the ids of the categories loaded on the topic.
func (t *Topic) CategoryIDs() []int64 {
	ids := make([]int64, 0, len(t.Categories))
	for _, c := range t.Categories {
		ids = append(ids, c.ID)
	}
	return ids
}
