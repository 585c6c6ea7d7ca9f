package model

import "time"

// User is a forum member. A nil *User stands for a guest viewer.
type User struct {
	ID         int64      `json:"id"`
	Name       string     `json:"name"`
	SessionKey string     `json:"-"`
	Admin      bool       `json:"admin"`
	Moderator  bool       `json:"moderator"`
	LastSeenAt *time.Time `json:"last_seen_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}
