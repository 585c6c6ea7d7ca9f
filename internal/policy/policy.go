// Package policy decides what a viewer may do with messageboards and topics.
// A nil *model.User is a guest.
package policy

import "forumapi/internal/model"

// CanModerate reports whether u may pin, lock and delete topics in mb.
func CanModerate(u *model.User, _ *model.Messageboard) bool {
	return u != nil && (u.Admin || u.Moderator)
}

// CanRead reports whether u may read mb and its topics. Boards are public.
func CanRead(_ *model.User, _ *model.Messageboard) bool {
	return true
}

// CanCreateTopic reports whether u may start a topic in mb.
// Locked messageboards only accept topics from moderators.
func CanCreateTopic(u *model.User, mb *model.Messageboard) bool {
	if u == nil {
		return false
	}
	return !mb.Locked || CanModerate(u, mb)
}

// CanPost reports whether u may reply in t.
func CanPost(u *model.User, mb *model.Messageboard, t *model.Topic) bool {
	if u == nil {
		return false
	}
	if CanModerate(u, mb) {
		return true
	}
	return !mb.Locked && !t.Locked
}

// CanUpdateTopic reports whether u may edit t: its author or a moderator.
func CanUpdateTopic(u *model.User, mb *model.Messageboard, t *model.Topic) bool {
	return t.OwnedBy(u) || CanModerate(u, mb)
}

// CanDestroyTopic reports whether u may delete t.
func CanDestroyTopic(u *model.User, mb *model.Messageboard, _ *model.Topic) bool {
	return CanModerate(u, mb)
}
