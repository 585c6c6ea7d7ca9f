package middleware

import (
	"database/sql"
	"errors"

	"github.com/gofiber/fiber/v2"

	"forumapi/internal/model"
	"forumapi/internal/repository"
)

const (
	// SessionKeyHeader carries the viewer's session key.
	SessionKeyHeader = "X-Session-Key"
	// CurrentUserLocalKey stores the resolved *model.User in Fiber locals.
	CurrentUserLocalKey = "current_user"
)

// Session resolves the X-Session-Key header to a user. Requests without the
// header proceed as guests; an unknown key is rejected with 401.
func Session(users repository.UserRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := c.Get(SessionKeyHeader)
		if key == "" {
			return c.Next()
		}
		u, err := users.FindBySessionKey(c.UserContext(), key)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"request_id": RequestIDFrom(c),
					"error": fiber.Map{
						"code":    "INVALID_SESSION",
						"message": "session is invalid or expired",
					},
				})
			}
			return err
		}
		c.Locals(CurrentUserLocalKey, u)
		return c.Next()
	}
}

// CurrentUser returns the viewer resolved by Session, or nil for guests.
func CurrentUser(c *fiber.Ctx) *model.User {
	u, _ := c.Locals(CurrentUserLocalKey).(*model.User)
	return u
}
