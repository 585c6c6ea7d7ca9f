package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"forumapi/internal/repository"
)

// TrackActivity records last_seen_at for signed-in viewers after requests
// that did not fail on the server side. Failures are logged only.
func TrackActivity(users repository.UserRepository, log zerolog.Logger) fiber.Handler {
	log = log.With().Str("component", "activity").Logger()

	return func(c *fiber.Ctx) error {
		err := c.Next()

		u := CurrentUser(c)
		if u == nil || statusOf(c, err) >= fiber.StatusInternalServerError {
			return err
		}
		if terr := users.TouchActivity(c.UserContext(), u.ID, time.Now().UTC()); terr != nil {
			log.Warn().Err(terr).Str("event", "touch_activity").Str("status", "error").
				Int64("user_id", u.ID).Str("request_id", RequestIDFrom(c)).Send()
		}
		return err
	}
}
