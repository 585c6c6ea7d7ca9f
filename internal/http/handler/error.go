package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"forumapi/internal/http/middleware"
	"forumapi/internal/service"
)

// errorPayload defines the standardized error response body.
type errorPayload struct {
	RequestID string             `json:"request_id"`
	Error     errorEnvelope      `json:"error"`
	Form      *service.TopicForm `json:"form,omitempty"`
}

type errorEnvelope struct {
	Code    string               `json:"code"`
	Message string               `json:"message"`
	Fields  []service.FieldError `json:"fields,omitempty"`
}

// writeError writes a standardized JSON error response without leaking internal errors.
//
// Parameters:
// - status: HTTP status code to return
// - code: machine-readable short error code (e.g., "NOT_FOUND", "LOGIN_REQUIRED", "INTERNAL_ERROR")
// - message: human-readable safe message (no internal details)
func writeError(c *fiber.Ctx, status int, code, message string) error {
	res := errorPayload{
		RequestID: middleware.RequestIDFrom(c),
		Error: errorEnvelope{
			Code:    code,
			Message: message,
		},
	}
	return c.Status(status).JSON(res)
}

// writeServiceError maps service errors onto the envelope. Unknown errors become 500
// and are handed to the access logger through locals.
func writeServiceError(c *fiber.Ctx, err error) error {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(errorPayload{
			RequestID: middleware.RequestIDFrom(c),
			Error: errorEnvelope{
				Code:    "VALIDATION_FAILED",
				Message: "topic is invalid",
				Fields:  verr.Fields,
			},
			Form: verr.Form,
		})
	case errors.Is(err, service.ErrNotFound):
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "resource not found")
	case errors.Is(err, service.ErrLoginRequired):
		return writeError(c, fiber.StatusUnauthorized, "LOGIN_REQUIRED", "please sign in first")
	case errors.Is(err, service.ErrForbidden):
		return writeError(c, fiber.StatusForbidden, "FORBIDDEN", "you are not authorized to do that")
	default:
		c.Locals(middleware.ErrorLocalKey, err)
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}

// ErrorHandler returns a Fiber global error handler that standardizes error responses.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		if e, ok := err.(*fiber.Error); ok {
			status = e.Code
		} else {
			c.Locals(middleware.ErrorLocalKey, err)
		}

		switch status {
		case fiber.StatusBadRequest:
			return writeError(c, status, "BAD_REQUEST", "bad request")
		case fiber.StatusNotFound:
			return writeError(c, status, "NOT_FOUND", "resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "METHOD_NOT_ALLOWED", "method not allowed")
		case fiber.StatusRequestEntityTooLarge:
			return writeError(c, status, "PAYLOAD_TOO_LARGE", "request body too large")
		default:
			return writeError(c, status, "INTERNAL_ERROR", "internal server error")
		}
	}
}
