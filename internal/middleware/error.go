package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/campusboard/noticeboard/internal/domain"
)

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	TraceID string `json:"trace_id,omitempty"`
}

// ErrorHandler maps service failures to HTTP responses. Every public
// operation fails with a stable kind so clients can render a precise message.
func ErrorHandler(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	message := "Internal server error"
	code := "INTERNAL_ERROR"

	var domainErr *domain.Error
	if errors.As(err, &domainErr) {
		code = string(domainErr.Kind)
		message = domainErr.Message
		status = statusForKind(domainErr.Kind)
	} else if e, ok := err.(*fiber.Error); ok {
		status = e.Code
		message = e.Message
	}

	traceID := uuid.New().String()[:8]

	return c.Status(status).JSON(ErrorResponse{
		Code:    code,
		Message: message,
		TraceID: traceID,
	})
}

func statusForKind(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindUnauthenticated:
		return fiber.StatusUnauthorized
	case domain.KindForbidden:
		return fiber.StatusForbidden
	case domain.KindNotFound:
		return fiber.StatusNotFound
	case domain.KindValidation:
		return fiber.StatusUnprocessableEntity
	case domain.KindConflict:
		return fiber.StatusConflict
	case domain.KindUnavailable:
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}
