package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/campusboard/noticeboard/internal/domain"
)

// RequireAnyRole rejects the request unless the authenticated user holds one
// of the listed roles. Fine-grained ownership rules live in the services; this
// only guards the coarse role gates.
func RequireAnyRole(roles ...domain.UserRole) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		if user == nil {
			return domain.Unauthenticated("not authenticated")
		}

		for _, role := range roles {
			if user.Role == role {
				return c.Next()
			}
		}

		return domain.Forbidden("insufficient permissions for this operation")
	}
}
