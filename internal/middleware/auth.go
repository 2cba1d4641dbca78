package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/campusboard/noticeboard/internal/domain"
	"github.com/campusboard/noticeboard/internal/service/auth"
)

const (
	UserContextKey  = "user"
	ActorContextKey = "actor"
)

func AuthRequired(authService auth.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return domain.Unauthenticated("missing authorization header")
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return domain.Unauthenticated("invalid authorization header format")
		}

		claims, err := authService.ValidateAccessToken(parts[1])
		if err != nil {
			return err
		}

		user, err := authService.GetUserByID(c.Context(), claims.UserID)
		if err != nil {
			return domain.Unauthenticated("user not found")
		}

		c.Locals(UserContextKey, user)
		c.Locals(ActorContextKey, user.Actor())

		return c.Next()
	}
}

func CurrentUser(c *fiber.Ctx) *domain.User {
	user, ok := c.Locals(UserContextKey).(*domain.User)
	if !ok {
		return nil
	}
	return user
}

func CurrentActor(c *fiber.Ctx) (domain.Actor, error) {
	actor, ok := c.Locals(ActorContextKey).(domain.Actor)
	if !ok {
		return domain.Actor{}, domain.Unauthenticated("not authenticated")
	}
	return actor, nil
}
