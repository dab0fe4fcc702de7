package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// SubjectKey is the Locals key the middleware stores the token subject
// under.
const SubjectKey = "auth_subject"

// Middleware returns a Fiber handler that requires a valid Bearer token.
func Middleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, err := extractToken(c)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, err.Error())
		}

		claims, err := validateToken(tokenString, jwtSecret)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid token")
		}

		if sub, ok := claims["sub"].(string); ok {
			c.Locals(SubjectKey, sub)
		}
		return c.Next()
	}
}

func extractToken(c *fiber.Ctx) (string, error) {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return "", fiber.NewError(fiber.StatusUnauthorized, "authorization header required")
	}

	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	if tokenString == "" || tokenString == authHeader {
		return "", fiber.NewError(fiber.StatusUnauthorized, "invalid authorization format")
	}

	return tokenString, nil
}
