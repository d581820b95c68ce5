package middleware

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/golang-jwt/jwt/v5"

	"github.com/arturoeanton/go-course-accounts/internal/domain"
)

// SessionConfig holds verification settings for platform-issued access
// tokens. The platform signs its tokens with the project JWT secret
// (HS256); this service only verifies, it never issues.
type SessionConfig struct {
	Secret string
}

// sessionClaims mirrors the claims the platform embeds in its access
// tokens. The metadata carries the same role signal used at log-in.
type sessionClaims struct {
	jwt.RegisteredClaims
	Email        string          `json:"email"`
	UserMetadata domain.Metadata `json:"user_metadata"`
}

// SessionMiddleware validates the platform-issued access token and
// injects a UserContext into the request context.
func SessionMiddleware(cfg SessionConfig) fiber.Handler {
	return func(c fiber.Ctx) error {
		var token string

		// Try Authorization header first
		authHeader := c.Get("Authorization")
		if authHeader != "" {
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
				token = parts[1]
			}
		}

		// Fallback: ?token= query param (for SSE/EventSource which can't set headers)
		if token == "" {
			token = c.Query("token")
		}

		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing authorization",
			})
		}

		claims := &sessionClaims{}
		parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
			}
			return []byte(cfg.Secret), nil
		})
		if err != nil || !parsed.Valid {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid session token",
			})
		}

		identity := domain.Identity{Metadata: claims.UserMetadata}
		c.Locals("user", &domain.UserContext{
			UserID: claims.Subject,
			Email:  claims.Email,
			Role:   identity.Role(),
		})

		return c.Next()
	}
}

// GetUserContext extracts the UserContext from Fiber locals.
func GetUserContext(c fiber.Ctx) *domain.UserContext {
	u, ok := c.Locals("user").(*domain.UserContext)
	if !ok {
		return nil
	}
	return u
}
