// Package middleware holds the request middlewares: bearer-token identity
// extraction and fixed-window rate limiting.
package middleware

import (
	"fmt"
	"strings"

	"github.com/alankar423/CreatorIQ/internal/models"

	"github.com/gofiber/fiber/v2"
	fiberlog "github.com/gofiber/fiber/v2/log"
	"github.com/golang-jwt/jwt/v5"
)

const (
	userIDLocal = "user_id"
	// anonymousIdentity is the rate-limit identity of last resort, used when
	// neither a user ID nor a client address is known.
	anonymousIdentity = "anonymous"
)

// AuthMiddleware verifies bearer tokens and attaches the authenticated user
// ID to the request. Account management is external to this service; tokens
// are only checked for a valid signature and subject.
type AuthMiddleware struct {
	cfg models.AuthConfig
}

// NewAuthMiddleware creates the identity middleware.
func NewAuthMiddleware(cfg models.AuthConfig) *AuthMiddleware {
	return &AuthMiddleware{cfg: cfg}
}

// Handler returns the fiber middleware. Requests without a token pass
// through anonymously when allow_anonymous is set; otherwise they are
// rejected with 401.
func (m *AuthMiddleware) Handler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := extractBearerToken(c)
		if token == "" {
			if m.cfg.AllowAnonymous {
				return c.Next()
			}
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Authentication required",
			})
		}

		userID, err := m.validateToken(token)
		if err != nil {
			fiberlog.Debugf("token rejected: %v", err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired token",
			})
		}

		c.Locals(userIDLocal, userID)
		return c.Next()
	}
}

func (m *AuthMiddleware) validateToken(tokenStr string) (string, error) {
	if m.cfg.JWTSecret == "" {
		return "", fmt.Errorf("no JWT secret configured")
	}

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(m.cfg.JWTSecret), nil
	})
	if err != nil {
		return "", err
	}

	subject, err := token.Claims.GetSubject()
	if err != nil || subject == "" {
		return "", fmt.Errorf("token has no subject")
	}
	return subject, nil
}

func extractBearerToken(c *fiber.Ctx) string {
	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// UserID returns the authenticated user ID for the request, if any.
func UserID(c *fiber.Ctx) string {
	if id, ok := c.Locals(userIDLocal).(string); ok {
		return id
	}
	return ""
}

// CallerIdentity derives the rate-limit identity for a request: the
// authenticated user ID, else the caller's network address, else the
// anonymous marker.
func CallerIdentity(c *fiber.Ctx) string {
	if id := UserID(c); id != "" {
		return id
	}
	if ip := c.IP(); ip != "" {
		return ip
	}
	return anonymousIdentity
}
