package middlewares

import (
	"strings"

	"github.com/i2p-business/i2p/internal/auth"

	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog/log"
)

const (
	SessionIDHeader       = "X-Session-ID"
	sessionIDLocalsKey    = "session_id"
	sessionTokenLocalsKey = "session_token"
)

// SessionMiddleware resolves the caller's session from a bearer token when
// tokens are enabled, otherwise from the X-Session-ID header. A bearer token
// that fails verification is rejected. Handlers check SessionFromToken before
// trusting a header session while tokens are enabled.
func SessionMiddleware(issuer *auth.SessionTokenIssuer) fiber.Handler {
	return func(c fiber.Ctx) error {
		if issuer != nil {
			if tokenString, ok := bearerToken(c.Get(fiber.HeaderAuthorization)); ok {
				sessionID, err := issuer.SessionID(tokenString)
				if err != nil {
					log.Error().
						Err(err).
						Str("path", c.Path()).
						Str("method", c.Method()).
						Msg("Session token verification failed")

					return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
						"error": "Invalid session token",
					})
				}

				c.Locals(sessionIDLocalsKey, sessionID)
				c.Locals(sessionTokenLocalsKey, true)
				return c.Next()
			}
		}

		if sessionID := strings.TrimSpace(c.Get(SessionIDHeader)); sessionID != "" {
			c.Locals(sessionIDLocalsKey, sessionID)
		}

		return c.Next()
	}
}

// SessionID returns the session resolved by SessionMiddleware, or "" when the
// request carried none.
func SessionID(c fiber.Ctx) string {
	sessionID, _ := c.Locals(sessionIDLocalsKey).(string)
	return sessionID
}

// SessionFromToken reports whether SessionID came from a verified token.
func SessionFromToken(c fiber.Ctx) bool {
	verified, _ := c.Locals(sessionTokenLocalsKey).(bool)
	return verified
}

func bearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	return strings.TrimSpace(header[len(prefix):]), true
}
