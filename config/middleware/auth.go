package middleware

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"Sistem-Absensi-RFID/models"
)

const (
	principalKey   = "principal"
	tokenExpiryKey = "token_exp"
)

type TokenValidator interface {
	ValidateToken(token string) (*models.Principal, time.Time, error)
}

// TokenBlacklist holds the ids of logged-out tokens.
type TokenBlacklist interface {
	IsBlacklisted(ctx context.Context, jti string) (bool, error)
}

// AuthMiddleware validates the bearer token and stores the principal in Locals. blacklist may
// be nil; when the blacklist cannot be reached the token is accepted and a warning logged.
func AuthMiddleware(tokens TokenValidator, blacklist TokenBlacklist, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Authorization header is required"})
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Authorization header format must be Bearer <token>"})
		}

		principal, exp, err := tokens.ValidateToken(strings.TrimSpace(parts[1]))
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid or expired token"})
		}

		if blacklist != nil && principal.TokenID != "" {
			ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
			revoked, err := blacklist.IsBlacklisted(ctx, principal.TokenID)
			cancel()
			if err != nil {
				logger.Warn("token blacklist unavailable", zap.Error(err))
			} else if revoked {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Token has been revoked"})
			}
		}

		c.Locals(principalKey, principal)
		c.Locals(tokenExpiryKey, exp)
		return c.Next()
	}
}

// CurrentPrincipal returns the principal stored by AuthMiddleware.
func CurrentPrincipal(c *fiber.Ctx) (*models.Principal, bool) {
	p, ok := c.Locals(principalKey).(*models.Principal)
	return p, ok && p != nil
}

// TokenExpiry returns the expiry of the token that authenticated the request.
func TokenExpiry(c *fiber.Ctx) time.Time {
	exp, _ := c.Locals(tokenExpiryKey).(time.Time)
	return exp
}
