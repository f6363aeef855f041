package middleware

import (
	"github.com/gofiber/fiber/v2"

	"Sistem-Absensi-RFID/models"
)

// RequireOrganization only lets organization tokens through.
func RequireOrganization() fiber.Handler {
	return requireKind(models.PrincipalOrganization, "Organization access required")
}

// RequireEmployee only lets employee tokens through.
func RequireEmployee() fiber.Handler {
	return requireKind(models.PrincipalEmployee, "Employee access required")
}

func requireKind(kind models.PrincipalKind, message string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := CurrentPrincipal(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Not authenticated"})
		}
		if principal.Kind != kind {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": message})
		}
		return c.Next()
	}
}
