package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"Sistem-Absensi-RFID/config/middleware"
	"Sistem-Absensi-RFID/models"
)

const requestTimeout = 5 * time.Second

func requestContext(c *fiber.Ctx) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Context(), requestTimeout)
}

// principal is only called behind AuthMiddleware, so a missing principal is a wiring bug.
func principal(c *fiber.Ctx) *models.Principal {
	p, ok := middleware.CurrentPrincipal(c)
	if !ok {
		return &models.Principal{}
	}
	return p
}

func objectIDParam(c *fiber.Ctx, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Params(name))
	return id, err == nil
}
