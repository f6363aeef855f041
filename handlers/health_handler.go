package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"Sistem-Absensi-RFID/models"
)

type HealthHandler struct {
	loc *time.Location
	now func() time.Time
}

func NewHealthHandler(loc *time.Location) *HealthHandler {
	return &HealthHandler{loc: loc, now: time.Now}
}

func (h *HealthHandler) Root(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message": "Sistem Absensi RFID API",
		"status":  "running",
		"docs":    "/docs/index.html",
	})
}

// ServerTime godoc
// @Summary Server time
// @Description Current time in the configured timezone, used by card readers to sync their clock
// @Tags System
// @Produce json
// @Success 200 {object} models.ServerTimeResponse
// @Router /time [get]
func (h *HealthHandler) ServerTime(c *fiber.Ctx) error {
	now := h.now().In(h.loc)
	return c.JSON(models.ServerTimeResponse{
		Datetime:  now.Format("2006-01-02 15:04:05"),
		Timestamp: now.Unix(),
		Timezone:  h.loc.String(),
	})
}
