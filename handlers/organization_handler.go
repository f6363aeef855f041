package handlers

import (
	"github.com/gofiber/fiber/v2"

	"Sistem-Absensi-RFID/models"
	"Sistem-Absensi-RFID/services"
)

type OrganizationHandler struct {
	directory  services.DirectoryService
	attendance services.AttendanceService
	queries    services.QueryService
	*Responder
}

func NewOrganizationHandler(directory services.DirectoryService, attendance services.AttendanceService, queries services.QueryService, responder *Responder) *OrganizationHandler {
	return &OrganizationHandler{directory: directory, attendance: attendance, queries: queries, Responder: responder}
}

// Dashboard godoc
// @Summary Organization dashboard
// @Tags Organization
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.OrganizationDashboard
// @Router /org/dashboard [get]
func (h *OrganizationHandler) Dashboard(c *fiber.Ctx) error {
	orgID := principal(c).OrganizationID

	ctx, cancel := requestContext(c)
	defer cancel()

	org, err := h.directory.GetOrganization(ctx, orgID)
	if err != nil {
		return h.Error(c, err)
	}
	employees, err := h.directory.CountEmployees(ctx, orgID)
	if err != nil {
		return h.Error(c, err)
	}
	today, err := h.attendance.CountToday(ctx, orgID)
	if err != nil {
		return h.Error(c, err)
	}
	queries, err := h.queries.CountByOrganization(ctx, orgID)
	if err != nil {
		return h.Error(c, err)
	}

	return c.JSON(models.OrganizationDashboard{
		Organization:    *org,
		EmployeeCount:   employees,
		AttendanceToday: today,
		QueryCount:      queries,
	})
}

// DeleteAccount godoc
// @Summary Delete organization
// @Description Deletes the organization with all its employees and attendance records
// @Tags Organization
// @Produce json
// @Security BearerAuth
// @Success 200 {object} object{message=string}
// @Router /org/account [delete]
func (h *OrganizationHandler) DeleteAccount(c *fiber.Ctx) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.directory.DeleteOrganization(ctx, principal(c).OrganizationID); err != nil {
		return h.Error(c, err)
	}
	return c.JSON(fiber.Map{"message": "Organization deleted successfully"})
}
