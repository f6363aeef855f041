package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"Sistem-Absensi-RFID/models"
	"Sistem-Absensi-RFID/pkg/apperror"
	"Sistem-Absensi-RFID/services"
)

type AttendanceHandler struct {
	scan       services.ScanService
	attendance services.AttendanceService
	loc        *time.Location
	*Responder
}

func NewAttendanceHandler(scan services.ScanService, attendance services.AttendanceService, loc *time.Location, responder *Responder) *AttendanceHandler {
	return &AttendanceHandler{scan: scan, attendance: attendance, loc: loc, Responder: responder}
}

// Scan godoc
// @Summary RFID scan
// @Description Called by the card reader. First scan of the day checks in, later scans update check-out.
// @Tags Attendance
// @Accept json
// @Produce json
// @Param scan body models.ScanRequest true "Card read"
// @Success 200 {object} models.ScanResponse
// @Failure 400 {object} models.ScanResponse
// @Failure 404 {object} models.ScanResponse
// @Router /rfid/scan [post]
func (h *AttendanceHandler) Scan(c *fiber.Ctx) error {
	var req models.ScanRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ScanResponse{Status: "error", Message: "Invalid request body"})
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	out, err := h.scan.HandleScan(ctx, req.CardUID)
	if err != nil {
		if errors.Is(err, apperror.ErrInvalidArgument) {
			return c.Status(fiber.StatusBadRequest).JSON(models.ScanResponse{Status: "error", Message: "Card UID is required"})
		}
		return h.Error(c, err)
	}

	if out.Result == services.ScanUnknownCard {
		return c.Status(fiber.StatusNotFound).JSON(models.ScanResponse{Status: "error", Message: "Invalid card"})
	}

	at := out.Record.CheckIn
	message := "Welcome " + out.Employee.Name
	if out.Result == services.ScanCheckedOut {
		at = out.Record.CheckOut
		message = "Goodbye " + out.Employee.Name
	}

	data := &models.ScanData{
		EmployeeName: out.Employee.Name,
		EmployeeID:   out.Employee.Code,
		Action:       string(out.Result),
	}
	if at != nil {
		data.Timestamp = at.In(h.loc).Format(models.TimeLayout)
	}

	return c.JSON(models.ScanResponse{Status: "success", Message: message, Data: data})
}

// MarkAttendance godoc
// @Summary Mark employee attendance
// @Description Explicit mark by the organization. status is P, A, L, H or the full name.
// @Tags Attendance
// @Produce json
// @Security BearerAuth
// @Param id path string true "Employee ID"
// @Param status path string true "Status"
// @Success 200 {object} models.MarkAttendanceResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.NotFoundErrorResponse
// @Router /attendance/mark/{id}/{status} [post]
func (h *AttendanceHandler) MarkAttendance(c *fiber.Ctx) error {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return h.BadRequest(c, "Invalid employee ID", nil)
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	res, err := h.attendance.MarkEmployee(ctx, principal(c).OrganizationID, id, c.Params("status"))
	if err != nil {
		return h.Error(c, err)
	}

	message := "Attendance updated"
	if res.Created {
		message = "Attendance marked"
	}
	return c.JSON(models.MarkAttendanceResponse{Message: message, Created: res.Created, Record: res.Record})
}

// Today godoc
// @Summary Today's attendance
// @Tags Attendance
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Attendance
// @Router /attendance/today [get]
func (h *AttendanceHandler) Today(c *fiber.Ctx) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	records, err := h.attendance.Today(ctx, principal(c).OrganizationID)
	if err != nil {
		return h.Error(c, err)
	}
	return c.JSON(fiber.Map{"data": records})
}
