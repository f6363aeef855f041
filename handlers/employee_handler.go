package handlers

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	qrcode "github.com/skip2/go-qrcode"

	"Sistem-Absensi-RFID/models"
	"Sistem-Absensi-RFID/pkg/apperror"
	util "Sistem-Absensi-RFID/pkg/utils"
	"Sistem-Absensi-RFID/services"
)

type EmployeeHandler struct {
	directory  services.DirectoryService
	attendance services.AttendanceService
	queries    services.QueryService
	*Responder
}

func NewEmployeeHandler(directory services.DirectoryService, attendance services.AttendanceService, queries services.QueryService, responder *Responder) *EmployeeHandler {
	return &EmployeeHandler{directory: directory, attendance: attendance, queries: queries, Responder: responder}
}

// AddEmployee godoc
// @Summary Add employee
// @Tags Employees
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param employee body models.EmployeeCreatePayload true "Employee data"
// @Success 201 {object} models.Employee
// @Failure 400 {object} models.ValidationErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /emp [post]
func (h *EmployeeHandler) AddEmployee(c *fiber.Ctx) error {
	var payload models.EmployeeCreatePayload
	if err := c.BodyParser(&payload); err != nil {
		return h.BadRequest(c, "Invalid request body", err)
	}
	if errs := util.ValidateStruct(payload); errs != nil {
		return h.Validation(c, errs)
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	emp, err := h.directory.AddEmployee(ctx, principal(c).OrganizationID, &payload)
	if err != nil {
		return h.Error(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":  "Employee added successfully",
		"employee": emp,
	})
}

// ListEmployees godoc
// @Summary List employees
// @Tags Employees
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page" default(1)
// @Param page_size query int false "Page size (max 50)" default(10)
// @Success 200 {object} models.EmployeePage
// @Router /emp [get]
func (h *EmployeeHandler) ListEmployees(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	pageSize := c.QueryInt("page_size", services.DefaultPageSize)

	ctx, cancel := requestContext(c)
	defer cancel()

	result, err := h.directory.ListEmployees(ctx, principal(c).OrganizationID, int64(page), int64(pageSize))
	if err != nil {
		return h.Error(c, err)
	}
	return c.JSON(result)
}

// RemoveEmployee godoc
// @Summary Remove employee
// @Description Deletes the employee and its attendance records
// @Tags Employees
// @Produce json
// @Security BearerAuth
// @Param id path string true "Employee ID"
// @Success 200 {object} object{message=string}
// @Failure 404 {object} models.NotFoundErrorResponse
// @Router /emp/{id} [delete]
func (h *EmployeeHandler) RemoveEmployee(c *fiber.Ctx) error {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return h.BadRequest(c, "Invalid employee ID", nil)
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.directory.RemoveEmployee(ctx, principal(c).OrganizationID, id); err != nil {
		return h.Error(c, err)
	}
	return c.JSON(fiber.Map{"message": "Employee removed successfully"})
}

// Badge godoc
// @Summary Employee badge
// @Description PNG QR code of the employee ID, printed next to the RFID card
// @Tags Employees
// @Produce png
// @Security BearerAuth
// @Param id path string true "Employee ID"
// @Success 200 {file} binary
// @Failure 404 {object} models.NotFoundErrorResponse
// @Router /emp/{id}/badge [get]
func (h *EmployeeHandler) Badge(c *fiber.Ctx) error {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return h.BadRequest(c, "Invalid employee ID", nil)
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	emp, err := h.directory.GetEmployee(ctx, id)
	if err != nil {
		return h.Error(c, err)
	}
	if emp.OrganizationID != principal(c).OrganizationID {
		return h.Error(c, apperror.NotFound("employee"))
	}

	png, err := qrcode.Encode(emp.Code, qrcode.Medium, 256)
	if err != nil {
		return h.Error(c, apperror.System("encode badge", err))
	}

	c.Set(fiber.HeaderContentType, "image/png")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("inline; filename=%q", "badge_"+emp.Code+".png"))
	return c.Send(png)
}

// Dashboard godoc
// @Summary Employee dashboard
// @Description Works for both token kinds; an organization sees its own summary
// @Tags Employees
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.EmployeeDashboard
// @Router /emp/dashboard [get]
func (h *EmployeeHandler) Dashboard(c *fiber.Ctx) error {
	p := principal(c)

	ctx, cancel := requestContext(c)
	defer cancel()

	org, err := h.directory.GetOrganization(ctx, p.OrganizationID)
	if err != nil {
		return h.Error(c, err)
	}

	queries, err := h.queries.CountByOrganization(ctx, org.ID)
	if err != nil {
		return h.Error(c, err)
	}

	resp := models.EmployeeDashboard{
		Message: fmt.Sprintf("Welcome %s to Employee Dashboard", p.Email),
		Kind:    p.Kind,
		Organization: models.OrganizationSummary{
			ID:    org.ID.Hex(),
			Name:  org.Name,
			Email: org.Email,
		},
		TotalQueries: queries,
	}

	if p.IsEmployee() {
		emp, err := h.directory.GetEmployee(ctx, p.ID)
		if err != nil {
			return h.Error(c, err)
		}
		resp.Employee = emp

		today, err := h.attendance.TodayRecord(ctx, emp.ID)
		switch {
		case err == nil:
			resp.Today = today
		case !errors.Is(err, apperror.ErrNotFound):
			return h.Error(c, err)
		}
	}
	return c.JSON(resp)
}

// MyAttendance godoc
// @Summary Own attendance history
// @Tags Employees
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Attendance
// @Router /emp/my-attendance [get]
func (h *EmployeeHandler) MyAttendance(c *fiber.Ctx) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	records, err := h.attendance.History(ctx, principal(c).ID)
	if err != nil {
		return h.Error(c, err)
	}
	return c.JSON(fiber.Map{"data": records})
}
