package handlers

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"Sistem-Absensi-RFID/models"
	"Sistem-Absensi-RFID/services"
)

type ReportHandler struct {
	report services.ReportService
	loc    *time.Location
	*Responder
}

func NewReportHandler(report services.ReportService, loc *time.Location, responder *Responder) *ReportHandler {
	return &ReportHandler{report: report, loc: loc, Responder: responder}
}

func yearMonth(c *fiber.Ctx) (int, int, error) {
	year, err := strconv.Atoi(c.Params("year"))
	if err != nil {
		return 0, 0, fmt.Errorf("year must be a number")
	}
	month, err := strconv.Atoi(c.Params("month"))
	if err != nil {
		return 0, 0, fmt.Errorf("month must be a number")
	}
	return year, month, nil
}

// Monthly godoc
// @Summary Monthly attendance report
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Param year path int true "Year"
// @Param month path int true "Month (1-12)"
// @Success 200 {object} models.MonthlyReport
// @Failure 400 {object} models.ErrorResponse
// @Router /attendance/monthly/{year}/{month} [get]
func (h *ReportHandler) Monthly(c *fiber.Ctx) error {
	year, month, err := yearMonth(c)
	if err != nil {
		return h.BadRequest(c, err.Error(), nil)
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	report, err := h.report.MonthlyReport(ctx, principal(c).OrganizationID, year, month)
	if err != nil {
		return h.Error(c, err)
	}
	return c.JSON(report)
}

// ExportMonthly godoc
// @Summary Monthly attendance report as XLSX
// @Tags Reports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param year path int true "Year"
// @Param month path int true "Month (1-12)"
// @Success 200 {file} binary
// @Router /attendance/monthly/{year}/{month}/export [get]
func (h *ReportHandler) ExportMonthly(c *fiber.Ctx) error {
	year, month, err := yearMonth(c)
	if err != nil {
		return h.BadRequest(c, err.Error(), nil)
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	buf, filename, err := h.report.ExportMonthly(ctx, principal(c).OrganizationID, year, month)
	if err != nil {
		return h.Error(c, err)
	}

	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Send(buf.Bytes())
}

// Table godoc
// @Summary Daily attendance table
// @Description One value per day and employee: check-in time when present, the status label otherwise, "A" without a record.
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Param start query string true "Start date (YYYY-MM-DD)"
// @Param end query string true "End date (YYYY-MM-DD)"
// @Success 200 {object} object{start=string,end=string,table=models.AttendanceTable}
// @Failure 400 {object} models.ErrorResponse
// @Router /attendance/table [get]
func (h *ReportHandler) Table(c *fiber.Ctx) error {
	start, err := time.ParseInLocation(models.DateLayout, c.Query("start"), h.loc)
	if err != nil {
		return h.BadRequest(c, "start must be YYYY-MM-DD", err)
	}
	end, err := time.ParseInLocation(models.DateLayout, c.Query("end"), h.loc)
	if err != nil {
		return h.BadRequest(c, "end must be YYYY-MM-DD", err)
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	table, err := h.report.DailyAttendanceTable(ctx, principal(c).OrganizationID, start, end)
	if err != nil {
		return h.Error(c, err)
	}
	return c.JSON(fiber.Map{
		"start": start.Format(models.DateLayout),
		"end":   end.Format(models.DateLayout),
		"table": table,
	})
}
