package services

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/teambition/rrule-go"
	"github.com/xuri/excelize/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"Sistem-Absensi-RFID/models"
	"Sistem-Absensi-RFID/pkg/apperror"
	"Sistem-Absensi-RFID/repository"
)

// MaxTableDays bounds DailyAttendanceTable ranges.
const MaxTableDays = 366

// NoRecordMark fills a table cell for a day without any attendance record.
const NoRecordMark = "A"

// ReportService aggregates the ledger per organization.
type ReportService interface {
	MonthlyReport(ctx context.Context, orgID primitive.ObjectID, year, month int) (*models.MonthlyReport, error)
	DailyAttendanceTable(ctx context.Context, orgID primitive.ObjectID, start, end time.Time) (models.AttendanceTable, error)
	// ExportMonthly renders MonthlyReport as an XLSX workbook and suggests a file name.
	ExportMonthly(ctx context.Context, orgID primitive.ObjectID, year, month int) (*bytes.Buffer, string, error)
}

type reportService struct {
	repo   *repository.Repository
	loc    *time.Location
	logger *zap.Logger
}

func NewReportService(repo *repository.Repository, loc *time.Location, logger *zap.Logger) ReportService {
	if loc == nil {
		loc = time.UTC
	}
	return &reportService{repo: repo, loc: loc, logger: logger}
}

func (s *reportService) MonthlyReport(ctx context.Context, orgID primitive.ObjectID, year, month int) (*models.MonthlyReport, error) {
	if month < 1 || month > 12 {
		return nil, apperror.Invalid("month must be between 1 and 12, got %d", month)
	}
	if year < 1 || year > 9999 {
		return nil, apperror.Invalid("year out of range: %d", year)
	}

	org, err := s.repo.Organization.FindByID(ctx, orgID)
	if err != nil {
		return nil, err
	}

	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, s.loc)
	last := first.AddDate(0, 1, -1)
	startDate := first.Format(models.DateLayout)
	endDate := last.Format(models.DateLayout)

	employees, err := s.repo.Employee.ListByOrganization(ctx, orgID)
	if err != nil {
		return nil, err
	}

	summaries := make(map[string]models.EmployeeMonthSummary, len(employees))
	codeByID := make(map[primitive.ObjectID]string, len(employees))
	ids := make([]primitive.ObjectID, 0, len(employees))
	for _, e := range employees {
		summaries[e.Code] = models.EmployeeMonthSummary{Name: e.Name}
		codeByID[e.ID] = e.Code
		ids = append(ids, e.ID)
	}

	records, err := s.repo.Attendance.FindByEmployeesInRange(ctx, ids, startDate, endDate)
	if err != nil {
		return nil, err
	}
	for _, r := range records {
		code, ok := codeByID[r.EmployeeID]
		if !ok {
			continue
		}
		sum := summaries[code]
		switch r.Status {
		case models.StatusPresent:
			sum.Present++
		case models.StatusAbsent:
			sum.Absent++
		case models.StatusLeave:
			sum.Leave++
		case models.StatusHalfDay:
			sum.HalfDay++
		}
		summaries[code] = sum
	}

	return &models.MonthlyReport{
		Year:        year,
		Month:       month,
		StartDate:   startDate,
		EndDate:     endDate,
		DaysInMonth: last.Day(),
		WorkingDays: s.workingDays(org, first, last),
		Employees:   summaries,
	}, nil
}

// workingDays counts the occurrences of the organization's workday rule between first and
// last, both inclusive. A broken stored rule falls back to Monday to Friday.
func (s *reportService) workingDays(org *models.Organization, first, last time.Time) int {
	rule := org.WorkdayRule
	if strings.TrimSpace(rule) == "" {
		rule = models.DefaultWorkdayRule
	}

	rOption, err := rrule.StrToROption(rule)
	if err != nil {
		s.logger.Warn("invalid workday rule, using default",
			zap.String("organization_id", org.ID.Hex()),
			zap.String("rule", rule),
			zap.Error(err),
		)
		rOption, _ = rrule.StrToROption(models.DefaultWorkdayRule)
	}
	rOption.Dtstart = first

	rr, err := rrule.NewRRule(*rOption)
	if err != nil {
		s.logger.Warn("workday rule rejected", zap.String("rule", rule), zap.Error(err))
		return 0
	}

	ruleSet := rrule.Set{}
	ruleSet.RRule(rr)
	return len(ruleSet.Between(first, last, true))
}

func (s *reportService) DailyAttendanceTable(ctx context.Context, orgID primitive.ObjectID, start, end time.Time) (models.AttendanceTable, error) {
	first := s.midnight(start)
	last := s.midnight(end)
	if first.After(last) {
		return nil, apperror.Invalid("start date %s is after end date %s",
			first.Format(models.DateLayout), last.Format(models.DateLayout))
	}

	var days []string
	index := make(map[string]int)
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		if len(days) == MaxTableDays {
			return nil, apperror.Invalid("date range longer than %d days", MaxTableDays)
		}
		key := d.Format(models.DateLayout)
		index[key] = len(days)
		days = append(days, key)
	}

	employees, err := s.repo.Employee.ListByOrganization(ctx, orgID)
	if err != nil {
		return nil, err
	}

	table := make(models.AttendanceTable, len(employees))
	rowByID := make(map[primitive.ObjectID][]string, len(employees))
	ids := make([]primitive.ObjectID, 0, len(employees))
	for _, e := range employees {
		row := make([]string, len(days))
		for i := range row {
			row[i] = NoRecordMark
		}

		name := uniqueRowName(table, e)
		table[name] = row
		rowByID[e.ID] = row
		ids = append(ids, e.ID)
	}

	records, err := s.repo.Attendance.FindByEmployeesInRange(ctx, ids, days[0], days[len(days)-1])
	if err != nil {
		return nil, err
	}
	for _, r := range records {
		row, ok := rowByID[r.EmployeeID]
		if !ok {
			continue
		}
		i, ok := index[r.Date]
		if !ok {
			continue
		}
		row[i] = s.cell(r)
	}
	return table, nil
}

// uniqueRowName keys a row by the employee name, suffixed with the code and then a counter
// until the key is free.
func uniqueRowName(table models.AttendanceTable, e models.Employee) string {
	if _, taken := table[e.Name]; !taken {
		return e.Name
	}
	base := fmt.Sprintf("%s (%s)", e.Name, e.Code)
	name := base
	for n := 2; ; n++ {
		if _, taken := table[name]; !taken {
			return name
		}
		name = fmt.Sprintf("%s #%d", base, n)
	}
}

// cell renders Present as the check-in time and any other status as its label.
func (s *reportService) cell(r models.Attendance) string {
	if r.Status == models.StatusPresent && r.CheckIn != nil {
		return r.CheckIn.In(s.loc).Format(models.TimeLayout)
	}
	return r.Status.Label()
}

func (s *reportService) midnight(t time.Time) time.Time {
	t = t.In(s.loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, s.loc)
}

var exportHeaders = []string{"Employee ID", "Name", "Present", "Absent", "Leave", "Half Day"}

const exportHeaderRow = 5

// writeMonthlyHeader fills the title block, column widths and the styled header row.
func writeMonthlyHeader(f *excelize.File, sheet string, report *models.MonthlyReport) error {
	widths := []struct {
		from, to string
		width    float64
	}{{"A", "A", 14}, {"B", "B", 28}, {"C", "F", 10}}
	for _, w := range widths {
		if err := f.SetColWidth(sheet, w.from, w.to, w.width); err != nil {
			return err
		}
	}

	cells := []struct {
		cell  string
		value interface{}
	}{
		{"A1", fmt.Sprintf("Attendance %s to %s", report.StartDate, report.EndDate)},
		{"A2", "Days in month"},
		{"B2", report.DaysInMonth},
		{"A3", "Working days"},
		{"B3", report.WorkingDays},
	}
	for _, c := range cells {
		if err := f.SetCellValue(sheet, c.cell, c.value); err != nil {
			return err
		}
	}

	headers := make([]interface{}, len(exportHeaders))
	for i, h := range exportHeaders {
		headers[i] = h
	}
	first, err := excelize.CoordinatesToCellName(1, exportHeaderRow)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, first, &headers); err != nil {
		return err
	}

	style, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#D9E1F2"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(exportHeaders), exportHeaderRow)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, first, last, style)
}

func (s *reportService) ExportMonthly(ctx context.Context, orgID primitive.ObjectID, year, month int) (*bytes.Buffer, string, error) {
	report, err := s.MonthlyReport(ctx, orgID, year, month)
	if err != nil {
		return nil, "", err
	}

	codes := make([]string, 0, len(report.Employees))
	for code := range report.Employees {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	f := excelize.NewFile()
	defer f.Close()

	sheetName := fmt.Sprintf("%04d-%02d", year, month)
	idx, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, "", apperror.System("create sheet", err)
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, "", apperror.System("delete default sheet", err)
	}

	if err := writeMonthlyHeader(f, sheetName, report); err != nil {
		return nil, "", apperror.System("write report header", err)
	}

	for i, code := range codes {
		sum := report.Employees[code]
		values := []interface{}{code, sum.Name, sum.Present, sum.Absent, sum.Leave, sum.HalfDay}
		cell, err := excelize.CoordinatesToCellName(1, exportHeaderRow+1+i)
		if err != nil {
			return nil, "", apperror.System("write report row", err)
		}
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return nil, "", apperror.System("write report row", err)
		}
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("failed to write monthly workbook", zap.Error(err))
		return nil, "", apperror.System("write workbook", err)
	}

	filename := fmt.Sprintf("attendance_%04d_%02d.xlsx", year, month)
	return buf, filename, nil
}
