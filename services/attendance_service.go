package services

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"Sistem-Absensi-RFID/models"
	"Sistem-Absensi-RFID/pkg/apperror"
	"Sistem-Absensi-RFID/repository"
)

// AttendanceService is the ledger. Per (employee, date) a record moves
// Unmarked -> CheckedIn -> CheckedOut, and every later mark keeps updating check-out and status.
type AttendanceService interface {
	MarkAttendance(ctx context.Context, emp *models.Employee, status models.AttendanceStatus, at time.Time) (*models.MarkResult, error)
	// MarkEmployee marks an employee of orgID at the current time. status is a code or a name.
	MarkEmployee(ctx context.Context, orgID, employeeID primitive.ObjectID, status string) (*models.MarkResult, error)
	History(ctx context.Context, employeeID primitive.ObjectID) ([]models.Attendance, error)
	Today(ctx context.Context, orgID primitive.ObjectID) ([]models.Attendance, error)
	CountToday(ctx context.Context, orgID primitive.ObjectID) (int64, error)
	// TodayRecord returns the employee's record for the current local date, or NotFound.
	TodayRecord(ctx context.Context, employeeID primitive.ObjectID) (*models.Attendance, error)
}

type attendanceService struct {
	repo   *repository.Repository
	loc    *time.Location
	now    Clock
	logger *zap.Logger
}

func NewAttendanceService(repo *repository.Repository, loc *time.Location, clock Clock, logger *zap.Logger) AttendanceService {
	if loc == nil {
		loc = time.UTC
	}
	return &attendanceService{repo: repo, loc: loc, now: clock.orSystem(), logger: logger}
}

func (s *attendanceService) MarkAttendance(ctx context.Context, emp *models.Employee, status models.AttendanceStatus, at time.Time) (*models.MarkResult, error) {
	if emp == nil {
		return nil, apperror.Invalid("employee is required")
	}
	if !status.Valid() {
		return nil, apperror.Invalid("unknown attendance status %q", status)
	}

	org, err := s.repo.Organization.FindByID(ctx, emp.OrganizationID)
	if err != nil {
		return nil, err
	}

	date := at.In(s.loc).Format(models.DateLayout)
	checkIn := at
	record := &models.Attendance{
		EmployeeID:       emp.ID,
		OrganizationID:   emp.OrganizationID,
		Date:             date,
		CheckIn:          &checkIn,
		Status:           status,
		EmployeeCode:     emp.Code,
		OrganizationName: org.Name,
	}

	// the unique (employee_id, date) index decides who creates the day's record;
	// everyone else, including a writer that lost the race, takes the update branch
	err = s.repo.Attendance.Insert(ctx, record)
	if err == nil {
		marksTotal.WithLabelValues("created", string(status)).Inc()
		s.logger.Debug("attendance check-in",
			zap.String("employee_code", emp.Code),
			zap.String("date", date),
			zap.String("status", string(status)),
		)
		return &models.MarkResult{Record: record, Created: true}, nil
	}
	if !errors.Is(err, apperror.ErrDuplicateKey) {
		return nil, err
	}

	updated, err := s.repo.Attendance.UpdateCheckout(ctx, emp.ID, date, at, status)
	if err != nil {
		return nil, err
	}
	marksTotal.WithLabelValues("updated", string(status)).Inc()
	s.logger.Debug("attendance check-out",
		zap.String("employee_code", emp.Code),
		zap.String("date", date),
		zap.String("status", string(status)),
	)
	return &models.MarkResult{Record: updated, Created: false}, nil
}

func (s *attendanceService) MarkEmployee(ctx context.Context, orgID, employeeID primitive.ObjectID, status string) (*models.MarkResult, error) {
	parsed, ok := models.ParseStatus(status)
	if !ok {
		return nil, apperror.Invalid("unknown attendance status %q", status)
	}

	emp, err := s.repo.Employee.FindByID(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	if emp.OrganizationID != orgID {
		return nil, apperror.NotFound("employee")
	}
	return s.MarkAttendance(ctx, emp, parsed, s.now())
}

func (s *attendanceService) History(ctx context.Context, employeeID primitive.ObjectID) ([]models.Attendance, error) {
	return s.repo.Attendance.FindByEmployee(ctx, employeeID)
}

func (s *attendanceService) Today(ctx context.Context, orgID primitive.ObjectID) ([]models.Attendance, error) {
	return s.repo.Attendance.FindByOrganizationAndDate(ctx, orgID, s.today())
}

func (s *attendanceService) CountToday(ctx context.Context, orgID primitive.ObjectID) (int64, error) {
	return s.repo.Attendance.CountByOrganizationAndDate(ctx, orgID, s.today())
}

func (s *attendanceService) TodayRecord(ctx context.Context, employeeID primitive.ObjectID) (*models.Attendance, error) {
	return s.repo.Attendance.FindByEmployeeAndDate(ctx, employeeID, s.today())
}

func (s *attendanceService) today() string {
	return s.now().In(s.loc).Format(models.DateLayout)
}
