package services

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"Sistem-Absensi-RFID/models"
	"Sistem-Absensi-RFID/pkg/apperror"
)

type ScanResult string

const (
	ScanUnknownCard ScanResult = "unknown_card"
	ScanCheckedIn   ScanResult = "check_in"
	ScanCheckedOut  ScanResult = "check_out"
)

type ScanOutcome struct {
	Result   ScanResult
	Employee *models.Employee
	Record   *models.Attendance
	Created  bool
}

// EventQueue receives attendance events for the daily notification batch. Enqueue must not block.
type EventQueue interface {
	Enqueue(ev models.AttendanceEvent) bool
}

// ScanService turns a raw card read into a ledger transition.
type ScanService interface {
	HandleScan(ctx context.Context, tag string) (*ScanOutcome, error)
}

type scanService struct {
	directory  DirectoryService
	attendance AttendanceService
	queue      EventQueue
	now        Clock
	logger     *zap.Logger
}

func NewScanService(directory DirectoryService, attendance AttendanceService, queue EventQueue, clock Clock, logger *zap.Logger) ScanService {
	return &scanService{
		directory:  directory,
		attendance: attendance,
		queue:      queue,
		now:        clock.orSystem(),
		logger:     logger,
	}
}

// HandleScan marks the card holder Present. An unknown card is an outcome, not an error,
// and leaves the ledger untouched.
func (s *scanService) HandleScan(ctx context.Context, tag string) (*ScanOutcome, error) {
	normalized := NormalizeTag(tag)
	if normalized == "" {
		scansTotal.WithLabelValues("invalid").Inc()
		return nil, apperror.Invalid("card_uid is required")
	}

	emp, err := s.directory.ResolveByTag(ctx, normalized)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			scansTotal.WithLabelValues(string(ScanUnknownCard)).Inc()
			s.logger.Info("scan with unknown card", zap.String("card_uid", normalized))
			return &ScanOutcome{Result: ScanUnknownCard}, nil
		}
		scansTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	at := s.now()
	res, err := s.attendance.MarkAttendance(ctx, emp, models.StatusPresent, at)
	if err != nil {
		scansTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	outcome := &ScanOutcome{
		Result:   ScanCheckedOut,
		Employee: emp,
		Record:   res.Record,
		Created:  res.Created,
	}
	if res.Created {
		outcome.Result = ScanCheckedIn
	}
	scansTotal.WithLabelValues(string(outcome.Result)).Inc()

	s.enqueue(ctx, emp, at)
	return outcome, nil
}

// enqueue never fails the scan: the ledger write already happened.
func (s *scanService) enqueue(ctx context.Context, emp *models.Employee, at time.Time) {
	if s.queue == nil {
		return
	}
	org, err := s.directory.GetOrganization(ctx, emp.OrganizationID)
	if err != nil {
		s.logger.Warn("notification skipped, organization lookup failed",
			zap.String("employee_code", emp.Code),
			zap.Error(err),
		)
		return
	}
	s.queue.Enqueue(models.AttendanceEvent{
		EmployeeName:      emp.Name,
		EmployeeID:        emp.Code,
		Timestamp:         at,
		OrganizationEmail: org.Email,
	})
}
