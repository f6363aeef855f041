package services

import (
	"errors"
	"time"

	"go.uber.org/zap"

	"Sistem-Absensi-RFID/repository"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountDisabled    = errors.New("account is disabled")
)

// Clock returns the current instant. Services take one so tests can pin time.
type Clock func() time.Time

func (c Clock) orSystem() Clock {
	if c == nil {
		return time.Now
	}
	return c
}

// Service groups the attendance core. Notifier is owned by main because it has a lifecycle.
type Service struct {
	Directory  DirectoryService
	Attendance AttendanceService
	Scan       ScanService
	Report     ReportService
	Query      QueryService
}

func NewService(repo *repository.Repository, loc *time.Location, queue EventQueue, clock Clock, logger *zap.Logger) *Service {
	directory := NewDirectoryService(repo, logger)
	attendance := NewAttendanceService(repo, loc, clock, logger)
	return &Service{
		Directory:  directory,
		Attendance: attendance,
		Scan:       NewScanService(directory, attendance, queue, clock, logger),
		Report:     NewReportService(repo, loc, logger),
		Query:      NewQueryService(repo, logger),
	}
}
