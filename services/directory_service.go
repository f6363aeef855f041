package services

import (
	"context"
	"errors"
	"math"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"Sistem-Absensi-RFID/models"
	"Sistem-Absensi-RFID/pkg/apperror"
	"Sistem-Absensi-RFID/pkg/password"
	"Sistem-Absensi-RFID/repository"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 50
)

// DirectoryService owns organizations and employees, the tenant boundary and the
// tag-to-employee mapping.
type DirectoryService interface {
	RegisterOrganization(ctx context.Context, payload *models.OrganizationSignupPayload) (*models.Organization, error)
	AuthenticateOrganization(ctx context.Context, email, plain string) (*models.Organization, error)
	AuthenticateEmployee(ctx context.Context, email, plain string) (*models.Employee, error)
	GetOrganization(ctx context.Context, id primitive.ObjectID) (*models.Organization, error)
	DeleteOrganization(ctx context.Context, orgID primitive.ObjectID) error

	AddEmployee(ctx context.Context, orgID primitive.ObjectID, payload *models.EmployeeCreatePayload) (*models.Employee, error)
	GetEmployee(ctx context.Context, id primitive.ObjectID) (*models.Employee, error)
	ListEmployees(ctx context.Context, orgID primitive.ObjectID, page, pageSize int64) (*models.EmployeePage, error)
	CountEmployees(ctx context.Context, orgID primitive.ObjectID) (int64, error)
	RemoveEmployee(ctx context.Context, orgID, employeeID primitive.ObjectID) error

	ResolveByTag(ctx context.Context, tag string) (*models.Employee, error)
	EmployeesOf(ctx context.Context, orgID primitive.ObjectID) ([]models.Employee, error)
}

type directoryService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

func NewDirectoryService(repo *repository.Repository, logger *zap.Logger) DirectoryService {
	return &directoryService{repo: repo, logger: logger}
}

// NormalizeTag is applied to tags on write and on lookup, which makes resolution
// case-insensitive.
func NormalizeTag(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *directoryService) RegisterOrganization(ctx context.Context, payload *models.OrganizationSignupPayload) (*models.Organization, error) {
	hashed, err := password.HashPassword(payload.Password)
	if err != nil {
		return nil, apperror.System("hash password", err)
	}

	rule := strings.TrimSpace(payload.WorkdayRule)
	if rule == "" {
		rule = models.DefaultWorkdayRule
	}

	org := &models.Organization{
		Name:        strings.TrimSpace(payload.Name),
		Email:       normalizeEmail(payload.Email),
		Password:    hashed,
		WorkdayRule: rule,
		IsActive:    true,
	}
	if err := s.repo.Organization.Create(ctx, org); err != nil {
		return nil, err
	}

	s.logger.Info("organization registered", zap.String("organization_id", org.ID.Hex()), zap.String("email", org.Email))
	return org, nil
}

func (s *directoryService) AuthenticateOrganization(ctx context.Context, email, plain string) (*models.Organization, error) {
	org, err := s.repo.Organization.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !password.CheckPasswordHash(plain, org.Password) {
		return nil, ErrInvalidCredentials
	}
	if !org.IsActive {
		return nil, ErrAccountDisabled
	}
	return org, nil
}

func (s *directoryService) AuthenticateEmployee(ctx context.Context, email, plain string) (*models.Employee, error) {
	emp, err := s.repo.Employee.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !password.CheckPasswordHash(plain, emp.Password) {
		return nil, ErrInvalidCredentials
	}
	if !emp.IsActive {
		return nil, ErrAccountDisabled
	}
	return emp, nil
}

func (s *directoryService) GetOrganization(ctx context.Context, id primitive.ObjectID) (*models.Organization, error) {
	return s.repo.Organization.FindByID(ctx, id)
}

// DeleteOrganization removes the organization, its employees, their attendance records and its
// support queries. Attendance is swept only after its owners are gone.
func (s *directoryService) DeleteOrganization(ctx context.Context, orgID primitive.ObjectID) error {
	if _, err := s.repo.Organization.FindByID(ctx, orgID); err != nil {
		return err
	}

	if err := s.repo.Organization.Delete(ctx, orgID); err != nil {
		return err
	}
	removed, err := s.repo.Employee.DeleteByOrganization(ctx, orgID)
	if err != nil {
		return err
	}
	records, err := s.repo.Attendance.DeleteByOrganization(ctx, orgID)
	if err != nil {
		return err
	}
	queries, err := s.repo.Query.DeleteByOrganization(ctx, orgID)
	if err != nil {
		return err
	}

	s.logger.Info("organization deleted",
		zap.String("organization_id", orgID.Hex()),
		zap.Int64("employees", removed),
		zap.Int64("attendance_records", records),
		zap.Int64("queries", queries),
	)
	return nil
}

func (s *directoryService) AddEmployee(ctx context.Context, orgID primitive.ObjectID, payload *models.EmployeeCreatePayload) (*models.Employee, error) {
	org, err := s.repo.Organization.FindByID(ctx, orgID)
	if err != nil {
		return nil, err
	}

	code := strings.TrimSpace(payload.Code)
	if code == "" {
		return nil, apperror.Invalid("employee id is required")
	}

	hashed, err := password.HashPassword(payload.Password)
	if err != nil {
		return nil, apperror.System("hash password", err)
	}

	emp := &models.Employee{
		Code:           code,
		Name:           strings.TrimSpace(payload.Name),
		Email:          normalizeEmail(payload.Email),
		Password:       hashed,
		OrganizationID: org.ID,
		IsActive:       true,
	}
	if tag := NormalizeTag(payload.RFID); tag != "" {
		emp.RFID = &tag
	}

	if err := s.repo.Employee.Create(ctx, emp); err != nil {
		return nil, err
	}
	s.logger.Info("employee added",
		zap.String("organization_id", org.ID.Hex()),
		zap.String("employee_code", emp.Code),
		zap.Bool("has_rfid", emp.RFID != nil),
	)
	return emp, nil
}

func (s *directoryService) GetEmployee(ctx context.Context, id primitive.ObjectID) (*models.Employee, error) {
	return s.repo.Employee.FindByID(ctx, id)
}

func (s *directoryService) ListEmployees(ctx context.Context, orgID primitive.ObjectID, page, pageSize int64) (*models.EmployeePage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	employees, total, err := s.repo.Employee.PageByOrganization(ctx, orgID, page, pageSize)
	if err != nil {
		return nil, err
	}

	return &models.EmployeePage{
		Employees:  employees,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: int64(math.Ceil(float64(total) / float64(pageSize))),
	}, nil
}

func (s *directoryService) CountEmployees(ctx context.Context, orgID primitive.ObjectID) (int64, error) {
	return s.repo.Employee.CountByOrganization(ctx, orgID)
}

// RemoveEmployee deletes an employee of orgID and its attendance records. An employee of
// another organization is reported as not found.
func (s *directoryService) RemoveEmployee(ctx context.Context, orgID, employeeID primitive.ObjectID) error {
	emp, err := s.repo.Employee.FindByID(ctx, employeeID)
	if err != nil {
		return err
	}
	if emp.OrganizationID != orgID {
		return apperror.NotFound("employee")
	}

	if err := s.repo.Employee.Delete(ctx, emp.ID); err != nil {
		return err
	}
	// after the employee is gone no new scan can resolve it
	if _, err := s.repo.Attendance.DeleteByEmployees(ctx, []primitive.ObjectID{emp.ID}); err != nil {
		return err
	}

	s.logger.Info("employee removed", zap.String("organization_id", orgID.Hex()), zap.String("employee_code", emp.Code))
	return nil
}

func (s *directoryService) ResolveByTag(ctx context.Context, tag string) (*models.Employee, error) {
	normalized := NormalizeTag(tag)
	if normalized == "" {
		return nil, apperror.Invalid("rfid tag is empty")
	}
	return s.repo.Employee.FindActiveByRFID(ctx, normalized)
}

func (s *directoryService) EmployeesOf(ctx context.Context, orgID primitive.ObjectID) ([]models.Employee, error) {
	return s.repo.Employee.ListByOrganization(ctx, orgID)
}
