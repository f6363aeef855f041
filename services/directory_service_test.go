package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"Sistem-Absensi-RFID/models"
	"Sistem-Absensi-RFID/pkg/apperror"
)

func newDirectory(t *testing.T) (DirectoryService, *mockStore) {
	t.Helper()
	store := newMockStore()
	return NewDirectoryService(store.repo, zap.NewNop()), store
}

func TestRegisterAndAuthenticateOrganization(t *testing.T) {
	svc, _ := newDirectory(t)
	ctx := context.Background()

	org, err := svc.RegisterOrganization(ctx, &models.OrganizationSignupPayload{
		Name:     "Acme",
		Email:    " HR@Acme.test ",
		Password: "s3cret-pass",
	})
	require.NoError(t, err)
	require.Equal(t, "hr@acme.test", org.Email)
	require.Equal(t, models.DefaultWorkdayRule, org.WorkdayRule)
	require.NotEqual(t, "s3cret-pass", org.Password)

	_, err = svc.RegisterOrganization(ctx, &models.OrganizationSignupPayload{Name: "Acme 2", Email: "hr@acme.test", Password: "another-pass"})
	require.ErrorIs(t, err, apperror.ErrDuplicateKey)
	require.Equal(t, "email", apperror.DuplicateField(err))

	got, err := svc.AuthenticateOrganization(ctx, "HR@acme.test", "s3cret-pass")
	require.NoError(t, err)
	require.Equal(t, org.ID, got.ID)

	_, err = svc.AuthenticateOrganization(ctx, "hr@acme.test", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.AuthenticateOrganization(ctx, "nobody@acme.test", "s3cret-pass")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAddEmployeeUniqueness(t *testing.T) {
	svc, store := newDirectory(t)
	ctx := context.Background()
	org := store.seedOrg("Acme", "hr@acme.test")

	emp, err := svc.AddEmployee(ctx, org.ID, &models.EmployeeCreatePayload{
		Code: "E-01", Name: "Asha Rao", Email: "asha@acme.test", Password: "password1", RFID: "  04A1B2C3 ",
	})
	require.NoError(t, err)
	require.Equal(t, "04a1b2c3", emp.Tag())
	require.Equal(t, org.ID, emp.OrganizationID)

	cases := []struct {
		name    string
		payload models.EmployeeCreatePayload
		field   string
	}{
		{"email", models.EmployeeCreatePayload{Code: "E-02", Name: "B", Email: "ASHA@acme.test", Password: "password1"}, "email"},
		{"code", models.EmployeeCreatePayload{Code: "E-01", Name: "C", Email: "c@acme.test", Password: "password1"}, "code"},
		{"rfid case-insensitive", models.EmployeeCreatePayload{Code: "E-03", Name: "D", Email: "d@acme.test", Password: "password1", RFID: "04a1b2c3"}, "rfid"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.AddEmployee(ctx, org.ID, &tc.payload)
			require.ErrorIs(t, err, apperror.ErrDuplicateKey)
			require.Equal(t, tc.field, apperror.DuplicateField(err))
		})
	}

	// no card is never a conflict
	_, err = svc.AddEmployee(ctx, org.ID, &models.EmployeeCreatePayload{Code: "E-04", Name: "E", Email: "e@acme.test", Password: "password1"})
	require.NoError(t, err)
	_, err = svc.AddEmployee(ctx, org.ID, &models.EmployeeCreatePayload{Code: "E-05", Name: "F", Email: "f@acme.test", Password: "password1"})
	require.NoError(t, err)

	_, err = svc.AddEmployee(ctx, primitive.NewObjectID(), &models.EmployeeCreatePayload{Code: "E-06", Name: "G", Email: "g@acme.test", Password: "password1"})
	require.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestResolveByTagIgnoresCase(t *testing.T) {
	svc, store := newDirectory(t)
	ctx := context.Background()
	org := store.seedOrg("Acme", "hr@acme.test")
	emp := store.seedEmployee(org, "E-01", "Asha Rao", "04a1b2c3")

	got, err := svc.ResolveByTag(ctx, "04A1B2C3")
	require.NoError(t, err)
	require.Equal(t, emp.ID, got.ID)

	got, err = svc.ResolveByTag(ctx, " 04a1B2c3\n")
	require.NoError(t, err)
	require.Equal(t, emp.ID, got.ID)

	_, err = svc.ResolveByTag(ctx, "ffff")
	require.ErrorIs(t, err, apperror.ErrNotFound)

	_, err = svc.ResolveByTag(ctx, "   ")
	require.ErrorIs(t, err, apperror.ErrInvalidArgument)
}

func TestResolveByTagSkipsInactiveEmployees(t *testing.T) {
	svc, store := newDirectory(t)
	org := store.seedOrg("Acme", "hr@acme.test")
	emp := store.seedEmployee(org, "E-01", "Asha Rao", "aa11")

	store.employees.mu.Lock()
	e := store.employees.employees[emp.ID]
	e.IsActive = false
	store.employees.employees[emp.ID] = e
	store.employees.mu.Unlock()

	_, err := svc.ResolveByTag(context.Background(), "AA11")
	require.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestListEmployeesPaging(t *testing.T) {
	svc, store := newDirectory(t)
	ctx := context.Background()
	org := store.seedOrg("Acme", "hr@acme.test")
	other := store.seedOrg("Other", "hr@other.test")
	for i := 0; i < 12; i++ {
		store.seedEmployee(org, "E-"+string(rune('A'+i)), "Name "+string(rune('A'+i)), "")
	}
	store.seedEmployee(other, "X-1", "Outsider", "")

	page, err := svc.ListEmployees(ctx, org.ID, 0, 0)
	require.NoError(t, err)
	require.EqualValues(t, 1, page.Page)
	require.EqualValues(t, DefaultPageSize, page.PageSize)
	require.EqualValues(t, 12, page.Total)
	require.EqualValues(t, 2, page.TotalPages)
	require.Len(t, page.Employees, DefaultPageSize)
	require.Equal(t, "Name A", page.Employees[0].Name)

	page, err = svc.ListEmployees(ctx, org.ID, 2, 10)
	require.NoError(t, err)
	require.Len(t, page.Employees, 2)

	page, err = svc.ListEmployees(ctx, org.ID, 1, 500)
	require.NoError(t, err)
	require.EqualValues(t, MaxPageSize, page.PageSize)
	require.Len(t, page.Employees, 12)
}

func TestRemoveEmployeeIsScopedAndCascades(t *testing.T) {
	svc, store := newDirectory(t)
	ctx := context.Background()
	org := store.seedOrg("Acme", "hr@acme.test")
	other := store.seedOrg("Other", "hr@other.test")
	emp := store.seedEmployee(org, "E-01", "Asha Rao", "aa11")

	require.NoError(t, store.attendance.Insert(ctx, &models.Attendance{EmployeeID: emp.ID, OrganizationID: org.ID, Date: "2024-01-02", Status: models.StatusPresent}))

	err := svc.RemoveEmployee(ctx, other.ID, emp.ID)
	require.ErrorIs(t, err, apperror.ErrNotFound)
	require.Equal(t, 1, store.attendance.count())

	require.NoError(t, svc.RemoveEmployee(ctx, org.ID, emp.ID))
	require.Equal(t, 0, store.attendance.count())

	_, err = svc.GetEmployee(ctx, emp.ID)
	require.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestDeleteOrganizationCascades(t *testing.T) {
	svc, store := newDirectory(t)
	ctx := context.Background()
	org := store.seedOrg("Acme", "hr@acme.test")
	other := store.seedOrg("Other", "hr@other.test")
	a := store.seedEmployee(org, "E-01", "Asha", "")
	b := store.seedEmployee(org, "E-02", "Bala", "")
	keep := store.seedEmployee(other, "X-01", "Xavier", "")

	for _, e := range []*models.Employee{a, b, keep} {
		require.NoError(t, store.attendance.Insert(ctx, &models.Attendance{EmployeeID: e.ID, OrganizationID: e.OrganizationID, Date: "2024-01-02", Status: models.StatusPresent}))
	}

	require.NoError(t, svc.DeleteOrganization(ctx, org.ID))

	_, err := svc.GetOrganization(ctx, org.ID)
	require.ErrorIs(t, err, apperror.ErrNotFound)

	n, err := svc.CountEmployees(ctx, org.ID)
	require.NoError(t, err)
	require.Zero(t, n)
	require.Equal(t, 1, store.attendance.count())

	require.ErrorIs(t, svc.DeleteOrganization(ctx, org.ID), apperror.ErrNotFound)
}

// scanDuringDelete writes an attendance record while the employee delete runs, the way a scan
// that resolved the tag a moment earlier would.
type scanDuringDelete struct {
	*mockEmployeeRepo
	attendance *mockAttendanceRepo
	record     models.Attendance
}

func (r *scanDuringDelete) land(ctx context.Context) {
	rec := r.record
	_ = r.attendance.Insert(ctx, &rec)
}

func (r *scanDuringDelete) Delete(ctx context.Context, id primitive.ObjectID) error {
	r.land(ctx)
	return r.mockEmployeeRepo.Delete(ctx, id)
}

func (r *scanDuringDelete) DeleteByOrganization(ctx context.Context, orgID primitive.ObjectID) (int64, error) {
	r.land(ctx)
	return r.mockEmployeeRepo.DeleteByOrganization(ctx, orgID)
}

func TestRemoveEmployeeSweepsAttendanceAfterDelete(t *testing.T) {
	store := newMockStore()
	ctx := context.Background()
	org := store.seedOrg("Acme", "hr@acme.test")
	emp := store.seedEmployee(org, "E-01", "Asha Rao", "aa11")

	store.repo.Employee = &scanDuringDelete{
		mockEmployeeRepo: store.employees,
		attendance:       store.attendance,
		record:           models.Attendance{EmployeeID: emp.ID, OrganizationID: org.ID, Date: "2024-01-02", Status: models.StatusPresent},
	}
	svc := NewDirectoryService(store.repo, zap.NewNop())

	require.NoError(t, svc.RemoveEmployee(ctx, org.ID, emp.ID))
	require.Equal(t, 0, store.attendance.count())
}

func TestDeleteOrganizationSweepsAttendanceAndQueries(t *testing.T) {
	store := newMockStore()
	ctx := context.Background()
	org := store.seedOrg("Acme", "hr@acme.test")
	other := store.seedOrg("Other", "hr@other.test")
	emp := store.seedEmployee(org, "E-01", "Asha Rao", "")

	require.NoError(t, store.queries.Create(ctx, &models.Query{OrganizationID: org.ID, Content: "help", Visibility: models.QueryPublic}))
	require.NoError(t, store.queries.Create(ctx, &models.Query{OrganizationID: other.ID, Content: "other", Visibility: models.QueryPublic}))

	store.repo.Employee = &scanDuringDelete{
		mockEmployeeRepo: store.employees,
		attendance:       store.attendance,
		record:           models.Attendance{EmployeeID: emp.ID, OrganizationID: org.ID, Date: "2024-01-02", Status: models.StatusPresent},
	}
	svc := NewDirectoryService(store.repo, zap.NewNop())

	require.NoError(t, svc.DeleteOrganization(ctx, org.ID))
	require.Equal(t, 0, store.attendance.count())

	n, err := store.queries.CountByOrganization(ctx, org.ID)
	require.NoError(t, err)
	require.Zero(t, n)
	n, err = store.queries.CountByOrganization(ctx, other.ID)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)
}

func TestAuthenticateEmployee(t *testing.T) {
	svc, store := newDirectory(t)
	ctx := context.Background()
	org := store.seedOrg("Acme", "hr@acme.test")

	_, err := svc.AddEmployee(ctx, org.ID, &models.EmployeeCreatePayload{Code: "E-01", Name: "Asha", Email: "asha@acme.test", Password: "password1"})
	require.NoError(t, err)

	emp, err := svc.AuthenticateEmployee(ctx, "Asha@Acme.test", "password1")
	require.NoError(t, err)
	require.Equal(t, "E-01", emp.Code)

	_, err = svc.AuthenticateEmployee(ctx, "asha@acme.test", "nope")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}
