package services

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"Sistem-Absensi-RFID/models"
	"Sistem-Absensi-RFID/pkg/apperror"
	"Sistem-Absensi-RFID/repository"
)

// ── Mock OrganizationRepository ──

type mockOrganizationRepo struct {
	mu   sync.Mutex
	orgs map[primitive.ObjectID]models.Organization
}

func newMockOrganizationRepo() *mockOrganizationRepo {
	return &mockOrganizationRepo{orgs: make(map[primitive.ObjectID]models.Organization)}
}

func (m *mockOrganizationRepo) Create(_ context.Context, org *models.Organization) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range m.orgs {
		if o.Email == org.Email {
			return apperror.Duplicate("email")
		}
	}
	if org.ID.IsZero() {
		org.ID = primitive.NewObjectID()
	}
	org.CreatedAt = time.Now()
	org.UpdatedAt = org.CreatedAt
	m.orgs[org.ID] = *org
	return nil
}

func (m *mockOrganizationRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.Organization, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if o, ok := m.orgs[id]; ok {
		return &o, nil
	}
	return nil, apperror.NotFound("organization")
}

func (m *mockOrganizationRepo) FindByEmail(_ context.Context, email string) (*models.Organization, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range m.orgs {
		if o.Email == email {
			o := o
			return &o, nil
		}
	}
	return nil, apperror.NotFound("organization")
}

func (m *mockOrganizationRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.orgs[id]; !ok {
		return apperror.NotFound("organization")
	}
	delete(m.orgs, id)
	return nil
}

// ── Mock EmployeeRepository ──

type mockEmployeeRepo struct {
	mu        sync.Mutex
	employees map[primitive.ObjectID]models.Employee
}

func newMockEmployeeRepo() *mockEmployeeRepo {
	return &mockEmployeeRepo{employees: make(map[primitive.ObjectID]models.Employee)}
}

func (m *mockEmployeeRepo) Create(_ context.Context, emp *models.Employee) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.employees {
		switch {
		case e.Email == emp.Email:
			return apperror.Duplicate("email")
		case e.Code == emp.Code:
			return apperror.Duplicate("code")
		case e.RFID != nil && emp.RFID != nil && *e.RFID == *emp.RFID:
			return apperror.Duplicate("rfid")
		}
	}
	if emp.ID.IsZero() {
		emp.ID = primitive.NewObjectID()
	}
	emp.DateJoined = time.Now()
	emp.UpdatedAt = emp.DateJoined
	m.employees[emp.ID] = *emp
	return nil
}

func (m *mockEmployeeRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.employees[id]; ok {
		return &e, nil
	}
	return nil, apperror.NotFound("employee")
}

func (m *mockEmployeeRepo) FindByEmail(_ context.Context, email string) (*models.Employee, error) {
	return m.findFirst(func(e models.Employee) bool { return e.Email == email })
}

func (m *mockEmployeeRepo) FindActiveByRFID(_ context.Context, tag string) (*models.Employee, error) {
	return m.findFirst(func(e models.Employee) bool { return e.IsActive && e.RFID != nil && *e.RFID == tag })
}

func (m *mockEmployeeRepo) findFirst(match func(models.Employee) bool) (*models.Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.employees {
		if match(e) {
			e := e
			return &e, nil
		}
	}
	return nil, apperror.NotFound("employee")
}

func (m *mockEmployeeRepo) ListByOrganization(_ context.Context, orgID primitive.ObjectID) ([]models.Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := []models.Employee{}
	for _, e := range m.employees {
		if e.OrganizationID == orgID {
			result = append(result, e)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Name != result[j].Name {
			return result[i].Name < result[j].Name
		}
		return result[i].ID.Hex() < result[j].ID.Hex()
	})
	return result, nil
}

func (m *mockEmployeeRepo) PageByOrganization(ctx context.Context, orgID primitive.ObjectID, page, limit int64) ([]models.Employee, int64, error) {
	all, _ := m.ListByOrganization(ctx, orgID)
	total := int64(len(all))
	from := (page - 1) * limit
	if from > total {
		from = total
	}
	to := from + limit
	if to > total {
		to = total
	}
	return all[from:to], total, nil
}

func (m *mockEmployeeRepo) CountByOrganization(ctx context.Context, orgID primitive.ObjectID) (int64, error) {
	all, _ := m.ListByOrganization(ctx, orgID)
	return int64(len(all)), nil
}

func (m *mockEmployeeRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.employees[id]; !ok {
		return apperror.NotFound("employee")
	}
	delete(m.employees, id)
	return nil
}

func (m *mockEmployeeRepo) DeleteByOrganization(_ context.Context, orgID primitive.ObjectID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, e := range m.employees {
		if e.OrganizationID == orgID {
			delete(m.employees, id)
			n++
		}
	}
	return n, nil
}

// ── Mock AttendanceRepository ──

type dayKey struct {
	employeeID primitive.ObjectID
	date       string
}

type mockAttendanceRepo struct {
	mu      sync.Mutex
	records map[dayKey]models.Attendance
	inserts int
}

func newMockAttendanceRepo() *mockAttendanceRepo {
	return &mockAttendanceRepo{records: make(map[dayKey]models.Attendance)}
}

func (m *mockAttendanceRepo) Insert(_ context.Context, a *models.Attendance) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := dayKey{a.EmployeeID, a.Date}
	if _, ok := m.records[key]; ok {
		return apperror.Duplicate("date")
	}
	if a.ID.IsZero() {
		a.ID = primitive.NewObjectID()
	}
	a.CreatedAt = time.Now()
	a.UpdatedAt = a.CreatedAt
	m.records[key] = *a
	m.inserts++
	return nil
}

func (m *mockAttendanceRepo) UpdateCheckout(_ context.Context, employeeID primitive.ObjectID, date string, checkOut time.Time, status models.AttendanceStatus) (*models.Attendance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := dayKey{employeeID, date}
	a, ok := m.records[key]
	if !ok {
		return nil, apperror.NotFound("attendance")
	}
	out := checkOut
	a.CheckOut = &out
	a.Status = status
	a.UpdatedAt = time.Now()
	m.records[key] = a
	return &a, nil
}

func (m *mockAttendanceRepo) FindByEmployeeAndDate(_ context.Context, employeeID primitive.ObjectID, date string) (*models.Attendance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a, ok := m.records[dayKey{employeeID, date}]; ok {
		return &a, nil
	}
	return nil, apperror.NotFound("attendance")
}

func (m *mockAttendanceRepo) filter(match func(models.Attendance) bool, newestFirst bool) []models.Attendance {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := []models.Attendance{}
	for _, a := range m.records {
		if match(a) {
			result = append(result, a)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if newestFirst {
			return result[i].Date > result[j].Date
		}
		return result[i].Date < result[j].Date
	})
	return result
}

func (m *mockAttendanceRepo) FindByEmployee(_ context.Context, employeeID primitive.ObjectID) ([]models.Attendance, error) {
	return m.filter(func(a models.Attendance) bool { return a.EmployeeID == employeeID }, true), nil
}

func (m *mockAttendanceRepo) FindByOrganizationAndDate(_ context.Context, orgID primitive.ObjectID, date string) ([]models.Attendance, error) {
	return m.filter(func(a models.Attendance) bool { return a.OrganizationID == orgID && a.Date == date }, false), nil
}

func (m *mockAttendanceRepo) CountByOrganizationAndDate(ctx context.Context, orgID primitive.ObjectID, date string) (int64, error) {
	recs, _ := m.FindByOrganizationAndDate(ctx, orgID, date)
	return int64(len(recs)), nil
}

func (m *mockAttendanceRepo) FindByEmployeesInRange(_ context.Context, employeeIDs []primitive.ObjectID, start, end string) ([]models.Attendance, error) {
	ids := make(map[primitive.ObjectID]bool, len(employeeIDs))
	for _, id := range employeeIDs {
		ids[id] = true
	}
	return m.filter(func(a models.Attendance) bool {
		return ids[a.EmployeeID] && a.Date >= start && a.Date <= end
	}, false), nil
}

func (m *mockAttendanceRepo) DeleteByEmployees(_ context.Context, employeeIDs []primitive.ObjectID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make(map[primitive.ObjectID]bool, len(employeeIDs))
	for _, id := range employeeIDs {
		ids[id] = true
	}
	var n int64
	for key := range m.records {
		if ids[key.employeeID] {
			delete(m.records, key)
			n++
		}
	}
	return n, nil
}

func (m *mockAttendanceRepo) DeleteByOrganization(_ context.Context, orgID primitive.ObjectID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for key, r := range m.records {
		if r.OrganizationID == orgID {
			delete(m.records, key)
			n++
		}
	}
	return n, nil
}

func (m *mockAttendanceRepo) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records)
}

// ── Mock QueryRepository ──

type mockQueryRepo struct {
	mu      sync.Mutex
	queries []models.Query
	clock   time.Time
}

func newMockQueryRepo() *mockQueryRepo {
	return &mockQueryRepo{clock: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (m *mockQueryRepo) Create(_ context.Context, q *models.Query) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if q.ID.IsZero() {
		q.ID = primitive.NewObjectID()
	}
	// strictly increasing timestamps keep newest-first ordering deterministic
	m.clock = m.clock.Add(time.Second)
	q.CreatedAt = m.clock
	q.UpdatedAt = m.clock
	m.queries = append(m.queries, *q)
	return nil
}

func (m *mockQueryRepo) PagePublic(_ context.Context, page, limit int64) ([]models.Query, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	public := []models.Query{}
	for i := len(m.queries) - 1; i >= 0; i-- {
		if m.queries[i].Visibility == models.QueryPublic {
			public = append(public, m.queries[i])
		}
	}
	total := int64(len(public))
	from := (page - 1) * limit
	if from > total {
		from = total
	}
	to := from + limit
	if to > total {
		to = total
	}
	return public[from:to], total, nil
}

func (m *mockQueryRepo) CountByOrganization(_ context.Context, orgID primitive.ObjectID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, q := range m.queries {
		if q.OrganizationID == orgID {
			n++
		}
	}
	return n, nil
}

func (m *mockQueryRepo) DeleteByOrganization(_ context.Context, orgID primitive.ObjectID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.queries[:0]
	var n int64
	for _, q := range m.queries {
		if q.OrganizationID == orgID {
			n++
			continue
		}
		kept = append(kept, q)
	}
	m.queries = kept
	return n, nil
}

// ── helpers ──

type mockStore struct {
	orgs       *mockOrganizationRepo
	employees  *mockEmployeeRepo
	attendance *mockAttendanceRepo
	queries    *mockQueryRepo
	repo       *repository.Repository
}

func newMockStore() *mockStore {
	s := &mockStore{
		orgs:       newMockOrganizationRepo(),
		employees:  newMockEmployeeRepo(),
		attendance: newMockAttendanceRepo(),
		queries:    newMockQueryRepo(),
	}
	s.repo = &repository.Repository{
		Organization: s.orgs,
		Employee:     s.employees,
		Attendance:   s.attendance,
		Query:        s.queries,
	}
	return s
}

// seedOrg stores an organization directly, skipping password hashing.
func (s *mockStore) seedOrg(name, email string) *models.Organization {
	org := &models.Organization{Name: name, Email: email, WorkdayRule: models.DefaultWorkdayRule, IsActive: true}
	_ = s.orgs.Create(context.Background(), org)
	return org
}

func (s *mockStore) seedEmployee(org *models.Organization, code, name, tag string) *models.Employee {
	emp := &models.Employee{
		Code:           code,
		Name:           name,
		Email:          strings.ToLower(code) + "." + org.Email,
		OrganizationID: org.ID,
		IsActive:       true,
	}
	if tag != "" {
		t := NormalizeTag(tag)
		emp.RFID = &t
	}
	_ = s.employees.Create(context.Background(), emp)
	return emp
}

// fixedClock returns a clock that can be moved forward by tests.
type fixedClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFixedClock(t time.Time) *fixedClock { return &fixedClock{t: t} }

func (c *fixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fixedClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = t
}

// recordingQueue collects enqueued events.
type recordingQueue struct {
	mu     sync.Mutex
	events []models.AttendanceEvent
}

func (q *recordingQueue) Enqueue(ev models.AttendanceEvent) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.events = append(q.events, ev)
	return true
}

func (q *recordingQueue) Events() []models.AttendanceEvent {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]models.AttendanceEvent(nil), q.events...)
}
