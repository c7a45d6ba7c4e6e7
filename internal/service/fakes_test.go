package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/company-portal/internal/config"
	"github.com/spec-kit/company-portal/internal/domain"
	"github.com/spec-kit/company-portal/internal/repository"
)

var errStoreDown = errors.New("connection refused")

func testConfig() config.Config {
	return config.Config{Auth: config.AuthConfig{JWTSecret: "test-secret", BcryptCost: 4}}
}

type fakeAdmins struct {
	byEmail map[string]*domain.Admin
	err     error
}

func (f *fakeAdmins) Create(_ context.Context, a *domain.Admin) error {
	if f.byEmail == nil {
		f.byEmail = map[string]*domain.Admin{}
	}
	a.ID = int64(len(f.byEmail) + 1)
	f.byEmail[a.Email] = a
	return nil
}

func (f *fakeAdmins) GetByEmail(_ context.Context, email string) (*domain.Admin, error) {
	if f.err != nil {
		return nil, f.err
	}
	a, ok := f.byEmail[email]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return a, nil
}

type fakeEmployees struct {
	mu   sync.Mutex
	list []*domain.Employee
	err  error
}

func (f *fakeEmployees) Create(_ context.Context, e *domain.Employee) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, x := range f.list {
		if x.Email == e.Email || x.Code == e.Code {
			return repository.ErrDuplicate
		}
	}
	e.ID = int64(len(f.list) + 1)
	f.list = append(f.list, e)
	return nil
}

func (f *fakeEmployees) GetActiveByEmail(_ context.Context, email string) (*domain.Employee, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.list {
		if e.Email == email && e.Status == domain.EmployeeStatusActive {
			return e, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeEmployees) List(context.Context) ([]domain.Employee, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.Employee, 0, len(f.list))
	for _, e := range f.list {
		out = append(out, *e)
	}
	return out, nil
}

func (f *fakeEmployees) ExistsByEmailOrCode(_ context.Context, email, code string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.list {
		if e.Email == email || e.Code == code {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeEmployees) LastCode(context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	last := ""
	for _, e := range f.list {
		if e.Code > last {
			last = e.Code
		}
	}
	return last, nil
}

type attendanceKey struct {
	employeeID int64
	date       string
}

type fakeAttendance struct {
	mu   sync.Mutex
	rows map[attendanceKey]domain.Attendance
	err  error
}

func newFakeAttendance() *fakeAttendance {
	return &fakeAttendance{rows: map[attendanceKey]domain.Attendance{}}
}

func (f *fakeAttendance) MarkPresent(_ context.Context, employeeID int64, date, loginTime time.Time) error {
	if f.err != nil {
		return f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	key := attendanceKey{employeeID, date.Format(time.DateOnly)}
	row, ok := f.rows[key]
	if !ok {
		row = domain.Attendance{ID: int64(len(f.rows) + 1), EmployeeID: employeeID, Date: date}
	}
	row.LoginTime = loginTime
	row.Status = domain.AttendancePresent
	f.rows[key] = row
	return nil
}

func (f *fakeAttendance) ListByEmployee(_ context.Context, employeeID int64, limit int) ([]domain.Attendance, error) {
	all, _ := f.List(context.Background())
	out := make([]domain.Attendance, 0, len(all))
	for _, a := range all {
		if a.EmployeeID == employeeID && len(out) < limit {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAttendance) List(context.Context) ([]domain.Attendance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.Attendance, 0, len(f.rows))
	for _, a := range f.rows {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

type fakeProjects struct {
	list []domain.Project
}

func (f *fakeProjects) Create(_ context.Context, p *domain.Project) error {
	p.ID = int64(len(f.list) + 1)
	f.list = append(f.list, *p)
	return nil
}

func (f *fakeProjects) List(context.Context) ([]domain.Project, error) { return f.list, nil }

func (f *fakeProjects) ListForEmployee(context.Context, int64) ([]domain.Project, error) {
	return f.list, nil
}

type fakeTasks struct {
	list []domain.Task
	err  error
}

func (f *fakeTasks) Create(_ context.Context, t *domain.Task) error {
	t.ID = int64(len(f.list) + 1)
	f.list = append(f.list, *t)
	return nil
}

func (f *fakeTasks) List(context.Context) ([]domain.Task, error) { return f.list, nil }

func (f *fakeTasks) ListForEmployee(_ context.Context, employeeID int64) ([]domain.Task, error) {
	var out []domain.Task
	for _, t := range f.list {
		if t.AssignedTo == employeeID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeTasks) UpdateStatusForAssignee(_ context.Context, taskID, employeeID int64, status domain.TaskStatus) error {
	if f.err != nil {
		return f.err
	}
	for i := range f.list {
		if f.list[i].ID == taskID && f.list[i].AssignedTo == employeeID {
			f.list[i].Status = status
			return nil
		}
	}
	return pgx.ErrNoRows
}

type fakeReports struct {
	byKey map[attendanceKey]domain.DailyReport
}

func (f *fakeReports) Upsert(_ context.Context, r *domain.DailyReport) error {
	if f.byKey == nil {
		f.byKey = map[attendanceKey]domain.DailyReport{}
	}
	f.byKey[attendanceKey{r.EmployeeID, r.ReportDate.Format(time.DateOnly)}] = *r
	return nil
}

func (f *fakeReports) List(context.Context) ([]domain.DailyReport, error) {
	out := make([]domain.DailyReport, 0, len(f.byKey))
	for _, r := range f.byKey {
		out = append(out, r)
	}
	return out, nil
}
