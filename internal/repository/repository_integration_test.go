package repository

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"

	"github.com/spec-kit/company-portal/internal/domain"
	"github.com/spec-kit/company-portal/internal/persistence"
)

// Integration tests against a real PostgreSQL started with testcontainers.
// Run with: GO_TEST_INTEGRATION=1 go test ./internal/repository -count=1

func migrationsDir() string {
	_, thisFile, _, _ := runtime.Caller(0)
	return filepath.Clean(filepath.Join(filepath.Dir(thisFile), "..", "..", "migrations"))
}

func startPostgres(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if os.Getenv("GO_TEST_INTEGRATION") == "" {
		t.Skip("integration tests are disabled (set GO_TEST_INTEGRATION=1)")
	}

	ctx := context.Background()
	req := tc.ContainerRequest{
		Image:        "postgres:16-alpine",
		Env:          map[string]string{"POSTGRES_USER": "user", "POSTGRES_PASSWORD": "pass", "POSTGRES_DB": "portal"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForListeningPort("5432/tcp").WithStartupTimeout(60 * time.Second),
	}
	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{ContainerRequest: req, Started: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Terminate(context.Background()) })

	host, err := c.Host(ctx)
	require.NoError(t, err)
	port, err := c.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)
	dsn := fmt.Sprintf("postgres://user:pass@%s:%s/portal?sslmode=disable", host, port.Port())

	var pool *pgxpool.Pool
	require.Eventually(t, func() bool {
		pool, err = pgxpool.New(ctx, dsn)
		if err != nil {
			return false
		}
		if pool.Ping(ctx) != nil {
			pool.Close()
			return false
		}
		return true
	}, 30*time.Second, 500*time.Millisecond)
	t.Cleanup(pool.Close)

	require.NoError(t, persistence.RunMigrations(ctx, pool, migrationsDir(), zap.NewNop()))
	// second run must be a no-op
	require.NoError(t, persistence.RunMigrations(ctx, pool, migrationsDir(), zap.NewNop()))
	return pool
}

func seedEmployee(t *testing.T, repo EmployeeRepository, code, email string, status domain.EmployeeStatus) *domain.Employee {
	t.Helper()
	e := &domain.Employee{
		Code:         code,
		Name:         "Employee " + code,
		Email:        email,
		PasswordHash: "$2a$04$placeholder",
		JoiningDate:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Status:       status,
	}
	require.NoError(t, repo.Create(context.Background(), e))
	return e
}

func TestAttendance_ConcurrentLoginsSingleRow(t *testing.T) {
	pool := startPostgres(t)
	ctx := context.Background()

	employees := NewEmployeeRepository(pool)
	attendance := NewAttendanceRepository(pool)
	alice := seedEmployee(t, employees, "EMP001", "alice@co.com", domain.EmployeeStatusActive)

	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	base := day.Add(9 * time.Hour)

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs <- attendance.MarkPresent(ctx, alice.ID, day, base.Add(time.Duration(i)*time.Second))
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	rows, err := attendance.ListByEmployee(ctx, alice.ID, 30)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, domain.AttendancePresent, rows[0].Status)
	require.Equal(t, "EMP001", rows[0].EmployeeCode)

	later := base.Add(3 * time.Hour)
	require.NoError(t, attendance.MarkPresent(ctx, alice.ID, day, later))

	rows, err = attendance.ListByEmployee(ctx, alice.ID, 30)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.True(t, rows[0].LoginTime.Equal(later))
}

func TestEmployees_ActiveLookupAndCodes(t *testing.T) {
	pool := startPostgres(t)
	ctx := context.Background()
	repo := NewEmployeeRepository(pool)

	code, err := repo.LastCode(ctx)
	require.NoError(t, err)
	require.Empty(t, code)

	seedEmployee(t, repo, "EMP009", "bob@co.com", domain.EmployeeStatusActive)
	seedEmployee(t, repo, "EMP010", "carol@co.com", domain.EmployeeStatusInactive)

	code, err = repo.LastCode(ctx)
	require.NoError(t, err)
	require.Equal(t, "EMP010", code)

	_, err = repo.GetActiveByEmail(ctx, "carol@co.com")
	require.ErrorIs(t, err, pgx.ErrNoRows)

	bob, err := repo.GetActiveByEmail(ctx, "bob@co.com")
	require.NoError(t, err)
	require.Equal(t, "EMP009", bob.Code)

	bob, err = repo.GetActiveByEmail(ctx, "Bob@Co.com")
	require.NoError(t, err)
	require.Equal(t, "EMP009", bob.Code)

	exists, err := repo.ExistsByEmailOrCode(ctx, "new@co.com", "EMP009")
	require.NoError(t, err)
	require.True(t, exists)

	dup := &domain.Employee{Code: "EMP011", Name: "Dup", Email: "bob@co.com", PasswordHash: "x",
		JoiningDate: time.Now(), Status: domain.EmployeeStatusActive}
	require.ErrorIs(t, repo.Create(ctx, dup), ErrDuplicate)
}

func TestTasks_StatusOnlyForAssignee(t *testing.T) {
	pool := startPostgres(t)
	ctx := context.Background()

	admins := NewAdminRepository(pool)
	employees := NewEmployeeRepository(pool)
	projects := NewProjectRepository(pool)
	tasks := NewTaskRepository(pool)
	reports := NewReportRepository(pool)

	admin := &domain.Admin{Name: "Root", Email: "root@co.com", PasswordHash: "x"}
	require.NoError(t, admins.Create(ctx, admin))
	alice := seedEmployee(t, employees, "EMP001", "alice@co.com", domain.EmployeeStatusActive)
	bob := seedEmployee(t, employees, "EMP002", "bob@co.com", domain.EmployeeStatusActive)

	p := &domain.Project{Name: "Portal", Status: domain.ProjectStatusPlanning, Priority: domain.PriorityMedium, CreatedBy: admin.ID}
	require.NoError(t, projects.Create(ctx, p))

	task := &domain.Task{ProjectID: p.ID, AssignedTo: alice.ID, Name: "Login page",
		Status: domain.TaskStatusPending, Priority: domain.PriorityHigh}
	require.NoError(t, tasks.Create(ctx, task))

	require.ErrorIs(t, tasks.UpdateStatusForAssignee(ctx, task.ID, bob.ID, domain.TaskStatusCompleted), pgx.ErrNoRows)
	require.NoError(t, tasks.UpdateStatusForAssignee(ctx, task.ID, alice.ID, domain.TaskStatusInProgress))

	mine, err := projects.ListForEmployee(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	require.Equal(t, "Root", *mine[0].CreatedByName)

	none, err := projects.ListForEmployee(ctx, bob.ID)
	require.NoError(t, err)
	require.Empty(t, none)

	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rep := &domain.DailyReport{EmployeeID: alice.ID, ReportDate: day, TasksCompleted: "a", WorkingHours: 7.5}
	require.NoError(t, reports.Upsert(ctx, rep))
	rep2 := &domain.DailyReport{EmployeeID: alice.ID, ReportDate: day, TasksCompleted: "b", WorkingHours: 8}
	require.NoError(t, reports.Upsert(ctx, rep2))

	all, err := reports.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.Equal(t, "b", all[0].TasksCompleted)
	require.InDelta(t, 8.0, all[0].WorkingHours, 0.001)
}
