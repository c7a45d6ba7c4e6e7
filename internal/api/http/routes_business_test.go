package http

import (
	"context"
	"errors"
	nethttp "net/http"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/company-portal/internal/api/http/handlers"
	"github.com/spec-kit/company-portal/internal/auth"
	"github.com/spec-kit/company-portal/internal/config"
	"github.com/spec-kit/company-portal/internal/domain"
	"github.com/spec-kit/company-portal/internal/observability"
	"github.com/spec-kit/company-portal/internal/persistence"
	"github.com/spec-kit/company-portal/internal/service"
	apperrors "github.com/spec-kit/company-portal/pkg/util/errorutil"
)

type recordingEmployees struct {
	stubEmployees
	created []*domain.Employee
}

func (r *recordingEmployees) Create(_ context.Context, e *domain.Employee) error {
	e.ID = int64(100 + len(r.created))
	r.created = append(r.created, e)
	return nil
}

func (r *recordingEmployees) LastCode(context.Context) (string, error) { return "EMP041", nil }

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func newAdminApp(t *testing.T, employees *recordingEmployees) *fiber.App {
	t.Helper()
	cfg := config.Config{Auth: config.AuthConfig{JWTSecret: testSecret, BcryptCost: 4}}
	hash, err := auth.HashPassword("secret1", cfg.Auth.BcryptCost)
	require.NoError(t, err)

	logger := zap.NewNop()
	metrics := observability.NewMetrics()
	employees.employee = &domain.Employee{ID: 12, Code: "EMP001", Name: "Alice", Email: "alice@co.com",
		PasswordHash: hash, Status: domain.EmployeeStatusActive}

	authService := service.NewAuthService(cfg, service.AuthDependencies{
		AdminRepo:    &stubAdmins{admin: &domain.Admin{ID: 1, Name: "Root", Email: "root@co.com", PasswordHash: hash}},
		EmployeeRepo: employees,
		Logger:       logger,
	})
	adminService := service.NewAdminService(cfg, service.OrgDependencies{EmployeeRepo: employees, Logger: logger})

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(logger, metrics)})
	RegisterMiddlewares(app, logger, metrics, MiddlewareConfig{Timeout: 5 * time.Second, AllowOrigins: "*"})
	RegisterRoutes(app, RouteConfig{
		Health: handlers.NewHealthHandler("company-portal", "test",
			pingerFunc(func(context.Context) error { return nil }), (*persistence.Redis)(nil)),
		Auth:           handlers.NewAuthHandler(authService),
		Admin:          handlers.NewAdminHandler(adminService),
		AuthMiddleware: auth.NewAuthMiddleware(authService.TokenManager()),
	})
	return app
}

func TestCreateEmployee(t *testing.T) {
	t.Parallel()
	employees := &recordingEmployees{}
	app := newAdminApp(t, employees)
	token := login(t, app, "admin", "root@co.com")

	status, body := call(t, app, nethttp.MethodPost, "/api/admin/employees", token, map[string]string{
		"employee_id": "emp042",
		"name":        "Bob",
		"email":       "Bob@Co.com",
		"password":    "hunter22",
	})
	require.Equal(t, nethttp.StatusCreated, status)
	require.Equal(t, "EMP042", body["employee_id"])
	require.EqualValues(t, 100, body["employeeId"])

	require.Len(t, employees.created, 1)
	require.Equal(t, "bob@co.com", employees.created[0].Email)
	require.NotEqual(t, "hunter22", employees.created[0].PasswordHash)
	require.NoError(t, auth.ComparePassword(employees.created[0].PasswordHash, "hunter22"))
}

func TestCreateEmployeeValidation(t *testing.T) {
	t.Parallel()
	app := newAdminApp(t, &recordingEmployees{})
	token := login(t, app, "admin", "root@co.com")

	status, body := call(t, app, nethttp.MethodPost, "/api/admin/employees", token, map[string]string{
		"name":  "Bob",
		"email": "not-an-email",
	})
	require.Equal(t, nethttp.StatusBadRequest, status)
	require.Equal(t, apperrors.CodeValidationFailed, body["code"])

	details, ok := body["details"].(map[string]any)
	require.True(t, ok)
	require.Contains(t, details, "employee_id")
	require.Contains(t, details, "email")
	require.Contains(t, details, "password")
}

func TestGenerateEmployeeID(t *testing.T) {
	t.Parallel()
	app := newAdminApp(t, &recordingEmployees{})
	token := login(t, app, "admin", "root@co.com")

	status, body := call(t, app, nethttp.MethodGet, "/api/admin/employees/generate-id", token, nil)
	require.Equal(t, nethttp.StatusOK, status)
	require.Equal(t, "EMP042", body["employee_id"])
}

func TestAdminRoutesRejectEmployees(t *testing.T) {
	t.Parallel()
	app := newAdminApp(t, &recordingEmployees{})
	token := login(t, app, "employee", "alice@co.com")

	status, body := call(t, app, nethttp.MethodGet, "/api/admin/employees/generate-id", token, nil)
	require.Equal(t, nethttp.StatusForbidden, status)
	require.Equal(t, apperrors.CodeForbidden, body["code"])

	status, body = call(t, app, nethttp.MethodGet, "/api/admin/employees", "", nil)
	require.Equal(t, nethttp.StatusUnauthorized, status)
	require.Equal(t, apperrors.CodeMissingToken, body["code"])
}

func TestReadiness(t *testing.T) {
	t.Parallel()
	app := newAdminApp(t, &recordingEmployees{})

	status, body := call(t, app, nethttp.MethodGet, "/health/ready", "", nil)
	require.Equal(t, nethttp.StatusOK, status)
	deps := body["dependencies"].(map[string]any)
	require.Equal(t, "ok", deps["postgres"])
	require.Equal(t, "disabled", deps["redis"])

	down := fiber.New()
	RegisterRoutes(down, RouteConfig{
		Health: handlers.NewHealthHandler("company-portal", "test",
			pingerFunc(func(context.Context) error { return errors.New("connection refused") }), (*persistence.Redis)(nil)),
		Auth:           &handlers.AuthHandler{},
		AuthMiddleware: &auth.AuthMiddleware{},
	})
	status, body = call(t, down, nethttp.MethodGet, "/health/ready", "", nil)
	require.Equal(t, nethttp.StatusServiceUnavailable, status)
	require.Equal(t, "DEPENDENCY_UNAVAILABLE", body["code"])
}
