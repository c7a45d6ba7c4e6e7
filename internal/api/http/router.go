package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/spec-kit/company-portal/internal/api/http/handlers"
	"github.com/spec-kit/company-portal/internal/auth"
	"github.com/spec-kit/company-portal/internal/domain"
	"github.com/spec-kit/company-portal/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Admin          *handlers.AdminHandler
	Employee       *handlers.EmployeeHandler
	AuthMiddleware *auth.AuthMiddleware
	Metrics        *observability.Metrics
}

// RegisterRoutes wires HTTP routes. Login routes are public; everything else
// under a role prefix requires a valid token for that role.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	if cfg.Health != nil {
		app.Get("/health/live", cfg.Health.Live)
		app.Get("/health/ready", cfg.Health.Ready)
	}
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(cfg.Metrics.Registry(), promhttp.HandlerOpts{})))
	}

	api := app.Group("/api")

	adminGroup := api.Group("/admin")
	adminGroup.Post("/login", cfg.Auth.AdminLogin)

	admin := adminGroup.Group("", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleAdmin))
	admin.Post("/refresh-token", cfg.Auth.Refresh)
	if cfg.Admin != nil {
		admin.Get("/employees", cfg.Admin.ListEmployees)
		admin.Post("/employees", cfg.Admin.CreateEmployee)
		admin.Get("/employees/generate-id", cfg.Admin.GenerateEmployeeID)
		admin.Get("/projects", cfg.Admin.ListProjects)
		admin.Post("/projects", cfg.Admin.CreateProject)
		admin.Get("/tasks", cfg.Admin.ListTasks)
		admin.Post("/tasks", cfg.Admin.AssignTask)
		admin.Get("/reports", cfg.Admin.ListReports)
		admin.Get("/attendance", cfg.Admin.ListAttendance)
	}

	employeeGroup := api.Group("/employee")
	employeeGroup.Post("/login", cfg.Auth.EmployeeLogin)

	employee := employeeGroup.Group("", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleEmployee))
	employee.Post("/refresh-token", cfg.Auth.Refresh)
	if cfg.Employee != nil {
		employee.Get("/projects", cfg.Employee.MyProjects)
		employee.Get("/tasks", cfg.Employee.MyTasks)
		employee.Post("/reports", cfg.Employee.SubmitReport)
		employee.Put("/tasks/status", cfg.Employee.UpdateTaskStatus)
		employee.Get("/attendance", cfg.Employee.MyAttendance)
	}
}
