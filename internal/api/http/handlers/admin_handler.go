package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/company-portal/internal/api/dto"
	"github.com/spec-kit/company-portal/internal/domain"
	"github.com/spec-kit/company-portal/internal/service"
)

// AdminHandler exposes the admin dashboard endpoints.
type AdminHandler struct {
	service *service.AdminService
}

// NewAdminHandler constructs handler.
func NewAdminHandler(adminService *service.AdminService) *AdminHandler {
	return &AdminHandler{service: adminService}
}

// ListEmployees GET /api/admin/employees.
func (h *AdminHandler) ListEmployees(c *fiber.Ctx) error {
	list, err := h.service.ListEmployees(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(mapAll(list, employeeResponse))
}

// CreateEmployee POST /api/admin/employees.
func (h *AdminHandler) CreateEmployee(c *fiber.Ctx) error {
	actor, err := principal(c)
	if err != nil {
		return err
	}
	var req dto.CreateEmployeeRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	joining, err := dto.ParseDate(req.JoiningDate)
	if err != nil {
		return err
	}
	employee, err := h.service.CreateEmployee(c.UserContext(), actor, service.CreateEmployeeInput{
		Code:        req.EmployeeID,
		Name:        req.Name,
		Email:       req.Email,
		Password:    req.Password,
		Phone:       req.Phone,
		Position:    req.Position,
		Department:  req.Department,
		JoiningDate: joining,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.CreateEmployeeResponse{
		Message:    "Employee created successfully",
		ID:         employee.ID,
		EmployeeID: employee.Code,
	})
}

// GenerateEmployeeID GET /api/admin/employees/generate-id.
func (h *AdminHandler) GenerateEmployeeID(c *fiber.Ctx) error {
	code, err := h.service.NextEmployeeCode(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(dto.GeneratedIDResponse{EmployeeID: code})
}

// ListProjects GET /api/admin/projects.
func (h *AdminHandler) ListProjects(c *fiber.Ctx) error {
	list, err := h.service.ListProjects(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(mapAll(list, projectResponse))
}

// CreateProject POST /api/admin/projects.
func (h *AdminHandler) CreateProject(c *fiber.Ctx) error {
	actor, err := principal(c)
	if err != nil {
		return err
	}
	var req dto.CreateProjectRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	start, err := dto.ParseDate(req.StartDate)
	if err != nil {
		return err
	}
	end, err := dto.ParseDate(req.EndDate)
	if err != nil {
		return err
	}
	project, err := h.service.CreateProject(c.UserContext(), actor, service.CreateProjectInput{
		Name:        req.ProjectName,
		Description: req.Description,
		StartDate:   start,
		EndDate:     end,
		Status:      domain.ProjectStatus(req.Status),
		Priority:    domain.Priority(req.Priority),
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.CreateProjectResponse{
		Message:   "Project created successfully",
		ProjectID: project.ID,
	})
}

// ListTasks GET /api/admin/tasks.
func (h *AdminHandler) ListTasks(c *fiber.Ctx) error {
	list, err := h.service.ListTasks(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(mapAll(list, taskResponse))
}

// AssignTask POST /api/admin/tasks.
func (h *AdminHandler) AssignTask(c *fiber.Ctx) error {
	var req dto.AssignTaskRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	due, err := dto.ParseDate(req.DueDate)
	if err != nil {
		return err
	}
	task, err := h.service.AssignTask(c.UserContext(), service.AssignTaskInput{
		ProjectID:   req.ProjectID,
		AssignedTo:  req.AssignedTo,
		Name:        req.TaskName,
		Description: req.Description,
		DueDate:     due,
		Status:      domain.TaskStatus(req.Status),
		Priority:    domain.Priority(req.Priority),
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.AssignTaskResponse{
		Message: "Task assigned successfully",
		TaskID:  task.ID,
	})
}

// ListReports GET /api/admin/reports.
func (h *AdminHandler) ListReports(c *fiber.Ctx) error {
	list, err := h.service.ListReports(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(mapAll(list, reportResponse))
}

// ListAttendance GET /api/admin/attendance.
func (h *AdminHandler) ListAttendance(c *fiber.Ctx) error {
	list, err := h.service.ListAttendance(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(mapAll(list, attendanceResponse))
}
