package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/company-portal/internal/api/dto"
	"github.com/spec-kit/company-portal/internal/domain"
	"github.com/spec-kit/company-portal/internal/service"
)

// EmployeeHandler exposes the employee's own endpoints.
type EmployeeHandler struct {
	service *service.EmployeeService
}

// NewEmployeeHandler constructs handler.
func NewEmployeeHandler(employeeService *service.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{service: employeeService}
}

// MyProjects GET /api/employee/projects.
func (h *EmployeeHandler) MyProjects(c *fiber.Ctx) error {
	me, err := principal(c)
	if err != nil {
		return err
	}
	list, err := h.service.MyProjects(c.UserContext(), me)
	if err != nil {
		return err
	}
	return c.JSON(mapAll(list, projectResponse))
}

// MyTasks GET /api/employee/tasks.
func (h *EmployeeHandler) MyTasks(c *fiber.Ctx) error {
	me, err := principal(c)
	if err != nil {
		return err
	}
	list, err := h.service.MyTasks(c.UserContext(), me)
	if err != nil {
		return err
	}
	return c.JSON(mapAll(list, taskResponse))
}

// SubmitReport POST /api/employee/reports.
func (h *EmployeeHandler) SubmitReport(c *fiber.Ctx) error {
	me, err := principal(c)
	if err != nil {
		return err
	}
	var req dto.SubmitReportRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	date, err := dto.ParseDate(req.ReportDate)
	if err != nil {
		return err
	}
	if _, err := h.service.SubmitReport(c.UserContext(), me, service.SubmitReportInput{
		ReportDate:     date,
		TasksCompleted: req.TasksCompleted,
		Challenges:     req.ChallengesFaced,
		TomorrowPlan:   req.TomorrowPlan,
		WorkingHours:   req.WorkingHours,
	}); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "Daily report submitted successfully"})
}

// UpdateTaskStatus PUT /api/employee/tasks/status.
func (h *EmployeeHandler) UpdateTaskStatus(c *fiber.Ctx) error {
	me, err := principal(c)
	if err != nil {
		return err
	}
	var req dto.UpdateTaskStatusRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	if err := h.service.UpdateTaskStatus(c.UserContext(), me, req.TaskID, domain.TaskStatus(req.Status)); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "Task status updated successfully"})
}

// MyAttendance GET /api/employee/attendance.
func (h *EmployeeHandler) MyAttendance(c *fiber.Ctx) error {
	me, err := principal(c)
	if err != nil {
		return err
	}
	list, err := h.service.MyAttendance(c.UserContext(), me)
	if err != nil {
		return err
	}
	return c.JSON(mapAll(list, attendanceResponse))
}
