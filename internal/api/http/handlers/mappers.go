package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/company-portal/internal/api/dto"
	"github.com/spec-kit/company-portal/internal/auth"
	"github.com/spec-kit/company-portal/internal/domain"
	apperrors "github.com/spec-kit/company-portal/pkg/util/errorutil"
)

func principal(c *fiber.Ctx) (*domain.Principal, error) {
	p, ok := auth.PrincipalFromContext(c)
	if !ok {
		return nil, apperrors.NewMissingToken()
	}
	return p, nil
}

// bindJSON parses and validates the request body into req.
func bindJSON(c *fiber.Ctx, req any) error {
	if err := c.BodyParser(req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	return dto.Validate(req)
}

func employeeResponse(e *domain.Employee) dto.EmployeeResponse {
	return dto.EmployeeResponse{
		ID:          e.ID,
		EmployeeID:  e.Code,
		Name:        e.Name,
		Email:       e.Email,
		Phone:       e.Phone,
		Position:    e.Position,
		Department:  e.Department,
		JoiningDate: e.JoiningDate.Format(time.DateOnly),
		Status:      string(e.Status),
		CreatedAt:   e.CreatedAt,
	}
}

func projectResponse(p *domain.Project) dto.ProjectResponse {
	return dto.ProjectResponse{
		ID:            p.ID,
		ProjectName:   p.Name,
		Description:   p.Description,
		StartDate:     dto.FormatDate(p.StartDate),
		EndDate:       dto.FormatDate(p.EndDate),
		Status:        string(p.Status),
		Priority:      string(p.Priority),
		CreatedBy:     p.CreatedBy,
		CreatedByName: p.CreatedByName,
		CreatedAt:     p.CreatedAt,
	}
}

func taskResponse(t *domain.Task) dto.TaskResponse {
	return dto.TaskResponse{
		ID:           t.ID,
		ProjectID:    t.ProjectID,
		ProjectName:  t.ProjectName,
		AssignedTo:   t.AssignedTo,
		EmployeeName: t.EmployeeName,
		EmployeeCode: t.EmployeeCode,
		TaskName:     t.Name,
		Description:  t.Description,
		DueDate:      dto.FormatDate(t.DueDate),
		Status:       string(t.Status),
		Priority:     string(t.Priority),
		CreatedAt:    t.CreatedAt,
	}
}

func reportResponse(r *domain.DailyReport) dto.ReportResponse {
	return dto.ReportResponse{
		ID:              r.ID,
		EmployeeID:      r.EmployeeID,
		EmployeeCode:    r.EmployeeCode,
		EmployeeName:    r.EmployeeName,
		ReportDate:      r.ReportDate.Format(time.DateOnly),
		TasksCompleted:  r.TasksCompleted,
		ChallengesFaced: r.Challenges,
		TomorrowPlan:    r.TomorrowPlan,
		WorkingHours:    r.WorkingHours,
		CreatedAt:       r.CreatedAt,
	}
}

func attendanceResponse(a *domain.Attendance) dto.AttendanceResponse {
	return dto.AttendanceResponse{
		ID:             a.ID,
		EmployeeRef:    a.EmployeeID,
		EmployeeID:     a.EmployeeCode,
		EmployeeName:   a.EmployeeName,
		AttendanceDate: a.Date.Format(time.DateOnly),
		LoginTime:      a.LoginTime,
		Status:         string(a.Status),
	}
}

func mapAll[T any, R any](items []T, fn func(*T) R) []R {
	out := make([]R, 0, len(items))
	for i := range items {
		out = append(out, fn(&items[i]))
	}
	return out
}
