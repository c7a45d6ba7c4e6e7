package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/company-portal/internal/domain"
	"github.com/spec-kit/company-portal/internal/repository"
	apperrors "github.com/spec-kit/company-portal/pkg/util/errorutil"
)

// EmployeeService serves the employee's own view of their work.
type EmployeeService struct {
	projects   repository.ProjectRepository
	tasks      repository.TaskRepository
	reports    repository.ReportRepository
	attendance *AttendanceService
	now        func() time.Time
}

// NewEmployeeService constructs the service.
func NewEmployeeService(deps OrgDependencies) *EmployeeService {
	return &EmployeeService{
		projects:   deps.ProjectRepo,
		tasks:      deps.TaskRepo,
		reports:    deps.ReportRepo,
		attendance: deps.Attendance,
		now:        time.Now,
	}
}

// SubmitReportInput carries a daily report.
type SubmitReportInput struct {
	ReportDate     *time.Time
	TasksCompleted string
	Challenges     string
	TomorrowPlan   string
	WorkingHours   float64
}

// MyProjects returns projects with a task assigned to the employee.
func (s *EmployeeService) MyProjects(ctx context.Context, employee *domain.Principal) ([]domain.Project, error) {
	list, err := s.projects.ListForEmployee(ctx, employee.ID)
	if err != nil {
		return nil, apperrors.NewStoreError(err)
	}
	return list, nil
}

// MyTasks returns the employee's tasks ordered by due date.
func (s *EmployeeService) MyTasks(ctx context.Context, employee *domain.Principal) ([]domain.Task, error) {
	list, err := s.tasks.ListForEmployee(ctx, employee.ID)
	if err != nil {
		return nil, apperrors.NewStoreError(err)
	}
	return list, nil
}

// SubmitReport stores or replaces the employee's report for the date (today by default).
func (s *EmployeeService) SubmitReport(ctx context.Context, employee *domain.Principal, in SubmitReportInput) (*domain.DailyReport, error) {
	date := domain.AttendanceDate(s.now())
	if in.ReportDate != nil {
		date = domain.AttendanceDate(*in.ReportDate)
	}
	report := &domain.DailyReport{
		EmployeeID:     employee.ID,
		ReportDate:     date,
		TasksCompleted: in.TasksCompleted,
		Challenges:     in.Challenges,
		TomorrowPlan:   in.TomorrowPlan,
		WorkingHours:   in.WorkingHours,
	}
	if err := s.reports.Upsert(ctx, report); err != nil {
		return nil, apperrors.NewStoreError(err)
	}
	return report, nil
}

// UpdateTaskStatus changes the status of a task assigned to the employee.
func (s *EmployeeService) UpdateTaskStatus(ctx context.Context, employee *domain.Principal, taskID int64, status domain.TaskStatus) error {
	if err := s.tasks.UpdateStatusForAssignee(ctx, taskID, employee.ID, status); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("task", map[string]any{"task_id": taskID})
		}
		return apperrors.NewStoreError(err)
	}
	return nil
}

// MyAttendance returns the employee's last attendance records.
func (s *EmployeeService) MyAttendance(ctx context.Context, employee *domain.Principal) ([]domain.Attendance, error) {
	return s.attendance.ListForEmployee(ctx, employee.ID)
}
