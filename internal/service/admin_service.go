package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/company-portal/internal/auth"
	"github.com/spec-kit/company-portal/internal/config"
	"github.com/spec-kit/company-portal/internal/domain"
	"github.com/spec-kit/company-portal/internal/repository"
	apperrors "github.com/spec-kit/company-portal/pkg/util/errorutil"
)

// AdminService manages employees, projects, tasks and company-wide reports.
type AdminService struct {
	employees  repository.EmployeeRepository
	projects   repository.ProjectRepository
	tasks      repository.TaskRepository
	reports    repository.ReportRepository
	attendance *AttendanceService
	bcryptCost int
	logger     *zap.Logger
	now        func() time.Time
}

// OrgDependencies encapsulates repositories required for org management.
type OrgDependencies struct {
	EmployeeRepo repository.EmployeeRepository
	ProjectRepo  repository.ProjectRepository
	TaskRepo     repository.TaskRepository
	ReportRepo   repository.ReportRepository
	Attendance   *AttendanceService
	Logger       *zap.Logger
}

// NewAdminService constructs the service.
func NewAdminService(cfg config.Config, deps OrgDependencies) *AdminService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdminService{
		employees:  deps.EmployeeRepo,
		projects:   deps.ProjectRepo,
		tasks:      deps.TaskRepo,
		reports:    deps.ReportRepo,
		attendance: deps.Attendance,
		bcryptCost: cfg.Auth.BcryptCost,
		logger:     logger.Named("admin"),
		now:        time.Now,
	}
}

// CreateEmployeeInput carries the fields of a new employee.
type CreateEmployeeInput struct {
	Code        string
	Name        string
	Email       string
	Password    string
	Phone       string
	Position    string
	Department  string
	JoiningDate *time.Time
}

// CreateProjectInput carries the fields of a new project.
type CreateProjectInput struct {
	Name        string
	Description string
	StartDate   *time.Time
	EndDate     *time.Time
	Status      domain.ProjectStatus
	Priority    domain.Priority
}

// AssignTaskInput carries the fields of a new task.
type AssignTaskInput struct {
	ProjectID   int64
	AssignedTo  int64
	Name        string
	Description string
	DueDate     *time.Time
	Status      domain.TaskStatus
	Priority    domain.Priority
}

// ListEmployees returns all employees, newest first.
func (s *AdminService) ListEmployees(ctx context.Context) ([]domain.Employee, error) {
	list, err := s.employees.List(ctx)
	if err != nil {
		return nil, apperrors.NewStoreError(err)
	}
	return list, nil
}

// CreateEmployee hashes the password and stores a new active employee.
func (s *AdminService) CreateEmployee(ctx context.Context, actor *domain.Principal, in CreateEmployeeInput) (*domain.Employee, error) {
	email := normalizeEmail(in.Email)
	code := strings.ToUpper(strings.TrimSpace(in.Code))

	exists, err := s.employees.ExistsByEmailOrCode(ctx, email, code)
	if err != nil {
		return nil, apperrors.NewStoreError(err)
	}
	if exists {
		return nil, apperrors.NewConflict("employee with this email or ID already exists", nil)
	}

	hash, err := auth.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	joining := domain.AttendanceDate(s.now())
	if in.JoiningDate != nil {
		joining = *in.JoiningDate
	}

	employee := &domain.Employee{
		Code:         code,
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		PasswordHash: hash,
		Phone:        in.Phone,
		Position:     in.Position,
		Department:   in.Department,
		JoiningDate:  joining,
		Status:       domain.EmployeeStatusActive,
	}
	if err := s.employees.Create(ctx, employee); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.NewConflict("employee with this email or ID already exists", nil)
		}
		return nil, apperrors.NewStoreError(err)
	}

	s.logger.Info("employee created",
		zap.Int64("admin_id", actor.ID),
		zap.Int64("employee_id", employee.ID),
		zap.String("employee_code", employee.Code))
	return employee, nil
}

// NextEmployeeCode returns the code following the highest existing one.
func (s *AdminService) NextEmployeeCode(ctx context.Context) (string, error) {
	last, err := s.employees.LastCode(ctx)
	if err != nil {
		return "", apperrors.NewStoreError(err)
	}
	return nextEmployeeCode(last), nil
}

func nextEmployeeCode(last string) string {
	n, err := strconv.Atoi(strings.TrimPrefix(last, domain.EmployeeCodePrefix))
	if last == "" || err != nil {
		return domain.EmployeeCodePrefix + "001"
	}
	return fmt.Sprintf("%s%03d", domain.EmployeeCodePrefix, n+1)
}

// ListProjects returns all projects.
func (s *AdminService) ListProjects(ctx context.Context) ([]domain.Project, error) {
	list, err := s.projects.List(ctx)
	if err != nil {
		return nil, apperrors.NewStoreError(err)
	}
	return list, nil
}

// CreateProject stores a project owned by the acting admin.
func (s *AdminService) CreateProject(ctx context.Context, actor *domain.Principal, in CreateProjectInput) (*domain.Project, error) {
	if in.StartDate != nil && in.EndDate != nil && in.EndDate.Before(*in.StartDate) {
		return nil, apperrors.NewValidationError("end_date precedes start_date", nil)
	}
	project := &domain.Project{
		Name:        in.Name,
		Description: in.Description,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
		Status:      in.Status,
		Priority:    in.Priority,
		CreatedBy:   actor.ID,
	}
	if project.Status == "" {
		project.Status = domain.ProjectStatusPlanning
	}
	if project.Priority == "" {
		project.Priority = domain.PriorityMedium
	}
	if err := s.projects.Create(ctx, project); err != nil {
		return nil, apperrors.NewStoreError(err)
	}
	return project, nil
}

// ListTasks returns every task.
func (s *AdminService) ListTasks(ctx context.Context) ([]domain.Task, error) {
	list, err := s.tasks.List(ctx)
	if err != nil {
		return nil, apperrors.NewStoreError(err)
	}
	return list, nil
}

// AssignTask stores a task for an employee.
func (s *AdminService) AssignTask(ctx context.Context, in AssignTaskInput) (*domain.Task, error) {
	task := &domain.Task{
		ProjectID:   in.ProjectID,
		AssignedTo:  in.AssignedTo,
		Name:        in.Name,
		Description: in.Description,
		DueDate:     in.DueDate,
		Status:      in.Status,
		Priority:    in.Priority,
	}
	if task.Status == "" {
		task.Status = domain.TaskStatusPending
	}
	if task.Priority == "" {
		task.Priority = domain.PriorityMedium
	}
	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, apperrors.NewStoreError(err)
	}
	return task, nil
}

// ListReports returns every daily report.
func (s *AdminService) ListReports(ctx context.Context) ([]domain.DailyReport, error) {
	list, err := s.reports.List(ctx)
	if err != nil {
		return nil, apperrors.NewStoreError(err)
	}
	return list, nil
}

// ListAttendance returns attendance for all employees.
func (s *AdminService) ListAttendance(ctx context.Context) ([]domain.Attendance, error) {
	return s.attendance.ListAll(ctx)
}
