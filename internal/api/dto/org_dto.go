package dto

import "time"

// CreateEmployeeRequest payload for POST /api/admin/employees.
type CreateEmployeeRequest struct {
	EmployeeID  string  `json:"employee_id" validate:"required,max=20"`
	Name        string  `json:"name" validate:"required,max=100"`
	Email       string  `json:"email" validate:"required,email,max=255"`
	Password    string  `json:"password" validate:"required,min=6,max=128"`
	Phone       string  `json:"phone" validate:"max=20"`
	Position    string  `json:"position" validate:"max=100"`
	Department  string  `json:"department" validate:"max=100"`
	JoiningDate *string `json:"joining_date" validate:"omitempty,datetime=2006-01-02"`
}

// CreateEmployeeResponse acknowledges a new employee.
type CreateEmployeeResponse struct {
	Message    string `json:"message"`
	ID         int64  `json:"employeeId"`
	EmployeeID string `json:"employee_id"`
}

// EmployeeResponse lists an employee without credentials.
type EmployeeResponse struct {
	ID          int64     `json:"id"`
	EmployeeID  string    `json:"employee_id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	Position    string    `json:"position"`
	Department  string    `json:"department"`
	JoiningDate string    `json:"joining_date"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// GeneratedIDResponse carries the next free employee code.
type GeneratedIDResponse struct {
	EmployeeID string `json:"employee_id"`
}

// CreateProjectRequest payload for POST /api/admin/projects.
type CreateProjectRequest struct {
	ProjectName string  `json:"project_name" validate:"required,max=200"`
	Description string  `json:"description"`
	StartDate   *string `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate     *string `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
	Status      string  `json:"status" validate:"omitempty,oneof=planning active completed"`
	Priority    string  `json:"priority" validate:"omitempty,oneof=low medium high"`
}

// CreateProjectResponse acknowledges a new project.
type CreateProjectResponse struct {
	Message   string `json:"message"`
	ProjectID int64  `json:"projectId"`
}

// ProjectResponse describes a project.
type ProjectResponse struct {
	ID            int64     `json:"id"`
	ProjectName   string    `json:"project_name"`
	Description   string    `json:"description"`
	StartDate     *string   `json:"start_date"`
	EndDate       *string   `json:"end_date"`
	Status        string    `json:"status"`
	Priority      string    `json:"priority"`
	CreatedBy     int64     `json:"created_by"`
	CreatedByName *string   `json:"created_by_name,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// AssignTaskRequest payload for POST /api/admin/tasks.
type AssignTaskRequest struct {
	ProjectID   int64   `json:"project_id" validate:"required,gt=0"`
	AssignedTo  int64   `json:"assigned_to" validate:"required,gt=0"`
	TaskName    string  `json:"task_name" validate:"required,max=200"`
	Description string  `json:"description"`
	DueDate     *string `json:"due_date" validate:"omitempty,datetime=2006-01-02"`
	Status      string  `json:"status" validate:"omitempty,oneof=pending in_progress completed"`
	Priority    string  `json:"priority" validate:"omitempty,oneof=low medium high"`
}

// AssignTaskResponse acknowledges a new task.
type AssignTaskResponse struct {
	Message string `json:"message"`
	TaskID  int64  `json:"taskId"`
}

// TaskResponse describes a task.
type TaskResponse struct {
	ID           int64     `json:"id"`
	ProjectID    int64     `json:"project_id"`
	ProjectName  *string   `json:"project_name,omitempty"`
	AssignedTo   int64     `json:"assigned_to"`
	EmployeeName *string   `json:"employee_name,omitempty"`
	EmployeeCode *string   `json:"employee_id,omitempty"`
	TaskName     string    `json:"task_name"`
	Description  string    `json:"description"`
	DueDate      *string   `json:"due_date"`
	Status       string    `json:"status"`
	Priority     string    `json:"priority"`
	CreatedAt    time.Time `json:"created_at"`
}

// UpdateTaskStatusRequest payload for PUT /api/employee/tasks/status.
type UpdateTaskStatusRequest struct {
	TaskID int64  `json:"taskId" validate:"required,gt=0"`
	Status string `json:"status" validate:"required,oneof=pending in_progress completed"`
}

// SubmitReportRequest payload for POST /api/employee/reports.
type SubmitReportRequest struct {
	ReportDate      *string `json:"report_date" validate:"omitempty,datetime=2006-01-02"`
	TasksCompleted  string  `json:"tasks_completed" validate:"required"`
	ChallengesFaced string  `json:"challenges_faced"`
	TomorrowPlan    string  `json:"tomorrow_plan"`
	WorkingHours    float64 `json:"working_hours" validate:"gte=0,lte=24"`
}

// ReportResponse describes a daily report.
type ReportResponse struct {
	ID              int64     `json:"id"`
	EmployeeID      int64     `json:"employee_ref"`
	EmployeeCode    *string   `json:"employee_id,omitempty"`
	EmployeeName    *string   `json:"employee_name,omitempty"`
	ReportDate      string    `json:"report_date"`
	TasksCompleted  string    `json:"tasks_completed"`
	ChallengesFaced string    `json:"challenges_faced"`
	TomorrowPlan    string    `json:"tomorrow_plan"`
	WorkingHours    float64   `json:"working_hours"`
	CreatedAt       time.Time `json:"created_at"`
}

// AttendanceResponse describes one attendance record.
type AttendanceResponse struct {
	ID             int64     `json:"id"`
	EmployeeRef    int64     `json:"employee_ref"`
	EmployeeID     string    `json:"employee_id,omitempty"`
	EmployeeName   string    `json:"employee_name,omitempty"`
	AttendanceDate string    `json:"attendance_date"`
	LoginTime      time.Time `json:"login_time"`
	Status         string    `json:"status"`
}
