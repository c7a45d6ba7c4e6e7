package domain

import "time"

// TaskStatus enumerates task progress states.
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
)

// Task is a unit of work on a project assigned to one employee.
type Task struct {
	ID           int64
	ProjectID    int64
	ProjectName  *string
	AssignedTo   int64
	EmployeeName *string
	EmployeeCode *string
	Name         string
	Description  string
	DueDate      *time.Time
	Status       TaskStatus
	Priority     Priority
	CreatedAt    time.Time
}
