package domain

import "time"

// ProjectStatus represents project lifecycle states.
type ProjectStatus string

const (
	ProjectStatusPlanning  ProjectStatus = "planning"
	ProjectStatusActive    ProjectStatus = "active"
	ProjectStatusCompleted ProjectStatus = "completed"
)

// Priority is shared by projects and tasks.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Project groups tasks assigned to employees.
type Project struct {
	ID            int64
	Name          string
	Description   string
	StartDate     *time.Time
	EndDate       *time.Time
	Status        ProjectStatus
	Priority      Priority
	CreatedBy     int64
	CreatedByName *string
	CreatedAt     time.Time
}
