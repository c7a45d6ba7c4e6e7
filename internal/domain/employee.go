package domain

import "time"

// EmployeeStatus represents lifecycle states for an employee.
type EmployeeStatus string

const (
	EmployeeStatusActive   EmployeeStatus = "active"
	EmployeeStatusInactive EmployeeStatus = "inactive"
)

// EmployeeCodePrefix prefixes generated employee codes (EMP001, EMP002, ...).
const EmployeeCodePrefix = "EMP"

// Employee is the domain model for staff who log in to view their work.
type Employee struct {
	ID           int64
	Code         string
	Name         string
	Email        string
	PasswordHash string
	Phone        string
	Position     string
	Department   string
	JoiningDate  time.Time
	Status       EmployeeStatus
	CreatedAt    time.Time
}
