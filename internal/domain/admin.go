package domain

import "time"

// Admin is an operator who manages employees, projects and tasks.
type Admin struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
