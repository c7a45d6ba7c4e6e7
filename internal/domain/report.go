package domain

import "time"

// DailyReport is an employee's end-of-day summary; one per employee per date.
type DailyReport struct {
	ID             int64
	EmployeeID     int64
	EmployeeName   *string
	EmployeeCode   *string
	ReportDate     time.Time
	TasksCompleted string
	Challenges     string
	TomorrowPlan   string
	WorkingHours   float64
	CreatedAt      time.Time
}
