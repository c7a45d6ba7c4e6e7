package domain

import "time"

// AttendanceStatus enumerates attendance outcomes for a day.
type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceAbsent  AttendanceStatus = "absent"
)

// Attendance is keyed by employee and calendar date; one row per pair.
type Attendance struct {
	ID           int64
	EmployeeID   int64
	EmployeeCode string
	EmployeeName string
	Date         time.Time
	LoginTime    time.Time
	Status       AttendanceStatus
}

// AttendanceDate returns the UTC calendar date of t.
func AttendanceDate(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
