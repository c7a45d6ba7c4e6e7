package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/company-portal/internal/domain"
)

// AttendanceRepository persists per-day attendance rows.
type AttendanceRepository interface {
	// MarkPresent inserts or refreshes the (employee, date) row. Concurrent
	// calls for the same pair converge on one row with status present.
	MarkPresent(ctx context.Context, employeeID int64, date, loginTime time.Time) error
	ListByEmployee(ctx context.Context, employeeID int64, limit int) ([]domain.Attendance, error)
	List(ctx context.Context) ([]domain.Attendance, error)
}

type attendanceRepository struct {
	pool *pgxpool.Pool
}

// NewAttendanceRepository constructs repository.
func NewAttendanceRepository(pool *pgxpool.Pool) AttendanceRepository {
	return &attendanceRepository{pool: pool}
}

func (r *attendanceRepository) MarkPresent(ctx context.Context, employeeID int64, date, loginTime time.Time) error {
	const query = `
        INSERT INTO attendance (employee_id, attendance_date, login_time, status)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (employee_id, attendance_date)
        DO UPDATE SET login_time = EXCLUDED.login_time, status = EXCLUDED.status`

	_, err := r.pool.Exec(ctx, query, employeeID, date, loginTime, domain.AttendancePresent)
	return err
}

func (r *attendanceRepository) ListByEmployee(ctx context.Context, employeeID int64, limit int) ([]domain.Attendance, error) {
	if limit <= 0 {
		limit = 30
	}
	const query = `
        SELECT a.id, a.employee_id, e.employee_code, e.name, a.attendance_date, a.login_time, a.status
        FROM attendance a JOIN employees e ON e.id = a.employee_id
        WHERE a.employee_id=$1
        ORDER BY a.attendance_date DESC
        LIMIT $2`

	rows, err := r.pool.Query(ctx, query, employeeID, limit)
	if err != nil {
		return nil, err
	}
	return collectAttendance(rows)
}

func (r *attendanceRepository) List(ctx context.Context) ([]domain.Attendance, error) {
	const query = `
        SELECT a.id, a.employee_id, e.employee_code, e.name, a.attendance_date, a.login_time, a.status
        FROM attendance a JOIN employees e ON e.id = a.employee_id
        ORDER BY a.attendance_date DESC, a.login_time DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	return collectAttendance(rows)
}

func collectAttendance(rows pgx.Rows) ([]domain.Attendance, error) {
	defer rows.Close()

	var result []domain.Attendance
	for rows.Next() {
		var a domain.Attendance
		if err := rows.Scan(
			&a.ID,
			&a.EmployeeID,
			&a.EmployeeCode,
			&a.EmployeeName,
			&a.Date,
			&a.LoginTime,
			&a.Status,
		); err != nil {
			return nil, err
		}
		result = append(result, a)
	}
	return result, rows.Err()
}
