package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/company-portal/internal/domain"
)

// ReportRepository persists daily reports.
type ReportRepository interface {
	// Upsert stores the report, replacing the employee's report for the same date.
	Upsert(ctx context.Context, report *domain.DailyReport) error
	List(ctx context.Context) ([]domain.DailyReport, error)
}

type reportRepository struct {
	pool *pgxpool.Pool
}

// NewReportRepository instantiates the repository.
func NewReportRepository(pool *pgxpool.Pool) ReportRepository {
	return &reportRepository{pool: pool}
}

func (r *reportRepository) Upsert(ctx context.Context, rep *domain.DailyReport) error {
	const query = `
        INSERT INTO daily_reports (employee_id, report_date, tasks_completed, challenges,
                                   tomorrow_plan, working_hours)
        VALUES ($1,$2,$3,$4,$5,$6)
        ON CONFLICT (employee_id, report_date) DO UPDATE SET
            tasks_completed = EXCLUDED.tasks_completed,
            challenges      = EXCLUDED.challenges,
            tomorrow_plan   = EXCLUDED.tomorrow_plan,
            working_hours   = EXCLUDED.working_hours
        RETURNING id, created_at`

	return r.pool.QueryRow(ctx, query,
		rep.EmployeeID,
		rep.ReportDate,
		rep.TasksCompleted,
		rep.Challenges,
		rep.TomorrowPlan,
		rep.WorkingHours,
	).Scan(&rep.ID, &rep.CreatedAt)
}

func (r *reportRepository) List(ctx context.Context) ([]domain.DailyReport, error) {
	const query = `
        SELECT dr.id, dr.employee_id, e.name, e.employee_code, dr.report_date, dr.tasks_completed,
               dr.challenges, dr.tomorrow_plan, dr.working_hours::float8, dr.created_at
        FROM daily_reports dr
        LEFT JOIN employees e ON e.id = dr.employee_id
        ORDER BY dr.report_date DESC, dr.created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.DailyReport
	for rows.Next() {
		var rep domain.DailyReport
		if err := rows.Scan(
			&rep.ID,
			&rep.EmployeeID,
			&rep.EmployeeName,
			&rep.EmployeeCode,
			&rep.ReportDate,
			&rep.TasksCompleted,
			&rep.Challenges,
			&rep.TomorrowPlan,
			&rep.WorkingHours,
			&rep.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, rep)
	}
	return result, rows.Err()
}
