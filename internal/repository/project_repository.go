package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/company-portal/internal/domain"
)

// ProjectRepository handles persistence for projects.
type ProjectRepository interface {
	Create(ctx context.Context, project *domain.Project) error
	List(ctx context.Context) ([]domain.Project, error)
	// ListForEmployee returns projects that have at least one task assigned to the employee.
	ListForEmployee(ctx context.Context, employeeID int64) ([]domain.Project, error)
}

type projectRepository struct {
	pool *pgxpool.Pool
}

// NewProjectRepository instantiates the repository.
func NewProjectRepository(pool *pgxpool.Pool) ProjectRepository {
	return &projectRepository{pool: pool}
}

func (r *projectRepository) Create(ctx context.Context, p *domain.Project) error {
	const query = `
        INSERT INTO projects (name, description, start_date, end_date, status, priority, created_by)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at`

	return r.pool.QueryRow(ctx, query,
		p.Name,
		p.Description,
		p.StartDate,
		p.EndDate,
		p.Status,
		p.Priority,
		p.CreatedBy,
	).Scan(&p.ID, &p.CreatedAt)
}

func (r *projectRepository) List(ctx context.Context) ([]domain.Project, error) {
	const query = `
        SELECT p.id, p.name, p.description, p.start_date, p.end_date, p.status, p.priority,
               COALESCE(p.created_by, 0), a.name, p.created_at
        FROM projects p
        LEFT JOIN admins a ON a.id = p.created_by
        ORDER BY p.created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	return collectProjects(rows)
}

func (r *projectRepository) ListForEmployee(ctx context.Context, employeeID int64) ([]domain.Project, error) {
	const query = `
        SELECT p.id, p.name, p.description, p.start_date, p.end_date, p.status, p.priority,
               COALESCE(p.created_by, 0), a.name, p.created_at
        FROM projects p
        LEFT JOIN admins a ON a.id = p.created_by
        WHERE EXISTS (SELECT 1 FROM tasks t WHERE t.project_id = p.id AND t.assigned_to = $1)
        ORDER BY p.created_at DESC`

	rows, err := r.pool.Query(ctx, query, employeeID)
	if err != nil {
		return nil, err
	}
	return collectProjects(rows)
}

func collectProjects(rows pgx.Rows) ([]domain.Project, error) {
	defer rows.Close()

	var result []domain.Project
	for rows.Next() {
		var p domain.Project
		if err := rows.Scan(
			&p.ID,
			&p.Name,
			&p.Description,
			&p.StartDate,
			&p.EndDate,
			&p.Status,
			&p.Priority,
			&p.CreatedBy,
			&p.CreatedByName,
			&p.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	return result, rows.Err()
}
