package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/company-portal/internal/domain"
)

// TaskRepository handles persistence for tasks.
type TaskRepository interface {
	Create(ctx context.Context, task *domain.Task) error
	List(ctx context.Context) ([]domain.Task, error)
	ListForEmployee(ctx context.Context, employeeID int64) ([]domain.Task, error)
	// UpdateStatusForAssignee returns pgx.ErrNoRows when the task does not
	// exist or is assigned to someone else.
	UpdateStatusForAssignee(ctx context.Context, taskID, employeeID int64, status domain.TaskStatus) error
}

type taskRepository struct {
	pool *pgxpool.Pool
}

// NewTaskRepository instantiates the repository.
func NewTaskRepository(pool *pgxpool.Pool) TaskRepository {
	return &taskRepository{pool: pool}
}

const taskSelect = `
        SELECT t.id, t.project_id, p.name, t.assigned_to, e.name, e.employee_code,
               t.name, t.description, t.due_date, t.status, t.priority, t.created_at
        FROM tasks t
        LEFT JOIN projects p ON p.id = t.project_id
        LEFT JOIN employees e ON e.id = t.assigned_to`

func (r *taskRepository) Create(ctx context.Context, t *domain.Task) error {
	const query = `
        INSERT INTO tasks (project_id, assigned_to, name, description, due_date, status, priority)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at`

	return r.pool.QueryRow(ctx, query,
		t.ProjectID,
		t.AssignedTo,
		t.Name,
		t.Description,
		t.DueDate,
		t.Status,
		t.Priority,
	).Scan(&t.ID, &t.CreatedAt)
}

func (r *taskRepository) List(ctx context.Context) ([]domain.Task, error) {
	rows, err := r.pool.Query(ctx, taskSelect+` ORDER BY t.created_at DESC`)
	if err != nil {
		return nil, err
	}
	return collectTasks(rows)
}

func (r *taskRepository) ListForEmployee(ctx context.Context, employeeID int64) ([]domain.Task, error) {
	rows, err := r.pool.Query(ctx, taskSelect+`
        WHERE t.assigned_to=$1
        ORDER BY t.due_date ASC NULLS LAST`, employeeID)
	if err != nil {
		return nil, err
	}
	return collectTasks(rows)
}

func (r *taskRepository) UpdateStatusForAssignee(ctx context.Context, taskID, employeeID int64, status domain.TaskStatus) error {
	const query = `UPDATE tasks SET status=$1 WHERE id=$2 AND assigned_to=$3`

	cmd, err := r.pool.Exec(ctx, query, status, taskID, employeeID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func collectTasks(rows pgx.Rows) ([]domain.Task, error) {
	defer rows.Close()

	var result []domain.Task
	for rows.Next() {
		var t domain.Task
		if err := rows.Scan(
			&t.ID,
			&t.ProjectID,
			&t.ProjectName,
			&t.AssignedTo,
			&t.EmployeeName,
			&t.EmployeeCode,
			&t.Name,
			&t.Description,
			&t.DueDate,
			&t.Status,
			&t.Priority,
			&t.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	return result, rows.Err()
}
