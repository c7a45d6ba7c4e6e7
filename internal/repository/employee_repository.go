package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/company-portal/internal/domain"
)

// EmployeeRepository handles persistence for employees.
type EmployeeRepository interface {
	Create(ctx context.Context, employee *domain.Employee) error
	GetActiveByEmail(ctx context.Context, email string) (*domain.Employee, error)
	List(ctx context.Context) ([]domain.Employee, error)
	ExistsByEmailOrCode(ctx context.Context, email, code string) (bool, error)
	// LastCode returns the highest EMP### code, or "" when none exist.
	LastCode(ctx context.Context) (string, error)
}

type employeeRepository struct {
	pool *pgxpool.Pool
}

// NewEmployeeRepository instantiates the repository.
func NewEmployeeRepository(pool *pgxpool.Pool) EmployeeRepository {
	return &employeeRepository{pool: pool}
}

const employeeColumns = `id, employee_code, name, email, password_hash, phone, position,
        department, joining_date, status, created_at`

func scanEmployee(row pgx.Row, e *domain.Employee) error {
	return row.Scan(
		&e.ID,
		&e.Code,
		&e.Name,
		&e.Email,
		&e.PasswordHash,
		&e.Phone,
		&e.Position,
		&e.Department,
		&e.JoiningDate,
		&e.Status,
		&e.CreatedAt,
	)
}

func (r *employeeRepository) Create(ctx context.Context, e *domain.Employee) error {
	const query = `
        INSERT INTO employees (employee_code, name, email, password_hash, phone,
                               position, department, joining_date, status)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        RETURNING id, created_at`

	err := r.pool.QueryRow(ctx, query,
		e.Code,
		e.Name,
		e.Email,
		e.PasswordHash,
		e.Phone,
		e.Position,
		e.Department,
		e.JoiningDate,
		e.Status,
	).Scan(&e.ID, &e.CreatedAt)
	return mapWriteError(err)
}

func (r *employeeRepository) GetActiveByEmail(ctx context.Context, email string) (*domain.Employee, error) {
	query := `SELECT ` + employeeColumns + `
        FROM employees WHERE lower(email)=lower($1) AND status=$2`

	var e domain.Employee
	if err := scanEmployee(r.pool.QueryRow(ctx, query, email, domain.EmployeeStatusActive), &e); err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *employeeRepository) List(ctx context.Context) ([]domain.Employee, error) {
	query := `SELECT ` + employeeColumns + `
        FROM employees ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Employee
	for rows.Next() {
		var e domain.Employee
		if err := scanEmployee(rows, &e); err != nil {
			return nil, err
		}
		result = append(result, e)
	}
	return result, rows.Err()
}

func (r *employeeRepository) ExistsByEmailOrCode(ctx context.Context, email, code string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM employees WHERE lower(email)=lower($1) OR employee_code=$2)`

	var exists bool
	err := r.pool.QueryRow(ctx, query, email, code).Scan(&exists)
	return exists, err
}

func (r *employeeRepository) LastCode(ctx context.Context) (string, error) {
	const query = `
        SELECT employee_code FROM employees
        WHERE employee_code ~ '^EMP[0-9]+$'
        ORDER BY CAST(SUBSTRING(employee_code FROM 4) AS INTEGER) DESC
        LIMIT 1`

	var code string
	if err := r.pool.QueryRow(ctx, query).Scan(&code); err != nil {
		if err == pgx.ErrNoRows {
			return "", nil
		}
		return "", err
	}
	return code, nil
}
