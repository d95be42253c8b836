package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/opsboard/deptask/internal/domain"
)

// DepartmentRepository handles database operations for the department
// registry.
type DepartmentRepository struct {
	pool *pgxpool.Pool
}

// NewDepartmentRepository creates a new DepartmentRepository.
func NewDepartmentRepository(pool *pgxpool.Pool) *DepartmentRepository {
	return &DepartmentRepository{pool: pool}
}

// Create inserts a department. Returns ErrDepartmentExists on duplicates.
func (r *DepartmentRepository) Create(ctx context.Context, dept *domain.Department) error {
	query, args, err := psql.
		Insert("departments").
		Columns("name").
		Values(dept.Name).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	err = r.pool.QueryRow(ctx, query, args...).Scan(&dept.ID, &dept.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDepartmentExists
		}
		return fmt.Errorf("create department: %w", err)
	}

	return nil
}

// List retrieves all departments ordered by name.
func (r *DepartmentRepository) List(ctx context.Context) ([]*domain.Department, error) {
	query, args, err := psql.
		Select("id", "name", "created_at").
		From("departments").
		OrderBy("name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query departments: %w", err)
	}
	defer rows.Close()

	var departments []*domain.Department
	for rows.Next() {
		var dept domain.Department
		if err := rows.Scan(&dept.ID, &dept.Name, &dept.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan department: %w", err)
		}
		departments = append(departments, &dept)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	return departments, nil
}
