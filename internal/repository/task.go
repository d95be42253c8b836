package repository

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/opsboard/deptask/internal/domain"
)

// taskColumns is the shared list of columns for task queries.
var taskColumns = []string{
	"id", "title", "description", "assigned_to", "assigned_by", "department",
	"parent_task_id", "status", "priority", "is_daily_plan",
	"start_date", "due_date", "completed_at",
	"hod_approved", "hod_approved_at", "hod_approved_by",
	"director_approved", "director_approved_at", "director_approved_by",
	"version", "created_at", "updated_at",
}

// TaskRepository handles database operations for tasks.
type TaskRepository struct {
	pool *pgxpool.Pool
}

// NewTaskRepository creates a new TaskRepository.
func NewTaskRepository(pool *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{pool: pool}
}

// scanTask scans a single row into a Task struct.
func scanTask(row pgx.Row) (*domain.Task, error) {
	var task domain.Task
	err := row.Scan(
		&task.ID,
		&task.Title,
		&task.Description,
		&task.AssignedTo,
		&task.AssignedBy,
		&task.Department,
		&task.ParentTaskID,
		&task.Status,
		&task.Priority,
		&task.IsDailyPlan,
		&task.StartDate,
		&task.DueDate,
		&task.CompletedAt,
		&task.HodApproved,
		&task.HodApprovedAt,
		&task.HodApprovedBy,
		&task.DirectorApproved,
		&task.DirectorApprovedAt,
		&task.DirectorApprovedBy,
		&task.Version,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, fmt.Errorf("scan task: %w", err)
	}
	return &task, nil
}

// scanTasks scans multiple rows into a slice of Task structs.
func scanTasks(rows pgx.Rows) ([]*domain.Task, error) {
	defer rows.Close()

	var tasks []*domain.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return tasks, nil
}

// GetByID retrieves a task by ID without any scope predicate. Callers outside
// the repository layer should prefer GetScoped.
func (r *TaskRepository) GetByID(ctx context.Context, taskID string) (*domain.Task, error) {
	query, args, err := psql.
		Select(taskColumns...).
		From("tasks").
		Where(sq.Eq{"id": taskID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetByID query for task: %w", err)
	}

	return scanTask(r.pool.QueryRow(ctx, query, args...))
}

// GetScoped retrieves a task by ID restricted to the given scope predicate.
// A task outside the predicate is indistinguishable from a missing one.
func (r *TaskRepository) GetScoped(ctx context.Context, taskID string, scope sq.Sqlizer) (*domain.Task, error) {
	query, args, err := psql.
		Select(taskColumns...).
		From("tasks").
		Where(sq.Eq{"id": taskID}).
		Where(scope).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetScoped query for task: %w", err)
	}

	return scanTask(r.pool.QueryRow(ctx, query, args...))
}

// GetScopedForUpdate retrieves a task with a FOR UPDATE lock within a
// transaction, restricted to the given scope predicate.
func (r *TaskRepository) GetScopedForUpdate(ctx context.Context, tx pgx.Tx, taskID string, scope sq.Sqlizer) (*domain.Task, error) {
	query, args, err := psql.
		Select(taskColumns...).
		From("tasks").
		Where(sq.Eq{"id": taskID}).
		Where(scope).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetScopedForUpdate query for task %s: %w", taskID, err)
	}

	return scanTask(tx.QueryRow(ctx, query, args...))
}

// Create inserts a new task within a transaction. The created task has ID,
// Version, CreatedAt and UpdatedAt populated.
func (r *TaskRepository) Create(ctx context.Context, tx pgx.Tx, task *domain.Task) (*domain.Task, error) {
	if task.Priority == "" {
		task.Priority = domain.TaskPriorityMedium
	}
	if task.Status == "" {
		task.Status = domain.TaskStatusPending
	}

	query, args, err := psql.
		Insert("tasks").
		Columns(
			"title", "description", "assigned_to", "assigned_by", "department",
			"parent_task_id", "status", "priority", "is_daily_plan",
			"start_date", "due_date",
		).
		Values(
			task.Title,
			task.Description,
			task.AssignedTo,
			task.AssignedBy,
			task.Department,
			task.ParentTaskID,
			task.Status,
			task.Priority,
			task.IsDailyPlan,
			task.StartDate,
			task.DueDate,
		).
		Suffix("RETURNING id, version, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build Create query for task: %w", err)
	}

	err = tx.QueryRow(ctx, query, args...).Scan(&task.ID, &task.Version, &task.CreatedAt, &task.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}

	return task, nil
}

// Update writes the mutable fields of a task with an optimistic-concurrency
// check: the row must still carry the version the caller read. Returns
// ErrVersionConflict when the version has advanced.
func (r *TaskRepository) Update(ctx context.Context, tx pgx.Tx, task *domain.Task) error {
	query, args, err := psql.
		Update("tasks").
		Set("title", task.Title).
		Set("description", task.Description).
		Set("assigned_to", task.AssignedTo).
		Set("department", task.Department).
		Set("parent_task_id", task.ParentTaskID).
		Set("status", task.Status).
		Set("priority", task.Priority).
		Set("start_date", task.StartDate).
		Set("due_date", task.DueDate).
		Set("completed_at", task.CompletedAt).
		Set("hod_approved", task.HodApproved).
		Set("hod_approved_at", task.HodApprovedAt).
		Set("hod_approved_by", task.HodApprovedBy).
		Set("director_approved", task.DirectorApproved).
		Set("director_approved_at", task.DirectorApprovedAt).
		Set("director_approved_by", task.DirectorApprovedBy).
		Set("version", sq.Expr("version + 1")).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{
			"id":      task.ID,
			"version": task.Version,
		}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build Update query for task %s: %w", task.ID, err)
	}

	tag, err := tx.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrVersionConflict
	}

	task.Version++
	return nil
}

// Delete hard-deletes a task. Updates and replies go with it via cascading
// foreign keys.
func (r *TaskRepository) Delete(ctx context.Context, tx pgx.Tx, taskID string) error {
	query, args, err := psql.
		Delete("tasks").
		Where(sq.Eq{"id": taskID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build Delete query for task %s: %w", taskID, err)
	}

	tag, err := tx.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrTaskNotFound
	}

	return nil
}
