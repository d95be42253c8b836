package repository

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/opsboard/deptask/internal/domain"
)

// TaskListFilters holds all supported filters for task listing. The scope
// predicate is applied on top of these, never instead of them.
type TaskListFilters struct {
	Statuses     []string
	Priorities   []string
	AssignedTo   *string
	Department   *string
	ParentTaskID *string
	DailyPlan    *bool
	StartFrom    *time.Time
	StartTo      *time.Time
	DueFrom      *time.Time
	DueTo        *time.Time
	OverdueOnly  bool
	Limit        int
	Offset       int
}

// applyTaskFilters adds the filter conditions shared by the list and count
// queries.
func applyTaskFilters(qb sq.SelectBuilder, scope sq.Sqlizer, filters TaskListFilters) sq.SelectBuilder {
	qb = qb.Where(scope)

	if len(filters.Statuses) > 0 {
		qb = qb.Where(sq.Eq{"status": filters.Statuses})
	}
	if len(filters.Priorities) > 0 {
		qb = qb.Where(sq.Eq{"priority": filters.Priorities})
	}
	if filters.AssignedTo != nil {
		qb = qb.Where(sq.Eq{"assigned_to": *filters.AssignedTo})
	}
	if filters.Department != nil {
		qb = qb.Where(sq.Eq{"department": *filters.Department})
	}
	if filters.ParentTaskID != nil {
		qb = qb.Where(sq.Eq{"parent_task_id": *filters.ParentTaskID})
	}
	if filters.DailyPlan != nil {
		qb = qb.Where(sq.Eq{"is_daily_plan": *filters.DailyPlan})
	}
	if filters.StartFrom != nil {
		qb = qb.Where(sq.GtOrEq{"start_date": *filters.StartFrom})
	}
	if filters.StartTo != nil {
		qb = qb.Where(sq.LtOrEq{"start_date": *filters.StartTo})
	}
	if filters.DueFrom != nil {
		qb = qb.Where(sq.GtOrEq{"due_date": *filters.DueFrom})
	}
	if filters.DueTo != nil {
		qb = qb.Where(sq.LtOrEq{"due_date": *filters.DueTo})
	}
	if filters.OverdueOnly {
		qb = qb.Where("due_date < NOW()").
			Where(sq.NotEq{"status": []domain.TaskStatus{
				domain.TaskStatusCompleted,
				domain.TaskStatusCancelled,
			}})
	}

	return qb
}

// List retrieves tasks matching the scope predicate and filters, newest
// first, with the total count before pagination.
func (r *TaskRepository) List(ctx context.Context, scope sq.Sqlizer, filters TaskListFilters) ([]*domain.Task, int, error) {
	qb := applyTaskFilters(psql.Select(taskColumns...).From("tasks"), scope, filters).
		OrderBy("created_at DESC").
		Limit(uint64(filters.Limit)).
		Offset(uint64(filters.Offset))

	query, args, err := qb.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build List query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query tasks: %w", err)
	}

	tasks, err := scanTasks(rows)
	if err != nil {
		return nil, 0, err
	}

	countQb := applyTaskFilters(psql.Select("COUNT(*)").From("tasks"), scope, filters)
	countQuery, countArgs, err := countQb.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count query: %w", err)
	}

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count tasks: %w", err)
	}

	return tasks, total, nil
}
