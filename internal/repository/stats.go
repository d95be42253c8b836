package repository

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/opsboard/deptask/internal/domain"
)

// StatusCountsResult holds task counts aggregated over a scope predicate.
type StatusCountsResult struct {
	Total        int
	ByStatus     map[string]int
	OverdueCount int
}

// StatusCounts aggregates task counts by status within the given scope
// predicate. Overdue is computed with the same rule as the read-side
// annotation: a due date in the past on a non-terminal task.
func (r *TaskRepository) StatusCounts(ctx context.Context, scope sq.Sqlizer) (*StatusCountsResult, error) {
	query, args, err := psql.
		Select(
			"status",
			"COUNT(*)",
			"COUNT(*) FILTER (WHERE due_date < NOW() AND status NOT IN ('COMPLETED', 'CANCELLED'))",
		).
		From("tasks").
		Where(scope).
		GroupBy("status").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build StatusCounts query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query status counts: %w", err)
	}
	defer rows.Close()

	result := &StatusCountsResult{ByStatus: make(map[string]int)}
	for rows.Next() {
		var status domain.TaskStatus
		var count, overdue int
		if err := rows.Scan(&status, &count, &overdue); err != nil {
			return nil, fmt.Errorf("scan status counts: %w", err)
		}
		result.ByStatus[string(status)] = count
		result.Total += count
		result.OverdueCount += overdue
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	return result, nil
}

// PendingApprovals retrieves completed tasks still missing at least one
// approval gate, within the given scope predicate.
func (r *TaskRepository) PendingApprovals(ctx context.Context, scope sq.Sqlizer, limit, offset int) ([]*domain.Task, error) {
	query, args, err := psql.
		Select(taskColumns...).
		From("tasks").
		Where(scope).
		Where(sq.Eq{"status": domain.TaskStatusCompleted}).
		Where(sq.Or{
			sq.Eq{"hod_approved": false},
			sq.Eq{"director_approved": false},
		}).
		OrderBy("completed_at ASC").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build PendingApprovals query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query pending approvals: %w", err)
	}

	return scanTasks(rows)
}
