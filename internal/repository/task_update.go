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

// TaskUpdateRepository handles database operations for the append-only
// task_updates and task_update_replies arenas. There are intentionally no
// update or delete methods here.
type TaskUpdateRepository struct {
	pool *pgxpool.Pool
}

// NewTaskUpdateRepository creates a new TaskUpdateRepository.
func NewTaskUpdateRepository(pool *pgxpool.Pool) *TaskUpdateRepository {
	return &TaskUpdateRepository{pool: pool}
}

// Create appends a new task update within the transaction.
func (r *TaskUpdateRepository) Create(ctx context.Context, tx pgx.Tx, update *domain.TaskUpdate) error {
	query, args, err := psql.
		Insert("task_updates").
		Columns("task_id", "updated_by", "status", "previous_status", "remarks").
		Values(update.TaskID, update.UpdatedBy, update.Status, update.PreviousStatus, update.Remarks).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	err = tx.QueryRow(ctx, query, args...).Scan(&update.ID, &update.CreatedAt)
	if err != nil {
		return fmt.Errorf("create task update: %w", err)
	}

	return nil
}

// GetByTaskAndID retrieves a single update, verifying it belongs to the task.
func (r *TaskUpdateRepository) GetByTaskAndID(ctx context.Context, taskID, updateID string) (*domain.TaskUpdate, error) {
	query, args, err := psql.
		Select("id", "task_id", "updated_by", "status", "previous_status", "remarks", "created_at").
		From("task_updates").
		Where(sq.Eq{"id": updateID, "task_id": taskID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var update domain.TaskUpdate
	err = r.pool.QueryRow(ctx, query, args...).Scan(
		&update.ID,
		&update.TaskID,
		&update.UpdatedBy,
		&update.Status,
		&update.PreviousStatus,
		&update.Remarks,
		&update.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUpdateNotFound
		}
		return nil, fmt.Errorf("query task update: %w", err)
	}

	return &update, nil
}

// GetByTaskID retrieves all updates for a task in append order, each with its
// replies in append order.
func (r *TaskUpdateRepository) GetByTaskID(ctx context.Context, taskID string) ([]*domain.TaskUpdate, error) {
	query, args, err := psql.
		Select("id", "task_id", "updated_by", "status", "previous_status", "remarks", "created_at").
		From("task_updates").
		Where(sq.Eq{"task_id": taskID}).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query task updates: %w", err)
	}
	defer rows.Close()

	var updates []*domain.TaskUpdate
	byID := make(map[string]*domain.TaskUpdate)
	for rows.Next() {
		var update domain.TaskUpdate
		err := rows.Scan(
			&update.ID,
			&update.TaskID,
			&update.UpdatedBy,
			&update.Status,
			&update.PreviousStatus,
			&update.Remarks,
			&update.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan task update: %w", err)
		}
		update.Replies = []*domain.Reply{}
		updates = append(updates, &update)
		byID[update.ID] = &update
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	if len(updates) == 0 {
		return updates, nil
	}

	replyQuery, replyArgs, err := psql.
		Select("r.id", "r.update_id", "r.replied_by", "r.message", "r.created_at").
		From("task_update_replies r").
		Join("task_updates u ON u.id = r.update_id").
		Where(sq.Eq{"u.task_id": taskID}).
		OrderBy("r.created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build reply query: %w", err)
	}

	replyRows, err := r.pool.Query(ctx, replyQuery, replyArgs...)
	if err != nil {
		return nil, fmt.Errorf("query replies: %w", err)
	}
	defer replyRows.Close()

	for replyRows.Next() {
		var reply domain.Reply
		err := replyRows.Scan(
			&reply.ID,
			&reply.UpdateID,
			&reply.RepliedBy,
			&reply.Message,
			&reply.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan reply: %w", err)
		}
		if parent, ok := byID[reply.UpdateID]; ok {
			parent.Replies = append(parent.Replies, &reply)
		}
	}
	if err := replyRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reply rows: %w", err)
	}

	return updates, nil
}

// CreateReply appends a reply to an existing update.
func (r *TaskUpdateRepository) CreateReply(ctx context.Context, tx pgx.Tx, reply *domain.Reply) error {
	query, args, err := psql.
		Insert("task_update_replies").
		Columns("update_id", "replied_by", "message").
		Values(reply.UpdateID, reply.RepliedBy, reply.Message).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	err = tx.QueryRow(ctx, query, args...).Scan(&reply.ID, &reply.CreatedAt)
	if err != nil {
		return fmt.Errorf("create reply: %w", err)
	}

	return nil
}
