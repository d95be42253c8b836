package repository

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/opsboard/deptask/internal/domain"
)

// NotificationRepository handles database operations for notifications.
// Writes happen inside the transaction of the task mutation that triggered
// them, so a committed lifecycle change always has its notification row.
type NotificationRepository struct {
	pool *pgxpool.Pool
}

// NewNotificationRepository creates a new NotificationRepository.
func NewNotificationRepository(pool *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{pool: pool}
}

// Create inserts a notification within the transaction.
func (r *NotificationRepository) Create(ctx context.Context, tx pgx.Tx, n *domain.Notification) error {
	query, args, err := psql.
		Insert("notifications").
		Columns("recipient_id", "task_id", "kind", "message").
		Values(n.RecipientID, n.TaskID, n.Kind, n.Message).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	err = tx.QueryRow(ctx, query, args...).Scan(&n.ID, &n.CreatedAt)
	if err != nil {
		return fmt.Errorf("create notification: %w", err)
	}

	return nil
}

// ListByRecipient retrieves a user's notifications, newest first.
func (r *NotificationRepository) ListByRecipient(ctx context.Context, recipientID string, unreadOnly bool, limit, offset int) ([]*domain.Notification, error) {
	qb := psql.
		Select("id", "recipient_id", "task_id", "kind", "message", "is_read", "created_at").
		From("notifications").
		Where(sq.Eq{"recipient_id": recipientID}).
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset))
	if unreadOnly {
		qb = qb.Where(sq.Eq{"is_read": false})
	}

	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query notifications: %w", err)
	}
	defer rows.Close()

	var notifications []*domain.Notification
	for rows.Next() {
		var n domain.Notification
		err := rows.Scan(&n.ID, &n.RecipientID, &n.TaskID, &n.Kind, &n.Message, &n.IsRead, &n.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		notifications = append(notifications, &n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	return notifications, nil
}

// MarkRead marks a notification as read. Only the recipient's own rows
// match; anything else is ErrNotificationNotFound.
func (r *NotificationRepository) MarkRead(ctx context.Context, notificationID, recipientID string) error {
	query, args, err := psql.
		Update("notifications").
		Set("is_read", true).
		Where(sq.Eq{"id": notificationID, "recipient_id": recipientID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrNotificationNotFound
	}

	return nil
}
