package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/opsboard/deptask/internal/domain"
	"github.com/opsboard/deptask/internal/repository"
)

// Notifier turns lifecycle transitions into notification records. Rows are
// written in the same transaction as the task mutation, so a committed
// transition always has its notification and a rolled-back one leaves none.
type Notifier struct {
	notificationRepo *repository.NotificationRepository
	userRepo         *repository.UserRepository
}

// NewNotifier creates a new Notifier.
func NewNotifier(notificationRepo *repository.NotificationRepository, userRepo *repository.UserRepository) *Notifier {
	return &Notifier{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
	}
}

func (n *Notifier) create(ctx context.Context, tx pgx.Tx, recipientID string, task *domain.Task, kind domain.NotificationKind, message string) error {
	notification := &domain.Notification{
		RecipientID: recipientID,
		TaskID:      &task.ID,
		Kind:        kind,
		Message:     message,
	}
	if err := n.notificationRepo.Create(ctx, tx, notification); err != nil {
		return fmt.Errorf("create %s notification: %w", kind, err)
	}
	return nil
}

// TaskAssigned notifies the assignee of a newly assigned task.
func (n *Notifier) TaskAssigned(ctx context.Context, tx pgx.Tx, task *domain.Task) error {
	return n.create(ctx, tx, task.AssignedTo, task, domain.NotificationTaskAssigned,
		fmt.Sprintf("You have been assigned task %q", task.Title))
}

// TaskCompleted notifies the head of the task's department that the assignee
// reported completion. A department without an active HOD is logged and
// skipped; the completed transition stands either way.
func (n *Notifier) TaskCompleted(ctx context.Context, tx pgx.Tx, task *domain.Task) error {
	hod, err := n.userRepo.GetDepartmentHOD(ctx, task.Department)
	if err != nil {
		slog.Warn("no HOD of record for completed task",
			"task_id", task.ID,
			"department", task.Department,
			"error", err,
		)
		return nil
	}
	return n.create(ctx, tx, hod.ID, task, domain.NotificationTaskCompleted,
		fmt.Sprintf("Task %q was completed and awaits approval", task.Title))
}

// TaskApproved notifies the assignee that an approval gate was granted.
func (n *Notifier) TaskApproved(ctx context.Context, tx pgx.Tx, task *domain.Task, byRole domain.Role) error {
	return n.create(ctx, tx, task.AssignedTo, task, domain.NotificationTaskApproved,
		fmt.Sprintf("Task %q was approved by %s", task.Title, byRole))
}

// TaskReopened notifies the assignee that a terminal task was reopened.
func (n *Notifier) TaskReopened(ctx context.Context, tx pgx.Tx, task *domain.Task) error {
	return n.create(ctx, tx, task.AssignedTo, task, domain.NotificationTaskReopened,
		fmt.Sprintf("Task %q was reopened", task.Title))
}
