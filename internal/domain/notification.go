package domain

import "time"

// NotificationKind represents the type of notification event.
type NotificationKind string

const (
	NotificationTaskAssigned  NotificationKind = "TASK_ASSIGNED"
	NotificationTaskCompleted NotificationKind = "TASK_COMPLETED"
	NotificationTaskApproved  NotificationKind = "TASK_APPROVED"
	NotificationTaskReopened  NotificationKind = "TASK_REOPENED"
)

// Notification represents a per-user notification record. Rows are written in
// the same transaction as the task mutation that triggered them.
type Notification struct {
	ID          string
	RecipientID string
	TaskID      *string
	Kind        NotificationKind
	Message     string
	IsRead      bool
	CreatedAt   time.Time
}
