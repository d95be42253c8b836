package domain

import "time"

// TaskUpdate represents an append-only audit entry on a task. Entries are
// created by progress updates, approvals and reopens; they are never mutated
// or removed.
type TaskUpdate struct {
	ID             string
	TaskID         string
	UpdatedBy      string
	Status         TaskStatus
	PreviousStatus TaskStatus
	Remarks        string
	CreatedAt      time.Time
	Replies        []*Reply
}

// IsStatusChange reports whether the entry records an actual transition as
// opposed to a comment-only audit entry.
func (u *TaskUpdate) IsStatusChange() bool {
	return u.Status != u.PreviousStatus
}

// Reply represents a threaded reply attached to a TaskUpdate. Replies are
// strictly additive and never affect task status.
type Reply struct {
	ID        string
	UpdateID  string
	RepliedBy string
	Message   string
	CreatedAt time.Time
}
