package domain

import (
	"time"
)

// TaskStatus represents the status of a task in the lifecycle state machine.
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "PENDING"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusCompleted  TaskStatus = "COMPLETED"
	TaskStatusCancelled  TaskStatus = "CANCELLED"
	TaskStatusBlocked    TaskStatus = "BLOCKED"
)

// IsTerminal returns true if the status is terminal for employee-initiated
// transitions.
func (s TaskStatus) IsTerminal() bool {
	return s == TaskStatusCompleted || s == TaskStatusCancelled
}

// IsValid checks if the status is one of the allowed values.
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted,
		TaskStatusCancelled, TaskStatusBlocked:
		return true
	default:
		return false
	}
}

// employeeTransitions is the directed graph for the employee progress-update
// surface. Administrative edits are not bound by it.
var employeeTransitions = map[TaskStatus][]TaskStatus{
	TaskStatusPending:    {TaskStatusInProgress, TaskStatusBlocked},
	TaskStatusInProgress: {TaskStatusCompleted, TaskStatusBlocked, TaskStatusPending},
	TaskStatusBlocked:    {TaskStatusPending, TaskStatusInProgress},
	TaskStatusCompleted:  {},
	TaskStatusCancelled:  {},
}

// CanProgressTo reports whether the employee progress surface permits the
// transition from s to next. A same-status update is always permitted.
func (s TaskStatus) CanProgressTo(next TaskStatus) bool {
	if s == next {
		return true
	}
	for _, allowed := range employeeTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// TaskPriority represents the priority level of a task.
type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "LOW"
	TaskPriorityMedium TaskPriority = "MEDIUM"
	TaskPriorityHigh   TaskPriority = "HIGH"
)

// IsValid checks if the priority is one of the allowed values.
func (p TaskPriority) IsValid() bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh:
		return true
	default:
		return false
	}
}

// Task represents a unit of work assigned within the hierarchy.
type Task struct {
	ID           string
	Title        string
	Description  string
	AssignedTo   string
	AssignedBy   string
	Department   string
	ParentTaskID *string
	Status       TaskStatus
	Priority     TaskPriority
	IsDailyPlan  bool
	StartDate    *time.Time
	DueDate      *time.Time
	CompletedAt  *time.Time

	HodApproved        bool
	HodApprovedAt      *time.Time
	HodApprovedBy      *string
	DirectorApproved   bool
	DirectorApprovedAt *time.Time
	DirectorApprovedBy *string

	Version   int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsAssignedTo reports whether the task is assigned to the given user.
func (t *Task) IsAssignedTo(userID string) bool {
	return t.AssignedTo == userID
}

// IsAssignedBy reports whether the task was filed by the given user.
func (t *Task) IsAssignedBy(userID string) bool {
	return t.AssignedBy == userID
}

// CanAdminister reports whether the user may use the administrative edit
// surface on this task: the assignee, the assigner, the head of the task's
// department, or any Director.
func (t *Task) CanAdminister(u *User) bool {
	return u.IsDirector() ||
		u.IsHODOf(t.Department) ||
		t.IsAssignedTo(u.ID) ||
		t.IsAssignedBy(u.ID)
}

// IsOverdue reports whether the task has passed its due date. Terminal
// statuses are never overdue regardless of due date.
func (t *Task) IsOverdue(now time.Time) bool {
	if t.DueDate == nil || t.Status.IsTerminal() {
		return false
	}
	return now.After(*t.DueDate)
}

// DaysOverdue returns the number of days past the due date, rounded up.
// Returns 0 when the task is not overdue.
func (t *Task) DaysOverdue(now time.Time) int {
	if !t.IsOverdue(now) {
		return 0
	}
	elapsed := now.Sub(*t.DueDate)
	days := int(elapsed / (24 * time.Hour))
	if elapsed%(24*time.Hour) > 0 {
		days++
	}
	return days
}
