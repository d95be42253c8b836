package dto

import (
	"time"

	"github.com/opsboard/deptask/internal/domain"
)

// Envelope is the uniform response shape for every endpoint: a success flag,
// a human message, a data payload or null, and either null or a non-empty
// list of error strings. Clients depend on this shape.
type Envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
	Errors  []string    `json:"errors"`
}

// OK builds a success envelope.
func OK(message string, data interface{}) Envelope {
	return Envelope{
		Success: true,
		Message: message,
		Data:    data,
	}
}

// Fail builds a failure envelope. Errors must be non-empty.
func Fail(message string, errs []string) Envelope {
	if len(errs) == 0 {
		errs = []string{message}
	}
	return Envelope{
		Success: false,
		Message: message,
		Errors:  errs,
	}
}

// TaskInfo represents a task in responses, annotated with the derived
// overdue fields.
type TaskInfo struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	AssignedTo   string     `json:"assigned_to"`
	AssignedBy   string     `json:"assigned_by"`
	Department   string     `json:"department"`
	ParentTaskID *string    `json:"parent_task_id"`
	Status       string     `json:"status"`
	Priority     string     `json:"priority"`
	IsDailyPlan  bool       `json:"is_daily_plan"`
	StartDate    *time.Time `json:"start_date"`
	DueDate      *time.Time `json:"due_date"`
	CompletedAt  *time.Time `json:"completed_at"`

	HodApproved        bool       `json:"hod_approved"`
	HodApprovedAt      *time.Time `json:"hod_approved_at"`
	HodApprovedBy      *string    `json:"hod_approved_by"`
	DirectorApproved   bool       `json:"director_approved"`
	DirectorApprovedAt *time.Time `json:"director_approved_at"`
	DirectorApprovedBy *string    `json:"director_approved_by"`

	IsOverdue   bool `json:"is_overdue"`
	DaysOverdue int  `json:"days_overdue"`

	Version   int       `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TaskListData is the payload for GET /tasks.
type TaskListData struct {
	Tasks  []TaskInfo `json:"tasks"`
	Total  int        `json:"total"`
	Limit  int        `json:"limit"`
	Offset int        `json:"offset"`
}

// TaskDetailData is the payload for GET /tasks/{id}.
type TaskDetailData struct {
	Task    TaskInfo         `json:"task"`
	Updates []TaskUpdateInfo `json:"updates"`
}

// TaskUpdateInfo represents an audit entry with its replies.
type TaskUpdateInfo struct {
	ID             string      `json:"id"`
	UpdatedBy      string      `json:"updated_by"`
	Status         string      `json:"status"`
	PreviousStatus string      `json:"previous_status"`
	Remarks        string      `json:"remarks"`
	CreatedAt      time.Time   `json:"created_at"`
	Replies        []ReplyInfo `json:"replies"`
}

// ReplyInfo represents a threaded reply on an update.
type ReplyInfo struct {
	ID        string    `json:"id"`
	RepliedBy string    `json:"replied_by"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// UserInfo represents the authenticated principal.
type UserInfo struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	Department string `json:"department"`
}

// LoginData is the payload for POST /auth/login.
type LoginData struct {
	Token string   `json:"token"`
	User  UserInfo `json:"user"`
}

// NotificationInfo represents a notification record.
type NotificationInfo struct {
	ID        string    `json:"id"`
	TaskID    *string   `json:"task_id"`
	Kind      string    `json:"kind"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

// DepartmentInfo represents a department registry entry.
type DepartmentInfo struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// StatsData is the payload for GET /stats.
type StatsData struct {
	Total        int            `json:"total"`
	ByStatus     map[string]int `json:"by_status"`
	OverdueCount int            `json:"overdue_count"`
}

// ToTaskInfo converts a domain.Task, computing the overdue annotation at
// read time.
func ToTaskInfo(task *domain.Task, now time.Time) TaskInfo {
	return TaskInfo{
		ID:                 task.ID,
		Title:              task.Title,
		Description:        task.Description,
		AssignedTo:         task.AssignedTo,
		AssignedBy:         task.AssignedBy,
		Department:         task.Department,
		ParentTaskID:       task.ParentTaskID,
		Status:             string(task.Status),
		Priority:           string(task.Priority),
		IsDailyPlan:        task.IsDailyPlan,
		StartDate:          task.StartDate,
		DueDate:            task.DueDate,
		CompletedAt:        task.CompletedAt,
		HodApproved:        task.HodApproved,
		HodApprovedAt:      task.HodApprovedAt,
		HodApprovedBy:      task.HodApprovedBy,
		DirectorApproved:   task.DirectorApproved,
		DirectorApprovedAt: task.DirectorApprovedAt,
		DirectorApprovedBy: task.DirectorApprovedBy,
		IsOverdue:          task.IsOverdue(now),
		DaysOverdue:        task.DaysOverdue(now),
		Version:            task.Version,
		CreatedAt:          task.CreatedAt,
		UpdatedAt:          task.UpdatedAt,
	}
}

// ToTaskUpdateInfo converts a domain.TaskUpdate with its replies.
func ToTaskUpdateInfo(update *domain.TaskUpdate) TaskUpdateInfo {
	replies := make([]ReplyInfo, len(update.Replies))
	for i, reply := range update.Replies {
		replies[i] = ReplyInfo{
			ID:        reply.ID,
			RepliedBy: reply.RepliedBy,
			Message:   reply.Message,
			CreatedAt: reply.CreatedAt,
		}
	}
	return TaskUpdateInfo{
		ID:             update.ID,
		UpdatedBy:      update.UpdatedBy,
		Status:         string(update.Status),
		PreviousStatus: string(update.PreviousStatus),
		Remarks:        update.Remarks,
		CreatedAt:      update.CreatedAt,
		Replies:        replies,
	}
}

// ToUserInfo converts a domain.User. The password hash never leaves the
// domain layer.
func ToUserInfo(user *domain.User) UserInfo {
	return UserInfo{
		ID:         user.ID,
		Name:       user.Name,
		Email:      user.Email,
		Role:       string(user.Role),
		Department: user.Department,
	}
}

// ToNotificationInfo converts a domain.Notification.
func ToNotificationInfo(n *domain.Notification) NotificationInfo {
	return NotificationInfo{
		ID:        n.ID,
		TaskID:    n.TaskID,
		Kind:      string(n.Kind),
		Message:   n.Message,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt,
	}
}

// ToDepartmentInfo converts a domain.Department.
func ToDepartmentInfo(d *domain.Department) DepartmentInfo {
	return DepartmentInfo{
		ID:        d.ID,
		Name:      d.Name,
		CreatedAt: d.CreatedAt,
	}
}
