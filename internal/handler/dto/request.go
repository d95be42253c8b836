package dto

// LoginRequest represents the request body for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// CreateTaskRequest represents the request body for POST /tasks.
// Dates travel as RFC 3339 strings.
type CreateTaskRequest struct {
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	AssignedTo   string  `json:"assigned_to"`
	Department   string  `json:"department,omitempty"`
	Priority     string  `json:"priority,omitempty"`
	StartDate    *string `json:"start_date,omitempty"`
	DueDate      *string `json:"due_date,omitempty"`
	ParentTaskID *string `json:"parent_task_id,omitempty"`
}

// UpdateTaskRequest represents the request body for PATCH /tasks/{id}, the
// administrative edit surface. Absent fields are left untouched.
type UpdateTaskRequest struct {
	Title        *string `json:"title,omitempty"`
	Description  *string `json:"description,omitempty"`
	Priority     *string `json:"priority,omitempty"`
	Status       *string `json:"status,omitempty"`
	StartDate    *string `json:"start_date,omitempty"`
	DueDate      *string `json:"due_date,omitempty"`
	AssignedTo   *string `json:"assigned_to,omitempty"`
	Department   string  `json:"department,omitempty"`
	ParentTaskID *string `json:"parent_task_id,omitempty"`
	Version      *int    `json:"version,omitempty"`
}

// ProgressUpdateRequest represents the request body for
// POST /tasks/{id}/progress. This surface accepts exactly these two fields;
// the handler decodes with DisallowUnknownFields so a payload touching any
// restricted field is rejected as a validation failure.
type ProgressUpdateRequest struct {
	Status  string `json:"status"`
	Remarks string `json:"remarks"`
}

// ReplyRequest represents the request body for
// POST /tasks/{id}/updates/{updateID}/replies.
type ReplyRequest struct {
	Message string `json:"message"`
}

// CreateDailyPlanRequest represents the request body for POST /daily-plans.
type CreateDailyPlanRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	StartDate   *string `json:"start_date"`
	AssignedTo  string  `json:"assigned_to,omitempty"`
}

// CreateDepartmentRequest represents the request body for POST /departments.
type CreateDepartmentRequest struct {
	Name string `json:"name"`
}
