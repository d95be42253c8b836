package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/opsboard/deptask/internal/domain"
	"github.com/opsboard/deptask/internal/handler/dto"
	"github.com/opsboard/deptask/internal/middleware"
	"github.com/opsboard/deptask/internal/repository"
	"github.com/opsboard/deptask/internal/service"
)

// handleCreateTask creates a new task. Director only.
func (h *Handler) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, err := middleware.GetUserFromContext(ctx)
	if err != nil {
		respondError(w, domain.ErrInvalidToken)
		return
	}

	var req dto.CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, dto.Fail("Invalid request body", nil))
		return
	}

	params := service.CreateTaskParams{
		Title:        req.Title,
		Description:  req.Description,
		AssignedTo:   req.AssignedTo,
		Department:   req.Department,
		Priority:     domain.TaskPriority(req.Priority),
		ParentTaskID: req.ParentTaskID,
	}

	var violations []string
	if req.StartDate != nil {
		t, ok := parseDate(*req.StartDate)
		if !ok {
			violations = append(violations, "start_date must be an RFC 3339 timestamp or YYYY-MM-DD")
		} else {
			params.StartDate = &t
		}
	}
	if req.DueDate != nil {
		t, ok := parseDate(*req.DueDate)
		if !ok {
			violations = append(violations, "due_date must be an RFC 3339 timestamp or YYYY-MM-DD")
		} else {
			params.DueDate = &t
		}
	}
	if len(violations) > 0 {
		respondValidation(w, violations...)
		return
	}

	task, err := h.taskService.CreateTask(ctx, actor, params)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, dto.OK("Task created", dto.ToTaskInfo(task, time.Now())))
}

// handleGetTask retrieves task details with the update trail.
func (h *Handler) handleGetTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, err := middleware.GetUserFromContext(ctx)
	if err != nil {
		respondError(w, domain.ErrInvalidToken)
		return
	}

	taskID, ok := extractPathID(w, r, "id")
	if !ok {
		return
	}

	task, updates, err := h.taskService.GetTask(ctx, actor, taskID)
	if err != nil {
		respondError(w, err)
		return
	}

	data := dto.TaskDetailData{
		Task:    dto.ToTaskInfo(task, time.Now()),
		Updates: make([]dto.TaskUpdateInfo, len(updates)),
	}
	for i, update := range updates {
		data.Updates[i] = dto.ToTaskUpdateInfo(update)
	}

	respondJSON(w, http.StatusOK, dto.OK("Task retrieved", data))
}

// handleUpdateTask applies an administrative edit.
func (h *Handler) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, err := middleware.GetUserFromContext(ctx)
	if err != nil {
		respondError(w, domain.ErrInvalidToken)
		return
	}

	taskID, ok := extractPathID(w, r, "id")
	if !ok {
		return
	}

	var req dto.UpdateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, dto.Fail("Invalid request body", nil))
		return
	}

	params := service.AdminUpdateParams{
		Title:        req.Title,
		Description:  req.Description,
		AssignedTo:   req.AssignedTo,
		Department:   req.Department,
		ParentTaskID: req.ParentTaskID,
		Version:      req.Version,
	}
	if req.Priority != nil {
		p := domain.TaskPriority(*req.Priority)
		params.Priority = &p
	}
	if req.Status != nil {
		s := domain.TaskStatus(*req.Status)
		params.Status = &s
	}

	var violations []string
	if req.StartDate != nil {
		t, ok := parseDate(*req.StartDate)
		if !ok {
			violations = append(violations, "start_date must be an RFC 3339 timestamp or YYYY-MM-DD")
		} else {
			params.StartDate = &t
		}
	}
	if req.DueDate != nil {
		t, ok := parseDate(*req.DueDate)
		if !ok {
			violations = append(violations, "due_date must be an RFC 3339 timestamp or YYYY-MM-DD")
		} else {
			params.DueDate = &t
		}
	}
	if len(violations) > 0 {
		respondValidation(w, violations...)
		return
	}

	task, err := h.taskService.UpdateTask(ctx, actor, taskID, params)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.OK("Task updated", dto.ToTaskInfo(task, time.Now())))
}

// handleDeleteTask deletes a task. Assigner or Director only.
func (h *Handler) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, err := middleware.GetUserFromContext(ctx)
	if err != nil {
		respondError(w, domain.ErrInvalidToken)
		return
	}

	taskID, ok := extractPathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.taskService.DeleteTask(ctx, actor, taskID); err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.OK("Task deleted", nil))
}

// handleCreateDailyPlan creates a daily-plan task for the actor or a
// department colleague.
func (h *Handler) handleCreateDailyPlan(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, err := middleware.GetUserFromContext(ctx)
	if err != nil {
		respondError(w, domain.ErrInvalidToken)
		return
	}

	var req dto.CreateDailyPlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, dto.Fail("Invalid request body", nil))
		return
	}

	params := service.DailyPlanParams{
		Title:       req.Title,
		Description: req.Description,
		AssignedTo:  req.AssignedTo,
	}
	if req.StartDate != nil {
		t, ok := parseDate(*req.StartDate)
		if !ok {
			respondValidation(w, "start_date must be an RFC 3339 timestamp or YYYY-MM-DD")
			return
		}
		params.StartDate = &t
	}

	task, err := h.taskService.CreateDailyPlan(ctx, actor, params)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, dto.OK("Daily plan created", dto.ToTaskInfo(task, time.Now())))
}

// handleListTasks returns tasks within the actor's scope, filtered and
// paginated.
func (h *Handler) handleListTasks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, err := middleware.GetUserFromContext(ctx)
	if err != nil {
		respondError(w, domain.ErrInvalidToken)
		return
	}

	query := r.URL.Query()

	filters := repository.TaskListFilters{
		Limit:  50,
		Offset: 0,
	}

	if statusParam := query.Get("status"); statusParam != "" {
		filters.Statuses = splitAndTrim(statusParam, ",")
	}
	if priorityParam := query.Get("priority"); priorityParam != "" {
		filters.Priorities = splitAndTrim(priorityParam, ",")
	}

	if assigneeParam := query.Get("assignee"); assigneeParam != "" {
		if assigneeParam == "me" {
			filters.AssignedTo = &actor.ID
		} else {
			filters.AssignedTo = &assigneeParam
		}
	}
	if deptParam := query.Get("department"); deptParam != "" {
		filters.Department = &deptParam
	}
	if parentParam := query.Get("parent_task_id"); parentParam != "" {
		filters.ParentTaskID = &parentParam
	}

	if dailyParam := query.Get("daily_plan"); dailyParam != "" {
		daily := dailyParam == "true"
		filters.DailyPlan = &daily
	}
	filters.OverdueOnly = query.Get("overdue") == "true"

	var violations []string
	for _, p := range []struct {
		name string
		dest **time.Time
	}{
		{"start_from", &filters.StartFrom},
		{"start_to", &filters.StartTo},
		{"due_from", &filters.DueFrom},
		{"due_to", &filters.DueTo},
	} {
		if value := query.Get(p.name); value != "" {
			t, ok := parseDate(value)
			if !ok {
				violations = append(violations, p.name+" must be an RFC 3339 timestamp or YYYY-MM-DD")
				continue
			}
			*p.dest = &t
		}
	}
	if len(violations) > 0 {
		respondValidation(w, violations...)
		return
	}

	if limitParam := query.Get("limit"); limitParam != "" {
		if n, err := strconv.Atoi(limitParam); err == nil && n > 0 && n <= 200 {
			filters.Limit = n
		}
	}
	if offsetParam := query.Get("offset"); offsetParam != "" {
		if n, err := strconv.Atoi(offsetParam); err == nil && n >= 0 {
			filters.Offset = n
		}
	}

	tasks, total, err := h.taskService.ListTasks(ctx, actor, filters)
	if err != nil {
		respondError(w, err)
		return
	}

	now := time.Now()
	data := dto.TaskListData{
		Tasks:  make([]dto.TaskInfo, len(tasks)),
		Total:  total,
		Limit:  filters.Limit,
		Offset: filters.Offset,
	}
	for i, task := range tasks {
		data.Tasks[i] = dto.ToTaskInfo(task, now)
	}

	respondJSON(w, http.StatusOK, dto.OK("Tasks retrieved", data))
}

// splitAndTrim splits a string by delimiter and trims whitespace.
func splitAndTrim(s, sep string) []string {
	parts := strings.Split(s, sep)
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
