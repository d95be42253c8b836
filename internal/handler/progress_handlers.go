package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/opsboard/deptask/internal/domain"
	"github.com/opsboard/deptask/internal/handler/dto"
	"github.com/opsboard/deptask/internal/middleware"
)

// handleAddProgress records an employee progress update. The body is decoded
// with DisallowUnknownFields so a payload naming any field beyond status and
// remarks fails as a whole; the restricted surface accepts nothing else.
func (h *Handler) handleAddProgress(w http.ResponseWriter, r *http.Request) {
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

	var req dto.ProgressUpdateRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		respondValidation(w, "Progress updates accept only status and remarks")
		return
	}

	task, update, err := h.taskService.AddProgressUpdate(ctx, actor, taskID, domain.TaskStatus(req.Status), req.Remarks)
	if err != nil {
		respondError(w, err)
		return
	}

	data := dto.TaskDetailData{
		Task:    dto.ToTaskInfo(task, time.Now()),
		Updates: []dto.TaskUpdateInfo{dto.ToTaskUpdateInfo(update)},
	}

	respondJSON(w, http.StatusCreated, dto.OK("Progress update recorded", data))
}

// handleReplyToUpdate appends a reply to a progress update.
func (h *Handler) handleReplyToUpdate(w http.ResponseWriter, r *http.Request) {
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
	updateID, ok := extractPathID(w, r, "updateID")
	if !ok {
		return
	}

	var req dto.ReplyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, dto.Fail("Invalid request body", nil))
		return
	}

	reply, err := h.taskService.ReplyToUpdate(ctx, actor, taskID, updateID, req.Message)
	if err != nil {
		respondError(w, err)
		return
	}

	data := dto.ReplyInfo{
		ID:        reply.ID,
		RepliedBy: reply.RepliedBy,
		Message:   reply.Message,
		CreatedAt: reply.CreatedAt,
	}

	respondJSON(w, http.StatusCreated, dto.OK("Reply added", data))
}
