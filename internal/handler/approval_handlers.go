package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/opsboard/deptask/internal/domain"
	"github.com/opsboard/deptask/internal/handler/dto"
	"github.com/opsboard/deptask/internal/middleware"
)

// handleApproveHOD grants the HOD approval gate.
func (h *Handler) handleApproveHOD(w http.ResponseWriter, r *http.Request) {
	h.approve(w, r, h.taskService.ApproveHOD, "HOD approval granted")
}

// handleApproveDirector grants the Director approval gate.
func (h *Handler) handleApproveDirector(w http.ResponseWriter, r *http.Request) {
	h.approve(w, r, h.taskService.ApproveDirector, "Director approval granted")
}

func (h *Handler) approve(
	w http.ResponseWriter,
	r *http.Request,
	fn func(ctx context.Context, actor *domain.User, taskID string) (*domain.Task, error),
	message string,
) {
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

	task, err := fn(ctx, actor, taskID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.OK(message, dto.ToTaskInfo(task, time.Now())))
}

// handleReopenTask moves a terminal task back to IN_PROGRESS.
func (h *Handler) handleReopenTask(w http.ResponseWriter, r *http.Request) {
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

	task, err := h.taskService.ReopenTask(ctx, actor, taskID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.OK("Task reopened", dto.ToTaskInfo(task, time.Now())))
}
