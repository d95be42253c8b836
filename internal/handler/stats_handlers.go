package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/opsboard/deptask/internal/domain"
	"github.com/opsboard/deptask/internal/handler/dto"
	"github.com/opsboard/deptask/internal/middleware"
)

// handleGetStats returns task counts by status over the actor's report scope.
func (h *Handler) handleGetStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, err := middleware.GetUserFromContext(ctx)
	if err != nil {
		respondError(w, domain.ErrInvalidToken)
		return
	}

	stats, err := h.taskService.Stats(ctx, actor)
	if err != nil {
		respondError(w, err)
		return
	}

	data := dto.StatsData{
		Total:        stats.Total,
		ByStatus:     stats.ByStatus,
		OverdueCount: stats.OverdueCount,
	}

	respondJSON(w, http.StatusOK, dto.OK("Stats retrieved", data))
}

// handlePendingApprovals lists completed tasks still missing an approval
// gate.
func (h *Handler) handlePendingApprovals(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, err := middleware.GetUserFromContext(ctx)
	if err != nil {
		respondError(w, domain.ErrInvalidToken)
		return
	}

	limit, offset := parsePagination(r, 50)

	tasks, err := h.taskService.PendingApprovals(ctx, actor, limit, offset)
	if err != nil {
		respondError(w, err)
		return
	}

	now := time.Now()
	infos := make([]dto.TaskInfo, len(tasks))
	for i, task := range tasks {
		infos[i] = dto.ToTaskInfo(task, now)
	}

	respondJSON(w, http.StatusOK, dto.OK("Pending approvals retrieved", infos))
}

// parsePagination reads limit and offset query parameters with bounds.
func parsePagination(r *http.Request, defaultLimit int) (limit, offset int) {
	limit = defaultLimit
	if limitParam := r.URL.Query().Get("limit"); limitParam != "" {
		if n, err := strconv.Atoi(limitParam); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}
	if offsetParam := r.URL.Query().Get("offset"); offsetParam != "" {
		if n, err := strconv.Atoi(offsetParam); err == nil && n >= 0 {
			offset = n
		}
	}
	return limit, offset
}
