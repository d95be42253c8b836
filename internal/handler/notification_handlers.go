package handler

import (
	"net/http"

	"github.com/opsboard/deptask/internal/domain"
	"github.com/opsboard/deptask/internal/handler/dto"
	"github.com/opsboard/deptask/internal/middleware"
)

// handleListNotifications returns the actor's notifications, newest first.
func (h *Handler) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, err := middleware.GetUserFromContext(ctx)
	if err != nil {
		respondError(w, domain.ErrInvalidToken)
		return
	}

	unreadOnly := r.URL.Query().Get("unread") == "true"
	limit, offset := parsePagination(r, 50)

	notifications, err := h.notificationRepo.ListByRecipient(ctx, actor.ID, unreadOnly, limit, offset)
	if err != nil {
		respondError(w, err)
		return
	}

	infos := make([]dto.NotificationInfo, len(notifications))
	for i, n := range notifications {
		infos[i] = dto.ToNotificationInfo(n)
	}

	respondJSON(w, http.StatusOK, dto.OK("Notifications retrieved", infos))
}

// handleMarkNotificationRead marks one of the actor's notifications as read.
// Someone else's notification is reported as not found.
func (h *Handler) handleMarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, err := middleware.GetUserFromContext(ctx)
	if err != nil {
		respondError(w, domain.ErrInvalidToken)
		return
	}

	notificationID, ok := extractPathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.notificationRepo.MarkRead(ctx, notificationID, actor.ID); err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.OK("Notification marked read", nil))
}
