package handler

import (
	"encoding/json"
	"net/http"

	"github.com/opsboard/deptask/internal/domain"
	"github.com/opsboard/deptask/internal/handler/dto"
	"github.com/opsboard/deptask/internal/middleware"
)

// handleLogin verifies credentials and issues a session token.
func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, dto.Fail("Invalid request body", nil))
		return
	}

	token, user, err := h.authService.Login(ctx, req.Email, req.Password)
	if err != nil {
		respondError(w, err)
		return
	}

	data := dto.LoginData{
		Token: token,
		User:  dto.ToUserInfo(user),
	}

	respondJSON(w, http.StatusOK, dto.OK("Login successful", data))
}

// handleMe returns the authenticated principal.
func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.GetUserFromContext(r.Context())
	if err != nil {
		respondError(w, domain.ErrInvalidToken)
		return
	}

	respondJSON(w, http.StatusOK, dto.OK("Profile retrieved", dto.ToUserInfo(actor)))
}
