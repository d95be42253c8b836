package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/opsboard/deptask/internal/domain"
	"github.com/opsboard/deptask/internal/handler/dto"
	"github.com/opsboard/deptask/internal/middleware"
)

// handleListDepartments returns the department registry.
func (h *Handler) handleListDepartments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if _, err := middleware.GetUserFromContext(ctx); err != nil {
		respondError(w, domain.ErrInvalidToken)
		return
	}

	departments, err := h.departmentRepo.List(ctx)
	if err != nil {
		respondError(w, err)
		return
	}

	infos := make([]dto.DepartmentInfo, len(departments))
	for i, dept := range departments {
		infos[i] = dto.ToDepartmentInfo(dept)
	}

	respondJSON(w, http.StatusOK, dto.OK("Departments retrieved", infos))
}

// handleCreateDepartment registers a department. Director only.
func (h *Handler) handleCreateDepartment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, err := middleware.GetUserFromContext(ctx)
	if err != nil {
		respondError(w, domain.ErrInvalidToken)
		return
	}

	if !actor.IsDirector() {
		respondError(w, fmt.Errorf("%w: only a Director can register departments", domain.ErrPermissionDenied))
		return
	}

	var req dto.CreateDepartmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, dto.Fail("Invalid request body", nil))
		return
	}

	if req.Name == "" {
		respondValidation(w, "Name is required")
		return
	}

	dept := &domain.Department{Name: req.Name}
	if err := h.departmentRepo.Create(ctx, dept); err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, dto.OK("Department created", dto.ToDepartmentInfo(dept)))
}
