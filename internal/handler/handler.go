package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/opsboard/deptask/internal/handler/dto"
	"github.com/opsboard/deptask/internal/middleware"
	"github.com/opsboard/deptask/internal/repository"
	"github.com/opsboard/deptask/internal/service"
)

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	pool             *pgxpool.Pool
	taskService      *service.TaskService
	authService      *service.AuthService
	userRepo         *repository.UserRepository
	notificationRepo *repository.NotificationRepository
	departmentRepo   *repository.DepartmentRepository
	authMiddleware   *middleware.AuthMiddleware
}

// New creates a new Handler instance with all dependencies.
func New(pool *pgxpool.Pool, jwtSecret []byte) *Handler {
	// Create repositories
	taskRepo := repository.NewTaskRepository(pool)
	updateRepo := repository.NewTaskUpdateRepository(pool)
	userRepo := repository.NewUserRepository(pool)
	notificationRepo := repository.NewNotificationRepository(pool)
	departmentRepo := repository.NewDepartmentRepository(pool)

	// Create services
	taskService := service.NewTaskService(pool, taskRepo, updateRepo, userRepo, notificationRepo)
	authService := service.NewAuthService(userRepo, jwtSecret)

	// Create middleware
	authMiddleware := middleware.NewAuthMiddleware(userRepo, jwtSecret)

	return &Handler{
		pool:             pool,
		taskService:      taskService,
		authService:      authService,
		userRepo:         userRepo,
		notificationRepo: notificationRepo,
		departmentRepo:   departmentRepo,
		authMiddleware:   authMiddleware,
	}
}

// RegisterRoutes registers all HTTP routes.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	// Health check
	mux.HandleFunc("GET /healthz", h.handleHealthz)

	// Authentication
	mux.HandleFunc("POST /api/v1/auth/login", h.handleLogin)
	mux.Handle("GET /api/v1/auth/me", h.authed(h.handleMe))

	// Tasks
	mux.Handle("GET /api/v1/tasks", h.authed(h.handleListTasks))
	mux.Handle("POST /api/v1/tasks", h.authed(h.handleCreateTask))
	mux.Handle("GET /api/v1/tasks/{id}", h.authed(h.handleGetTask))
	mux.Handle("PATCH /api/v1/tasks/{id}", h.authed(h.handleUpdateTask))
	mux.Handle("DELETE /api/v1/tasks/{id}", h.authed(h.handleDeleteTask))
	mux.Handle("POST /api/v1/tasks/{id}/progress", h.authed(h.handleAddProgress))
	mux.Handle("POST /api/v1/tasks/{id}/updates/{updateID}/replies", h.authed(h.handleReplyToUpdate))
	mux.Handle("POST /api/v1/tasks/{id}/approve/hod", h.authed(h.handleApproveHOD))
	mux.Handle("POST /api/v1/tasks/{id}/approve/director", h.authed(h.handleApproveDirector))
	mux.Handle("POST /api/v1/tasks/{id}/reopen", h.authed(h.handleReopenTask))

	// Daily plans
	mux.Handle("POST /api/v1/daily-plans", h.authed(h.handleCreateDailyPlan))

	// Reports
	mux.Handle("GET /api/v1/approvals/pending", h.authed(h.handlePendingApprovals))
	mux.Handle("GET /api/v1/stats", h.authed(h.handleGetStats))

	// Notifications
	mux.Handle("GET /api/v1/notifications", h.authed(h.handleListNotifications))
	mux.Handle("POST /api/v1/notifications/{id}/read", h.authed(h.handleMarkNotificationRead))

	// Departments
	mux.Handle("GET /api/v1/departments", h.authed(h.handleListDepartments))
	mux.Handle("POST /api/v1/departments", h.authed(h.handleCreateDepartment))
}

// authed wraps a handler func with bearer-token authentication.
func (h *Handler) authed(fn http.HandlerFunc) http.Handler {
	return h.authMiddleware.Authenticate(fn)
}

// handleHealthz returns 200 OK if the database is reachable.
func (h *Handler) handleHealthz(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.pool.Ping(ctx); err != nil {
		slog.Error("database health check failed", "error", err)
		http.Error(w, "database unavailable", http.StatusServiceUnavailable)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// Ping checks if the database is reachable (used for testing).
func (h *Handler) Ping(ctx context.Context) error {
	return h.pool.Ping(ctx)
}

// respondJSON writes an envelope with the given status code.
func respondJSON(w http.ResponseWriter, status int, envelope dto.Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(envelope); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

// respondError maps a domain error onto the envelope and writes it.
func respondError(w http.ResponseWriter, err error) {
	status, message, errs := dto.MapDomainError(err)
	respondJSON(w, status, dto.Fail(message, errs))
}

// respondValidation writes a 422 envelope with the given violations.
func respondValidation(w http.ResponseWriter, violations ...string) {
	respondJSON(w, http.StatusUnprocessableEntity, dto.Fail("Validation failed", violations))
}

// extractPathID extracts and validates a UUID path parameter.
// Returns ("", false) if invalid (error already sent to client).
func extractPathID(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	id := r.PathValue(name)
	if id == "" {
		respondValidation(w, name+" is required")
		return "", false
	}

	if _, err := uuid.Parse(id); err != nil {
		respondValidation(w, name+" must be a valid UUID")
		return "", false
	}

	return id, true
}

// parseDate parses a date parameter, accepting RFC 3339 timestamps and bare
// dates.
func parseDate(value string) (time.Time, bool) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, true
	}
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, true
	}
	return time.Time{}, false
}
