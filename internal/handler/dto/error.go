package dto

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/opsboard/deptask/internal/domain"
)

// MapDomainError maps domain errors to an HTTP status, a human message and
// the envelope error list. Scope folding means not-found and out-of-scope
// are indistinguishable here by construction.
func MapDomainError(err error) (status int, message string, errs []string) {
	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		return http.StatusUnprocessableEntity, "Validation failed", validationErr.Violations
	}

	message = err.Error()
	errs = []string{message}

	switch {
	// Not found (including out-of-scope lookups)
	case errors.Is(err, domain.ErrTaskNotFound),
		errors.Is(err, domain.ErrUpdateNotFound),
		errors.Is(err, domain.ErrNotificationNotFound),
		errors.Is(err, domain.ErrDepartmentNotFound),
		errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, message, errs

	// Referenced dependencies missing
	case errors.Is(err, domain.ErrParentNotFound),
		errors.Is(err, domain.ErrAssigneeNotFound):
		return http.StatusUnprocessableEntity, message, errs

	// Conflicts
	case errors.Is(err, domain.ErrAlreadyApproved),
		errors.Is(err, domain.ErrVersionConflict),
		errors.Is(err, domain.ErrDirectorApproved),
		errors.Is(err, domain.ErrNotReopenable),
		errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrParentCycle),
		errors.Is(err, domain.ErrDepartmentExists),
		errors.Is(err, domain.ErrEmailTaken):
		return http.StatusConflict, message, errs

	// Permission
	case errors.Is(err, domain.ErrPermissionDenied):
		return http.StatusForbidden, message, errs

	// Authentication
	case errors.Is(err, domain.ErrInvalidToken),
		errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrUserInactive):
		return http.StatusUnauthorized, message, errs

	default:
		slog.Error("unmapped domain error returned to client",
			"error", err,
			"error_type", fmt.Sprintf("%T", err),
		)
		return http.StatusInternalServerError, "Internal server error", []string{"Internal server error"}
	}
}
