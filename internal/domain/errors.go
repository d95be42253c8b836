package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Domain-specific errors for business logic validation.
var (
	// Task errors
	ErrTaskNotFound      = errors.New("task not found")
	ErrUpdateNotFound    = errors.New("task update not found")
	ErrParentNotFound    = errors.New("parent task not found")
	ErrParentCycle       = errors.New("parent task chain would form a cycle")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrVersionConflict   = errors.New("task was modified by another request")
	ErrAlreadyApproved   = errors.New("task is already approved")
	ErrDirectorApproved  = errors.New("cannot update task that has been approved by Director")
	ErrNotReopenable     = errors.New("only completed or cancelled tasks can be reopened")

	// Permission errors
	ErrPermissionDenied = errors.New("permission denied")

	// Principal errors
	ErrUserNotFound       = errors.New("user not found")
	ErrUserInactive       = errors.New("user is inactive")
	ErrInvalidToken       = errors.New("invalid authentication token")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email is already registered")

	// Assignment errors
	ErrAssigneeNotFound = errors.New("assignee not found or inactive")

	// Department errors
	ErrDepartmentNotFound = errors.New("department not found")
	ErrDepartmentExists   = errors.New("department already exists")

	// Notification errors
	ErrNotificationNotFound = errors.New("notification not found")
)

// ValidationError carries every violated rule for a request, not just the
// first one. The handler layer renders Violations as the response error list.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Violations, "; ")
}

// NewValidationError creates a ValidationError from the given violations.
func NewValidationError(violations ...string) *ValidationError {
	return &ValidationError{Violations: violations}
}

// NewTransitionError builds an InvalidTransition error naming the rejected
// source and target status.
func NewTransitionError(from, to TaskStatus) error {
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
}
