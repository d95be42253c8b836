package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/opsboard/deptask/internal/domain"
	"github.com/opsboard/deptask/internal/repository"
)

// AssignmentValidator enforces who a task may be assigned to and which
// department it is filed under.
type AssignmentValidator struct {
	userRepo *repository.UserRepository
}

// NewAssignmentValidator creates a new AssignmentValidator.
func NewAssignmentValidator(userRepo *repository.UserRepository) *AssignmentValidator {
	return &AssignmentValidator{userRepo: userRepo}
}

// Resolve validates the proposed assignee and returns the assignee record
// together with the department the task must be filed under.
//
// Rules:
//   - the assignee must exist and be active
//   - an HOD assignee fixes the department to their own; requestedDepartment
//     is ignored
//   - an EMPLOYEE assignee requires requestedDepartment and it must match the
//     assignee's department exactly
//   - a DIRECTOR is never a valid assignment target
func (v *AssignmentValidator) Resolve(ctx context.Context, assigneeID, requestedDepartment string) (*domain.User, string, error) {
	assignee, err := v.userRepo.GetByID(ctx, assigneeID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, "", domain.ErrAssigneeNotFound
		}
		return nil, "", fmt.Errorf("resolve assignee: %w", err)
	}
	if !assignee.IsActive {
		return nil, "", domain.ErrAssigneeNotFound
	}

	switch assignee.Role {
	case domain.RoleHOD:
		return assignee, assignee.Department, nil
	case domain.RoleEmployee:
		if requestedDepartment == "" {
			return nil, "", domain.NewValidationError("Department is required when assigning to Employee")
		}
		if requestedDepartment != assignee.Department {
			return nil, "", domain.NewValidationError(
				fmt.Sprintf("Department %q does not match assignee's department %q", requestedDepartment, assignee.Department),
			)
		}
		return assignee, assignee.Department, nil
	default:
		return nil, "", domain.NewValidationError("A Director cannot be an assignment target")
	}
}

// ResolveReassignment validates an assignedTo change on an existing task.
// A non-Director actor may only re-assign within the task's current
// department; Directors are exempt.
func (v *AssignmentValidator) ResolveReassignment(ctx context.Context, actor *domain.User, task *domain.Task, assigneeID, requestedDepartment string) (*domain.User, string, error) {
	if requestedDepartment == "" {
		requestedDepartment = task.Department
	}

	assignee, department, err := v.Resolve(ctx, assigneeID, requestedDepartment)
	if err != nil {
		return nil, "", err
	}

	if !actor.IsDirector() && assignee.Department != task.Department {
		return nil, "", domain.NewValidationError(
			fmt.Sprintf("Assignee must belong to the task's department %q", task.Department),
		)
	}

	return assignee, department, nil
}
