package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/opsboard/deptask/internal/domain"
	"github.com/opsboard/deptask/internal/repository"
)

// ApproveHOD grants the HOD approval gate. An HOD may only approve tasks in
// their own department; a cross-department task is reported as not found, the
// same as a missing one. The gate is one-way: a second approval is a
// Conflict and the flag never reverts.
func (s *TaskService) ApproveHOD(ctx context.Context, actor *domain.User, taskID string) (*domain.Task, error) {
	if !Can(actor.Role, OpApproveHOD) {
		return nil, fmt.Errorf("%w: only an HOD or Director can grant HOD approval", domain.ErrPermissionDenied)
	}

	return s.approve(ctx, actor, taskID, domain.RoleHOD)
}

// ApproveDirector grants the Director approval gate, Director only and
// unconstrained by department.
func (s *TaskService) ApproveDirector(ctx context.Context, actor *domain.User, taskID string) (*domain.Task, error) {
	if !Can(actor.Role, OpApproveDirector) {
		return nil, fmt.Errorf("%w: only a Director can grant Director approval", domain.ErrPermissionDenied)
	}

	return s.approve(ctx, actor, taskID, domain.RoleDirector)
}

func (s *TaskService) approve(ctx context.Context, actor *domain.User, taskID string, gate domain.Role) (*domain.Task, error) {
	tx, rollback, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer rollback()

	// The approve scope already folds an HOD's cross-department lookup
	// into not-found.
	scopeOp := OpApproveHOD
	if gate == domain.RoleDirector {
		scopeOp = OpApproveDirector
	}
	task, err := s.taskRepo.GetScopedForUpdate(ctx, tx, taskID, TaskScope(actor, scopeOp))
	if err != nil {
		return nil, err
	}

	now := time.Now()
	switch gate {
	case domain.RoleHOD:
		if task.HodApproved {
			return nil, fmt.Errorf("%w: task %s already has HOD approval", domain.ErrAlreadyApproved, task.ID)
		}
		task.HodApproved = true
		task.HodApprovedAt = &now
		task.HodApprovedBy = &actor.ID
	default:
		if task.DirectorApproved {
			return nil, fmt.Errorf("%w: task %s already has Director approval", domain.ErrAlreadyApproved, task.ID)
		}
		task.DirectorApproved = true
		task.DirectorApprovedAt = &now
		task.DirectorApprovedBy = &actor.ID
	}

	if err := s.taskRepo.Update(ctx, tx, task); err != nil {
		return nil, err
	}

	// Comment-only audit entry: status equals previousStatus.
	update := &domain.TaskUpdate{
		TaskID:         task.ID,
		UpdatedBy:      actor.ID,
		Status:         task.Status,
		PreviousStatus: task.Status,
		Remarks:        fmt.Sprintf("Approved by %s", gate),
	}
	if err := s.updateRepo.Create(ctx, tx, update); err != nil {
		return nil, err
	}

	if err := s.notifier.TaskApproved(ctx, tx, task, gate); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	slog.Info("task approved", "task_id", task.ID, "gate", gate, "actor_id", actor.ID)

	return task, nil
}

// ReopenTask moves a COMPLETED or CANCELLED task back to IN_PROGRESS,
// clearing completedAt and recording the prior terminal status in the audit
// trail. Reopen is deliberately not gated by Director approval; see the
// repository design notes.
func (s *TaskService) ReopenTask(ctx context.Context, actor *domain.User, taskID string) (*domain.Task, error) {
	tx, rollback, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer rollback()

	task, err := s.taskRepo.GetScopedForUpdate(ctx, tx, taskID, TaskScope(actor, OpWrite))
	if err != nil {
		return nil, err
	}

	if !task.CanAdminister(actor) {
		return nil, fmt.Errorf("%w: not the assignee, assigner or department head of task %s", domain.ErrPermissionDenied, task.ID)
	}

	if !task.Status.IsTerminal() {
		return nil, fmt.Errorf("%w: task %s is %s", domain.ErrNotReopenable, task.ID, task.Status)
	}

	previous := task.Status
	applyStatus(task, domain.TaskStatusInProgress, time.Now())

	if err := s.taskRepo.Update(ctx, tx, task); err != nil {
		return nil, err
	}

	update := &domain.TaskUpdate{
		TaskID:         task.ID,
		UpdatedBy:      actor.ID,
		Status:         task.Status,
		PreviousStatus: previous,
		Remarks:        fmt.Sprintf("Reopened from %s", previous),
	}
	if err := s.updateRepo.Create(ctx, tx, update); err != nil {
		return nil, err
	}

	if task.AssignedTo != actor.ID {
		if err := s.notifier.TaskReopened(ctx, tx, task); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	slog.Info("task reopened", "task_id", task.ID, "actor_id", actor.ID, "previous_status", previous)

	return task, nil
}

// PendingApprovals lists completed tasks missing at least one approval gate,
// over the approvals scope: an Employee sees only their own work here.
func (s *TaskService) PendingApprovals(ctx context.Context, actor *domain.User, limit, offset int) ([]*domain.Task, error) {
	return s.taskRepo.PendingApprovals(ctx, TaskScope(actor, OpApproveHOD), limit, offset)
}

// Stats aggregates task counts by status over the report scope: an Employee
// sees only tasks assigned to them, an HOD their department, a Director all.
func (s *TaskService) Stats(ctx context.Context, actor *domain.User) (*repository.StatusCountsResult, error) {
	if !Can(actor.Role, OpReport) {
		return nil, domain.ErrPermissionDenied
	}
	return s.taskRepo.StatusCounts(ctx, TaskScope(actor, OpReport))
}
