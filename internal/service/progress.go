package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/opsboard/deptask/internal/domain"
)

// AddProgressUpdate implements the employee progress-update surface: the
// assignee moves status along the restricted transition graph, with mandatory
// remarks, while the Director approval gate is still open. Every invocation
// appends a TaskUpdate whether or not the status changed.
func (s *TaskService) AddProgressUpdate(ctx context.Context, actor *domain.User, taskID string, status domain.TaskStatus, remarks string) (*domain.Task, *domain.TaskUpdate, error) {
	var violations []string
	if remarks == "" {
		violations = append(violations, "Remarks are required")
	}
	if !status.IsValid() {
		violations = append(violations, "Status must be one of PENDING, IN_PROGRESS, COMPLETED, CANCELLED, BLOCKED")
	}
	if len(violations) > 0 {
		return nil, nil, &domain.ValidationError{Violations: violations}
	}

	if !Can(actor.Role, OpProgress) {
		return nil, nil, fmt.Errorf("%w: only an Employee assignee can post progress updates", domain.ErrPermissionDenied)
	}

	tx, rollback, err := s.begin(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer rollback()

	task, err := s.taskRepo.GetScopedForUpdate(ctx, tx, taskID, TaskScope(actor, OpWrite))
	if err != nil {
		return nil, nil, err
	}

	if !task.IsAssignedTo(actor.ID) {
		return nil, nil, fmt.Errorf("%w: task %s is not assigned to you", domain.ErrPermissionDenied, task.ID)
	}

	if task.DirectorApproved {
		return nil, nil, domain.ErrDirectorApproved
	}

	if !task.Status.CanProgressTo(status) {
		return nil, nil, domain.NewTransitionError(task.Status, status)
	}

	previous := task.Status
	completed := status == domain.TaskStatusCompleted && previous != domain.TaskStatusCompleted
	if status != previous {
		applyStatus(task, status, time.Now())
	}

	if err := s.taskRepo.Update(ctx, tx, task); err != nil {
		return nil, nil, err
	}

	update := &domain.TaskUpdate{
		TaskID:         task.ID,
		UpdatedBy:      actor.ID,
		Status:         status,
		PreviousStatus: previous,
		Remarks:        remarks,
	}
	if err := s.updateRepo.Create(ctx, tx, update); err != nil {
		return nil, nil, err
	}

	if completed {
		if err := s.notifier.TaskCompleted(ctx, tx, task); err != nil {
			return nil, nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, fmt.Errorf("commit transaction: %w", err)
	}

	slog.Info("progress update added",
		"task_id", task.ID,
		"actor_id", actor.ID,
		"previous_status", previous,
		"status", status,
	)

	return task, update, nil
}

// ReplyToUpdate appends a reply to a task update. A Director may reply to any
// update; an Employee only to updates on tasks assigned to them.
func (s *TaskService) ReplyToUpdate(ctx context.Context, actor *domain.User, taskID, updateID, message string) (*domain.Reply, error) {
	if message == "" {
		return nil, domain.NewValidationError("Message is required")
	}

	task, err := s.taskRepo.GetScoped(ctx, taskID, TaskScope(actor, OpRead))
	if err != nil {
		return nil, err
	}

	if !actor.IsDirector() && !task.IsAssignedTo(actor.ID) {
		return nil, fmt.Errorf("%w: replies are limited to Directors and the task's assignee", domain.ErrPermissionDenied)
	}

	update, err := s.updateRepo.GetByTaskAndID(ctx, taskID, updateID)
	if err != nil {
		return nil, err
	}

	tx, rollback, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer rollback()

	reply := &domain.Reply{
		UpdateID:  update.ID,
		RepliedBy: actor.ID,
		Message:   message,
	}
	if err := s.updateRepo.CreateReply(ctx, tx, reply); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	slog.Info("reply added", "task_id", taskID, "update_id", updateID, "actor_id", actor.ID)

	return reply, nil
}
