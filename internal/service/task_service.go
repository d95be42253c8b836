package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/opsboard/deptask/internal/domain"
	"github.com/opsboard/deptask/internal/repository"
)

// maxParentDepth bounds the walk-up when validating parent task chains.
const maxParentDepth = 100

// TaskService coordinates task operations: scoping, assignment validation,
// the lifecycle state machine and notification side effects.
type TaskService struct {
	pool             *pgxpool.Pool
	taskRepo         *repository.TaskRepository
	updateRepo       *repository.TaskUpdateRepository
	userRepo         *repository.UserRepository
	notificationRepo *repository.NotificationRepository
	assignment       *AssignmentValidator
	notifier         *Notifier
}

// NewTaskService creates a new TaskService.
func NewTaskService(
	pool *pgxpool.Pool,
	taskRepo *repository.TaskRepository,
	updateRepo *repository.TaskUpdateRepository,
	userRepo *repository.UserRepository,
	notificationRepo *repository.NotificationRepository,
) *TaskService {
	return &TaskService{
		pool:             pool,
		taskRepo:         taskRepo,
		updateRepo:       updateRepo,
		userRepo:         userRepo,
		notificationRepo: notificationRepo,
		assignment:       NewAssignmentValidator(userRepo),
		notifier:         NewNotifier(notificationRepo, userRepo),
	}
}

// begin starts a transaction with the teacher-pattern deferred rollback.
func (s *TaskService) begin(ctx context.Context) (pgx.Tx, func(), error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("begin transaction: %w", err)
	}
	rollback := func() {
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			slog.Error("failed to rollback transaction", "error", err)
		}
	}
	return tx, rollback, nil
}

// CreateTaskParams holds the inputs for the Director assign-work primitive.
type CreateTaskParams struct {
	Title        string
	Description  string
	AssignedTo   string
	Department   string
	Priority     domain.TaskPriority
	StartDate    *time.Time
	DueDate      *time.Time
	ParentTaskID *string
}

// validate collects every payload-level violation instead of failing fast.
func (p *CreateTaskParams) validate() error {
	var violations []string
	if p.Title == "" {
		violations = append(violations, "Title is required")
	}
	if p.AssignedTo == "" {
		violations = append(violations, "Assignee is required")
	}
	if p.DueDate == nil {
		violations = append(violations, "Due date is required")
	}
	if p.StartDate != nil && p.DueDate != nil && p.DueDate.Before(*p.StartDate) {
		violations = append(violations, "Due date must not be before start date")
	}
	if p.Priority != "" && !p.Priority.IsValid() {
		violations = append(violations, "Priority must be one of LOW, MEDIUM, HIGH")
	}
	if len(violations) > 0 {
		return &domain.ValidationError{Violations: violations}
	}
	return nil
}

// CreateTask implements the assign-work primitive, Director only. The task
// starts in PENDING and the assignee gets a TASK_ASSIGNED notification in the
// same transaction.
func (s *TaskService) CreateTask(ctx context.Context, actor *domain.User, params CreateTaskParams) (*domain.Task, error) {
	if !Can(actor.Role, OpCreate) {
		return nil, fmt.Errorf("%w: only a Director can assign work", domain.ErrPermissionDenied)
	}

	if err := params.validate(); err != nil {
		return nil, err
	}

	assignee, department, err := s.assignment.Resolve(ctx, params.AssignedTo, params.Department)
	if err != nil {
		return nil, err
	}

	if params.ParentTaskID != nil {
		if err := s.validateParent(ctx, "", *params.ParentTaskID); err != nil {
			return nil, err
		}
	}

	tx, rollback, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer rollback()

	task := &domain.Task{
		Title:        params.Title,
		Description:  params.Description,
		AssignedTo:   assignee.ID,
		AssignedBy:   actor.ID,
		Department:   department,
		ParentTaskID: params.ParentTaskID,
		Status:       domain.TaskStatusPending,
		Priority:     params.Priority,
		StartDate:    params.StartDate,
		DueDate:      params.DueDate,
	}

	if _, err := s.taskRepo.Create(ctx, tx, task); err != nil {
		return nil, err
	}

	if err := s.notifier.TaskAssigned(ctx, tx, task); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	slog.Info("task created",
		"task_id", task.ID,
		"assigned_to", task.AssignedTo,
		"department", task.Department,
	)

	return task, nil
}

// DailyPlanParams holds the inputs for the daily-plan creation path.
type DailyPlanParams struct {
	Title       string
	Description string
	StartDate   *time.Time
	AssignedTo  string // empty means self
}

// CreateDailyPlan creates a HIGH-priority daily-plan task scoped to a single
// calendar day. Any authenticated principal may create one for themselves;
// assigning it to someone else stays within the actor's department unless the
// actor is a Director.
func (s *TaskService) CreateDailyPlan(ctx context.Context, actor *domain.User, params DailyPlanParams) (*domain.Task, error) {
	var violations []string
	if params.Title == "" {
		violations = append(violations, "Title is required")
	}
	if params.StartDate == nil {
		violations = append(violations, "Start date is required")
	}
	if len(violations) > 0 {
		return nil, &domain.ValidationError{Violations: violations}
	}

	// The plan's department follows the assignee's own record, so a Director
	// can plan for anyone; other actors stay within their own department.
	assignee := actor
	department := actor.Department
	if params.AssignedTo != "" && params.AssignedTo != actor.ID {
		target, err := s.userRepo.GetByID(ctx, params.AssignedTo)
		if err != nil {
			if errors.Is(err, domain.ErrUserNotFound) {
				return nil, domain.ErrAssigneeNotFound
			}
			return nil, fmt.Errorf("resolve daily plan assignee: %w", err)
		}
		if !target.IsActive {
			return nil, domain.ErrAssigneeNotFound
		}
		if target.IsDirector() {
			return nil, domain.NewValidationError("A Director cannot be an assignment target")
		}
		if !actor.IsDirector() && target.Department != actor.Department {
			return nil, domain.NewValidationError("Daily plan assignee must belong to your department")
		}
		assignee = target
		department = target.Department
	}

	// A daily plan covers exactly the start date's calendar day, in the
	// start date's own location.
	y, m, d := params.StartDate.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, params.StartDate.Location())
	dueDate := day.Add(24*time.Hour - time.Second)

	tx, rollback, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer rollback()

	task := &domain.Task{
		Title:       params.Title,
		Description: params.Description,
		AssignedTo:  assignee.ID,
		AssignedBy:  actor.ID,
		Department:  department,
		Status:      domain.TaskStatusPending,
		Priority:    domain.TaskPriorityHigh,
		IsDailyPlan: true,
		StartDate:   &day,
		DueDate:     &dueDate,
	}

	if _, err := s.taskRepo.Create(ctx, tx, task); err != nil {
		return nil, err
	}

	if assignee.ID != actor.ID {
		if err := s.notifier.TaskAssigned(ctx, tx, task); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	slog.Info("daily plan created", "task_id", task.ID, "assigned_to", task.AssignedTo)

	return task, nil
}

// ListTasks retrieves tasks within the actor's list scope intersected with
// the request filters.
func (s *TaskService) ListTasks(ctx context.Context, actor *domain.User, filters repository.TaskListFilters) ([]*domain.Task, int, error) {
	return s.taskRepo.List(ctx, TaskScope(actor, OpList), filters)
}

// GetTask retrieves a task within the actor's read scope together with its
// update trail. A task outside the scope is reported as not found.
func (s *TaskService) GetTask(ctx context.Context, actor *domain.User, taskID string) (*domain.Task, []*domain.TaskUpdate, error) {
	task, err := s.taskRepo.GetScoped(ctx, taskID, TaskScope(actor, OpRead))
	if err != nil {
		return nil, nil, err
	}

	updates, err := s.updateRepo.GetByTaskID(ctx, taskID)
	if err != nil {
		return nil, nil, fmt.Errorf("get task updates: %w", err)
	}

	return task, updates, nil
}

// AdminUpdateParams holds the administrative-edit surface inputs. Nil fields
// are left untouched. An empty ParentTaskID clears the parent link.
type AdminUpdateParams struct {
	Title        *string
	Description  *string
	Priority     *domain.TaskPriority
	Status       *domain.TaskStatus
	StartDate    *time.Time
	DueDate      *time.Time
	AssignedTo   *string
	Department   string // considered only together with AssignedTo
	ParentTaskID *string
	Version      *int // optional optimistic-concurrency check
}

func (p *AdminUpdateParams) validate() error {
	var violations []string
	if p.Title != nil && *p.Title == "" {
		violations = append(violations, "Title must not be empty")
	}
	if p.Priority != nil && !p.Priority.IsValid() {
		violations = append(violations, "Priority must be one of LOW, MEDIUM, HIGH")
	}
	if p.Status != nil && !p.Status.IsValid() {
		violations = append(violations, "Status must be one of PENDING, IN_PROGRESS, COMPLETED, CANCELLED, BLOCKED")
	}
	if len(violations) > 0 {
		return &domain.ValidationError{Violations: violations}
	}
	return nil
}

// UpdateTask implements the administrative edit surface: assignee, assigner,
// in-department HOD or Director may set any status directly and edit task
// fields, subject to assignment validation. completedAt bookkeeping follows
// the status: entering COMPLETED stamps it, leaving COMPLETED clears it.
func (s *TaskService) UpdateTask(ctx context.Context, actor *domain.User, taskID string, params AdminUpdateParams) (*domain.Task, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}

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

	if params.Version != nil && *params.Version != task.Version {
		return nil, domain.ErrVersionConflict
	}

	if params.Title != nil {
		task.Title = *params.Title
	}
	if params.Description != nil {
		task.Description = *params.Description
	}
	if params.Priority != nil {
		task.Priority = *params.Priority
	}
	if params.StartDate != nil {
		task.StartDate = params.StartDate
	}
	if params.DueDate != nil {
		task.DueDate = params.DueDate
	}

	if params.ParentTaskID != nil {
		if *params.ParentTaskID == "" {
			task.ParentTaskID = nil
		} else {
			if err := s.validateParent(ctx, task.ID, *params.ParentTaskID); err != nil {
				return nil, err
			}
			parentID := *params.ParentTaskID
			task.ParentTaskID = &parentID
		}
	}

	prevAssignee := task.AssignedTo
	if params.AssignedTo != nil && *params.AssignedTo != task.AssignedTo {
		assignee, department, err := s.assignment.ResolveReassignment(ctx, actor, task, *params.AssignedTo, params.Department)
		if err != nil {
			return nil, err
		}
		task.AssignedTo = assignee.ID
		task.Department = department
	}
	notifyAssigned := task.AssignedTo != prevAssignee && task.AssignedTo != actor.ID

	if params.Status != nil && *params.Status != task.Status {
		applyStatus(task, *params.Status, time.Now())
	}

	if err := s.taskRepo.Update(ctx, tx, task); err != nil {
		return nil, err
	}

	if notifyAssigned {
		if err := s.notifier.TaskAssigned(ctx, tx, task); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	slog.Info("task updated", "task_id", task.ID, "actor_id", actor.ID, "status", task.Status)

	return task, nil
}

// applyStatus sets the status and keeps completedAt consistent with it.
func applyStatus(task *domain.Task, status domain.TaskStatus, now time.Time) {
	if status == domain.TaskStatusCompleted && task.Status != domain.TaskStatusCompleted {
		task.CompletedAt = &now
	}
	if status != domain.TaskStatusCompleted {
		task.CompletedAt = nil
	}
	task.Status = status
}

// DeleteTask hard-deletes a task. Only the original assigner or a Director
// may delete, and only within their scope.
func (s *TaskService) DeleteTask(ctx context.Context, actor *domain.User, taskID string) error {
	tx, rollback, err := s.begin(ctx)
	if err != nil {
		return err
	}
	defer rollback()

	task, err := s.taskRepo.GetScopedForUpdate(ctx, tx, taskID, TaskScope(actor, OpDelete))
	if err != nil {
		return err
	}

	if !actor.IsDirector() && !task.IsAssignedBy(actor.ID) {
		return fmt.Errorf("%w: only the assigner or a Director can delete task %s", domain.ErrPermissionDenied, task.ID)
	}

	if err := s.taskRepo.Delete(ctx, tx, taskID); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	slog.Info("task deleted", "task_id", taskID, "actor_id", actor.ID)

	return nil
}

// validateParent checks that the proposed parent exists and that linking it
// would not create a cycle. The walk-up is bounded by maxParentDepth.
func (s *TaskService) validateParent(ctx context.Context, taskID, parentID string) error {
	if parentID == taskID && taskID != "" {
		return fmt.Errorf("%w: task cannot be its own parent", domain.ErrParentCycle)
	}

	visited := map[string]bool{}
	current := parentID
	for depth := 0; ; depth++ {
		if depth > maxParentDepth {
			return fmt.Errorf("%w: parent chain exceeds maximum depth of %d", domain.ErrParentCycle, maxParentDepth)
		}
		if visited[current] {
			return domain.ErrParentCycle
		}
		visited[current] = true

		parent, err := s.taskRepo.GetByID(ctx, current)
		if err != nil {
			if errors.Is(err, domain.ErrTaskNotFound) {
				if current == parentID {
					return domain.ErrParentNotFound
				}
				// A dangling link further up the chain is not this
				// request's fault; stop walking.
				return nil
			}
			return fmt.Errorf("walk parent chain: %w", err)
		}

		if taskID != "" && parent.ID == taskID {
			return fmt.Errorf("%w: task %s is already an ancestor", domain.ErrParentCycle, taskID)
		}
		if parent.ParentTaskID == nil {
			return nil
		}
		current = *parent.ParentTaskID
	}
}
