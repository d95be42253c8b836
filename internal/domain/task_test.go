package domain_test

import (
	"testing"
	"time"

	"github.com/opsboard/deptask/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestCanProgressTo(t *testing.T) {
	tests := []struct {
		name    string
		from    domain.TaskStatus
		to      domain.TaskStatus
		allowed bool
	}{
		{"pending to in_progress", domain.TaskStatusPending, domain.TaskStatusInProgress, true},
		{"pending to blocked", domain.TaskStatusPending, domain.TaskStatusBlocked, true},
		{"pending to completed", domain.TaskStatusPending, domain.TaskStatusCompleted, false},
		{"pending to cancelled", domain.TaskStatusPending, domain.TaskStatusCancelled, false},
		{"in_progress to completed", domain.TaskStatusInProgress, domain.TaskStatusCompleted, true},
		{"in_progress to blocked", domain.TaskStatusInProgress, domain.TaskStatusBlocked, true},
		{"in_progress back to pending", domain.TaskStatusInProgress, domain.TaskStatusPending, true},
		{"in_progress to cancelled", domain.TaskStatusInProgress, domain.TaskStatusCancelled, false},
		{"blocked to pending", domain.TaskStatusBlocked, domain.TaskStatusPending, true},
		{"blocked to in_progress", domain.TaskStatusBlocked, domain.TaskStatusInProgress, true},
		{"blocked to completed", domain.TaskStatusBlocked, domain.TaskStatusCompleted, false},
		{"completed is terminal", domain.TaskStatusCompleted, domain.TaskStatusInProgress, false},
		{"cancelled is terminal", domain.TaskStatusCancelled, domain.TaskStatusPending, false},
		{"same status pending", domain.TaskStatusPending, domain.TaskStatusPending, true},
		{"same status completed", domain.TaskStatusCompleted, domain.TaskStatusCompleted, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanProgressTo(tt.to))
		})
	}
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, domain.TaskStatusCompleted.IsTerminal())
	assert.True(t, domain.TaskStatusCancelled.IsTerminal())
	assert.False(t, domain.TaskStatusPending.IsTerminal())
	assert.False(t, domain.TaskStatusInProgress.IsTerminal())
	assert.False(t, domain.TaskStatusBlocked.IsTerminal())
}

func TestIsOverdue(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	past := now.Add(-48 * time.Hour)
	future := now.Add(48 * time.Hour)

	t.Run("no due date", func(t *testing.T) {
		task := &domain.Task{Status: domain.TaskStatusInProgress}
		assert.False(t, task.IsOverdue(now))
	})

	t.Run("due date in future", func(t *testing.T) {
		task := &domain.Task{Status: domain.TaskStatusInProgress, DueDate: &future}
		assert.False(t, task.IsOverdue(now))
	})

	t.Run("due date in past", func(t *testing.T) {
		task := &domain.Task{Status: domain.TaskStatusInProgress, DueDate: &past}
		assert.True(t, task.IsOverdue(now))
	})

	t.Run("completed tasks are never overdue", func(t *testing.T) {
		task := &domain.Task{Status: domain.TaskStatusCompleted, DueDate: &past}
		assert.False(t, task.IsOverdue(now))
	})

	t.Run("cancelled tasks are never overdue", func(t *testing.T) {
		task := &domain.Task{Status: domain.TaskStatusCancelled, DueDate: &past}
		assert.False(t, task.IsOverdue(now))
	})

	t.Run("blocked tasks can be overdue", func(t *testing.T) {
		task := &domain.Task{Status: domain.TaskStatusBlocked, DueDate: &past}
		assert.True(t, task.IsOverdue(now))
	})
}

func TestDaysOverdue(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		due  time.Time
		want int
	}{
		{"not overdue", now.Add(time.Hour), 0},
		{"one hour late rounds up to one day", now.Add(-time.Hour), 1},
		{"exactly one day late", now.Add(-24 * time.Hour), 1},
		{"one day and a minute late rounds up to two", now.Add(-24*time.Hour - time.Minute), 2},
		{"ten days late", now.Add(-10 * 24 * time.Hour), 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			due := tt.due
			task := &domain.Task{Status: domain.TaskStatusInProgress, DueDate: &due}
			assert.Equal(t, tt.want, task.DaysOverdue(now))
		})
	}
}

func TestCanAdminister(t *testing.T) {
	task := &domain.Task{
		AssignedTo: "emp-1",
		AssignedBy: "dir-1",
		Department: "Engineering",
	}

	director := &domain.User{ID: "dir-9", Role: domain.RoleDirector}
	engineeringHOD := &domain.User{ID: "hod-1", Role: domain.RoleHOD, Department: "Engineering"}
	salesHOD := &domain.User{ID: "hod-2", Role: domain.RoleHOD, Department: "Sales"}
	assignee := &domain.User{ID: "emp-1", Role: domain.RoleEmployee, Department: "Engineering"}
	colleague := &domain.User{ID: "emp-2", Role: domain.RoleEmployee, Department: "Engineering"}

	assert.True(t, task.CanAdminister(director))
	assert.True(t, task.CanAdminister(engineeringHOD))
	assert.False(t, task.CanAdminister(salesHOD))
	assert.True(t, task.CanAdminister(assignee))
	assert.False(t, task.CanAdminister(colleague))
}
