package service

import (
	"testing"

	"github.com/opsboard/deptask/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCan(t *testing.T) {
	tests := []struct {
		name    string
		role    domain.Role
		op      Operation
		allowed bool
	}{
		{"only director creates tasks", domain.RoleDirector, OpCreate, true},
		{"hod cannot create tasks", domain.RoleHOD, OpCreate, false},
		{"employee cannot create tasks", domain.RoleEmployee, OpCreate, false},
		{"only employee posts progress", domain.RoleEmployee, OpProgress, true},
		{"hod cannot post progress", domain.RoleHOD, OpProgress, false},
		{"director cannot post progress", domain.RoleDirector, OpProgress, false},
		{"hod grants hod approval", domain.RoleHOD, OpApproveHOD, true},
		{"director grants hod approval", domain.RoleDirector, OpApproveHOD, true},
		{"employee cannot grant hod approval", domain.RoleEmployee, OpApproveHOD, false},
		{"only director grants director approval", domain.RoleDirector, OpApproveDirector, true},
		{"hod cannot grant director approval", domain.RoleHOD, OpApproveDirector, false},
		{"everyone lists", domain.RoleEmployee, OpList, true},
		{"everyone creates daily plans", domain.RoleEmployee, OpCreateDailyPlan, true},
		{"everyone reports", domain.RoleEmployee, OpReport, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, Can(tt.role, tt.op))
		})
	}
}

func TestTaskScope_Director(t *testing.T) {
	director := &domain.User{ID: "dir-1", Role: domain.RoleDirector}

	sql, args, err := TaskScope(director, OpRead).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "TRUE", sql)
	assert.Empty(t, args)
}

func TestTaskScope_HOD(t *testing.T) {
	hod := &domain.User{ID: "hod-1", Role: domain.RoleHOD, Department: "Engineering"}

	sql, args, err := TaskScope(hod, OpRead).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "department = ?", sql)
	assert.Equal(t, []interface{}{"Engineering"}, args)
}

func TestTaskScope_Employee(t *testing.T) {
	emp := &domain.User{ID: "emp-1", Role: domain.RoleEmployee, Department: "Engineering"}

	t.Run("general view includes delegated tasks", func(t *testing.T) {
		sql, args, err := TaskScope(emp, OpRead).ToSql()
		require.NoError(t, err)
		assert.Equal(t, "(assigned_to = ? OR (department = ? AND assigned_by = ?))", sql)
		assert.Equal(t, []interface{}{"emp-1", "Engineering", "emp-1"}, args)
	})

	t.Run("report view narrows to own assignments", func(t *testing.T) {
		sql, args, err := TaskScope(emp, OpReport).ToSql()
		require.NoError(t, err)
		assert.Equal(t, "assigned_to = ?", sql)
		assert.Equal(t, []interface{}{"emp-1"}, args)
	})

	t.Run("approval views narrow to own assignments", func(t *testing.T) {
		for _, op := range []Operation{OpApproveHOD, OpApproveDirector} {
			sql, _, err := TaskScope(emp, op).ToSql()
			require.NoError(t, err)
			assert.Equal(t, "assigned_to = ?", sql)
		}
	})
}
