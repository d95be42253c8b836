package service

import (
	sq "github.com/Masterminds/squirrel"
	"github.com/opsboard/deptask/internal/domain"
)

// Operation classifies what a request wants to do with tasks. The scope
// predicate and the capability table both key off it.
type Operation int

const (
	OpList Operation = iota
	OpRead
	OpWrite
	OpDelete
	OpCreate
	OpCreateDailyPlan
	OpProgress
	OpApproveHOD
	OpApproveDirector
	OpReport
)

// capabilities is the role × operation grant table, checked once per request
// before any storage access.
var capabilities = map[domain.Role]map[Operation]bool{
	domain.RoleEmployee: {
		OpList:            true,
		OpRead:            true,
		OpWrite:           true,
		OpDelete:          true,
		OpCreateDailyPlan: true,
		OpProgress:        true,
		OpReport:          true,
	},
	domain.RoleHOD: {
		OpList:            true,
		OpRead:            true,
		OpWrite:           true,
		OpDelete:          true,
		OpCreateDailyPlan: true,
		OpApproveHOD:      true,
		OpReport:          true,
	},
	domain.RoleDirector: {
		OpList:            true,
		OpRead:            true,
		OpWrite:           true,
		OpDelete:          true,
		OpCreate:          true,
		OpCreateDailyPlan: true,
		OpApproveHOD:      true,
		OpApproveDirector: true,
		OpReport:          true,
	},
}

// Can reports whether the role is allowed to attempt the operation at all.
// It says nothing about which tasks the operation may touch; that is the
// scope predicate's job.
func Can(role domain.Role, op Operation) bool {
	return capabilities[role][op]
}

// isOwnWorkView reports whether the operation reads tasks as "my work":
// approvals and reports exclude the tasks an employee delegated to others.
func isOwnWorkView(op Operation) bool {
	switch op {
	case OpApproveHOD, OpApproveDirector, OpReport:
		return true
	default:
		return false
	}
}

// TaskScope resolves the per-request predicate restricting which task rows
// the actor may see or touch. The predicate composes into any task query; a
// row outside it is indistinguishable from a missing one.
func TaskScope(actor *domain.User, op Operation) sq.Sqlizer {
	switch actor.Role {
	case domain.RoleDirector:
		return sq.Expr("TRUE")
	case domain.RoleHOD:
		return sq.Eq{"department": actor.Department}
	default:
		if isOwnWorkView(op) {
			return sq.Eq{"assigned_to": actor.ID}
		}
		return sq.Or{
			sq.Eq{"assigned_to": actor.ID},
			sq.And{
				sq.Eq{"department": actor.Department},
				sq.Eq{"assigned_by": actor.ID},
			},
		}
	}
}
