package domain

import "time"

// Role represents a user's place in the three-tier hierarchy.
type Role string

const (
	RoleEmployee Role = "EMPLOYEE"
	RoleHOD      Role = "HOD"
	RoleDirector Role = "DIRECTOR"
)

// IsValid checks if the role is one of the allowed values.
func (r Role) IsValid() bool {
	switch r {
	case RoleEmployee, RoleHOD, RoleDirector:
		return true
	default:
		return false
	}
}

// User represents a principal registered in the system.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	Department   string
	IsActive     bool
	CreatedAt    time.Time
}

// IsDirector reports whether the user holds the Director role.
func (u *User) IsDirector() bool {
	return u.Role == RoleDirector
}

// IsHODOf reports whether the user is the head of the given department.
func (u *User) IsHODOf(department string) bool {
	return u.Role == RoleHOD && u.Department == department
}
