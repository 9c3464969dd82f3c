package models

import (
	"time"
)

// Role is a user's global capability tier, independent of any
// resource-level role granted through collaboration or membership.
type Role string

const (
	RoleSuperAdmin Role = "super_admin"
	RoleManager    Role = "manager"
	RoleEditor     Role = "editor"
	RoleViewer     Role = "viewer"
)

// Valid reports whether the role is one of the closed set.
func (r Role) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleManager, RoleEditor, RoleViewer:
		return true
	}
	return false
}

type User struct {
	ID           string    `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	EmployeeID   *string   `json:"employee_id,omitempty" db:"employee_id"`
	Email        *string   `json:"email,omitempty" db:"email"`
	DepartmentID *string   `json:"department_id,omitempty" db:"department_id"`
	Role         Role      `json:"role" db:"role"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}
