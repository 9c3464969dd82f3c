package services

import (
	"context"

	"docspace/internal/domain/models"
)

// DepartmentService handles department tree administration. All
// mutations require a super-admin actor.
type DepartmentService interface {
	// CreateDepartment creates a department and its root folder inside
	// the department space
	CreateDepartment(ctx context.Context, actor *models.User, req *CreateDepartmentRequest) (*models.Department, error)

	// GetDepartment retrieves a department
	GetDepartment(ctx context.Context, id string) (*models.Department, error)

	// ListDepartments lists all departments
	ListDepartments(ctx context.Context) ([]models.Department, error)

	// UpdateDepartment renames a department (syncing its root folder) or
	// moves it under a new parent, rejecting moves that would close a
	// cycle
	UpdateDepartment(ctx context.Context, actor *models.User, id string, req *UpdateDepartmentRequest) (*models.Department, error)

	// DeleteDepartment deletes a department; refused while it still has
	// sub-departments or members
	DeleteDepartment(ctx context.Context, actor *models.User, id string) error
}

// CreateDepartmentRequest creates a department
type CreateDepartmentRequest struct {
	Name     string  `json:"name"`
	ParentID *string `json:"parent_id,omitempty"`
}

// UpdateDepartmentRequest updates a department
type UpdateDepartmentRequest struct {
	Name     *string `json:"name,omitempty"`
	ParentID *string `json:"parent_id,omitempty"`
}
