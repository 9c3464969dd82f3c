package repositories

import (
	"context"

	"docspace/internal/domain/models"
)

// DepartmentRepository defines data access operations for the
// department tree
type DepartmentRepository interface {
	// Create creates a new department
	Create(ctx context.Context, dept *models.Department) error

	// GetByID retrieves a department by ID
	GetByID(ctx context.Context, id string) (*models.Department, error)

	// GetByNameAndParent retrieves a department by name under a parent
	// (nil parent = top level)
	GetByNameAndParent(ctx context.Context, name string, parentID *string) (*models.Department, error)

	// List retrieves all departments
	List(ctx context.Context) ([]models.Department, error)

	// ListChildren retrieves immediate sub-departments
	ListChildren(ctx context.Context, parentID string) ([]models.Department, error)

	// HasMembers reports whether any user belongs to the department
	HasMembers(ctx context.Context, id string) (bool, error)

	// Update updates a department
	Update(ctx context.Context, dept *models.Department) error

	// Delete deletes a department
	Delete(ctx context.Context, id string) error
}
