package repositories

import (
	"context"

	"docspace/internal/domain/models"
)

// FolderFilter narrows folder listings. Zero values mean "no filter".
type FolderFilter struct {
	ParentID     *string // immediate children of this folder
	RootsOnly    bool    // folders with no parent
	SpaceType    models.SpaceType
	DepartmentID *string
	NameQuery    string // substring match on name
}

// FolderRepository defines data access operations for the folder tree
type FolderRepository interface {
	// Create creates a new folder
	Create(ctx context.Context, folder *models.Folder) error

	// GetByID retrieves a folder by ID
	GetByID(ctx context.Context, id string) (*models.Folder, error)

	// GetByNameAndParent retrieves a folder by name under a parent
	// (nil parent = space root level)
	GetByNameAndParent(ctx context.Context, name string, parentID *string) (*models.Folder, error)

	// List retrieves folders matching the filter
	List(ctx context.Context, filter FolderFilter) ([]models.Folder, error)

	// ListByOwner retrieves all folders owned by a user
	ListByOwner(ctx context.Context, ownerID string) ([]models.Folder, error)

	// ListByDepartments retrieves Department-space folders belonging to
	// any of the given departments
	ListByDepartments(ctx context.Context, departmentIDs []string) ([]models.Folder, error)

	// GetSpaceRoot retrieves a space's top-level container: the folder
	// with no parent and the given space type. Department space keeps a
	// single container with no department binding.
	GetSpaceRoot(ctx context.Context, space models.SpaceType) (*models.Folder, error)

	// Update updates a folder
	Update(ctx context.Context, folder *models.Folder) error

	// DeleteSubtree deletes a folder together with its descendant
	// folders, their documents and their grants
	DeleteSubtree(ctx context.Context, id string) error
}
