package access

import (
	"context"

	"docspace/internal/domain/models"
)

// The engine consumes narrow read-only lookups rather than the full
// repository interfaces. The postgres repositories satisfy them as
// subsets; tests supply in-memory fakes.

// FolderLookup resolves folders by ID for ancestor traversal
type FolderLookup interface {
	GetByID(ctx context.Context, id string) (*models.Folder, error)
}

// DepartmentLookup resolves departments by ID for chain traversal
type DepartmentLookup interface {
	GetByID(ctx context.Context, id string) (*models.Department, error)
}

// GrantLookup resolves the explicit grant a user holds directly on a
// resource
type GrantLookup interface {
	GetForFolder(ctx context.Context, userID, folderID string) (*models.Collaborator, error)
	GetForDocument(ctx context.Context, userID, documentID string) (*models.Collaborator, error)
}

// ProjectLookup resolves the project anchored at a folder
type ProjectLookup interface {
	GetByRootFolder(ctx context.Context, folderID string) (*models.Project, error)
}

// MembershipLookup resolves a user's role inside a project
type MembershipLookup interface {
	Get(ctx context.Context, projectID, userID string) (*models.ProjectMember, error)
}
