package repositories

import (
	"context"

	"docspace/internal/domain/models"
)

// ProjectRepository defines data access operations for projects
type ProjectRepository interface {
	// Create creates a new project
	Create(ctx context.Context, project *models.Project) error

	// GetByID retrieves a project by ID
	GetByID(ctx context.Context, id string) (*models.Project, error)

	// GetByRootFolder retrieves the project anchored at the given folder
	GetByRootFolder(ctx context.Context, folderID string) (*models.Project, error)

	// List retrieves all projects
	List(ctx context.Context) ([]models.Project, error)

	// ListByMember retrieves projects the user is a member of
	ListByMember(ctx context.Context, userID string) ([]models.Project, error)

	// Update updates a project
	Update(ctx context.Context, project *models.Project) error

	// Delete deletes a project and its memberships
	Delete(ctx context.Context, id string) error
}

// ProjectMemberRepository defines data access operations for
// per-project user roles
type ProjectMemberRepository interface {
	// Add adds a member to a project
	Add(ctx context.Context, member *models.ProjectMember) error

	// Get retrieves a project membership
	Get(ctx context.Context, projectID, userID string) (*models.ProjectMember, error)

	// ListByProject retrieves all members of a project
	ListByProject(ctx context.Context, projectID string) ([]models.ProjectMember, error)

	// ListByUser retrieves all memberships held by a user
	ListByUser(ctx context.Context, userID string) ([]models.ProjectMember, error)

	// Update updates a membership's role
	Update(ctx context.Context, member *models.ProjectMember) error

	// Remove removes a member from a project
	Remove(ctx context.Context, projectID, userID string) error
}
