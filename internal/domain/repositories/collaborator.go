package repositories

import (
	"context"

	"docspace/internal/domain/models"
)

// CollaboratorRepository defines data access operations for explicit
// share grants
type CollaboratorRepository interface {
	// Create creates a new grant
	Create(ctx context.Context, collab *models.Collaborator) error

	// GetByID retrieves a grant by ID
	GetByID(ctx context.Context, id string) (*models.Collaborator, error)

	// GetForFolder retrieves the grant a user holds directly on a folder
	GetForFolder(ctx context.Context, userID, folderID string) (*models.Collaborator, error)

	// GetForDocument retrieves the grant a user holds directly on a document
	GetForDocument(ctx context.Context, userID, documentID string) (*models.Collaborator, error)

	// ListByUser retrieves all grants held by a user
	ListByUser(ctx context.Context, userID string) ([]models.Collaborator, error)

	// ListByFolders retrieves all grants on any of the given folders
	ListByFolders(ctx context.Context, folderIDs []string) ([]models.Collaborator, error)

	// ListByDocument retrieves all grants on a document
	ListByDocument(ctx context.Context, documentID string) ([]models.Collaborator, error)

	// Update updates a grant's role
	Update(ctx context.Context, collab *models.Collaborator) error

	// Delete deletes a grant
	Delete(ctx context.Context, id string) error
}
