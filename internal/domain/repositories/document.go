package repositories

import (
	"context"

	"docspace/internal/domain/models"
)

// DocumentFilter narrows document listings. Soft-deleted documents are
// always excluded from listings; they remain reachable through GetByID.
type DocumentFilter struct {
	FolderID  *string
	AuthorID  *string
	NameQuery string
}

// DocumentRepository defines data access operations for documents
type DocumentRepository interface {
	// Create creates a new document
	Create(ctx context.Context, doc *models.Document) error

	// GetByID retrieves a document by ID, including soft-deleted ones
	GetByID(ctx context.Context, id string) (*models.Document, error)

	// GetActiveByNameAndFolder retrieves a non-deleted document by name
	// within a folder
	GetActiveByNameAndFolder(ctx context.Context, name string, folderID *string) (*models.Document, error)

	// List retrieves non-deleted documents matching the filter
	List(ctx context.Context, filter DocumentFilter) ([]models.Document, error)

	// ListByAuthor retrieves all non-deleted documents authored by a user
	ListByAuthor(ctx context.Context, authorID string) ([]models.Document, error)

	// Update updates a document
	Update(ctx context.Context, doc *models.Document) error

	// MarkDeleted soft-deletes a document; bytes stay in the object store
	MarkDeleted(ctx context.Context, id string) error
}
