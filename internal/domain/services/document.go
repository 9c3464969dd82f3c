package services

import (
	"context"

	"docspace/internal/domain/models"
)

// DocumentService handles document business logic
type DocumentService interface {
	// CreateDocument registers an uploaded file as a document, checking
	// write access on the target folder
	CreateDocument(ctx context.Context, actor *models.User, req *CreateDocumentRequest) (*models.Document, error)

	// GetDocument retrieves a document the actor can read. Soft-deleted
	// documents stay reachable when addressed directly.
	GetDocument(ctx context.Context, actor *models.User, id string) (*DocumentView, error)

	// ListDocuments lists non-deleted documents the actor can read
	ListDocuments(ctx context.Context, actor *models.User, req *ListDocumentsRequest) ([]DocumentView, error)

	// UpdateDocument renames a document
	UpdateDocument(ctx context.Context, actor *models.User, id string, req *UpdateDocumentRequest) (*models.Document, error)

	// DeleteDocument soft-deletes a document; bytes stay in the object store
	DeleteDocument(ctx context.Context, actor *models.User, id string) error

	// ContentURL returns a presigned URL for the document's bytes
	ContentURL(ctx context.Context, actor *models.User, id string) (string, error)
}

// CreateDocumentRequest represents a document creation request. The
// bytes themselves have already been placed in the object store by the
// upload path; the service only records the result.
type CreateDocumentRequest struct {
	Name         string  `json:"name"`
	FolderID     *string `json:"folder_id,omitempty"` // null = top-level document
	FileType     string  `json:"file_type"`
	Size         int64   `json:"size"`
	IsRestricted bool    `json:"is_restricted"`
}

// UpdateDocumentRequest represents a document update request
type UpdateDocumentRequest struct {
	Name *string `json:"name,omitempty"`
}

// ListDocumentsRequest narrows a document listing
type ListDocumentsRequest struct {
	FolderID *string `json:"folder_id,omitempty"`
	Query    string  `json:"q,omitempty"`
}

// DocumentView is a document annotated for a particular actor
type DocumentView struct {
	models.Document
	Role       string  `json:"role"` // actor's effective role
	AuthorName *string `json:"author_name,omitempty"`
}
