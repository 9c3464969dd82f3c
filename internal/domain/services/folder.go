package services

import (
	"context"

	"docspace/internal/domain/models"
)

// FolderService handles folder business logic
type FolderService interface {
	// CreateFolder creates a new folder, checking write access on the parent
	CreateFolder(ctx context.Context, actor *models.User, req *CreateFolderRequest) (*models.Folder, error)

	// GetFolder retrieves a folder with the actor's effective role and
	// breadcrumb ancestors
	GetFolder(ctx context.Context, actor *models.User, id string) (*FolderView, error)

	// ListFolders lists folders the actor can read, annotated with
	// effective roles
	ListFolders(ctx context.Context, actor *models.User, req *ListFoldersRequest) ([]FolderView, error)

	// UpdateFolder renames a folder, toggles its restricted flag, or
	// moves it under a new parent
	UpdateFolder(ctx context.Context, actor *models.User, id string, req *UpdateFolderRequest) (*models.Folder, error)

	// DeleteFolder deletes a folder and everything beneath it
	DeleteFolder(ctx context.Context, actor *models.User, id string) error
}

// CreateFolderRequest represents a folder creation request
type CreateFolderRequest struct {
	Name         string           `json:"name"`
	ParentID     *string          `json:"parent_id,omitempty"` // null for space-root folders
	SpaceType    models.SpaceType `json:"space_type"`
	IsRestricted bool             `json:"is_restricted"`
}

// UpdateFolderRequest represents a folder update request
type UpdateFolderRequest struct {
	Name         *string `json:"name,omitempty"`
	IsRestricted *bool   `json:"is_restricted,omitempty"`
	ParentID     *string `json:"parent_id,omitempty"` // move; rejected if it would close a cycle
}

// ListFoldersRequest narrows a folder listing
type ListFoldersRequest struct {
	ParentID     *string          `json:"parent_id,omitempty"`
	SpaceType    models.SpaceType `json:"space_type,omitempty"`
	DepartmentID *string          `json:"department_id,omitempty"`
	Query        string           `json:"q,omitempty"` // name search; listing is global when set
}

// FolderAncestor is one breadcrumb step
type FolderAncestor struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// FolderView is a folder annotated for a particular actor
type FolderView struct {
	models.Folder
	Role      string           `json:"role"` // actor's effective role
	ProjectID *string          `json:"project_id,omitempty"`
	Ancestors []FolderAncestor `json:"ancestors,omitempty"`
}
