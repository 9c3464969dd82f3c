package services

import (
	"context"

	"docspace/internal/domain/models"
)

// ShareService manages explicit collaborator grants
type ShareService interface {
	// Share grants a role on a folder or document. Repeating a share for
	// the same (user, resource) pair updates the existing grant — last
	// write wins.
	Share(ctx context.Context, actor *models.User, req *ShareRequest) (*models.Collaborator, error)

	// UpdateShare changes an existing grant's role
	UpdateShare(ctx context.Context, actor *models.User, shareID string, role models.CollaboratorRole) (*models.Collaborator, error)

	// Revoke removes a grant
	Revoke(ctx context.Context, actor *models.User, shareID string) error

	// Collaborators lists everyone holding a grant on the resource or on
	// one of its ancestor folders
	Collaborators(ctx context.Context, actor *models.User, folderID, documentID *string) ([]CollaboratorEntry, error)

	// SharedWithMe lists resources explicitly shared with the actor
	SharedWithMe(ctx context.Context, actor *models.User) ([]SharedResource, error)

	// UserShares lists a user's inbound and outbound share history for
	// the administrative view
	UserShares(ctx context.Context, userID string) ([]ShareHistoryItem, error)
}

// ShareRequest grants a role to a user on exactly one resource
type ShareRequest struct {
	UserID     string                  `json:"user_id"`
	FolderID   *string                 `json:"folder_id,omitempty"`
	DocumentID *string                 `json:"document_id,omitempty"`
	Role       models.CollaboratorRole `json:"role"`
}

// CollaboratorEntry is one collaborator on a resource, possibly
// inherited from an ancestor folder
type CollaboratorEntry struct {
	ShareID  string                  `json:"id"`
	UserID   string                  `json:"user_id"`
	Username string                  `json:"username"`
	Role     models.CollaboratorRole `json:"role"`
}

// SharedResource is one entry of the "shared with me" listing
type SharedResource struct {
	Type      models.ResourceType     `json:"type"`
	ID        string                  `json:"id"`
	Name      string                  `json:"name"`
	Size      int64                   `json:"size"`
	FileType  string                  `json:"file_type,omitempty"`
	Role      models.CollaboratorRole `json:"role"`
	OwnerName string                  `json:"owner_name"`
}

// ShareDirection tells whether a history entry was received or given
type ShareDirection string

const (
	ShareInbound  ShareDirection = "inbound"
	ShareOutbound ShareDirection = "outbound"
)

// ShareHistoryItem is one entry of a user's share history
type ShareHistoryItem struct {
	Direction      ShareDirection          `json:"direction"`
	ResourceType   models.ResourceType     `json:"resource_type"`
	ResourceID     string                  `json:"resource_id"`
	ResourceName   string                  `json:"resource_name"`
	TargetUserName string                  `json:"target_user_name"` // sharer for inbound, recipient for outbound
	Role           models.CollaboratorRole `json:"role"`
}
