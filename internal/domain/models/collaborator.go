package models

import (
	"time"
)

// CollaboratorRole is the role carried by an explicit share grant.
type CollaboratorRole string

const (
	CollaboratorViewer CollaboratorRole = "viewer"
	CollaboratorEditor CollaboratorRole = "editor"
	CollaboratorAdmin  CollaboratorRole = "admin"
)

// Valid reports whether the role is one of the closed set.
func (r CollaboratorRole) Valid() bool {
	switch r {
	case CollaboratorViewer, CollaboratorEditor, CollaboratorAdmin:
		return true
	}
	return false
}

// Collaborator is an explicit (user, resource, role) grant. Exactly one
// of FolderID and DocumentID is set.
type Collaborator struct {
	ID         string           `json:"id" db:"id"`
	UserID     string           `json:"user_id" db:"user_id"`
	FolderID   *string          `json:"folder_id,omitempty" db:"folder_id"`
	DocumentID *string          `json:"document_id,omitempty" db:"document_id"`
	Role       CollaboratorRole `json:"role" db:"role"`
	CreatedAt  time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at" db:"updated_at"`
}
