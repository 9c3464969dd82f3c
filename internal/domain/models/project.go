package models

import (
	"time"
)

// ProjectRole is a user's role inside a project. It is the sole basis
// for access within a Project-space subtree.
type ProjectRole string

const (
	ProjectAdmin  ProjectRole = "admin"
	ProjectEditor ProjectRole = "editor"
	ProjectViewer ProjectRole = "viewer"
)

// Valid reports whether the role is one of the closed set.
func (r ProjectRole) Valid() bool {
	switch r {
	case ProjectAdmin, ProjectEditor, ProjectViewer:
		return true
	}
	return false
}

type ProjectStatus string

const (
	ProjectActive   ProjectStatus = "active"
	ProjectArchived ProjectStatus = "archived"
)

// Project anchors a Project-space subtree through its root folder.
type Project struct {
	ID           string        `json:"id" db:"id"`
	Name         string        `json:"name" db:"name"`
	Status       ProjectStatus `json:"status" db:"status"`
	RootFolderID string        `json:"root_folder_id" db:"root_folder_id"`
	CreatedAt    time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at" db:"updated_at"`
}

type ProjectMember struct {
	ID        string      `json:"id" db:"id"`
	ProjectID string      `json:"project_id" db:"project_id"`
	UserID    string      `json:"user_id" db:"user_id"`
	Role      ProjectRole `json:"role" db:"role"`
	CreatedAt time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt time.Time   `json:"updated_at" db:"updated_at"`
}
