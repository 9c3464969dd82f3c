package models

import (
	"time"
)

// SpaceType selects which access policy governs a folder and everything
// beneath it until a nested space boundary is encountered.
type SpaceType string

const (
	SpacePublic     SpaceType = "public"
	SpaceDepartment SpaceType = "department"
	SpaceProject    SpaceType = "project"
)

// Valid reports whether the space type is one of the closed set.
func (s SpaceType) Valid() bool {
	switch s {
	case SpacePublic, SpaceDepartment, SpaceProject:
		return true
	}
	return false
}

type Folder struct {
	ID           string    `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	ParentID     *string   `json:"parent_id,omitempty" db:"parent_id"` // NULL = root of its space
	SpaceType    SpaceType `json:"space_type" db:"space_type"`
	OwnerID      *string   `json:"owner_id,omitempty" db:"owner_id"`
	DepartmentID *string   `json:"department_id,omitempty" db:"department_id"`
	IsRestricted bool      `json:"is_restricted" db:"is_restricted"`
	IsLocked     bool      `json:"is_locked" db:"is_locked"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

func (*Folder) isResource() {}

// OwnedBy reports whether the folder is directly owned by the user.
func (f *Folder) OwnedBy(userID string) bool {
	return f.OwnerID != nil && *f.OwnerID == userID
}

// IsSpaceRoot reports whether the folder is the top-level container of
// its space (no parent). Space roots get special treatment in both the
// Department and Project policies.
func (f *Folder) IsSpaceRoot() bool {
	return f.ParentID == nil
}
