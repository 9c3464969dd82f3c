package models

import (
	"time"
)

type Document struct {
	ID           string    `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	FolderID     *string   `json:"folder_id,omitempty" db:"folder_id"` // NULL = top-level document
	AuthorID     *string   `json:"author_id,omitempty" db:"author_id"`
	ObjectKey    string    `json:"object_key" db:"object_key"` // key in the external byte store
	FileType     string    `json:"file_type" db:"file_type"`
	Size         int64     `json:"size" db:"size"`
	IsRestricted bool      `json:"is_restricted" db:"is_restricted"`
	IsDeleted    bool      `json:"is_deleted" db:"is_deleted"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

func (*Document) isResource() {}

// AuthoredBy reports whether the document is directly authored by the user.
func (d *Document) AuthoredBy(userID string) bool {
	return d.AuthorID != nil && *d.AuthorID == userID
}
