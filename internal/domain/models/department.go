package models

import (
	"time"
)

// Department is a node in the department tree. Each department may
// anchor a root folder inside the department space.
type Department struct {
	ID           string    `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	ParentID     *string   `json:"parent_id,omitempty" db:"parent_id"` // NULL = top-level department
	RootFolderID *string   `json:"root_folder_id,omitempty" db:"root_folder_id"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}
