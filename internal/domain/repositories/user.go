package repositories

import (
	"context"

	"docspace/internal/domain/models"
)

// UserRepository defines data access operations for users
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *models.User) error

	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id string) (*models.User, error)

	// GetByUsername retrieves a user by username
	GetByUsername(ctx context.Context, username string) (*models.User, error)

	// List retrieves users, optionally filtered by a set of department IDs
	// and a username substring
	List(ctx context.Context, departmentIDs []string, query string, limit, offset int) ([]models.User, error)

	// Update updates a user
	Update(ctx context.Context, user *models.User) error

	// Delete deletes a user
	Delete(ctx context.Context, id string) error
}
