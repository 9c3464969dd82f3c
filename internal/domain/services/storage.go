package services

import "context"

// ObjectStore is the external byte-storage collaborator. The backend
// never moves file bytes itself; uploads go directly to the store and
// documents only record the resulting key. Implementations live outside
// this module.
type ObjectStore interface {
	// GenerateKey derives a fresh storage key for a file name
	GenerateKey(filename string) string

	// PresignedURL returns a short-lived URL for reading an object
	PresignedURL(ctx context.Context, key string) (string, error)

	// Delete removes an object
	Delete(ctx context.Context, key string) error
}
