package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"docspace/internal/domain"
	"docspace/internal/domain/models"
	"docspace/internal/domain/repositories"
)

// PostgresDocumentRepository implements the DocumentRepository interface
type PostgresDocumentRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewDocumentRepository creates a new document repository
func NewDocumentRepository(config *RepositoryConfig) repositories.DocumentRepository {
	return &PostgresDocumentRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

const documentColumns = `id, name, folder_id, author_id, object_key, file_type, size, is_restricted, is_deleted, created_at, updated_at`

// Create creates a new document
func (r *PostgresDocumentRepository) Create(ctx context.Context, doc *models.Document) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, name, folder_id, author_id, object_key, file_type, size, is_restricted, is_deleted, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at, updated_at
	`, r.tables.Documents)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		doc.ID,
		doc.Name,
		doc.FolderID,
		doc.AuthorID,
		doc.ObjectKey,
		doc.FileType,
		doc.Size,
		doc.IsRestricted,
		doc.IsDeleted,
		doc.CreatedAt,
		doc.UpdatedAt,
	).Scan(&doc.CreatedAt, &doc.UpdatedAt)

	if err != nil {
		if IsPgDuplicateError(err) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("document '%s' already exists", doc.Name),
				ResourceType: "document",
			}
		}
		return fmt.Errorf("create document: %w", err)
	}

	return nil
}

// GetByID retrieves a document by ID, including soft-deleted ones
func (r *PostgresDocumentRepository) GetByID(ctx context.Context, id string) (*models.Document, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s WHERE id = $1
	`, documentColumns, r.tables.Documents)

	executor := GetExecutor(ctx, r.pool)
	doc, err := scanDocument(executor.QueryRow(ctx, query, id))
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get document: %w", err)
	}

	return doc, nil
}

// GetActiveByNameAndFolder retrieves a non-deleted document by name
// within a folder
func (r *PostgresDocumentRepository) GetActiveByNameAndFolder(ctx context.Context, name string, folderID *string) (*models.Document, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE name = $1 AND folder_id IS NOT DISTINCT FROM $2 AND NOT is_deleted
	`, documentColumns, r.tables.Documents)

	executor := GetExecutor(ctx, r.pool)
	doc, err := scanDocument(executor.QueryRow(ctx, query, name, folderID))
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("document '%s': %w", name, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get document by name: %w", err)
	}

	return doc, nil
}

// List retrieves non-deleted documents matching the filter
func (r *PostgresDocumentRepository) List(ctx context.Context, filter repositories.DocumentFilter) ([]models.Document, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE NOT is_deleted
		  AND ($1::text IS NULL OR folder_id = $1)
		  AND ($2::text IS NULL OR author_id = $2)
		  AND ($3 = '' OR name ILIKE '%%' || $3 || '%%')
		ORDER BY name
	`, documentColumns, r.tables.Documents)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, filter.FolderID, filter.AuthorID, filter.NameQuery)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	return scanDocuments(rows)
}

// ListByAuthor retrieves all non-deleted documents authored by a user
func (r *PostgresDocumentRepository) ListByAuthor(ctx context.Context, authorID string) ([]models.Document, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE author_id = $1 AND NOT is_deleted
		ORDER BY name
	`, documentColumns, r.tables.Documents)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, authorID)
	if err != nil {
		return nil, fmt.Errorf("list documents by author: %w", err)
	}
	defer rows.Close()

	return scanDocuments(rows)
}

// Update updates a document
func (r *PostgresDocumentRepository) Update(ctx context.Context, doc *models.Document) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET name = $2, folder_id = $3, file_type = $4, size = $5, is_restricted = $6, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`, r.tables.Documents)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		doc.ID,
		doc.Name,
		doc.FolderID,
		doc.FileType,
		doc.Size,
		doc.IsRestricted,
	).Scan(&doc.UpdatedAt)

	if err != nil {
		if IsPgNoRowsError(err) {
			return fmt.Errorf("document %s: %w", doc.ID, domain.ErrNotFound)
		}
		if IsPgDuplicateError(err) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("document '%s' already exists", doc.Name),
				ResourceType: "document",
			}
		}
		return fmt.Errorf("update document: %w", err)
	}

	return nil
}

// MarkDeleted soft-deletes a document
func (r *PostgresDocumentRepository) MarkDeleted(ctx context.Context, id string) error {
	query := fmt.Sprintf(`
		UPDATE %s SET is_deleted = TRUE, updated_at = NOW()
		WHERE id = $1 AND NOT is_deleted
	`, r.tables.Documents)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

func scanDocument(row pgx.Row) (*models.Document, error) {
	var doc models.Document
	err := row.Scan(
		&doc.ID,
		&doc.Name,
		&doc.FolderID,
		&doc.AuthorID,
		&doc.ObjectKey,
		&doc.FileType,
		&doc.Size,
		&doc.IsRestricted,
		&doc.IsDeleted,
		&doc.CreatedAt,
		&doc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func scanDocuments(rows pgx.Rows) ([]models.Document, error) {
	var docs []models.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		docs = append(docs, *doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}

	return docs, nil
}
