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

// PostgresCollaboratorRepository implements the CollaboratorRepository interface
type PostgresCollaboratorRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewCollaboratorRepository creates a new collaborator repository
func NewCollaboratorRepository(config *RepositoryConfig) repositories.CollaboratorRepository {
	return &PostgresCollaboratorRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

const collaboratorColumns = `id, user_id, folder_id, document_id, role, created_at, updated_at`

// Create creates a new grant
func (r *PostgresCollaboratorRepository) Create(ctx context.Context, collab *models.Collaborator) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, user_id, folder_id, document_id, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`, r.tables.Collaborators)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		collab.ID,
		collab.UserID,
		collab.FolderID,
		collab.DocumentID,
		collab.Role,
		collab.CreatedAt,
		collab.UpdatedAt,
	).Scan(&collab.CreatedAt, &collab.UpdatedAt)

	if err != nil {
		if IsPgDuplicateError(err) {
			return &domain.ConflictError{
				Message:      "grant already exists",
				ResourceType: "collaborator",
			}
		}
		return fmt.Errorf("create grant: %w", err)
	}

	return nil
}

// GetByID retrieves a grant by ID
func (r *PostgresCollaboratorRepository) GetByID(ctx context.Context, id string) (*models.Collaborator, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s WHERE id = $1
	`, collaboratorColumns, r.tables.Collaborators)

	executor := GetExecutor(ctx, r.pool)
	collab, err := scanCollaborator(executor.QueryRow(ctx, query, id))
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("grant %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get grant: %w", err)
	}

	return collab, nil
}

// GetForFolder retrieves the grant a user holds directly on a folder
func (r *PostgresCollaboratorRepository) GetForFolder(ctx context.Context, userID, folderID string) (*models.Collaborator, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE user_id = $1 AND folder_id = $2
		ORDER BY updated_at DESC
		LIMIT 1
	`, collaboratorColumns, r.tables.Collaborators)

	executor := GetExecutor(ctx, r.pool)
	collab, err := scanCollaborator(executor.QueryRow(ctx, query, userID, folderID))
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("grant for folder %s: %w", folderID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get folder grant: %w", err)
	}

	return collab, nil
}

// GetForDocument retrieves the grant a user holds directly on a document
func (r *PostgresCollaboratorRepository) GetForDocument(ctx context.Context, userID, documentID string) (*models.Collaborator, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE user_id = $1 AND document_id = $2
		ORDER BY updated_at DESC
		LIMIT 1
	`, collaboratorColumns, r.tables.Collaborators)

	executor := GetExecutor(ctx, r.pool)
	collab, err := scanCollaborator(executor.QueryRow(ctx, query, userID, documentID))
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("grant for document %s: %w", documentID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get document grant: %w", err)
	}

	return collab, nil
}

// ListByUser retrieves all grants held by a user
func (r *PostgresCollaboratorRepository) ListByUser(ctx context.Context, userID string) ([]models.Collaborator, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s WHERE user_id = $1 ORDER BY created_at
	`, collaboratorColumns, r.tables.Collaborators)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list grants by user: %w", err)
	}
	defer rows.Close()

	return scanCollaborators(rows)
}

// ListByFolders retrieves all grants on any of the given folders
func (r *PostgresCollaboratorRepository) ListByFolders(ctx context.Context, folderIDs []string) ([]models.Collaborator, error) {
	if len(folderIDs) == 0 {
		return nil, nil
	}

	query := fmt.Sprintf(`
		SELECT %s FROM %s WHERE folder_id = ANY($1) ORDER BY created_at
	`, collaboratorColumns, r.tables.Collaborators)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, folderIDs)
	if err != nil {
		return nil, fmt.Errorf("list grants by folders: %w", err)
	}
	defer rows.Close()

	return scanCollaborators(rows)
}

// ListByDocument retrieves all grants on a document
func (r *PostgresCollaboratorRepository) ListByDocument(ctx context.Context, documentID string) ([]models.Collaborator, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s WHERE document_id = $1 ORDER BY created_at
	`, collaboratorColumns, r.tables.Collaborators)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, documentID)
	if err != nil {
		return nil, fmt.Errorf("list grants by document: %w", err)
	}
	defer rows.Close()

	return scanCollaborators(rows)
}

// Update updates a grant's role
func (r *PostgresCollaboratorRepository) Update(ctx context.Context, collab *models.Collaborator) error {
	query := fmt.Sprintf(`
		UPDATE %s SET role = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`, r.tables.Collaborators)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, collab.ID, collab.Role).Scan(&collab.UpdatedAt)
	if err != nil {
		if IsPgNoRowsError(err) {
			return fmt.Errorf("grant %s: %w", collab.ID, domain.ErrNotFound)
		}
		return fmt.Errorf("update grant: %w", err)
	}

	return nil
}

// Delete deletes a grant
func (r *PostgresCollaboratorRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.tables.Collaborators)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete grant: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("grant %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

func scanCollaborator(row pgx.Row) (*models.Collaborator, error) {
	var collab models.Collaborator
	err := row.Scan(
		&collab.ID,
		&collab.UserID,
		&collab.FolderID,
		&collab.DocumentID,
		&collab.Role,
		&collab.CreatedAt,
		&collab.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &collab, nil
}

func scanCollaborators(rows pgx.Rows) ([]models.Collaborator, error) {
	var collabs []models.Collaborator
	for rows.Next() {
		collab, err := scanCollaborator(rows)
		if err != nil {
			return nil, fmt.Errorf("scan grant: %w", err)
		}
		collabs = append(collabs, *collab)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate grants: %w", err)
	}

	return collabs, nil
}
