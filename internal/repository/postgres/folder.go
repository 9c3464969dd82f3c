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

// PostgresFolderRepository implements the FolderRepository interface
type PostgresFolderRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewFolderRepository creates a new folder repository
func NewFolderRepository(config *RepositoryConfig) repositories.FolderRepository {
	return &PostgresFolderRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

const folderColumns = `id, name, parent_id, space_type, owner_id, department_id, is_restricted, is_locked, created_at, updated_at`

// Create creates a new folder
func (r *PostgresFolderRepository) Create(ctx context.Context, folder *models.Folder) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, name, parent_id, space_type, owner_id, department_id, is_restricted, is_locked, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at
	`, r.tables.Folders)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		folder.ID,
		folder.Name,
		folder.ParentID,
		folder.SpaceType,
		folder.OwnerID,
		folder.DepartmentID,
		folder.IsRestricted,
		folder.IsLocked,
		folder.CreatedAt,
		folder.UpdatedAt,
	).Scan(&folder.CreatedAt, &folder.UpdatedAt)

	if err != nil {
		if IsPgDuplicateError(err) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("folder '%s' already exists", folder.Name),
				ResourceType: "folder",
			}
		}
		return fmt.Errorf("create folder: %w", err)
	}

	return nil
}

// GetByID retrieves a folder by ID
func (r *PostgresFolderRepository) GetByID(ctx context.Context, id string) (*models.Folder, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s WHERE id = $1
	`, folderColumns, r.tables.Folders)

	executor := GetExecutor(ctx, r.pool)
	folder, err := scanFolder(executor.QueryRow(ctx, query, id))
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get folder: %w", err)
	}

	return folder, nil
}

// GetByNameAndParent retrieves a folder by name under a parent
func (r *PostgresFolderRepository) GetByNameAndParent(ctx context.Context, name string, parentID *string) (*models.Folder, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE name = $1 AND parent_id IS NOT DISTINCT FROM $2
	`, folderColumns, r.tables.Folders)

	executor := GetExecutor(ctx, r.pool)
	folder, err := scanFolder(executor.QueryRow(ctx, query, name, parentID))
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("folder '%s': %w", name, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get folder by name: %w", err)
	}

	return folder, nil
}

// List retrieves folders matching the filter
func (r *PostgresFolderRepository) List(ctx context.Context, filter repositories.FolderFilter) ([]models.Folder, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE ($1::text IS NULL OR parent_id = $1)
		  AND (NOT $2 OR parent_id IS NULL)
		  AND ($3 = '' OR space_type = $3)
		  AND ($4::text IS NULL OR department_id = $4)
		  AND ($5 = '' OR name ILIKE '%%' || $5 || '%%')
		ORDER BY name
	`, folderColumns, r.tables.Folders)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query,
		filter.ParentID,
		filter.RootsOnly,
		string(filter.SpaceType),
		filter.DepartmentID,
		filter.NameQuery,
	)
	if err != nil {
		return nil, fmt.Errorf("list folders: %w", err)
	}
	defer rows.Close()

	return scanFolders(rows)
}

// ListByOwner retrieves all folders owned by a user
func (r *PostgresFolderRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.Folder, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s WHERE owner_id = $1 ORDER BY name
	`, folderColumns, r.tables.Folders)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list folders by owner: %w", err)
	}
	defer rows.Close()

	return scanFolders(rows)
}

// ListByDepartments retrieves Department-space folders belonging to any
// of the given departments
func (r *PostgresFolderRepository) ListByDepartments(ctx context.Context, departmentIDs []string) ([]models.Folder, error) {
	if len(departmentIDs) == 0 {
		return nil, nil
	}

	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE space_type = $1 AND department_id = ANY($2)
		ORDER BY name
	`, folderColumns, r.tables.Folders)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, models.SpaceDepartment, departmentIDs)
	if err != nil {
		return nil, fmt.Errorf("list folders by departments: %w", err)
	}
	defer rows.Close()

	return scanFolders(rows)
}

// GetSpaceRoot retrieves a space's top-level container
func (r *PostgresFolderRepository) GetSpaceRoot(ctx context.Context, space models.SpaceType) (*models.Folder, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE parent_id IS NULL AND space_type = $1 AND department_id IS NULL
		ORDER BY created_at
		LIMIT 1
	`, folderColumns, r.tables.Folders)

	executor := GetExecutor(ctx, r.pool)
	folder, err := scanFolder(executor.QueryRow(ctx, query, space))
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("%s space root: %w", space, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get space root: %w", err)
	}

	return folder, nil
}

// Update updates a folder
func (r *PostgresFolderRepository) Update(ctx context.Context, folder *models.Folder) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET name = $2, parent_id = $3, space_type = $4, owner_id = $5,
		    department_id = $6, is_restricted = $7, is_locked = $8, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`, r.tables.Folders)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		folder.ID,
		folder.Name,
		folder.ParentID,
		folder.SpaceType,
		folder.OwnerID,
		folder.DepartmentID,
		folder.IsRestricted,
		folder.IsLocked,
	).Scan(&folder.UpdatedAt)

	if err != nil {
		if IsPgNoRowsError(err) {
			return fmt.Errorf("folder %s: %w", folder.ID, domain.ErrNotFound)
		}
		if IsPgDuplicateError(err) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("folder '%s' already exists", folder.Name),
				ResourceType: "folder",
			}
		}
		return fmt.Errorf("update folder: %w", err)
	}

	return nil
}

// DeleteSubtree deletes a folder together with its descendant folders,
// their documents and their grants
func (r *PostgresFolderRepository) DeleteSubtree(ctx context.Context, id string) error {
	query := fmt.Sprintf(`
		WITH RECURSIVE subtree AS (
			SELECT id FROM %[1]s WHERE id = $1
			UNION ALL
			SELECT f.id FROM %[1]s f JOIN subtree s ON f.parent_id = s.id
		),
		deleted_grants AS (
			DELETE FROM %[2]s
			WHERE folder_id IN (SELECT id FROM subtree)
			   OR document_id IN (SELECT id FROM %[3]s WHERE folder_id IN (SELECT id FROM subtree))
		),
		deleted_documents AS (
			DELETE FROM %[3]s WHERE folder_id IN (SELECT id FROM subtree)
		)
		DELETE FROM %[1]s WHERE id IN (SELECT id FROM subtree)
	`, r.tables.Folders, r.tables.Collaborators, r.tables.Documents)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete folder subtree: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

func scanFolder(row pgx.Row) (*models.Folder, error) {
	var folder models.Folder
	err := row.Scan(
		&folder.ID,
		&folder.Name,
		&folder.ParentID,
		&folder.SpaceType,
		&folder.OwnerID,
		&folder.DepartmentID,
		&folder.IsRestricted,
		&folder.IsLocked,
		&folder.CreatedAt,
		&folder.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &folder, nil
}

func scanFolders(rows pgx.Rows) ([]models.Folder, error) {
	var folders []models.Folder
	for rows.Next() {
		folder, err := scanFolder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan folder: %w", err)
		}
		folders = append(folders, *folder)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate folders: %w", err)
	}

	return folders, nil
}
