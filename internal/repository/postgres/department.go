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

// PostgresDepartmentRepository implements the DepartmentRepository interface
type PostgresDepartmentRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewDepartmentRepository creates a new department repository
func NewDepartmentRepository(config *RepositoryConfig) repositories.DepartmentRepository {
	return &PostgresDepartmentRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Create creates a new department
func (r *PostgresDepartmentRepository) Create(ctx context.Context, dept *models.Department) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, name, parent_id, root_folder_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`, r.tables.Departments)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		dept.ID,
		dept.Name,
		dept.ParentID,
		dept.RootFolderID,
		dept.CreatedAt,
		dept.UpdatedAt,
	).Scan(&dept.CreatedAt, &dept.UpdatedAt)

	if err != nil {
		if IsPgDuplicateError(err) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("department '%s' already exists", dept.Name),
				ResourceType: "department",
			}
		}
		return fmt.Errorf("create department: %w", err)
	}

	return nil
}

// GetByID retrieves a department by ID
func (r *PostgresDepartmentRepository) GetByID(ctx context.Context, id string) (*models.Department, error) {
	query := fmt.Sprintf(`
		SELECT id, name, parent_id, root_folder_id, created_at, updated_at
		FROM %s
		WHERE id = $1
	`, r.tables.Departments)

	var dept models.Department
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, id).Scan(
		&dept.ID,
		&dept.Name,
		&dept.ParentID,
		&dept.RootFolderID,
		&dept.CreatedAt,
		&dept.UpdatedAt,
	)

	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("department %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get department: %w", err)
	}

	return &dept, nil
}

// GetByNameAndParent retrieves a department by name under a parent
func (r *PostgresDepartmentRepository) GetByNameAndParent(ctx context.Context, name string, parentID *string) (*models.Department, error) {
	query := fmt.Sprintf(`
		SELECT id, name, parent_id, root_folder_id, created_at, updated_at
		FROM %s
		WHERE name = $1 AND parent_id IS NOT DISTINCT FROM $2
	`, r.tables.Departments)

	var dept models.Department
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, name, parentID).Scan(
		&dept.ID,
		&dept.Name,
		&dept.ParentID,
		&dept.RootFolderID,
		&dept.CreatedAt,
		&dept.UpdatedAt,
	)

	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("department '%s': %w", name, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get department by name: %w", err)
	}

	return &dept, nil
}

// List retrieves all departments
func (r *PostgresDepartmentRepository) List(ctx context.Context) ([]models.Department, error) {
	query := fmt.Sprintf(`
		SELECT id, name, parent_id, root_folder_id, created_at, updated_at
		FROM %s
		ORDER BY name
	`, r.tables.Departments)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list departments: %w", err)
	}
	defer rows.Close()

	return scanDepartments(rows)
}

// ListChildren retrieves immediate sub-departments
func (r *PostgresDepartmentRepository) ListChildren(ctx context.Context, parentID string) ([]models.Department, error) {
	query := fmt.Sprintf(`
		SELECT id, name, parent_id, root_folder_id, created_at, updated_at
		FROM %s
		WHERE parent_id = $1
		ORDER BY name
	`, r.tables.Departments)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, parentID)
	if err != nil {
		return nil, fmt.Errorf("list sub-departments: %w", err)
	}
	defer rows.Close()

	return scanDepartments(rows)
}

// HasMembers reports whether any user belongs to the department
func (r *PostgresDepartmentRepository) HasMembers(ctx context.Context, id string) (bool, error) {
	query := fmt.Sprintf(`
		SELECT EXISTS (SELECT 1 FROM %s WHERE department_id = $1)
	`, r.tables.Users)

	var exists bool
	executor := GetExecutor(ctx, r.pool)
	if err := executor.QueryRow(ctx, query, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("check department members: %w", err)
	}

	return exists, nil
}

// Update updates a department
func (r *PostgresDepartmentRepository) Update(ctx context.Context, dept *models.Department) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET name = $2, parent_id = $3, root_folder_id = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`, r.tables.Departments)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		dept.ID,
		dept.Name,
		dept.ParentID,
		dept.RootFolderID,
	).Scan(&dept.UpdatedAt)

	if err != nil {
		if IsPgNoRowsError(err) {
			return fmt.Errorf("department %s: %w", dept.ID, domain.ErrNotFound)
		}
		if IsPgDuplicateError(err) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("department '%s' already exists", dept.Name),
				ResourceType: "department",
			}
		}
		return fmt.Errorf("update department: %w", err)
	}

	return nil
}

// Delete deletes a department
func (r *PostgresDepartmentRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.tables.Departments)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete department: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("department %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

func scanDepartments(rows pgx.Rows) ([]models.Department, error) {
	var depts []models.Department
	for rows.Next() {
		var dept models.Department
		if err := rows.Scan(
			&dept.ID,
			&dept.Name,
			&dept.ParentID,
			&dept.RootFolderID,
			&dept.CreatedAt,
			&dept.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan department: %w", err)
		}
		depts = append(depts, dept)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate departments: %w", err)
	}

	return depts, nil
}
