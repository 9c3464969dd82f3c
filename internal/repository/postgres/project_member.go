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

// PostgresProjectMemberRepository implements the ProjectMemberRepository interface
type PostgresProjectMemberRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewProjectMemberRepository creates a new project member repository
func NewProjectMemberRepository(config *RepositoryConfig) repositories.ProjectMemberRepository {
	return &PostgresProjectMemberRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

const projectMemberColumns = `id, project_id, user_id, role, created_at, updated_at`

// Add adds a member to a project
func (r *PostgresProjectMemberRepository) Add(ctx context.Context, member *models.ProjectMember) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, project_id, user_id, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`, r.tables.ProjectMembers)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		member.ID,
		member.ProjectID,
		member.UserID,
		member.Role,
		member.CreatedAt,
		member.UpdatedAt,
	).Scan(&member.CreatedAt, &member.UpdatedAt)

	if err != nil {
		if IsPgDuplicateError(err) {
			return &domain.ConflictError{
				Message:      "user is already a project member",
				ResourceType: "project_member",
			}
		}
		return fmt.Errorf("add project member: %w", err)
	}

	return nil
}

// Get retrieves a project membership
func (r *PostgresProjectMemberRepository) Get(ctx context.Context, projectID, userID string) (*models.ProjectMember, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s WHERE project_id = $1 AND user_id = $2
	`, projectMemberColumns, r.tables.ProjectMembers)

	executor := GetExecutor(ctx, r.pool)
	member, err := scanProjectMember(executor.QueryRow(ctx, query, projectID, userID))
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("membership for user %s: %w", userID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get project member: %w", err)
	}

	return member, nil
}

// ListByProject retrieves all members of a project
func (r *PostgresProjectMemberRepository) ListByProject(ctx context.Context, projectID string) ([]models.ProjectMember, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s WHERE project_id = $1 ORDER BY created_at
	`, projectMemberColumns, r.tables.ProjectMembers)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("list project members: %w", err)
	}
	defer rows.Close()

	return scanProjectMembers(rows)
}

// ListByUser retrieves all memberships held by a user
func (r *PostgresProjectMemberRepository) ListByUser(ctx context.Context, userID string) ([]models.ProjectMember, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s WHERE user_id = $1 ORDER BY created_at
	`, projectMemberColumns, r.tables.ProjectMembers)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list memberships: %w", err)
	}
	defer rows.Close()

	return scanProjectMembers(rows)
}

// Update updates a membership's role
func (r *PostgresProjectMemberRepository) Update(ctx context.Context, member *models.ProjectMember) error {
	query := fmt.Sprintf(`
		UPDATE %s SET role = $3, updated_at = NOW()
		WHERE project_id = $1 AND user_id = $2
		RETURNING updated_at
	`, r.tables.ProjectMembers)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, member.ProjectID, member.UserID, member.Role).Scan(&member.UpdatedAt)
	if err != nil {
		if IsPgNoRowsError(err) {
			return fmt.Errorf("membership for user %s: %w", member.UserID, domain.ErrNotFound)
		}
		return fmt.Errorf("update project member: %w", err)
	}

	return nil
}

// Remove removes a member from a project
func (r *PostgresProjectMemberRepository) Remove(ctx context.Context, projectID, userID string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE project_id = $1 AND user_id = $2`, r.tables.ProjectMembers)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, projectID, userID)
	if err != nil {
		return fmt.Errorf("remove project member: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("membership for user %s: %w", userID, domain.ErrNotFound)
	}

	return nil
}

func scanProjectMember(row pgx.Row) (*models.ProjectMember, error) {
	var member models.ProjectMember
	err := row.Scan(
		&member.ID,
		&member.ProjectID,
		&member.UserID,
		&member.Role,
		&member.CreatedAt,
		&member.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &member, nil
}

func scanProjectMembers(rows pgx.Rows) ([]models.ProjectMember, error) {
	var members []models.ProjectMember
	for rows.Next() {
		member, err := scanProjectMember(rows)
		if err != nil {
			return nil, fmt.Errorf("scan project member: %w", err)
		}
		members = append(members, *member)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate project members: %w", err)
	}

	return members, nil
}
