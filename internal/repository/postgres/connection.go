package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"docspace/internal/domain/repositories"
)

// RepositoryConfig holds configuration for repository implementations
type RepositoryConfig struct {
	Pool   *pgxpool.Pool
	Tables *TableNames
	Logger *slog.Logger
}

// TableNames holds dynamically prefixed table names
type TableNames struct {
	Users          string
	Departments    string
	Folders        string
	Documents      string
	Collaborators  string
	Projects       string
	ProjectMembers string
}

// NewTableNames creates table names with the given prefix
func NewTableNames(prefix string) *TableNames {
	return &TableNames{
		Users:          fmt.Sprintf("%susers", prefix),
		Departments:    fmt.Sprintf("%sdepartments", prefix),
		Folders:        fmt.Sprintf("%sfolders", prefix),
		Documents:      fmt.Sprintf("%sdocuments", prefix),
		Collaborators:  fmt.Sprintf("%scollaborators", prefix),
		Projects:       fmt.Sprintf("%sprojects", prefix),
		ProjectMembers: fmt.Sprintf("%sproject_members", prefix),
	}
}

// CreateConnectionPool creates a new pgx connection pool with automatic PgBouncer compatibility.
//
// By default pgx uses prepared statements (QueryExecModeCacheStatement), which
// PgBouncer in transaction pooling mode does not support. When port 6543 is
// detected the pool switches to QueryExecModeCacheDescribe, which uses the
// extended protocol without server-side prepared statements. An explicit
// ?default_query_exec_mode= parameter in the connection string takes precedence.
//
// Note on dynamic table names: the fmt.Sprintf prefixing (dev_, test_, prod_)
// is interpolated before SQL is sent, so each environment gets its own
// statement cache entries.
func CreateConnectionPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w", err)
	}

	// Configure pool size
	config.MaxConns = 25
	config.MinConns = 5

	if config.ConnConfig.Port == 6543 && config.ConnConfig.DefaultQueryExecMode == pgx.QueryExecModeCacheStatement {
		config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeCacheDescribe
		slog.Debug("auto-configured cache_describe mode for PgBouncer compatibility", "port", 6543)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	// Test connection
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

// GetExecutor returns the appropriate query executor for the context.
// If a transaction is present in the context, it returns the transaction.
// Otherwise, it returns the provided pool.
// This enables repositories to automatically participate in transactions when they exist.
func GetExecutor(ctx context.Context, pool *pgxpool.Pool) repositories.DBTX {
	// Check if there's a transaction in the context
	if tx := repositories.GetTx(ctx); tx != nil {
		return tx
	}
	// No transaction, use the pool
	return pool
}
