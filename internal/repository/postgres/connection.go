package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"nugget/internal/domain/repositories"
)

// RepositoryConfig holds configuration for repository implementations
type RepositoryConfig struct {
	Pool   *pgxpool.Pool
	Tables *TableNames
	Logger *slog.Logger
}

// TableNames holds dynamically prefixed table names
type TableNames struct {
	Nuggets   string
	Bookmarks string
	Folders   string
	Links     string
}

// NewTableNames creates table names with the given prefix
func NewTableNames(prefix string) *TableNames {
	return &TableNames{
		Nuggets:   fmt.Sprintf("%snuggets", prefix),
		Bookmarks: fmt.Sprintf("%sbookmarks", prefix),
		Folders:   fmt.Sprintf("%sbookmark_folders", prefix),
		Links:     fmt.Sprintf("%sbookmark_folder_links", prefix),
	}
}

// CreateConnectionPool creates a new pgx connection pool.
//
// The fmt.Sprintf interpolation of table prefixes (dev_, test_, prod_) into
// SQL strings is safe with prepared statements because the SQL text is fixed
// before it reaches the database; each environment simply gets its own set
// of statements.
//
// Port 6543 is Supabase's transaction pooler (PgBouncer), which does not
// support prepared statements. QueryExecModeCacheDescribe caches statement
// descriptions instead of prepared statements and stays compatible with it,
// while still using the extended protocol. An explicit
// default_query_exec_mode in the connection string takes precedence.
func CreateConnectionPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w", err)
	}

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

	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

// GetExecutor returns the appropriate query executor for the context.
// If a transaction is present in the context, it returns the transaction;
// otherwise the pool. This lets repositories automatically participate in
// transactions when one exists.
func GetExecutor(ctx context.Context, pool *pgxpool.Pool) repositories.DBTX {
	if tx := repositories.GetTx(ctx); tx != nil {
		return tx
	}
	return pool
}
