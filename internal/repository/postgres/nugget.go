package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"nugget/internal/domain"
	"nugget/internal/domain/models"
	"nugget/internal/domain/repositories"
)

// PostgresNuggetRepository implements the NuggetRepository interface
type PostgresNuggetRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewNuggetRepository creates a new nugget repository
func NewNuggetRepository(config *RepositoryConfig) repositories.NuggetRepository {
	return &PostgresNuggetRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Create inserts a new nugget. The ID is generated by the caller so that
// ingestion can refer to the nugget before the insert lands.
func (r *PostgresNuggetRepository) Create(ctx context.Context, nugget *models.Nugget) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, url, title, kind)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`, r.tables.Nuggets)

	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query,
		nugget.ID,
		nugget.URL,
		nugget.Title,
		nugget.Kind,
	).Scan(&nugget.CreatedAt)

	if err != nil {
		if isPgDuplicateError(err) {
			return fmt.Errorf("nugget for url %q: %w", nugget.URL, domain.ErrConflict)
		}
		return fmt.Errorf("create nugget: %w", err)
	}

	return nil
}

// GetByID retrieves a nugget by ID
func (r *PostgresNuggetRepository) GetByID(ctx context.Context, id string) (*models.Nugget, error) {
	query := fmt.Sprintf(`
		SELECT id, url, title, kind, summary, created_at
		FROM %s
		WHERE id = $1
	`, r.tables.Nuggets)

	return r.scanOne(ctx, query, id)
}

// GetByURL retrieves a nugget by its URL
func (r *PostgresNuggetRepository) GetByURL(ctx context.Context, url string) (*models.Nugget, error) {
	query := fmt.Sprintf(`
		SELECT id, url, title, kind, summary, created_at
		FROM %s
		WHERE url = $1
	`, r.tables.Nuggets)

	return r.scanOne(ctx, query, url)
}

// SetSummary stores a drafted summary on a nugget
func (r *PostgresNuggetRepository) SetSummary(ctx context.Context, id, summary string) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET summary = $1
		WHERE id = $2
	`, r.tables.Nuggets)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query, summary, id)
	if err != nil {
		return fmt.Errorf("set nugget summary: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("nugget %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

func (r *PostgresNuggetRepository) scanOne(ctx context.Context, query string, arg interface{}) (*models.Nugget, error) {
	var nugget models.Nugget
	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query, arg).Scan(
		&nugget.ID,
		&nugget.URL,
		&nugget.Title,
		&nugget.Kind,
		&nugget.Summary,
		&nugget.CreatedAt,
	)

	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("nugget %v: %w", arg, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get nugget: %w", err)
	}

	return &nugget, nil
}
