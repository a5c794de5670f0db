package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"nugget/internal/domain"
	"nugget/internal/domain/models"
	"nugget/internal/domain/repositories"
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

// Create inserts a new folder. A unique index on (user_id, lower(name))
// backs the case-insensitive name constraint, and a partial unique index
// on (user_id) WHERE is_default guarantees a single default folder even
// under concurrent creation.
func (r *PostgresFolderRepository) Create(ctx context.Context, folder *models.BookmarkFolder) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (user_id, name, sort_order, is_default)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, r.tables.Folders)

	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query,
		folder.UserID,
		folder.Name,
		folder.Order,
		folder.IsDefault,
	).Scan(&folder.ID, &folder.CreatedAt)

	if err != nil {
		if isPgDuplicateError(err) {
			return fmt.Errorf("folder %q: %w", folder.Name, domain.ErrConflict)
		}
		return fmt.Errorf("create folder: %w", err)
	}

	return nil
}

// GetByID retrieves a folder by ID, scoped to the owning user
func (r *PostgresFolderRepository) GetByID(ctx context.Context, id, userID string) (*models.BookmarkFolder, error) {
	query := fmt.Sprintf(`
		SELECT id, user_id, name, sort_order, is_default, created_at
		FROM %s
		WHERE id = $1 AND user_id = $2
	`, r.tables.Folders)

	return r.scanOne(GetExecutor(ctx, r.pool).QueryRow(ctx, query, id, userID), id)
}

// GetDefault retrieves the user's default folder
func (r *PostgresFolderRepository) GetDefault(ctx context.Context, userID string) (*models.BookmarkFolder, error) {
	query := fmt.Sprintf(`
		SELECT id, user_id, name, sort_order, is_default, created_at
		FROM %s
		WHERE user_id = $1 AND is_default
	`, r.tables.Folders)

	return r.scanOne(GetExecutor(ctx, r.pool).QueryRow(ctx, query, userID), "default")
}

// GetByName retrieves a folder by name, compared case-insensitively
func (r *PostgresFolderRepository) GetByName(ctx context.Context, userID, name string) (*models.BookmarkFolder, error) {
	query := fmt.Sprintf(`
		SELECT id, user_id, name, sort_order, is_default, created_at
		FROM %s
		WHERE user_id = $1 AND lower(name) = lower($2)
	`, r.tables.Folders)

	return r.scanOne(GetExecutor(ctx, r.pool).QueryRow(ctx, query, userID, name), name)
}

// List returns all folders for a user, ordered by sort order ascending
// with creation time as the tiebreak
func (r *PostgresFolderRepository) List(ctx context.Context, userID string) ([]models.BookmarkFolder, error) {
	query := fmt.Sprintf(`
		SELECT id, user_id, name, sort_order, is_default, created_at
		FROM %s
		WHERE user_id = $1
		ORDER BY sort_order ASC, created_at ASC
	`, r.tables.Folders)

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list folders: %w", err)
	}
	defer rows.Close()

	var folders []models.BookmarkFolder
	for rows.Next() {
		var folder models.BookmarkFolder
		err := rows.Scan(
			&folder.ID,
			&folder.UserID,
			&folder.Name,
			&folder.Order,
			&folder.IsDefault,
			&folder.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan folder: %w", err)
		}
		folders = append(folders, folder)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate folders: %w", err)
	}

	return folders, nil
}

// MaxOrder returns the highest sort order among the user's folders, or -1
// if the user has none
func (r *PostgresFolderRepository) MaxOrder(ctx context.Context, userID string) (int, error) {
	query := fmt.Sprintf(`
		SELECT COALESCE(MAX(sort_order), -1)
		FROM %s
		WHERE user_id = $1
	`, r.tables.Folders)

	var max int
	if err := GetExecutor(ctx, r.pool).QueryRow(ctx, query, userID).Scan(&max); err != nil {
		return 0, fmt.Errorf("max folder order: %w", err)
	}

	return max, nil
}

// Rename updates a folder's name
func (r *PostgresFolderRepository) Rename(ctx context.Context, id, userID, name string) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET name = $1
		WHERE id = $2 AND user_id = $3
	`, r.tables.Folders)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query, name, id, userID)
	if err != nil {
		if isPgDuplicateError(err) {
			return fmt.Errorf("folder %q: %w", name, domain.ErrConflict)
		}
		return fmt.Errorf("rename folder: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// Delete removes a folder
func (r *PostgresFolderRepository) Delete(ctx context.Context, id, userID string) error {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE id = $1 AND user_id = $2
	`, r.tables.Folders)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query, id, userID)
	if err != nil {
		if isPgForeignKeyError(err) {
			return fmt.Errorf("folder still referenced by links: %w", domain.ErrConflict)
		}
		return fmt.Errorf("delete folder: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

func (r *PostgresFolderRepository) scanOne(row interface{ Scan(dest ...any) error }, ref string) (*models.BookmarkFolder, error) {
	var folder models.BookmarkFolder
	err := row.Scan(
		&folder.ID,
		&folder.UserID,
		&folder.Name,
		&folder.Order,
		&folder.IsDefault,
		&folder.CreatedAt,
	)

	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("folder %s: %w", ref, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get folder: %w", err)
	}

	return &folder, nil
}
