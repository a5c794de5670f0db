package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"nugget/internal/domain"
	"nugget/internal/domain/models"
	"nugget/internal/domain/repositories"
)

// PostgresBookmarkRepository implements the BookmarkRepository interface
type PostgresBookmarkRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewBookmarkRepository creates a new bookmark repository
func NewBookmarkRepository(config *RepositoryConfig) repositories.BookmarkRepository {
	return &PostgresBookmarkRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Create inserts a new bookmark. The unique index on (user_id, nugget_id)
// makes concurrent get-or-create race losers surface as ErrConflict.
func (r *PostgresBookmarkRepository) Create(ctx context.Context, bookmark *models.Bookmark) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (user_id, nugget_id)
		VALUES ($1, $2)
		RETURNING id, created_at
	`, r.tables.Bookmarks)

	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query,
		bookmark.UserID,
		bookmark.NuggetID,
	).Scan(&bookmark.ID, &bookmark.CreatedAt)

	if err != nil {
		if isPgDuplicateError(err) {
			return fmt.Errorf("bookmark for nugget %s: %w", bookmark.NuggetID, domain.ErrConflict)
		}
		return fmt.Errorf("create bookmark: %w", err)
	}

	return nil
}

// GetByID retrieves a bookmark by ID, scoped to the owning user
func (r *PostgresBookmarkRepository) GetByID(ctx context.Context, id, userID string) (*models.Bookmark, error) {
	query := fmt.Sprintf(`
		SELECT id, user_id, nugget_id, created_at
		FROM %s
		WHERE id = $1 AND user_id = $2
	`, r.tables.Bookmarks)

	var bookmark models.Bookmark
	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query, id, userID).Scan(
		&bookmark.ID,
		&bookmark.UserID,
		&bookmark.NuggetID,
		&bookmark.CreatedAt,
	)

	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("bookmark %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get bookmark: %w", err)
	}

	return &bookmark, nil
}

// GetByUserAndNugget retrieves the user's bookmark for a nugget
func (r *PostgresBookmarkRepository) GetByUserAndNugget(ctx context.Context, userID, nuggetID string) (*models.Bookmark, error) {
	query := fmt.Sprintf(`
		SELECT id, user_id, nugget_id, created_at
		FROM %s
		WHERE user_id = $1 AND nugget_id = $2
	`, r.tables.Bookmarks)

	var bookmark models.Bookmark
	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query, userID, nuggetID).Scan(
		&bookmark.ID,
		&bookmark.UserID,
		&bookmark.NuggetID,
		&bookmark.CreatedAt,
	)

	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("bookmark for nugget %s: %w", nuggetID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get bookmark by nugget: %w", err)
	}

	return &bookmark, nil
}

// Delete removes a bookmark
func (r *PostgresBookmarkRepository) Delete(ctx context.Context, id, userID string) error {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE id = $1 AND user_id = $2
	`, r.tables.Bookmarks)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query, id, userID)
	if err != nil {
		if isPgForeignKeyError(err) {
			return fmt.Errorf("bookmark still referenced by links: %w", domain.ErrConflict)
		}
		return fmt.Errorf("delete bookmark: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("bookmark %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// ListNuggetIDsByFolder returns the nugget ids of bookmarks explicitly
// linked to the folder
func (r *PostgresBookmarkRepository) ListNuggetIDsByFolder(ctx context.Context, userID, folderID string) ([]string, error) {
	query := fmt.Sprintf(`
		SELECT b.nugget_id
		FROM %s b
		JOIN %s l ON l.bookmark_id = b.id
		WHERE b.user_id = $1 AND l.folder_id = $2
		ORDER BY b.created_at DESC
	`, r.tables.Bookmarks, r.tables.Links)

	return r.scanNuggetIDs(ctx, query, userID, folderID)
}

// ListNuggetIDsForDefault returns the nugget ids of bookmarks linked to the
// default folder, plus bookmarks with no links at all. Zero-link rows are
// legacy data predating the folder feature; they display as part of the
// default folder without being materialized as links.
func (r *PostgresBookmarkRepository) ListNuggetIDsForDefault(ctx context.Context, userID, defaultFolderID string) ([]string, error) {
	query := fmt.Sprintf(`
		SELECT b.nugget_id
		FROM %s b
		WHERE b.user_id = $1
		  AND (
			EXISTS (SELECT 1 FROM %s l WHERE l.bookmark_id = b.id AND l.folder_id = $2)
			OR NOT EXISTS (SELECT 1 FROM %s l WHERE l.bookmark_id = b.id)
		  )
		ORDER BY b.created_at DESC
	`, r.tables.Bookmarks, r.tables.Links, r.tables.Links)

	return r.scanNuggetIDs(ctx, query, userID, defaultFolderID)
}

func (r *PostgresBookmarkRepository) scanNuggetIDs(ctx context.Context, query string, args ...interface{}) ([]string, error) {
	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list bookmarks: %w", err)
	}
	defer rows.Close()

	var nuggetIDs []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan nugget id: %w", err)
		}
		nuggetIDs = append(nuggetIDs, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bookmarks: %w", err)
	}

	return nuggetIDs, nil
}
