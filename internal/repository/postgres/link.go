package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"nugget/internal/domain"
	"nugget/internal/domain/models"
	"nugget/internal/domain/repositories"
)

// PostgresLinkRepository implements the LinkRepository interface
type PostgresLinkRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewLinkRepository creates a new bookmark-folder link repository
func NewLinkRepository(config *RepositoryConfig) repositories.LinkRepository {
	return &PostgresLinkRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Create inserts a new link. The unique index on (bookmark_id, folder_id)
// surfaces duplicate adds as ErrConflict, which callers treat as a no-op.
func (r *PostgresLinkRepository) Create(ctx context.Context, link *models.BookmarkFolderLink) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (user_id, bookmark_id, folder_id)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, r.tables.Links)

	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query,
		link.UserID,
		link.BookmarkID,
		link.FolderID,
	).Scan(&link.ID, &link.CreatedAt)

	if err != nil {
		if isPgDuplicateError(err) {
			return fmt.Errorf("link %s -> %s: %w", link.BookmarkID, link.FolderID, domain.ErrConflict)
		}
		return fmt.Errorf("create link: %w", err)
	}

	return nil
}

// CountByBookmark returns the number of links a bookmark has
func (r *PostgresLinkRepository) CountByBookmark(ctx context.Context, bookmarkID string) (int, error) {
	query := fmt.Sprintf(`
		SELECT COUNT(*)
		FROM %s
		WHERE bookmark_id = $1
	`, r.tables.Links)

	var count int
	if err := GetExecutor(ctx, r.pool).QueryRow(ctx, query, bookmarkID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count links: %w", err)
	}

	return count, nil
}

// ListFolderIDsByBookmark returns the folder ids a bookmark is linked to
func (r *PostgresLinkRepository) ListFolderIDsByBookmark(ctx context.Context, bookmarkID string) ([]string, error) {
	query := fmt.Sprintf(`
		SELECT folder_id
		FROM %s
		WHERE bookmark_id = $1
		ORDER BY created_at ASC
	`, r.tables.Links)

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, bookmarkID)
	if err != nil {
		return nil, fmt.Errorf("list link folders: %w", err)
	}
	defer rows.Close()

	var folderIDs []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan folder id: %w", err)
		}
		folderIDs = append(folderIDs, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate links: %w", err)
	}

	return folderIDs, nil
}

// Delete removes a single link
func (r *PostgresLinkRepository) Delete(ctx context.Context, userID, bookmarkID, folderID string) error {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE user_id = $1 AND bookmark_id = $2 AND folder_id = $3
	`, r.tables.Links)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query, userID, bookmarkID, folderID)
	if err != nil {
		return fmt.Errorf("delete link: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("link %s -> %s: %w", bookmarkID, folderID, domain.ErrNotFound)
	}

	return nil
}

// DeleteByFolder removes all links referencing a folder
func (r *PostgresLinkRepository) DeleteByFolder(ctx context.Context, folderID string) error {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE folder_id = $1
	`, r.tables.Links)

	if _, err := GetExecutor(ctx, r.pool).Exec(ctx, query, folderID); err != nil {
		return fmt.Errorf("delete links by folder: %w", err)
	}

	return nil
}

// DeleteByBookmark removes all links referencing a bookmark
func (r *PostgresLinkRepository) DeleteByBookmark(ctx context.Context, bookmarkID string) error {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE bookmark_id = $1
	`, r.tables.Links)

	if _, err := GetExecutor(ctx, r.pool).Exec(ctx, query, bookmarkID); err != nil {
		return fmt.Errorf("delete links by bookmark: %w", err)
	}

	return nil
}
