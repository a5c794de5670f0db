package repositories

import (
	"context"

	"nugget/internal/domain/models"
)

// FolderRepository defines data access operations for bookmark folders
type FolderRepository interface {
	// Create inserts a new folder. Returns domain.ErrConflict if the user
	// already has a folder with the same name (case-insensitive), or a
	// default folder when folder.IsDefault is set.
	Create(ctx context.Context, folder *models.BookmarkFolder) error

	// GetByID retrieves a folder by ID, scoped to the owning user
	GetByID(ctx context.Context, id, userID string) (*models.BookmarkFolder, error)

	// GetDefault retrieves the user's default folder
	GetDefault(ctx context.Context, userID string) (*models.BookmarkFolder, error)

	// GetByName retrieves a folder by name, compared case-insensitively
	GetByName(ctx context.Context, userID, name string) (*models.BookmarkFolder, error)

	// List returns all folders for a user, ordered by sort order ascending
	// with creation time as the tiebreak.
	List(ctx context.Context, userID string) ([]models.BookmarkFolder, error)

	// MaxOrder returns the highest sort order among the user's folders,
	// or -1 if the user has none.
	MaxOrder(ctx context.Context, userID string) (int, error)

	// Rename updates a folder's name. Returns domain.ErrConflict on a
	// case-insensitive name collision.
	Rename(ctx context.Context, id, userID, name string) error

	// Delete removes a folder. Folder links must be removed first.
	Delete(ctx context.Context, id, userID string) error
}
