package repositories

import (
	"context"

	"nugget/internal/domain/models"
)

// BookmarkRepository defines data access operations for bookmarks
type BookmarkRepository interface {
	// Create inserts a new bookmark. Returns domain.ErrConflict if the
	// (user_id, nugget_id) pair already exists.
	Create(ctx context.Context, bookmark *models.Bookmark) error

	// GetByID retrieves a bookmark by ID, scoped to the owning user
	GetByID(ctx context.Context, id, userID string) (*models.Bookmark, error)

	// GetByUserAndNugget retrieves the user's bookmark for a nugget
	GetByUserAndNugget(ctx context.Context, userID, nuggetID string) (*models.Bookmark, error)

	// Delete removes a bookmark. Folder links must be removed first.
	Delete(ctx context.Context, id, userID string) error

	// ListNuggetIDsByFolder returns the nugget ids of bookmarks explicitly
	// linked to the folder.
	ListNuggetIDsByFolder(ctx context.Context, userID, folderID string) ([]string, error)

	// ListNuggetIDsForDefault returns the nugget ids of bookmarks linked to
	// the default folder, plus bookmarks with no links at all (legacy rows
	// predating the folder feature).
	ListNuggetIDsForDefault(ctx context.Context, userID, defaultFolderID string) ([]string, error)
}
