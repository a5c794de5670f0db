package repositories

import (
	"context"

	"nugget/internal/domain/models"
)

// LinkRepository defines data access operations for bookmark-folder links
type LinkRepository interface {
	// Create inserts a new link. Returns domain.ErrConflict if the
	// (bookmark_id, folder_id) pair already exists.
	Create(ctx context.Context, link *models.BookmarkFolderLink) error

	// CountByBookmark returns the number of links a bookmark has
	CountByBookmark(ctx context.Context, bookmarkID string) (int, error)

	// ListFolderIDsByBookmark returns the folder ids a bookmark is linked to
	ListFolderIDsByBookmark(ctx context.Context, bookmarkID string) ([]string, error)

	// Delete removes a single link. Returns domain.ErrNotFound if the link
	// does not exist for this user.
	Delete(ctx context.Context, userID, bookmarkID, folderID string) error

	// DeleteByFolder removes all links referencing a folder
	DeleteByFolder(ctx context.Context, folderID string) error

	// DeleteByBookmark removes all links referencing a bookmark
	DeleteByBookmark(ctx context.Context, bookmarkID string) error
}
