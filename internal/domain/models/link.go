package models

import "time"

// BookmarkFolderLink associates a bookmark with a folder. The
// (BookmarkID, FolderID) pair is unique; duplicate adds are no-ops.
// UserID is denormalized onto the link for defense-in-depth ownership
// checks.
type BookmarkFolderLink struct {
	ID         string    `json:"id" db:"id"`
	UserID     string    `json:"user_id" db:"user_id"`
	BookmarkID string    `json:"bookmark_id" db:"bookmark_id"`
	FolderID   string    `json:"folder_id" db:"folder_id"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}
