package models

import "time"

// DefaultFolderName is the name of the per-user fallback folder. Exactly
// one folder per user carries IsDefault, and it can never be renamed or
// deleted.
const DefaultFolderName = "General"

// BookmarkFolder is a named, user-owned grouping of bookmarks. Folder
// names are unique per user, compared case-insensitively.
type BookmarkFolder struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"user_id" db:"user_id"`
	Name      string    `json:"name" db:"name"`
	Order     int       `json:"order" db:"sort_order"`
	IsDefault bool      `json:"is_default" db:"is_default"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
