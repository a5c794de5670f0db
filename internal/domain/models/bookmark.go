package models

import "time"

// Bookmark records that a user saved a nugget. The (UserID, NuggetID)
// pair is unique - saving the same nugget twice resolves to the same row.
type Bookmark struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"user_id" db:"user_id"`
	NuggetID  string    `json:"nugget_id" db:"nugget_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
