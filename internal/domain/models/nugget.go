package models

import "time"

// Nugget kinds. Only video nuggets go through the AI summary pipeline.
const (
	NuggetKindArticle = "article"
	NuggetKindLink    = "link"
	NuggetKindVideo   = "video"
)

// Nugget is a saved content item (article, link or video). Nuggets are
// shared content - per-user state lives on Bookmark, not here.
type Nugget struct {
	ID        string    `json:"id" db:"id"`
	URL       string    `json:"url" db:"url"`
	Title     string    `json:"title" db:"title"`
	Kind      string    `json:"kind" db:"kind"`
	Summary   *string   `json:"summary,omitempty" db:"summary"` // NULL until a draft is generated
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
