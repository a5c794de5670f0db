package repositories

import (
	"context"

	"nugget/internal/domain/models"
)

// NuggetRepository defines data access operations for nuggets
type NuggetRepository interface {
	// Create inserts a new nugget. Returns domain.ErrConflict if a nugget
	// with the same URL already exists.
	Create(ctx context.Context, nugget *models.Nugget) error

	// GetByID retrieves a nugget by ID
	GetByID(ctx context.Context, id string) (*models.Nugget, error)

	// GetByURL retrieves a nugget by its URL
	GetByURL(ctx context.Context, url string) (*models.Nugget, error)

	// SetSummary stores a drafted summary on a nugget
	SetSummary(ctx context.Context, id, summary string) error
}
