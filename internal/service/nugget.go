package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"nugget/internal/config"
	"nugget/internal/domain"
	"nugget/internal/domain/models"
	"nugget/internal/domain/repositories"
)

// CreateNuggetRequest is the payload for registering a content item
type CreateNuggetRequest struct {
	URL   string `json:"url"`
	Title string `json:"title"`
	Kind  string `json:"kind"`
}

// Validate implements request validation
func (r CreateNuggetRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.URL, validation.Required, validation.Length(1, config.MaxNuggetURLLength)),
		validation.Field(&r.Title, validation.Required, validation.Length(1, config.MaxNuggetTitleLength)),
		validation.Field(&r.Kind, validation.Required, validation.In(
			models.NuggetKindArticle, models.NuggetKindLink, models.NuggetKindVideo,
		)),
	)
}

// NuggetService implements content-item registration and lookup. Nuggets
// are shared rows - bookmarking, not creation, is what ties one to a user.
type NuggetService struct {
	nuggetRepo repositories.NuggetRepository
	logger     *slog.Logger
}

// NewNuggetService creates a new nugget service
func NewNuggetService(nuggetRepo repositories.NuggetRepository, logger *slog.Logger) *NuggetService {
	return &NuggetService{
		nuggetRepo: nuggetRepo,
		logger:     logger,
	}
}

// CreateNugget registers a content item. Submitting a URL that is already
// registered resolves to the existing nugget instead of failing.
func (s *NuggetService) CreateNugget(ctx context.Context, req *CreateNuggetRequest) (*models.Nugget, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	nugget := &models.Nugget{
		ID:    uuid.NewString(),
		URL:   req.URL,
		Title: req.Title,
		Kind:  req.Kind,
	}
	err := s.nuggetRepo.Create(ctx, nugget)
	if err == nil {
		s.logger.Info("nugget created", "nugget_id", nugget.ID, "kind", nugget.Kind)
		return nugget, nil
	}
	if !errors.Is(err, domain.ErrConflict) {
		return nil, err
	}

	existing, err := s.nuggetRepo.GetByURL(ctx, req.URL)
	if err != nil {
		return nil, fmt.Errorf("refetch nugget: %w", err)
	}
	return existing, nil
}

// GetNugget retrieves a nugget by ID
func (s *NuggetService) GetNugget(ctx context.Context, id string) (*models.Nugget, error) {
	return s.nuggetRepo.GetByID(ctx, id)
}
