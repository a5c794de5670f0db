package ingest

import (
	"context"
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"nugget/internal/config"
	"nugget/internal/domain"
	"nugget/internal/domain/models"
	"nugget/internal/domain/repositories"
)

// DraftSummaryRequest is the payload for drafting a nugget summary
type DraftSummaryRequest struct {
	Transcript string `json:"transcript"`
	Model      string `json:"model,omitempty"`
}

// Validate implements request validation
func (r DraftSummaryRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Transcript, validation.Required, validation.Length(1, config.MaxTranscriptLength)),
	)
}

// Service drafts AI summaries for video nuggets and stores them. The call
// is synchronous - the handler waits for the provider response.
type Service struct {
	nuggetRepo repositories.NuggetRepository
	summarizer Summarizer
	logger     *slog.Logger
}

// NewService creates a new ingestion service
func NewService(nuggetRepo repositories.NuggetRepository, summarizer Summarizer, logger *slog.Logger) *Service {
	return &Service{
		nuggetRepo: nuggetRepo,
		summarizer: summarizer,
		logger:     logger,
	}
}

// DraftSummary generates a summary draft for a video nugget from its
// transcript and persists it. Non-video nuggets are rejected - articles
// and links have no transcript to summarize.
func (s *Service) DraftSummary(ctx context.Context, nuggetID string, req *DraftSummaryRequest) (*models.Nugget, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	nugget, err := s.nuggetRepo.GetByID(ctx, nuggetID)
	if err != nil {
		return nil, err
	}
	if nugget.Kind != models.NuggetKindVideo {
		return nil, fmt.Errorf("summaries can only be drafted for video nuggets: %w", domain.ErrValidation)
	}

	summary, err := s.summarizer.Summarize(ctx, &SummarizeRequest{
		Model:      req.Model,
		Title:      nugget.Title,
		Transcript: req.Transcript,
	})
	if err != nil {
		return nil, fmt.Errorf("draft summary: %w", err)
	}

	if err := s.nuggetRepo.SetSummary(ctx, nuggetID, summary); err != nil {
		return nil, err
	}

	s.logger.Info("summary drafted", "nugget_id", nuggetID, "summary_chars", len(summary))
	nugget.Summary = &summary
	return nugget, nil
}
