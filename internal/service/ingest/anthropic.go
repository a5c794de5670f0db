package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"nugget/internal/domain"
)

const summarySystemPrompt = `You summarize video transcripts for a bookmarking app. ` +
	`Write a concise summary (3-5 sentences) of the video's main points. ` +
	`Do not mention that you are working from a transcript.`

// AnthropicSummarizer drafts summaries with the Anthropic Messages API,
// rotating through the keyring when a key is rate limited or rejected.
type AnthropicSummarizer struct {
	keyring  *Keyring
	registry *CapabilityRegistry
	logger   *slog.Logger
}

// NewAnthropicSummarizer creates an Anthropic-backed summarizer
func NewAnthropicSummarizer(keyring *Keyring, registry *CapabilityRegistry, logger *slog.Logger) *AnthropicSummarizer {
	return &AnthropicSummarizer{
		keyring:  keyring,
		registry: registry,
		logger:   logger,
	}
}

// Summarize drafts a summary for the given transcript. Each attempt uses
// the next key in the ring; attempts stop at the first non-rotatable
// error or once every key has been tried.
func (s *AnthropicSummarizer) Summarize(ctx context.Context, req *SummarizeRequest) (string, error) {
	model := req.Model
	if model == "" {
		model = s.registry.DefaultModel()
	}
	caps, err := s.registry.Lookup(model)
	if err != nil {
		// Model comes from the request body, so an unknown id is the
		// caller's mistake, not a server fault.
		return "", fmt.Errorf("unknown summary model %q: %w", model, domain.ErrValidation)
	}

	prompt := fmt.Sprintf("Video title: %s\n\nTranscript:\n%s", req.Title, req.Transcript)

	var lastErr error
	for attempt := 0; attempt < s.keyring.Len(); attempt++ {
		client := anthropic.NewClient(option.WithAPIKey(s.keyring.Next()))

		message, err := client.Messages.New(ctx, anthropic.MessageNewParams{
			Model:     anthropic.Model(caps.ID),
			MaxTokens: int64(caps.MaxTokens),
			System: []anthropic.TextBlockParam{
				{Type: "text", Text: summarySystemPrompt},
			},
			Messages: []anthropic.MessageParam{
				anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
			},
		})
		if err != nil {
			lastErr = err
			if shouldRotateKey(err) {
				s.logger.Warn("summarization key rejected, rotating", "attempt", attempt+1, "error", err)
				continue
			}
			return "", fmt.Errorf("anthropic API call failed: %w", err)
		}

		return extractText(message)
	}

	return "", fmt.Errorf("all %d API keys exhausted: %w", s.keyring.Len(), lastErr)
}

// shouldRotateKey reports whether the error indicates a per-key problem
// (rate limit, revoked or over-quota key) that the next key might not have.
func shouldRotateKey(err error) bool {
	var apierr *anthropic.Error
	if errors.As(err, &apierr) {
		switch apierr.StatusCode {
		case 401, 403, 429, 529:
			return true
		}
	}
	return false
}

// extractText concatenates the text blocks of a response
func extractText(msg *anthropic.Message) (string, error) {
	var b strings.Builder
	for _, content := range msg.Content {
		if content.Type == "text" {
			b.WriteString(content.Text)
		}
	}
	if b.Len() == 0 {
		return "", errors.New("empty response from provider")
	}
	return b.String(), nil
}
