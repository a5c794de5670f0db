package ingest

import "context"

// SummarizeRequest carries everything a provider needs to draft a summary
// for a video nugget.
type SummarizeRequest struct {
	Model      string // empty = provider default
	Title      string
	Transcript string
}

// Summarizer drafts a nugget summary from a transcript via an external
// LLM provider.
type Summarizer interface {
	Summarize(ctx context.Context, req *SummarizeRequest) (string, error)
}
