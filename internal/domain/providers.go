package domain

import "context"

// Embedder is the shared text vectorization contract between layers.
type Embedder interface {
	Embed(ctx context.Context, text string) (EmbeddingResult, error)
}

// EmbeddingResult carries the embedding vector and token usage through the
// decorator chain.
type EmbeddingResult struct {
	Embedding    []float32
	PromptTokens int
	TotalTokens  int
}

// HealthChecker verifies provider availability.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Generator produces short free text (facts, summaries). Failure here is
// always non-fatal: callers proceed with empty output.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// WebSearchHit is a single web search result.
type WebSearchHit struct {
	Title   string
	URL     string
	Snippet string
}

// WebSearcher is the external web search capability.
type WebSearcher interface {
	Search(ctx context.Context, query string, maxResults int) ([]WebSearchHit, error)
}

// PageFetcher retrieves raw HTML for a URL. Implementations apply their own
// per-fetch timeout.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}
