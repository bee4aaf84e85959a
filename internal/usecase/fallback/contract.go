package fallback

import (
	"context"

	"github.com/culinara-ai/culinara/internal/domain"
)

// Searcher finds candidate pages on the web.
type Searcher interface {
	Search(ctx context.Context, query string, maxResults int) ([]domain.WebSearchHit, error)
}

// Fetcher downloads a page's HTML.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}
