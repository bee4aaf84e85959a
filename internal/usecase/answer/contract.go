package answer

import (
	"context"

	"github.com/culinara-ai/culinara/internal/domain"
	"github.com/culinara-ai/culinara/internal/domain/terms"
	"github.com/culinara-ai/culinara/internal/usecase/fallback"
)

// Retriever runs vector similarity search over the recipe corpus.
type Retriever interface {
	SearchSimilar(ctx context.Context, vector []float32, k int) ([]domain.Candidate, error)
}

// Embedder vectorizes the query text.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

// FallbackRunner executes the web search-and-extract pipeline.
type FallbackRunner interface {
	Run(ctx context.Context, query string) (fallback.Outcome, error)
}

// Generator produces short conversational text. Optional; may be nil.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Ranker applies the re-ranking heuristics to retrieval candidates.
type Ranker interface {
	Rank(ts terms.TermSet, prefs domain.Preferences, protein string, candidates []domain.Candidate) []domain.Candidate
}
