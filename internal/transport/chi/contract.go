package chi

import (
	"context"

	"github.com/culinara-ai/culinara/internal/domain"
	"github.com/culinara-ai/culinara/internal/repository/corpus"
	healthuc "github.com/culinara-ai/culinara/internal/usecase/health"
)

// AnswerService resolves free-text queries.
type AnswerService interface {
	Answer(ctx context.Context, query string, prefs domain.Preferences) (domain.FinalAnswer, error)
	Search(ctx context.Context, query string, topK int, minScore float64) ([]domain.Candidate, error)
}

// CorpusReader serves read-only corpus lookups.
type CorpusReader interface {
	GetRecipe(ctx context.Context, id string) (domain.RecipeDocument, error)
	SimilarByID(ctx context.Context, id string, k int) ([]domain.Candidate, error)
	Stats(ctx context.Context) (corpus.CorpusStats, error)
}

// HealthService aggregates component health checks.
type HealthService interface {
	Check(ctx context.Context) healthuc.Report
}
