// Package answer orchestrates the full query path: term extraction,
// embedding, corpus retrieval, re-ranking, web fallback and the final
// combined answer.
package answer

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/culinara-ai/culinara/internal/domain"
	"github.com/culinara-ai/culinara/internal/domain/terms"
	"github.com/culinara-ai/culinara/internal/logger"
	"github.com/culinara-ai/culinara/internal/metrics"
	"github.com/culinara-ai/culinara/internal/retry"
	"github.com/culinara-ai/culinara/internal/usecase/rank"
)

// Config holds retrieval pool sizing.
type Config struct {
	TopK           int
	PoolMultiplier int
}

// Service answers recipe queries.
type Service struct {
	retriever Retriever
	embedder  Embedder
	ranker    Ranker
	fallback  FallbackRunner
	generator Generator // nil disables fact generation
	cfg       Config
}

// New creates the answer service. generator may be nil.
func New(
	retriever Retriever,
	embedder Embedder,
	ranker Ranker,
	fb FallbackRunner,
	generator Generator,
	cfg Config,
) *Service {
	return &Service{
		retriever: retriever,
		embedder:  embedder,
		ranker:    ranker,
		fallback:  fb,
		generator: generator,
		cfg:       cfg,
	}
}

// Answer resolves a free-text query into at most three individual recipes.
// The corpus is consulted first; the web fallback only runs when the corpus
// yields nothing acceptable. Single-provider failures degrade, they do not
// fail the query.
func (s *Service) Answer(ctx context.Context, query string, prefs domain.Preferences) (domain.FinalAnswer, error) {
	log := logger.FromContext(ctx)
	start := time.Now()

	ts := terms.Extract(query)
	protein := rank.DetectProtein(ts)

	accepted := s.corpusCandidates(ctx, log, query, ts, prefs, protein)

	var answer domain.FinalAnswer
	if len(accepted) > 0 {
		answer = s.corpusAnswer(query, accepted)
	} else {
		answer = s.webAnswer(ctx, log, query)
	}

	if answer.Source != domain.SourceNone {
		s.attachFacts(ctx, log, &answer)
	}

	metrics.AnswerRequestsTotal.WithLabelValues(string(answer.Source)).Inc()
	metrics.AnswerDuration.WithLabelValues(string(answer.Source)).Observe(time.Since(start).Seconds())

	log.Info("Answered query",
		zap.String("source", string(answer.Source)),
		zap.Int("recipes", len(answer.Recipes)),
		zap.String("protein", protein),
		zap.Duration("took", time.Since(start)))

	return answer, nil
}

// Search runs raw vector retrieval without re-ranking. Unlike Answer it
// surfaces provider errors to the caller instead of degrading.
func (s *Service) Search(ctx context.Context, query string, topK int, minScore float64) ([]domain.Candidate, error) {
	var emb domain.EmbeddingResult
	err := retry.Default.Do(ctx, func() error {
		var embErr error
		emb, embErr = s.embedder.Embed(ctx, query)
		return embErr
	}, domain.Retryable)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	candidates, err := s.retriever.SearchSimilar(ctx, emb.Embedding, topK)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}

	if minScore <= 0 {
		return candidates, nil
	}
	filtered := candidates[:0]
	for _, c := range candidates {
		if c.RawScore >= minScore {
			filtered = append(filtered, c)
		}
	}
	return filtered, nil
}

// corpusCandidates embeds the query and ranks the KNN pool. Any provider
// failure here returns nil, which sends the query down the fallback path.
func (s *Service) corpusCandidates(
	ctx context.Context, log *zap.Logger, query string,
	ts terms.TermSet, prefs domain.Preferences, protein string,
) []domain.Candidate {
	var emb domain.EmbeddingResult
	err := retry.Default.Do(ctx, func() error {
		var embErr error
		emb, embErr = s.embedder.Embed(ctx, query)
		return embErr
	}, domain.Retryable)
	if err != nil {
		log.Warn("Embedding failed, skipping corpus retrieval", zap.Error(err))
		return nil
	}

	pool := s.cfg.TopK * s.cfg.PoolMultiplier
	candidates, err := s.retriever.SearchSimilar(ctx, emb.Embedding, pool)
	if err != nil {
		log.Warn("Corpus retrieval failed", zap.Error(err))
		return nil
	}

	return s.ranker.Rank(ts, prefs, protein, candidates)
}

// webAnswer runs the fallback pipeline and shapes its outcome.
func (s *Service) webAnswer(ctx context.Context, log *zap.Logger, query string) domain.FinalAnswer {
	out, err := s.fallback.Run(ctx, query)
	if err != nil {
		log.Warn("Web fallback failed", zap.Error(err))
		return noResultsAnswer(query)
	}
	return combineWeb(query, out)
}

// attachFacts asks the generator for a short fact about the top recipe.
// Strictly best-effort: any failure leaves Facts empty.
func (s *Service) attachFacts(ctx context.Context, log *zap.Logger, answer *domain.FinalAnswer) {
	if s.generator == nil || len(answer.Recipes) == 0 {
		return
	}
	fact, err := s.generator.Generate(ctx, factPrompt(answer.Recipes[0]))
	if err != nil {
		log.Debug("Fact generation failed", zap.Error(err))
		return
	}
	if fact != "" {
		answer.Facts = []string{fact}
	}
}
