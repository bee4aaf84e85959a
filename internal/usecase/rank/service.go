// Package rank re-orders retrieval candidates with culinary heuristics:
// keyword and ingredient boosts on top of the vector score, hard dietary
// gates, and protein fidelity for queries that name one.
package rank

import (
	"sort"

	"go.uber.org/zap"

	"github.com/culinara-ai/culinara/internal/domain"
	"github.com/culinara-ai/culinara/internal/domain/classify"
	"github.com/culinara-ai/culinara/internal/domain/terms"
	"github.com/culinara-ai/culinara/internal/metrics"
)

// Config holds the acceptance thresholds.
type Config struct {
	PrimaryThreshold   float64
	SecondaryThreshold float64
}

// Service applies the re-ranking heuristics.
type Service struct {
	cfg    Config
	logger *zap.Logger
}

// New creates a ranking service.
func New(cfg Config, logger *zap.Logger) *Service {
	return &Service{cfg: cfg, logger: logger}
}

// Rank scores every candidate, drops the ones a hard gate rejects, and
// returns the accepted rest sorted by boosted score descending. protein is
// the explicit protein from the query, or "" when none was named; with a
// protein set, only recipes that actually contain it survive.
func (s *Service) Rank(
	ts terms.TermSet, prefs domain.Preferences, protein string, candidates []domain.Candidate,
) []domain.Candidate {
	accepted := make([]domain.Candidate, 0, len(candidates))

	for _, c := range candidates {
		if classify.IsCollectionPage(c.Recipe.Title, c.Recipe.SourceURL) {
			c.IsCollectionPage = true
			metrics.CandidatesRejectedTotal.WithLabelValues("collection_page").Inc()
			continue
		}
		if !passesDietGates(c.Recipe, prefs) {
			metrics.CandidatesRejectedTotal.WithLabelValues("dietary").Inc()
			continue
		}

		score, keywordMatched := scoreCandidate(c, ts, prefs, protein)
		c.BoostedScore = score
		c.KeywordMatched = keywordMatched

		if protein != "" && !containsProtein(c.Recipe, protein) {
			// Protein fidelity beats similarity: a close vector with the
			// wrong protein is the wrong answer.
			metrics.CandidatesRejectedTotal.WithLabelValues("dietary").Inc()
			continue
		}

		if !s.accepts(c) {
			metrics.CandidatesRejectedTotal.WithLabelValues("threshold").Inc()
			continue
		}
		accepted = append(accepted, c)
	}

	sort.SliceStable(accepted, func(i, j int) bool {
		return accepted[i].BoostedScore > accepted[j].BoostedScore
	})

	s.logger.Debug("Ranked candidates",
		zap.Int("in", len(candidates)),
		zap.Int("accepted", len(accepted)),
		zap.String("protein", protein))

	return accepted
}

// accepts applies the two-tier threshold: a high score stands on its own,
// a middling score needs keyword confirmation.
func (s *Service) accepts(c domain.Candidate) bool {
	if c.BoostedScore >= s.cfg.PrimaryThreshold {
		return true
	}
	return c.KeywordMatched && c.BoostedScore >= s.cfg.SecondaryThreshold
}

func containsProtein(recipe domain.RecipeDocument, protein string) bool {
	return recipe.ContainsTerm(protein)
}
