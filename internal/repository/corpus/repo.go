// Package corpus reads recipe documents from the Redis vector index.
package corpus

import (
	"context"
	"fmt"
	"strings"

	"github.com/culinara-ai/culinara/internal/db"
	"github.com/culinara-ai/culinara/internal/domain"
)

// store is the consumer interface for corpus operations (ISP).
type store interface {
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
	SearchList(ctx context.Context, index, query string, offset, limit int, fields []string) (*db.SearchResult, error)
	SearchCount(ctx context.Context, index, query string) (int, error)
	HGetAll(ctx context.Context, key string) (map[string]string, error)
}

// Repo implements the retriever used by the answer pipeline.
type Repo struct {
	store     store
	keyPrefix string
	indexName string
}

// New creates a corpus repository.
func New(s store, keyPrefix, indexName string) *Repo {
	return &Repo{store: s, keyPrefix: keyPrefix, indexName: indexName}
}

var returnFields = []string{
	fieldTitle, fieldIngredients, fieldInstructions, fieldFacts,
	fieldCuisine, fieldCategory, fieldDietTags, fieldSourceURL,
	"__vector_score",
}

// SearchSimilar runs a KNN search and returns scored candidates ordered by
// descending similarity. Scores are cosine similarity in [0,1].
func (r *Repo) SearchSimilar(ctx context.Context, vector []float32, k int) ([]domain.Candidate, error) {
	sr, err := r.store.SearchKNN(ctx, &db.KNNQuery{
		IndexName:    r.indexName,
		Vector:       vector,
		K:            k,
		ReturnFields: returnFields,
	})
	if err != nil {
		return nil, fmt.Errorf("search similar: %w", err)
	}
	if sr == nil || len(sr.Entries) == 0 {
		return nil, nil
	}

	candidates := make([]domain.Candidate, 0, len(sr.Entries))
	for _, entry := range sr.Entries {
		id := strings.TrimPrefix(entry.Key, r.keyPrefix)
		recipe, err := decodeRecipeFields(id, entry.Fields)
		if err != nil {
			// A malformed document should not sink the whole search.
			continue
		}
		candidates = append(candidates, domain.Candidate{
			ID:       id,
			RawScore: entry.Score,
			Recipe:   recipe,
		})
	}

	return candidates, nil
}

// GetRecipe loads a single recipe document by ID.
func (r *Repo) GetRecipe(ctx context.Context, id string) (domain.RecipeDocument, error) {
	fields, err := r.store.HGetAll(ctx, r.keyPrefix+id)
	if err != nil {
		return domain.RecipeDocument{}, fmt.Errorf("get recipe %s: %w", id, err)
	}
	if len(fields) == 0 {
		return domain.RecipeDocument{}, domain.ErrRecipeNotFound
	}
	return decodeRecipeFields(id, fields)
}

// SimilarByID finds recipes similar to a stored one, excluding the recipe itself.
func (r *Repo) SimilarByID(ctx context.Context, id string, k int) ([]domain.Candidate, error) {
	fields, err := r.store.HGetAll(ctx, r.keyPrefix+id)
	if err != nil {
		return nil, fmt.Errorf("similar by id %s: %w", id, err)
	}
	vecRaw, ok := fields[fieldVector]
	if !ok || len(fields) == 0 {
		return nil, domain.ErrRecipeNotFound
	}

	vector := bytesToVector(vecRaw)
	if vector == nil {
		return nil, fmt.Errorf("similar by id %s: stored vector is malformed", id)
	}

	// Over-fetch by one so the document itself can be dropped.
	candidates, err := r.SearchSimilar(ctx, vector, k+1)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Candidate, 0, k)
	for _, c := range candidates {
		if c.ID == id {
			continue
		}
		out = append(out, c)
		if len(out) == k {
			break
		}
	}
	return out, nil
}

// CorpusStats summarizes the indexed corpus.
type CorpusStats struct {
	TotalRecipes int            `json:"total_recipes"`
	ByCuisine    map[string]int `json:"by_cuisine"`
	ByCategory   map[string]int `json:"by_category"`
}

const statsPageSize = 500

// Stats counts indexed recipes grouped by cuisine and category.
func (r *Repo) Stats(ctx context.Context) (CorpusStats, error) {
	total, err := r.store.SearchCount(ctx, r.indexName, "*")
	if err != nil {
		return CorpusStats{}, fmt.Errorf("corpus stats: %w", err)
	}

	stats := CorpusStats{
		TotalRecipes: total,
		ByCuisine:    make(map[string]int),
		ByCategory:   make(map[string]int),
	}

	for offset := 0; offset < total; offset += statsPageSize {
		sr, err := r.store.SearchList(ctx, r.indexName, "*", offset, statsPageSize,
			[]string{fieldCuisine, fieldCategory})
		if err != nil {
			return CorpusStats{}, fmt.Errorf("corpus stats page %d: %w", offset, err)
		}
		for _, entry := range sr.Entries {
			if c := entry.Fields[fieldCuisine]; c != "" {
				stats.ByCuisine[c]++
			}
			if c := entry.Fields[fieldCategory]; c != "" {
				stats.ByCategory[c]++
			}
		}
		if len(sr.Entries) == 0 {
			break
		}
	}

	return stats, nil
}
