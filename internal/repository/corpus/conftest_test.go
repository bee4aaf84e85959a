package corpus

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/culinara-ai/culinara/internal/db"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	searchKNNFn   func(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
	searchListFn  func(ctx context.Context, index, query string, offset, limit int, fields []string) (*db.SearchResult, error)
	searchCountFn func(ctx context.Context, index, query string) (int, error)
	hGetAllFn     func(ctx context.Context, key string) (map[string]string, error)
}

func (m *mockStore) SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
	if m.searchKNNFn != nil {
		return m.searchKNNFn(ctx, q)
	}
	return &db.SearchResult{}, nil
}

func (m *mockStore) SearchList(
	ctx context.Context, index, query string, offset, limit int, fields []string,
) (*db.SearchResult, error) {
	if m.searchListFn != nil {
		return m.searchListFn(ctx, index, query, offset, limit, fields)
	}
	return &db.SearchResult{}, nil
}

func (m *mockStore) SearchCount(ctx context.Context, index, query string) (int, error) {
	if m.searchCountFn != nil {
		return m.searchCountFn(ctx, index, query)
	}
	return 0, nil
}

func (m *mockStore) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	if m.hGetAllFn != nil {
		return m.hGetAllFn(ctx, key)
	}
	return nil, nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	repo := New(ms, "culinara:", "recipes:idx")
	return repo, ms
}

func testVector() []float32 {
	vec := make([]float32, 4)
	for i := range vec {
		vec[i] = 0.1
	}
	return vec
}

// recipeFields builds valid hash fields for a stored recipe.
func recipeFields(t *testing.T, title string, ingredients, instructions []string) map[string]string {
	t.Helper()
	ing, err := json.Marshal(ingredients)
	if err != nil {
		t.Fatalf("marshal ingredients: %v", err)
	}
	ins, err := json.Marshal(instructions)
	if err != nil {
		t.Fatalf("marshal instructions: %v", err)
	}
	return map[string]string{
		fieldTitle:        title,
		fieldIngredients:  string(ing),
		fieldInstructions: string(ins),
		fieldCuisine:      "indian",
		fieldCategory:     "dinner",
	}
}
