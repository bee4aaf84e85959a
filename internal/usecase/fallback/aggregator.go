package fallback

import (
	"sync"

	"github.com/culinara-ai/culinara/internal/domain"
)

// aggregator accumulates pipeline output across both fetch levels.
// Guarded by a mutex: collect runs on the aggregating goroutine, but the
// URL seen-set is also consulted when enqueueing.
type aggregator struct {
	mu           sync.Mutex
	recipes      []domain.RecipeDocument
	collections  []domain.CollectionPageRef
	expandLinks  []string
	fingerprints map[string]struct{}
	urls         map[string]struct{}
}

func newAggregator() *aggregator {
	return &aggregator{
		fingerprints: make(map[string]struct{}),
		urls:         make(map[string]struct{}),
	}
}

func (a *aggregator) seenURL(url string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	_, ok := a.urls[url]
	return ok
}

func (a *aggregator) markURL(url string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.urls[url] = struct{}{}
}

// addRecipe appends a recipe unless its content fingerprint was seen before.
func (a *aggregator) addRecipe(recipe domain.RecipeDocument) {
	a.mu.Lock()
	defer a.mu.Unlock()
	fp := recipe.Fingerprint()
	if _, dup := a.fingerprints[fp]; dup {
		return
	}
	a.fingerprints[fp] = struct{}{}
	a.recipes = append(a.recipes, recipe)
}

func (a *aggregator) addCollection(ref domain.CollectionPageRef) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, existing := range a.collections {
		if existing.URL == ref.URL {
			return
		}
	}
	a.collections = append(a.collections, ref)
}

func (a *aggregator) addExpandLinks(links []string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.expandLinks = append(a.expandLinks, links...)
}

// takeExpandLinks returns at most n unseen links and clears the backlog.
func (a *aggregator) takeExpandLinks(n int) []string {
	a.mu.Lock()
	defer a.mu.Unlock()

	var out []string
	for _, link := range a.expandLinks {
		if _, seen := a.urls[link]; seen {
			continue
		}
		out = append(out, link)
		if len(out) == n {
			break
		}
	}
	a.expandLinks = nil
	return out
}

func (a *aggregator) outcome() Outcome {
	a.mu.Lock()
	defer a.mu.Unlock()
	return Outcome{Recipes: a.recipes, CollectionPages: a.collections}
}
