package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNoResults signals the terminal no-results state. Not a failure:
	// the combiner turns it into an actionable refinement message.
	ErrNoResults = errors.New("no qualifying results")
	// ErrRecipeNotFound signals a missing corpus recipe.
	ErrRecipeNotFound = errors.New("recipe not found")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrGenerationProviderError signals a text generation provider failure.
	ErrGenerationProviderError = errors.New("generation provider error")
	// ErrSearchProviderError signals a web search provider failure.
	ErrSearchProviderError = errors.New("web search provider error")
	// ErrPageUnusable signals a page that yielded no recipe by either
	// structured or heuristic extraction.
	ErrPageUnusable = errors.New("page unusable")
)

// FetchError wraps a per-URL fetch failure. It is always isolated to the
// failing URL and never aborts a fetch batch.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %s", e.URL, e.Err.Error())
}

func (e *FetchError) Unwrap() error { return e.Err }

// NewFetchError creates a per-URL fetch error.
func NewFetchError(url string, err error) error {
	return &FetchError{URL: url, Err: err}
}

// Retryable reports whether an error is worth retrying with backoff.
// Provider errors are transient by default; everything else is not.
func Retryable(err error) bool {
	return errors.Is(err, ErrEmbeddingProviderError) ||
		errors.Is(err, ErrGenerationProviderError) ||
		errors.Is(err, ErrSearchProviderError)
}
