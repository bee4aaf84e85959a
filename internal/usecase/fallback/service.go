// Package fallback implements the live web pipeline used when the corpus
// cannot answer: search, fetch concurrently, extract recipes, expand
// collection pages one level, validate and deduplicate.
package fallback

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"github.com/culinara-ai/culinara/internal/domain"
	"github.com/culinara-ai/culinara/internal/domain/classify"
	"github.com/culinara-ai/culinara/internal/domain/validate"
	"github.com/culinara-ai/culinara/internal/metrics"
	"github.com/culinara-ai/culinara/internal/scrape"
)

// Config holds the pipeline bounds.
type Config struct {
	MaxSearchResults int
	FetchConcurrency int
	SoftDeadline     time.Duration
	MaxExpandItems   int
}

// Service runs the web fallback pipeline.
type Service struct {
	searcher Searcher
	fetcher  Fetcher
	pool     *ants.Pool
	cfg      Config
	logger   *zap.Logger
}

// New creates the pipeline and its fetch worker pool.
func New(searcher Searcher, fetcher Fetcher, cfg Config, logger *zap.Logger) (*Service, error) {
	pool, err := ants.NewPool(cfg.FetchConcurrency)
	if err != nil {
		return nil, fmt.Errorf("create fetch pool: %w", err)
	}
	return &Service{
		searcher: searcher,
		fetcher:  fetcher,
		pool:     pool,
		cfg:      cfg,
		logger:   logger,
	}, nil
}

// Release shuts down the worker pool. The service must not be used after.
func (s *Service) Release() {
	s.pool.Release()
}

// Outcome is what the pipeline could extract before its deadline.
type Outcome struct {
	Recipes         []domain.RecipeDocument
	CollectionPages []domain.CollectionPageRef
}

// pageResult carries one fetched-and-parsed page back to the aggregator.
type pageResult struct {
	url       string
	recipes   []domain.RecipeDocument
	links     []string
	pageTitle string
	isListing bool
	err       error
}

// Run executes the pipeline. The soft deadline bounds the whole run: when it
// fires, whatever validated so far is returned rather than an error. Only a
// search failure, or a run that produced nothing at all, is an error.
func (s *Service) Run(ctx context.Context, query string) (Outcome, error) {
	runCtx, cancel := context.WithTimeout(ctx, s.cfg.SoftDeadline)
	defer cancel()

	hits, err := s.searcher.Search(ctx, query+" recipe", s.cfg.MaxSearchResults)
	if err != nil {
		metrics.FallbackRunsTotal.WithLabelValues("search_error").Inc()
		return Outcome{}, fmt.Errorf("web search: %w", err)
	}
	if len(hits) == 0 {
		metrics.FallbackRunsTotal.WithLabelValues("empty").Inc()
		return Outcome{}, domain.ErrNoResults
	}

	urls := make([]string, 0, len(hits))
	for _, h := range hits {
		urls = append(urls, h.URL)
	}

	agg := newAggregator()

	// Level 0: the search hits themselves.
	deadlineHit := s.fetchAll(runCtx, urls, agg)

	// Level 1: items from collection pages, bounded and never re-expanded.
	if !deadlineHit {
		expand := agg.takeExpandLinks(s.cfg.MaxExpandItems)
		if len(expand) > 0 {
			metrics.CollectionExpansionsTotal.Add(float64(len(expand)))
			deadlineHit = s.fetchAll(runCtx, expand, agg)
		}
	}

	out := agg.outcome()

	switch {
	case deadlineHit:
		metrics.FallbackRunsTotal.WithLabelValues("deadline").Inc()
		s.logger.Warn("Fallback deadline reached, returning partial results",
			zap.String("query", query),
			zap.Int("recipes", len(out.Recipes)))
	case len(out.Recipes) == 0:
		metrics.FallbackRunsTotal.WithLabelValues("empty").Inc()
	default:
		metrics.FallbackRunsTotal.WithLabelValues("ok").Inc()
	}

	if len(out.Recipes) == 0 && len(out.CollectionPages) == 0 {
		return out, domain.ErrNoResults
	}
	return out, nil
}

// fetchAll runs one level of fetches through the worker pool. Returns true
// when the deadline interrupted collection.
func (s *Service) fetchAll(ctx context.Context, urls []string, agg *aggregator) bool {
	results := make(chan pageResult, len(urls))
	var wg sync.WaitGroup

	for _, u := range urls {
		if agg.seenURL(u) {
			continue
		}
		u := u
		wg.Add(1)
		if err := s.pool.Submit(func() {
			defer wg.Done()
			results <- s.processPage(ctx, u)
		}); err != nil {
			wg.Done()
			s.logger.Warn("Failed to submit fetch task", zap.String("url", u), zap.Error(err))
		}
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	for {
		select {
		case res, ok := <-results:
			if !ok {
				return false
			}
			s.collect(res, agg)
		case <-ctx.Done():
			// Drain nothing further; workers notice the context themselves.
			return true
		}
	}
}

// processPage fetches and parses a single URL. Errors stay inside the
// result; one bad page never sinks the run.
func (s *Service) processPage(ctx context.Context, url string) pageResult {
	if ctx.Err() != nil {
		return pageResult{url: url, err: ctx.Err()}
	}

	body, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		metrics.PageFetchesTotal.WithLabelValues("fetch_error").Inc()
		return pageResult{url: url, err: err}
	}

	parsed, err := scrape.Parse(body, url)
	if err != nil {
		metrics.PageFetchesTotal.WithLabelValues("parse_error").Inc()
		return pageResult{url: url, pageTitle: parsed.Title, err: err}
	}

	res := pageResult{url: url, pageTitle: parsed.Title, links: parsed.ItemLinks}

	if len(parsed.ItemLinks) > 0 || len(parsed.Recipes) > 0 {
		res.isListing = true
		res.recipes = parsed.Recipes
	} else if parsed.Recipe != nil {
		if classify.IsCollectionPage(parsed.Recipe.Title, url) {
			res.isListing = true
		} else {
			res.recipes = []domain.RecipeDocument{*parsed.Recipe}
		}
	}

	metrics.PageFetchesTotal.WithLabelValues("ok").Inc()
	return res
}

// collect merges one page result into the aggregate.
func (s *Service) collect(res pageResult, agg *aggregator) {
	agg.markURL(res.url)

	if res.err != nil {
		s.logger.Debug("Page skipped", zap.String("url", res.url), zap.Error(res.err))
		if res.pageTitle != "" && classify.IsCollectionPage(res.pageTitle, res.url) {
			agg.addCollection(domain.CollectionPageRef{Title: res.pageTitle, URL: res.url})
		}
		return
	}

	if res.isListing {
		title := res.pageTitle
		if title == "" {
			title = res.url
		}
		agg.addCollection(domain.CollectionPageRef{Title: title, URL: res.url})
		agg.addExpandLinks(res.links)
	}

	for _, recipe := range res.recipes {
		if !validate.IsRealRecipe(recipe.Ingredients) {
			metrics.PageFetchesTotal.WithLabelValues("rejected").Inc()
			continue
		}
		agg.addRecipe(recipe)
	}
}
