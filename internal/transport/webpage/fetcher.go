// Package webpage fetches raw HTML from external recipe pages.
package webpage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/culinara-ai/culinara/internal/domain"
	"github.com/culinara-ai/culinara/internal/metrics"
)

const userAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"

// maxBodyBytes guards against pathological pages; recipe pages are far smaller.
const maxBodyBytes = 4 << 20

// Fetcher implements domain.PageFetcher with a per-request timeout.
type Fetcher struct {
	http    *resty.Client
	timeout time.Duration
	logger  *zap.Logger
}

// New creates a page fetcher. timeout bounds each individual fetch.
func New(timeout time.Duration, logger *zap.Logger) *Fetcher {
	httpClient := resty.New().
		SetHeader("User-Agent", userAgent).
		SetHeader("Accept", "text/html,application/xhtml+xml").
		SetRedirectPolicy(resty.FlexibleRedirectPolicy(5))

	return &Fetcher{http: httpClient, timeout: timeout, logger: logger}
}

// Fetch downloads a page and returns its HTML. All failures are wrapped in
// a domain.FetchError carrying the URL, so callers can isolate per-URL faults.
func (f *Fetcher) Fetch(ctx context.Context, pageURL string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	start := time.Now()

	resp, err := f.http.R().
		SetContext(ctx).
		Get(pageURL)

	metrics.PageFetchDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		return "", &domain.FetchError{URL: pageURL, Err: err}
	}
	if resp.StatusCode() != 200 {
		return "", &domain.FetchError{
			URL: pageURL,
			Err: fmt.Errorf("status %d", resp.StatusCode()),
		}
	}

	contentType := resp.Header().Get("Content-Type")
	if contentType != "" && !strings.Contains(contentType, "html") {
		return "", &domain.FetchError{
			URL: pageURL,
			Err: fmt.Errorf("unexpected content type %q", contentType),
		}
	}

	body := resp.String()
	if len(body) > maxBodyBytes {
		body = body[:maxBodyBytes]
	}

	f.logger.Debug("Fetched page",
		zap.String("url", pageURL),
		zap.Int("bytes", len(body)),
		zap.Duration("took", time.Since(start)))

	return body, nil
}
