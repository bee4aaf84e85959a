// Package duckduckgo implements web search against the DuckDuckGo HTML
// endpoint. No API key is needed; results are parsed out of the returned page.
package duckduckgo

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/culinara-ai/culinara/internal/domain"
)

const defaultBaseURL = "https://html.duckduckgo.com"

// userAgent mimics a desktop browser; the HTML endpoint serves a
// degraded page to unknown agents.
const userAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"

// Client implements domain.WebSearcher via the DuckDuckGo HTML endpoint.
type Client struct {
	http   *resty.Client
	logger *zap.Logger
}

// New creates a DuckDuckGo search client. baseURL is overridable for tests.
func New(baseURL string, logger *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetHeader("User-Agent", userAgent)

	return &Client{http: httpClient, logger: logger}
}

// Search runs a query and returns up to maxResults hits. Hits from known
// recipe sites are preferred; when none match, all parsed hits are returned
// so the caller still has something to work with.
func (c *Client) Search(ctx context.Context, query string, maxResults int) ([]domain.WebSearchHit, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("q", query).
		Get("/html/")
	if err != nil {
		return nil, fmt.Errorf("duckduckgo request: %w: %v", domain.ErrSearchProviderError, err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("duckduckgo status %d: %w", resp.StatusCode(), domain.ErrSearchProviderError)
	}

	hits, err := parseResults(strings.NewReader(resp.String()))
	if err != nil {
		return nil, fmt.Errorf("duckduckgo parse: %w: %v", domain.ErrSearchProviderError, err)
	}

	c.logger.Debug("Web search completed",
		zap.String("query", query),
		zap.Int("hits", len(hits)))

	preferred := filterRecipeSites(hits)
	if len(preferred) > 0 {
		hits = preferred
	}
	if len(hits) > maxResults {
		hits = hits[:maxResults]
	}
	return hits, nil
}

// knownRecipeSites are domains whose pages reliably carry structured recipes.
var knownRecipeSites = []string{
	"allrecipes.com",
	"bbcgoodfood.com",
	"bonappetit.com",
	"budgetbytes.com",
	"delish.com",
	"eatingwell.com",
	"epicurious.com",
	"food.com",
	"foodnetwork.com",
	"indianhealthyrecipes.com",
	"loveandlemons.com",
	"minimalistbaker.com",
	"seriouseats.com",
	"simplyrecipes.com",
	"tasty.co",
	"thekitchn.com",
	"vegrecipesofindia.com",
}

func filterRecipeSites(hits []domain.WebSearchHit) []domain.WebSearchHit {
	var out []domain.WebSearchHit
	for _, h := range hits {
		u, err := url.Parse(h.URL)
		if err != nil {
			continue
		}
		host := strings.TrimPrefix(u.Hostname(), "www.")
		for _, site := range knownRecipeSites {
			if host == site || strings.HasSuffix(host, "."+site) {
				out = append(out, h)
				break
			}
		}
	}
	return out
}

// parseResults extracts hits from the DuckDuckGo HTML results page.
// Result links carry class "result__a"; snippets carry "result__snippet".
func parseResults(r io.Reader) ([]domain.WebSearchHit, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	var hits []domain.WebSearchHit
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" && hasClass(n, "result__a") {
			href := attrValue(n, "href")
			target := unwrapRedirect(href)
			if target != "" {
				hits = append(hits, domain.WebSearchHit{
					Title: strings.TrimSpace(textContent(n)),
					URL:   target,
				})
			}
		}
		if n.Type == html.ElementNode && hasClass(n, "result__snippet") && len(hits) > 0 {
			if hits[len(hits)-1].Snippet == "" {
				hits[len(hits)-1].Snippet = strings.TrimSpace(textContent(n))
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return hits, nil
}

// unwrapRedirect resolves DuckDuckGo redirect links of the form
// //duckduckgo.com/l/?uddg=<encoded-url>&... to the target URL.
func unwrapRedirect(href string) string {
	if href == "" {
		return ""
	}
	if strings.HasPrefix(href, "//") {
		href = "https:" + href
	}
	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if uddg := u.Query().Get("uddg"); uddg != "" {
		if target, err := url.QueryUnescape(uddg); err == nil {
			return target
		}
	}
	if u.Scheme == "http" || u.Scheme == "https" {
		return href
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, a := range n.Attr {
		if a.Key != "class" {
			continue
		}
		for _, c := range strings.Fields(a.Val) {
			if c == class {
				return true
			}
		}
	}
	return false
}

func attrValue(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}
