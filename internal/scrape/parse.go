// Package scrape extracts recipe content from fetched HTML pages.
// Structured data (schema.org JSON-LD) is preferred; a class-pattern
// heuristic over the markup is the fallback.
package scrape

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/culinara-ai/culinara/internal/domain"
)

// Result is the outcome of parsing one page.
// Exactly one of Recipe, Recipes or ItemLinks is usually populated:
// a single recipe page, a collection with embedded recipes, or a
// collection that only links out to individual recipe pages.
type Result struct {
	Title     string
	Recipe    *domain.RecipeDocument
	Recipes   []domain.RecipeDocument
	ItemLinks []string
}

// Parse extracts recipe content from a page. JSON-LD wins when present and
// usable; otherwise the heuristic walker has a go. Returns
// domain.ErrPageUnusable when neither finds anything.
func Parse(pageHTML, pageURL string) (Result, error) {
	doc, err := html.Parse(strings.NewReader(pageHTML))
	if err != nil {
		return Result{}, &domain.FetchError{URL: pageURL, Err: err}
	}

	title := pageTitle(doc)

	if res, ok := parseJSONLD(doc, pageURL); ok {
		if res.Title == "" {
			res.Title = title
		}
		return res, nil
	}

	if res, ok := parseHeuristic(doc, pageURL); ok {
		if res.Title == "" {
			res.Title = title
		}
		return res, nil
	}

	return Result{Title: title}, domain.ErrPageUnusable
}

// pageTitle returns the h1 text, falling back to <title>.
func pageTitle(doc *html.Node) string {
	if h1 := findFirst(doc, "h1"); h1 != nil {
		if t := strings.TrimSpace(textContent(h1)); t != "" {
			return t
		}
	}
	if tt := findFirst(doc, "title"); tt != nil {
		return strings.TrimSpace(textContent(tt))
	}
	return ""
}

func findFirst(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findFirst(c, tag); found != nil {
			return found
		}
	}
	return nil
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

func attrValue(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
