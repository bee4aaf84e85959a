package scrape

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"github.com/culinara-ai/culinara/internal/domain"
)

// Class-pattern matchers for pages without structured data. Most recipe
// themes mark their lists with one of these fragments.
var (
	ingredientClassRe  = regexp.MustCompile(`(?i)ingredient`)
	instructionClassRe = regexp.MustCompile(`(?i)instruction|direction|preparation|method|step`)
)

// parseHeuristic walks the markup looking for ingredient and instruction
// lists by element class. Returns ok=false when no ingredients are found;
// a recipe without ingredients is not worth keeping.
func parseHeuristic(doc *html.Node, pageURL string) (Result, bool) {
	ingredients := collectListItems(doc, ingredientClassRe)
	instructions := collectListItems(doc, instructionClassRe)

	if len(ingredients) == 0 {
		return Result{}, false
	}

	recipe := domain.RecipeDocument{
		Title:        pageTitle(doc),
		Ingredients:  ingredients,
		Instructions: instructions,
		SourceURL:    pageURL,
	}
	return Result{Title: recipe.Title, Recipe: &recipe}, true
}

// collectListItems gathers li text from lists whose own class, or whose
// ancestor container class, matches the pattern.
func collectListItems(doc *html.Node, classRe *regexp.Regexp) []string {
	var items []string
	seen := make(map[string]struct{})

	var walk func(n *html.Node, inMatch bool)
	walk = func(n *html.Node, inMatch bool) {
		if n.Type == html.ElementNode {
			if classRe.MatchString(attrValue(n, "class")) ||
				classRe.MatchString(attrValue(n, "id")) {
				inMatch = true
			}
			if n.Data == "li" && inMatch {
				text := normalizeSpace(textContent(n))
				if text != "" && len(text) < 300 {
					if _, dup := seen[text]; !dup {
						seen[text] = struct{}{}
						items = append(items, text)
					}
				}
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c, inMatch)
		}
	}
	walk(doc, false)

	return items
}

func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
