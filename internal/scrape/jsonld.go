package scrape

import (
	"encoding/json"
	"strings"

	"golang.org/x/net/html"

	"github.com/culinara-ai/culinara/internal/domain"
)

// parseJSONLD scans <script type="application/ld+json"> blocks for
// schema.org Recipe and ItemList objects. Returns ok=false when no block
// yields anything usable.
func parseJSONLD(doc *html.Node, pageURL string) (Result, bool) {
	for _, block := range jsonLDBlocks(doc) {
		for _, obj := range flattenLD(block) {
			switch {
			case hasType(obj, "Recipe"):
				if recipe, ok := decodeRecipe(obj, pageURL); ok {
					return Result{Title: recipe.Title, Recipe: &recipe}, true
				}
			case hasType(obj, "ItemList"):
				if res, ok := decodeItemList(obj, pageURL); ok {
					return res, true
				}
			}
		}
	}
	return Result{}, false
}

// jsonLDBlocks returns the raw content of every ld+json script tag.
func jsonLDBlocks(doc *html.Node) []string {
	var blocks []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "script" &&
			strings.EqualFold(attrValue(n, "type"), "application/ld+json") {
			if n.FirstChild != nil {
				blocks = append(blocks, n.FirstChild.Data)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return blocks
}

// flattenLD decodes a JSON-LD block into a flat list of objects.
// Blocks can be a single object, an array, or a @graph wrapper.
func flattenLD(raw string) []map[string]any {
	var out []map[string]any

	var single map[string]any
	if err := json.Unmarshal([]byte(raw), &single); err == nil {
		if graph, ok := single["@graph"].([]any); ok {
			for _, item := range graph {
				if m, ok := item.(map[string]any); ok {
					out = append(out, m)
				}
			}
			return out
		}
		return []map[string]any{single}
	}

	var list []any
	if err := json.Unmarshal([]byte(raw), &list); err == nil {
		for _, item := range list {
			if m, ok := item.(map[string]any); ok {
				out = append(out, m)
			}
		}
	}
	return out
}

// hasType checks @type, which may be a string or an array of strings.
func hasType(obj map[string]any, want string) bool {
	switch t := obj["@type"].(type) {
	case string:
		return t == want
	case []any:
		for _, v := range t {
			if s, ok := v.(string); ok && s == want {
				return true
			}
		}
	}
	return false
}

// decodeRecipe builds a RecipeDocument from a schema.org Recipe object.
// A recipe without both a name and ingredients is not usable.
func decodeRecipe(obj map[string]any, pageURL string) (domain.RecipeDocument, bool) {
	doc := domain.RecipeDocument{
		Title:     stringField(obj, "name"),
		Cuisine:   firstString(obj, "recipeCuisine"),
		Category:  firstString(obj, "recipeCategory"),
		SourceURL: pageURL,
	}

	doc.Ingredients = stringList(obj["recipeIngredient"])
	if len(doc.Ingredients) == 0 {
		doc.Ingredients = stringList(obj["ingredients"]) // legacy schema field
	}
	doc.Instructions = decodeInstructions(obj["recipeInstructions"])

	if doc.Title == "" || len(doc.Ingredients) == 0 {
		return domain.RecipeDocument{}, false
	}
	return doc, true
}

// decodeInstructions handles the three shapes schema.org allows: plain
// strings, HowToStep objects, and HowToSection objects nesting steps.
func decodeInstructions(v any) []string {
	var steps []string

	var add func(item any)
	add = func(item any) {
		switch t := item.(type) {
		case string:
			if s := strings.TrimSpace(t); s != "" {
				steps = append(steps, s)
			}
		case map[string]any:
			if hasType(t, "HowToSection") {
				if items, ok := t["itemListElement"].([]any); ok {
					for _, sub := range items {
						add(sub)
					}
				}
				return
			}
			if text := stringField(t, "text"); text != "" {
				steps = append(steps, strings.TrimSpace(text))
			}
		}
	}

	switch t := v.(type) {
	case string:
		add(t)
	case []any:
		for _, item := range t {
			add(item)
		}
	}
	return steps
}

// decodeItemList handles collection pages. Embedded Recipe items become
// full documents; plain ListItem urls become links for bounded expansion.
func decodeItemList(obj map[string]any, pageURL string) (Result, bool) {
	items, ok := obj["itemListElement"].([]any)
	if !ok || len(items) == 0 {
		return Result{}, false
	}

	res := Result{Title: stringField(obj, "name")}

	for _, raw := range items {
		item, ok := raw.(map[string]any)
		if !ok {
			continue
		}

		if inner, ok := item["item"].(map[string]any); ok {
			if hasType(inner, "Recipe") {
				if recipe, ok := decodeRecipe(inner, pageURL); ok {
					res.Recipes = append(res.Recipes, recipe)
					continue
				}
			}
			if u := stringField(inner, "url"); u != "" {
				res.ItemLinks = append(res.ItemLinks, u)
				continue
			}
		}
		if u := stringField(item, "url"); u != "" {
			res.ItemLinks = append(res.ItemLinks, u)
		}
	}

	if len(res.Recipes) == 0 && len(res.ItemLinks) == 0 {
		return Result{}, false
	}
	return res, true
}

func stringField(obj map[string]any, key string) string {
	if s, ok := obj[key].(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}

// firstString reads a field that may be a string or an array of strings.
func firstString(obj map[string]any, key string) string {
	switch t := obj[key].(type) {
	case string:
		return strings.TrimSpace(t)
	case []any:
		for _, v := range t {
			if s, ok := v.(string); ok && s != "" {
				return strings.TrimSpace(s)
			}
		}
	}
	return ""
}

func stringList(v any) []string {
	var out []string
	switch t := v.(type) {
	case []any:
		for _, item := range t {
			if s, ok := item.(string); ok {
				if s = strings.TrimSpace(s); s != "" {
					out = append(out, s)
				}
			}
		}
	case string:
		if s := strings.TrimSpace(t); s != "" {
			out = append(out, s)
		}
	}
	return out
}
