package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// RecipeDocument is a single, individual recipe — either read from corpus
// metadata or produced by the scrape/parse step. Typed record; JSON-encoded
// sub-fields are decoded at the storage/transport boundary only.
type RecipeDocument struct {
	ID           string
	Title        string
	Ingredients  []string
	Instructions []string
	Facts        map[string]string // prep_time, cook_time, total_time, servings, calories
	Cuisine      string
	Category     string
	DietTags     []string
	SourceURL    string
}

// Fingerprint returns a deterministic content hash used for deduplication
// across corpus and web sources. Identical (title, ingredients, instructions)
// always yields the identical fingerprint.
func (r *RecipeDocument) Fingerprint() string {
	var b strings.Builder
	b.WriteString(strings.ToLower(strings.TrimSpace(r.Title)))
	b.WriteByte('\n')
	for _, ing := range r.Ingredients {
		b.WriteString(strings.ToLower(strings.TrimSpace(ing)))
		b.WriteByte('|')
	}
	b.WriteByte('\n')
	for _, step := range r.Instructions {
		b.WriteString(strings.ToLower(strings.TrimSpace(step)))
		b.WriteByte('|')
	}
	h := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(h[:])
}

// SearchBlob builds the lowercase text blob the re-ranker matches keywords
// against: title, category, cuisine and ingredient text.
func (r *RecipeDocument) SearchBlob() string {
	parts := []string{r.Title, r.Category, r.Cuisine, strings.Join(r.Ingredients, " ")}
	return strings.ToLower(strings.Join(parts, " "))
}

// ContainsTerm reports whether the term appears in the recipe title or any
// ingredient line. Used by the protein-fidelity check.
func (r *RecipeDocument) ContainsTerm(term string) bool {
	term = strings.ToLower(term)
	if strings.Contains(strings.ToLower(r.Title), term) {
		return true
	}
	for _, ing := range r.Ingredients {
		if strings.Contains(strings.ToLower(ing), term) {
			return true
		}
	}
	return false
}

// CollectionPageRef points at a collection/listicle page. Recorded for
// reporting, never returned as a recipe.
type CollectionPageRef struct {
	Title string
	URL   string
}
