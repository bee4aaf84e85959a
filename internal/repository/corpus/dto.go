package corpus

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"

	"github.com/culinara-ai/culinara/internal/domain"
)

// Hash field names for a stored recipe document.
const (
	fieldTitle        = "title"
	fieldIngredients  = "ingredients"
	fieldInstructions = "instructions"
	fieldFacts        = "facts"
	fieldCuisine      = "cuisine"
	fieldCategory     = "category"
	fieldDietTags     = "diet_tags"
	fieldSourceURL    = "source_url"
	fieldVector       = "vector"
)

// decodeRecipeFields converts flat hash fields into a RecipeDocument.
// Ingredients, instructions, facts and diet tags are stored as JSON strings
// inside hash fields and decoded at this boundary.
func decodeRecipeFields(id string, fields map[string]string) (domain.RecipeDocument, error) {
	doc := domain.RecipeDocument{
		ID:        id,
		Title:     fields[fieldTitle],
		Cuisine:   fields[fieldCuisine],
		Category:  fields[fieldCategory],
		SourceURL: fields[fieldSourceURL],
	}
	if doc.Title == "" {
		return domain.RecipeDocument{}, fmt.Errorf("recipe %s: missing title", id)
	}

	if raw := fields[fieldIngredients]; raw != "" {
		if err := json.Unmarshal([]byte(raw), &doc.Ingredients); err != nil {
			return domain.RecipeDocument{}, fmt.Errorf("recipe %s: decode ingredients: %w", id, err)
		}
	}
	if raw := fields[fieldInstructions]; raw != "" {
		if err := json.Unmarshal([]byte(raw), &doc.Instructions); err != nil {
			return domain.RecipeDocument{}, fmt.Errorf("recipe %s: decode instructions: %w", id, err)
		}
	}
	if raw := fields[fieldFacts]; raw != "" {
		if err := json.Unmarshal([]byte(raw), &doc.Facts); err != nil {
			return domain.RecipeDocument{}, fmt.Errorf("recipe %s: decode facts: %w", id, err)
		}
	}
	if raw := fields[fieldDietTags]; raw != "" {
		if err := json.Unmarshal([]byte(raw), &doc.DietTags); err != nil {
			return domain.RecipeDocument{}, fmt.Errorf("recipe %s: decode diet tags: %w", id, err)
		}
	}

	return doc, nil
}

// bytesToVector deserializes a binary string to []float32.
func bytesToVector(s string) []float32 {
	b := []byte(s)
	if len(b) == 0 || len(b)%4 != 0 {
		return nil
	}
	v := make([]float32, len(b)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return v
}
