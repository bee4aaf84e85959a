package rank

import (
	"strconv"
	"strings"

	"github.com/culinara-ai/culinara/internal/domain"
	"github.com/culinara-ai/culinara/internal/domain/terms"
)

// Boost and penalty constants. Tuned against the corpus; the acceptance
// thresholds live in config, these do not.
const (
	keywordBoostStep    = 0.03
	keywordBoostCap     = 0.15
	ingredientBoost     = 0.10
	ingredientBoostCap  = 0.20
	methodBoost         = 0.05
	skillBoost          = 0.05
	servingsBoost       = 0.03
	conflictPenalty     = 0.30
	missingTermPenalty  = 0.20
	proteinTitleBoost   = 0.15
	proteinMentionBoost = 0.08
)

// conflictPairs maps a queried protein to substitutes that signal the recipe
// is a different dish altogether. A "chicken curry" query must not surface a
// tofu curry just because the embeddings sit close together.
var conflictPairs = map[string][]string{
	"chicken": {"tofu", "paneer", "seitan", "tempeh", "jackfruit"},
	"beef":    {"tofu", "paneer", "seitan", "tempeh", "jackfruit"},
	"lamb":    {"tofu", "paneer", "seitan", "tempeh", "jackfruit"},
	"pork":    {"tofu", "paneer", "seitan", "tempeh", "jackfruit"},
	"prawn":   {"tofu", "paneer", "seitan"},
	"shrimp":  {"tofu", "paneer", "seitan"},
	"fish":    {"tofu", "paneer", "seitan"},
	"tofu":    {"chicken", "beef", "lamb", "pork"},
	"paneer":  {"chicken", "beef", "lamb", "pork"},
}

// explicitProteins are terms that, when present in a query, pin the answer
// to recipes actually containing them.
var explicitProteins = []string{
	"chicken", "beef", "lamb", "pork", "mutton", "prawn", "shrimp",
	"fish", "salmon", "crab", "egg", "paneer", "tofu",
}

// DetectProtein returns the first explicit protein named in the extracted
// terms, or "" when the query names none.
func DetectProtein(ts terms.TermSet) string {
	for _, p := range explicitProteins {
		for _, t := range ts.All {
			if t == p {
				return p
			}
		}
	}
	return ""
}

// scoreCandidate computes the boosted score and keyword-match flag for one
// candidate. protein is non-empty in explicit-protein mode.
func scoreCandidate(c domain.Candidate, ts terms.TermSet, prefs domain.Preferences, protein string) (float64, bool) {
	blob := c.Recipe.SearchBlob()
	score := c.RawScore

	// General keyword overlap.
	matches := 0
	for _, t := range ts.All {
		if strings.Contains(blob, t) {
			matches++
		}
	}
	score += min(keywordBoostCap, float64(matches)*keywordBoostStep)
	keywordMatched := matches > 0

	// Requested ingredients carry more weight than loose keywords, and a
	// requested ingredient that is absent is a strong negative signal.
	ingBoost := 0.0
	for _, ing := range ts.Ingredients {
		if c.Recipe.ContainsTerm(ing) {
			ingBoost += ingredientBoost
		} else {
			score -= missingTermPenalty
			keywordMatched = false
		}
	}
	score += min(ingredientBoostCap, ingBoost)

	for _, m := range ts.Methods {
		if strings.Contains(blob, m) {
			score += methodBoost
			break
		}
	}

	score -= conflictPenaltyFor(ts, blob)
	score += skillBoostFor(c.Recipe, prefs)
	score += servingsBoostFor(c.Recipe, prefs)

	if protein != "" {
		title := strings.ToLower(c.Recipe.Title)
		if strings.Contains(title, protein) {
			score += proteinTitleBoost
		} else if c.Recipe.ContainsTerm(protein) {
			score += proteinMentionBoost
		}
	}

	return clamp01(score), keywordMatched
}

func conflictPenaltyFor(ts terms.TermSet, blob string) float64 {
	for _, t := range ts.All {
		substitutes, ok := conflictPairs[t]
		if !ok {
			continue
		}
		// Conflict only when the queried protein is absent and a
		// substitute is present.
		if strings.Contains(blob, t) {
			continue
		}
		for _, sub := range substitutes {
			if strings.Contains(blob, sub) {
				return conflictPenalty
			}
		}
	}
	return 0
}

func skillBoostFor(recipe domain.RecipeDocument, prefs domain.Preferences) float64 {
	title := strings.ToLower(recipe.Title)
	switch prefs.Skill {
	case domain.SkillBeginner:
		if strings.Contains(title, "easy") || strings.Contains(title, "quick") ||
			(len(recipe.Instructions) > 0 && len(recipe.Instructions) <= 5) {
			return skillBoost
		}
	case domain.SkillAdvanced:
		if strings.Contains(title, "gourmet") || strings.Contains(title, "classic") ||
			len(recipe.Instructions) > 8 {
			return skillBoost
		}
	}
	return 0
}

func servingsBoostFor(recipe domain.RecipeDocument, prefs domain.Preferences) float64 {
	if prefs.Servings <= 0 {
		return 0
	}
	if servings, ok := recipe.Facts["servings"]; ok {
		if strings.Contains(servings, strconv.Itoa(prefs.Servings)) {
			return servingsBoost
		}
	}
	return 0
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
