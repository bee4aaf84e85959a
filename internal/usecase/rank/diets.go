package rank

import (
	"github.com/culinara-ai/culinara/internal/domain"
)

// dietRule rejects a recipe when a blocked ingredient appears, or when none
// of the required ingredients do. A matching diet tag on the recipe short-
// circuits the ingredient check.
type dietRule struct {
	blocked  []string
	required []string
}

var meatTerms = []string{
	"chicken", "beef", "pork", "lamb", "mutton", "bacon", "ham", "sausage",
	"turkey", "duck", "fish", "salmon", "tuna", "prawn", "shrimp", "crab",
	"anchovy", "gelatin",
}

var dairyTerms = []string{
	"milk", "butter", "cheese", "cream", "yogurt", "yoghurt", "paneer", "ghee",
}

var dietRules = map[string]dietRule{
	domain.DietVegan: {
		blocked: append(append([]string{"egg", "honey"}, meatTerms...), dairyTerms...),
	},
	domain.DietVegetarian: {
		blocked: meatTerms,
	},
	domain.DietNonVegetarian: {
		required: meatTerms,
	},
	domain.DietGlutenFree: {
		blocked: []string{"flour", "wheat", "bread", "pasta", "noodle", "barley", "semolina", "soy sauce"},
	},
	domain.DietDairyFree: {
		blocked: dairyTerms,
	},
	domain.DietPaleo: {
		blocked: []string{
			"rice", "pasta", "bread", "flour", "oats", "corn", "sugar",
			"beans", "lentil", "chickpea", "peanut", "milk", "cheese", "yogurt", "cream",
		},
	},
}

var lowCarbBlocked = []string{
	"rice", "pasta", "bread", "potato", "noodle", "sugar", "flour", "tortilla",
}

// passesDietGates applies every requested diet as a hard filter.
// low-carb and keto share one rule; combined with non-vegetarian the rule is
// relaxed to tolerate a single carb side so meat dishes with minor starches
// still qualify.
func passesDietGates(recipe domain.RecipeDocument, prefs domain.Preferences) bool {
	for _, diet := range prefs.Diets {
		switch diet {
		case domain.DietLowCarb, domain.DietKeto:
			if !passesLowCarb(recipe, prefs.HasDiet(domain.DietNonVegetarian)) {
				return false
			}
		default:
			rule, ok := dietRules[diet]
			if !ok {
				continue
			}
			if !passesRule(recipe, diet, rule) {
				return false
			}
		}
	}
	return true
}

func passesRule(recipe domain.RecipeDocument, diet string, rule dietRule) bool {
	if hasDietTag(recipe, diet) {
		return true
	}
	for _, term := range rule.blocked {
		if recipe.ContainsTerm(term) {
			return false
		}
	}
	if len(rule.required) > 0 {
		for _, term := range rule.required {
			if recipe.ContainsTerm(term) {
				return true
			}
		}
		return false
	}
	return true
}

func passesLowCarb(recipe domain.RecipeDocument, relaxed bool) bool {
	if hasDietTag(recipe, domain.DietLowCarb) || hasDietTag(recipe, domain.DietKeto) {
		return true
	}
	hits := 0
	for _, term := range lowCarbBlocked {
		if recipe.ContainsTerm(term) {
			hits++
		}
	}
	if relaxed {
		return hits <= 1
	}
	return hits == 0
}

func hasDietTag(recipe domain.RecipeDocument, diet string) bool {
	for _, tag := range recipe.DietTags {
		if tag == diet {
			return true
		}
	}
	return false
}
