// Package validate gates parsed pages on whether they describe a real,
// cookable recipe. Pure functions; used defensively on corpus candidates and
// as the primary gate on freshly scraped pages.
package validate

import "strings"

// maxBoilerplateRatio is the share of ingredient lines allowed to match the
// non-food boilerplate vocabulary before the page is rejected.
const maxBoilerplateRatio = 0.3

// boilerplateTerms catch navigation and marketing junk that heuristic
// extraction sometimes picks up as "ingredients".
var boilerplateTerms = []string{
	"subscribe", "newsletter", "sign up", "sign in", "log in", "follow us",
	"facebook", "instagram", "twitter", "pinterest", "youtube", "tiktok",
	"share", "comment", "advertisement", "sponsored", "cookie policy",
	"privacy policy", "terms of use", "read more", "related recipes",
	"save recipe", "print recipe", "jump to",
}

// realFoodTerms is a coarse vocabulary of things that actually go into food.
// At least one ingredient line must mention one of these.
var realFoodTerms = []string{
	"salt", "pepper", "oil", "butter", "sugar", "flour", "water", "milk",
	"cream", "egg", "garlic", "onion", "tomato", "lemon", "lime", "vinegar",
	"cheese", "chicken", "beef", "pork", "lamb", "fish", "salmon", "shrimp",
	"prawn", "tofu", "paneer", "rice", "pasta", "noodle", "bread", "potato",
	"carrot", "celery", "mushroom", "spinach", "basil", "parsley", "cilantro",
	"coriander", "cumin", "paprika", "ginger", "chili", "chilli", "honey",
	"soy sauce", "stock", "broth", "yogurt", "yoghurt", "bean", "lentil",
	"chickpea", "cinnamon", "vanilla", "chocolate", "nut", "almond", "herb",
	"spice", "cup", "tbsp", "tsp", "tablespoon", "teaspoon", "gram", "ounce",
}

// IsRealRecipe reports whether a parsed page passes the recipe gate:
// non-empty ingredient list, at most 30% boilerplate lines, and at least one
// recognizable food term.
func IsRealRecipe(ingredients []string) bool {
	if len(ingredients) == 0 {
		return false
	}

	boilerplate := 0
	foodSeen := false
	for _, line := range ingredients {
		line = strings.ToLower(line)
		if isBoilerplate(line) {
			boilerplate++
			continue
		}
		if !foodSeen && mentionsFood(line) {
			foodSeen = true
		}
	}

	if float64(boilerplate)/float64(len(ingredients)) > maxBoilerplateRatio {
		return false
	}
	return foodSeen
}

func isBoilerplate(line string) bool {
	for _, term := range boilerplateTerms {
		if strings.Contains(line, term) {
			return true
		}
	}
	return false
}

func mentionsFood(line string) bool {
	for _, term := range realFoodTerms {
		if strings.Contains(line, term) {
			return true
		}
	}
	return false
}
