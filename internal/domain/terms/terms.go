// Package terms extracts categorized search terms from a raw query string.
// Pure functions: no I/O, no mutable state.
package terms

import "strings"

// TermSet is the categorized view of a query's meaningful tokens.
// Immutable once computed.
type TermSet struct {
	Ingredients []string
	Methods     []string
	MealTypes   []string
	All         []string
}

// HasIngredients reports whether the query named any known ingredient.
func (t TermSet) HasIngredients() bool { return len(t.Ingredients) > 0 }

// stopWords are filler tokens that carry no retrieval signal.
var stopWords = map[string]struct{}{
	"how": {}, "to": {}, "make": {}, "recipe": {}, "for": {}, "a": {},
	"an": {}, "the": {}, "with": {}, "and": {}, "or": {}, "of": {}, "in": {},
	"some": {}, "what": {}, "whats": {}, "good": {}, "me": {}, "i": {},
	"want": {}, "need": {}, "please": {},
}

// ingredientVocab is the fixed vocabulary of proteins and staples.
var ingredientVocab = map[string]struct{}{
	"chicken": {}, "beef": {}, "pork": {}, "lamb": {}, "turkey": {},
	"duck": {}, "fish": {}, "salmon": {}, "tuna": {}, "cod": {},
	"shrimp": {}, "prawn": {}, "crab": {}, "lobster": {}, "mussels": {},
	"paneer": {}, "tofu": {}, "tempeh": {}, "seitan": {}, "egg": {}, "eggs": {},
	"cheese": {}, "mozzarella": {}, "cheddar": {}, "feta": {}, "ricotta": {},
	"halloumi": {}, "mushroom": {}, "eggplant": {}, "aubergine": {},
	"zucchini": {}, "courgette": {}, "tomato": {}, "potato": {}, "onion": {},
	"garlic": {}, "spinach": {}, "broccoli": {}, "cauliflower": {},
	"chickpea": {}, "chickpeas": {}, "lentil": {}, "lentils": {}, "beans": {},
	"rice": {}, "pasta": {}, "noodle": {}, "noodles": {}, "bread": {},
	"quinoa": {}, "couscous": {},
}

// methodVocab is the fixed vocabulary of cooking techniques.
var methodVocab = map[string]struct{}{
	"baked": {}, "baking": {}, "grilled": {}, "grilling": {}, "fried": {},
	"frying": {}, "roasted": {}, "roasting": {}, "steamed": {}, "steaming": {},
	"braised": {}, "poached": {}, "smoked": {}, "stir-fry": {}, "stirfry": {},
	"slow-cooked": {}, "slow-cooker": {}, "pressure-cooked": {}, "sauteed": {},
	"curry": {}, "curried": {}, "stew": {}, "stewed": {}, "soup": {},
	"salad": {}, "casserole": {}, "bake": {}, "grill": {}, "roast": {},
}

// mealTypeVocab is the fixed vocabulary of meal categories.
var mealTypeVocab = map[string]struct{}{
	"breakfast": {}, "brunch": {}, "lunch": {}, "dinner": {}, "supper": {},
	"snack": {}, "snacks": {}, "dessert": {}, "appetizer": {}, "starter": {},
	"side": {}, "main": {},
}

// Extract tokenizes the query and classifies tokens against the fixed
// vocabularies. Tokens are lowercased, trailing punctuation stripped, stop
// words and tokens shorter than 3 characters dropped. All is the
// deduplicated union in query order.
func Extract(query string) TermSet {
	var ts TermSet
	seen := make(map[string]struct{})

	for _, raw := range strings.Fields(strings.ToLower(query)) {
		tok := strings.TrimRight(raw, "?!.,;:")
		if len(tok) < 3 {
			continue
		}
		if _, stop := stopWords[tok]; stop {
			continue
		}
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		ts.All = append(ts.All, tok)

		if _, ok := ingredientVocab[tok]; ok {
			ts.Ingredients = append(ts.Ingredients, tok)
		}
		if _, ok := methodVocab[tok]; ok {
			ts.Methods = append(ts.Methods, tok)
		}
		if _, ok := mealTypeVocab[tok]; ok {
			ts.MealTypes = append(ts.MealTypes, tok)
		}
	}

	return ts
}
