package domain

// MaxAnswerRecipes caps the number of recipes in a final answer.
const MaxAnswerRecipes = 3

// AnswerSource identifies which branch produced the final recipes.
type AnswerSource string

const (
	// SourceCorpus means the accepted recipes came from the stored corpus.
	SourceCorpus AnswerSource = "corpus"
	// SourceWeb means the recipes came from the web fallback pipeline.
	SourceWeb AnswerSource = "web"
	// SourceNone means neither branch produced a usable recipe.
	SourceNone AnswerSource = "none"
)

// FinalAnswer is the bounded result of a single query.
// Invariants: len(Recipes) <= MaxAnswerRecipes; Recipes holds only validated
// individual recipes, deduplicated by fingerprint across sources.
type FinalAnswer struct {
	Message         string
	Source          AnswerSource
	Recipes         []RecipeDocument
	Facts           []string
	CollectionPages []CollectionPageRef
}
