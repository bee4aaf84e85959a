package domain

// Skill levels a caller may state in preferences.
const (
	SkillBeginner     = "beginner"
	SkillIntermediate = "intermediate"
	SkillAdvanced     = "advanced"
)

// Diet tags understood by the dietary gate. Unknown tags are ignored.
const (
	DietVegan         = "vegan"
	DietVegetarian    = "vegetarian"
	DietNonVegetarian = "non-vegetarian"
	DietLowCarb       = "low-carb"
	DietKeto          = "keto"
	DietGlutenFree    = "gluten-free"
	DietDairyFree     = "dairy-free"
	DietPaleo         = "paleo"
)

// Preferences are caller-supplied structured preferences, read-only within
// the core.
type Preferences struct {
	Diets    []string
	Skill    string
	Servings int
	Goal     string
}

// HasDiet reports whether the given diet tag was requested.
func (p Preferences) HasDiet(tag string) bool {
	for _, d := range p.Diets {
		if d == tag {
			return true
		}
	}
	return false
}

// Candidate is a scored retrieval hit. Produced per retrieval call and
// discarded after the query completes.
type Candidate struct {
	ID               string
	RawScore         float64 // similarity as reported by the index, 1 - distance
	BoostedScore     float64 // final score after boosts, clamped to [0,1]
	Recipe           RecipeDocument
	IsCollectionPage bool
	KeywordMatched   bool
}
