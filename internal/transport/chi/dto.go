package chi

import "github.com/culinara-ai/culinara/internal/domain"

// Error response codes.
const (
	codeBadRequest       = "bad_request"
	codeValidationFailed = "validation_failed"
	codeRecipeNotFound   = "recipe_not_found"
	codeProviderError    = "provider_error"
	codeInternalError    = "internal_error"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type preferencesDTO struct {
	Diets    []string `json:"diets,omitempty"`
	Skill    string   `json:"skill,omitempty"`
	Servings int      `json:"servings,omitempty"`
	Goal     string   `json:"goal,omitempty"`
}

type answerRequest struct {
	Query       string          `json:"query"`
	Preferences *preferencesDTO `json:"preferences,omitempty"`
}

type recipeDTO struct {
	ID           string            `json:"id,omitempty"`
	Title        string            `json:"title"`
	Ingredients  []string          `json:"ingredients"`
	Instructions []string          `json:"instructions"`
	Facts        map[string]string `json:"facts,omitempty"`
	Cuisine      string            `json:"cuisine,omitempty"`
	Category     string            `json:"category,omitempty"`
	DietTags     []string          `json:"diet_tags,omitempty"`
	SourceURL    string            `json:"source_url,omitempty"`
}

type collectionPageDTO struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

type answerResponse struct {
	Message         string              `json:"message"`
	Source          string              `json:"source"`
	Recipes         []recipeDTO         `json:"recipes"`
	Facts           []string            `json:"facts,omitempty"`
	CollectionPages []collectionPageDTO `json:"collection_pages,omitempty"`
}

type searchRequest struct {
	Query    string  `json:"query"`
	TopK     int     `json:"top_k,omitempty"`
	MinScore float64 `json:"min_score,omitempty"`
}

type searchHitDTO struct {
	ID     string    `json:"id"`
	Score  float64   `json:"score"`
	Recipe recipeDTO `json:"recipe"`
}

type searchResponse struct {
	Items []searchHitDTO `json:"items"`
	Total int            `json:"total"`
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func recipeToDTO(r domain.RecipeDocument) recipeDTO {
	return recipeDTO{
		ID:           r.ID,
		Title:        r.Title,
		Ingredients:  r.Ingredients,
		Instructions: r.Instructions,
		Facts:        r.Facts,
		Cuisine:      r.Cuisine,
		Category:     r.Category,
		DietTags:     r.DietTags,
		SourceURL:    r.SourceURL,
	}
}

func answerToDTO(a domain.FinalAnswer) answerResponse {
	recipes := make([]recipeDTO, len(a.Recipes))
	for i, r := range a.Recipes {
		recipes[i] = recipeToDTO(r)
	}

	var pages []collectionPageDTO
	for _, p := range a.CollectionPages {
		pages = append(pages, collectionPageDTO{Title: p.Title, URL: p.URL})
	}

	return answerResponse{
		Message:         a.Message,
		Source:          string(a.Source),
		Recipes:         recipes,
		Facts:           a.Facts,
		CollectionPages: pages,
	}
}

func candidatesToDTO(cs []domain.Candidate) searchResponse {
	items := make([]searchHitDTO, len(cs))
	for i, c := range cs {
		items[i] = searchHitDTO{
			ID:     c.ID,
			Score:  c.RawScore,
			Recipe: recipeToDTO(c.Recipe),
		}
	}
	return searchResponse{Items: items, Total: len(items)}
}

func preferencesFromDTO(p *preferencesDTO) domain.Preferences {
	if p == nil {
		return domain.Preferences{}
	}
	return domain.Preferences{
		Diets:    p.Diets,
		Skill:    p.Skill,
		Servings: p.Servings,
		Goal:     p.Goal,
	}
}
