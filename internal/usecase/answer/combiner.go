package answer

import (
	"fmt"
	"strings"

	"github.com/culinara-ai/culinara/internal/domain"
	"github.com/culinara-ai/culinara/internal/usecase/fallback"
)

// corpusAnswer shapes accepted corpus candidates into the final answer.
// Candidates arrive sorted by boosted score descending.
func (s *Service) corpusAnswer(query string, accepted []domain.Candidate) domain.FinalAnswer {
	recipes := make([]domain.RecipeDocument, 0, domain.MaxAnswerRecipes)
	seen := make(map[string]struct{})

	for _, c := range accepted {
		fp := c.Recipe.Fingerprint()
		if _, dup := seen[fp]; dup {
			continue
		}
		seen[fp] = struct{}{}
		recipes = append(recipes, c.Recipe)
		if len(recipes) == domain.MaxAnswerRecipes {
			break
		}
	}

	return domain.FinalAnswer{
		Message: topMatchMessage(query, recipes),
		Source:  domain.SourceCorpus,
		Recipes: recipes,
	}
}

// combineWeb shapes the fallback outcome. Web recipes carry no similarity
// score; document order (search ranking, then expansion order) is kept.
func combineWeb(query string, out fallback.Outcome) domain.FinalAnswer {
	recipes := out.Recipes
	if len(recipes) > domain.MaxAnswerRecipes {
		recipes = recipes[:domain.MaxAnswerRecipes]
	}

	if len(recipes) == 0 {
		answer := noResultsAnswer(query)
		answer.CollectionPages = out.CollectionPages
		return answer
	}

	return domain.FinalAnswer{
		Message:         topMatchMessage(query, recipes),
		Source:          domain.SourceWeb,
		Recipes:         recipes,
		CollectionPages: out.CollectionPages,
	}
}

// noResultsAnswer is the terminal state: explicit guidance, never an error.
func noResultsAnswer(query string) domain.FinalAnswer {
	return domain.FinalAnswer{
		Message: fmt.Sprintf(
			"I couldn't find a good recipe match for %q. "+
				"Try naming a main ingredient or a dish, like \"paneer curry\" or \"quick lentil soup\".",
			strings.TrimSpace(query)),
		Source: domain.SourceNone,
	}
}

// topMatchMessage builds the conversational lead-in for a non-empty answer.
func topMatchMessage(query string, recipes []domain.RecipeDocument) string {
	top := recipes[0]
	var sb strings.Builder
	fmt.Fprintf(&sb, "For %q, the best match is %s", strings.TrimSpace(query), top.Title)
	if top.Cuisine != "" {
		fmt.Fprintf(&sb, " (%s)", top.Cuisine)
	}
	if len(recipes) > 1 {
		others := make([]string, 0, len(recipes)-1)
		for _, r := range recipes[1:] {
			others = append(others, r.Title)
		}
		fmt.Fprintf(&sb, ". Also worth a look: %s", strings.Join(others, ", "))
	}
	sb.WriteString(".")
	return sb.String()
}

// factPrompt asks for one short, interesting fact about the top dish.
func factPrompt(recipe domain.RecipeDocument) string {
	return fmt.Sprintf(
		"Share one short, interesting fact about the dish %q. One sentence, no preamble.",
		recipe.Title)
}
