package rank

import (
	"math/rand"
	"os"
	"testing"

	"go.uber.org/zap"

	"github.com/culinara-ai/culinara/internal/domain"
	"github.com/culinara-ai/culinara/internal/domain/terms"
	"github.com/culinara-ai/culinara/internal/metrics"
)

func TestMain(m *testing.M) {
	metrics.RegisterAnswerMetrics()
	os.Exit(m.Run())
}

func newTestService() *Service {
	return New(Config{PrimaryThreshold: 0.65, SecondaryThreshold: 0.35}, zap.NewNop())
}

func candidate(id, title string, raw float64, ingredients ...string) domain.Candidate {
	return domain.Candidate{
		ID:       id,
		RawScore: raw,
		Recipe: domain.RecipeDocument{
			ID:          id,
			Title:       title,
			Ingredients: ingredients,
			SourceURL:   "https://example.com/" + id,
		},
	}
}

func TestRank_SortsByBoostedScore(t *testing.T) {
	svc := newTestService()
	ts := terms.Extract("chicken curry")

	got := svc.Rank(ts, domain.Preferences{}, "", []domain.Candidate{
		candidate("low", "Plain Chicken", 0.66, "chicken"),
		candidate("high", "Chicken Curry", 0.70, "chicken", "curry paste"),
	})

	if len(got) != 2 {
		t.Fatalf("expected 2 accepted, got %d", len(got))
	}
	if got[0].ID != "high" {
		t.Errorf("expected highest score first, got %q", got[0].ID)
	}
	if got[0].BoostedScore <= got[1].BoostedScore {
		t.Errorf("expected descending scores, got %v then %v", got[0].BoostedScore, got[1].BoostedScore)
	}
}

func TestRank_PrimaryThresholdWithoutKeywords(t *testing.T) {
	svc := newTestService()
	ts := terms.Extract("something comforting")

	// No keyword overlap: only candidates at/above the primary threshold pass.
	got := svc.Rank(ts, domain.Preferences{}, "", []domain.Candidate{
		candidate("strong", "Khichdi", 0.70, "rice", "lentils"),
		candidate("weak", "Upma", 0.50, "semolina"),
	})

	if len(got) != 1 || got[0].ID != "strong" {
		t.Fatalf("expected only the strong candidate, got %v", got)
	}
}

func TestRank_SecondaryThresholdNeedsKeywordMatch(t *testing.T) {
	svc := newTestService()
	ts := terms.Extract("paneer curry")

	got := svc.Rank(ts, domain.Preferences{}, "", []domain.Candidate{
		candidate("matched", "Paneer Butter Curry", 0.40, "paneer", "butter"),
	})
	if len(got) != 1 {
		t.Fatalf("expected keyword-backed candidate above secondary threshold to pass, got %d", len(got))
	}
}

func TestRank_BelowSecondaryRejected(t *testing.T) {
	svc := newTestService()
	ts := terms.Extract("paneer curry")

	got := svc.Rank(ts, domain.Preferences{}, "", []domain.Candidate{
		candidate("weak", "Paneer Scraps", 0.02, "paneer"),
	})
	// 0.02 + boosts stays under 0.35.
	if len(got) != 0 {
		t.Fatalf("expected rejection below secondary threshold, got %v", got)
	}
}

func TestRank_ConflictPenalty(t *testing.T) {
	svc := newTestService()
	ts := terms.Extract("chicken curry")

	// Tofu curry sits at 0.80 raw but conflicts with the queried protein,
	// and chicken is flagged explicit so fidelity rejects it outright.
	got := svc.Rank(ts, domain.Preferences{}, "chicken", []domain.Candidate{
		candidate("tofu", "Tofu Curry", 0.80, "tofu", "curry paste"),
	})
	if len(got) != 0 {
		t.Fatalf("expected tofu curry rejected for chicken query, got %v", got)
	}
}

func TestRank_ConflictPenaltyLowersScore(t *testing.T) {
	ts := terms.Extract("chicken curry")
	c := candidate("tofu", "Tofu Curry", 0.80, "tofu", "curry paste")

	score, _ := scoreCandidate(c, ts, domain.Preferences{}, "")
	// -0.3 conflict and -0.2 missing chicken dominate the small boosts.
	if score >= 0.5 {
		t.Errorf("expected conflict-penalized score < 0.5, got %v", score)
	}
}

func TestRank_ProteinFidelityZeroResults(t *testing.T) {
	svc := newTestService()
	ts := terms.Extract("lamb curry")

	// High-scoring prawn and chicken curries must not stand in for lamb.
	got := svc.Rank(ts, domain.Preferences{}, "lamb", []domain.Candidate{
		candidate("prawn", "Prawn Curry", 0.90, "prawns", "coconut milk"),
		candidate("chicken", "Chicken Curry", 0.88, "chicken", "curry paste"),
	})
	if len(got) != 0 {
		t.Fatalf("expected zero results for protein mismatch, got %v", got)
	}
}

func TestRank_ProteinTitleBoost(t *testing.T) {
	ts := terms.Extract("lamb curry")

	inTitle := candidate("a", "Lamb Rogan Josh", 0.50, "lamb shoulder")
	inIngredients := candidate("b", "Rogan Josh", 0.50, "lamb shoulder")

	titleScore, _ := scoreCandidate(inTitle, ts, domain.Preferences{}, "lamb")
	ingScore, _ := scoreCandidate(inIngredients, ts, domain.Preferences{}, "lamb")
	if titleScore <= ingScore {
		t.Errorf("expected title mention to outrank ingredient mention: %v vs %v", titleScore, ingScore)
	}
}

func TestRank_VeganGateRejectsMeatAndDairy(t *testing.T) {
	svc := newTestService()
	ts := terms.Extract("curry")
	prefs := domain.Preferences{Diets: []string{domain.DietVegan}}

	got := svc.Rank(ts, prefs, "", []domain.Candidate{
		candidate("meat", "Chicken Curry", 0.90, "chicken"),
		candidate("dairy", "Paneer Curry", 0.90, "paneer", "cream"),
		candidate("ok", "Chickpea Curry", 0.70, "chickpeas", "coconut milk"),
	})
	if len(got) != 1 || got[0].ID != "ok" {
		t.Fatalf("expected only the vegan candidate, got %v", got)
	}
}

func TestRank_NonVegGateRequiresMeat(t *testing.T) {
	svc := newTestService()
	ts := terms.Extract("dinner")
	prefs := domain.Preferences{Diets: []string{domain.DietNonVegetarian}}

	got := svc.Rank(ts, prefs, "", []domain.Candidate{
		candidate("veg", "Vegetable Pulao", 0.90, "rice", "carrot"),
		candidate("meat", "Butter Chicken", 0.80, "chicken", "butter"),
	})
	if len(got) != 1 || got[0].ID != "meat" {
		t.Fatalf("expected only the meat candidate, got %v", got)
	}
}

func TestRank_DietTagShortCircuitsGate(t *testing.T) {
	svc := newTestService()
	ts := terms.Extract("cheese toast")
	prefs := domain.Preferences{Diets: []string{domain.DietVegan}}

	c := candidate("tagged", "Vegan Cheese Toast", 0.80, "vegan cheese", "bread")
	c.Recipe.DietTags = []string{domain.DietVegan}

	got := svc.Rank(ts, prefs, "", []domain.Candidate{c})
	if len(got) != 1 {
		t.Fatalf("expected diet tag to bypass ingredient scan, got %v", got)
	}
}

func TestRank_LowCarbRelaxedWithNonVeg(t *testing.T) {
	ts := domain.Preferences{Diets: []string{domain.DietLowCarb, domain.DietNonVegetarian}}
	strict := domain.Preferences{Diets: []string{domain.DietLowCarb}}

	oneCarb := domain.RecipeDocument{
		Title:       "Grilled Chicken with Potato",
		Ingredients: []string{"chicken", "potato"},
	}

	if passesDietGates(oneCarb, strict) {
		t.Error("strict low-carb should reject a carb ingredient")
	}
	if !passesDietGates(oneCarb, ts) {
		t.Error("low-carb with non-veg should tolerate a single carb side")
	}

	twoCarbs := domain.RecipeDocument{
		Title:       "Chicken Rice Bowl",
		Ingredients: []string{"chicken", "rice", "bread"},
	}
	if passesDietGates(twoCarbs, ts) {
		t.Error("relaxed low-carb should still reject carb-heavy recipes")
	}
}

func TestRank_CollectionPageRejected(t *testing.T) {
	svc := newTestService()
	ts := terms.Extract("vegan snacks")

	got := svc.Rank(ts, domain.Preferences{}, "", []domain.Candidate{
		candidate("list", "21 Easy Vegan Snacks", 0.95, "various"),
		candidate("one", "Roasted Chickpea Snack", 0.70, "chickpeas"),
	})
	if len(got) != 1 || got[0].ID != "one" {
		t.Fatalf("expected the listicle dropped, got %v", got)
	}
}

func TestRank_SkillBoosts(t *testing.T) {
	ts := terms.Extract("curry")
	beginner := domain.Preferences{Skill: domain.SkillBeginner}

	short := candidate("short", "Quick Curry", 0.5, "curry paste")
	short.Recipe.Instructions = []string{"Heat.", "Stir.", "Serve."}
	long := candidate("long", "Curry", 0.5, "curry paste")
	long.Recipe.Instructions = make([]string, 12)

	shortScore, _ := scoreCandidate(short, ts, beginner, "")
	longScore, _ := scoreCandidate(long, ts, beginner, "")
	if shortScore <= longScore {
		t.Errorf("expected beginner boost for the short recipe: %v vs %v", shortScore, longScore)
	}

	advanced := domain.Preferences{Skill: domain.SkillAdvanced}
	longAdv, _ := scoreCandidate(long, ts, advanced, "")
	shortAdv, _ := scoreCandidate(short, ts, advanced, "")
	if longAdv <= shortAdv {
		t.Errorf("expected advanced boost for the long recipe: %v vs %v", longAdv, shortAdv)
	}
}

func TestScoreCandidate_AlwaysInUnitRange(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	ts := terms.Extract("easy chicken curry with rice for dinner")
	prefs := domain.Preferences{Skill: domain.SkillBeginner, Servings: 4}

	titles := []string{"Chicken Curry", "Tofu Stir Fry", "Bread Pudding", "Lamb Stew"}
	ingredientSets := [][]string{
		{"chicken", "rice"}, {"tofu", "noodles"}, {"bread", "milk", "sugar"}, {"lamb", "potato"},
	}

	for i := 0; i < 200; i++ {
		c := candidate("x", titles[i%len(titles)], rng.Float64()*2-0.5, ingredientSets[i%len(ingredientSets)]...)
		score, _ := scoreCandidate(c, ts, prefs, "chicken")
		if score < 0 || score > 1 {
			t.Fatalf("score out of [0,1]: %v (raw %v, title %q)", score, c.RawScore, c.Recipe.Title)
		}
	}
}

func TestDetectProtein(t *testing.T) {
	tests := []struct {
		query string
		want  string
	}{
		{"lamb curry", "lamb"},
		{"easy chicken dinner", "chicken"},
		{"paneer tikka", "paneer"},
		{"vegetable soup", ""},
	}
	for _, tt := range tests {
		if got := DetectProtein(terms.Extract(tt.query)); got != tt.want {
			t.Errorf("DetectProtein(%q) = %q, want %q", tt.query, got, tt.want)
		}
	}
}
