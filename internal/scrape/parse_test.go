package scrape

import (
	"errors"
	"testing"

	"github.com/culinara-ai/culinara/internal/domain"
)

const jsonLDRecipePage = `<!DOCTYPE html>
<html><head>
<title>Chana Masala | Example Kitchen</title>
<script type="application/ld+json">
{
  "@context": "https://schema.org",
  "@type": "Recipe",
  "name": "Chana Masala",
  "recipeCuisine": "Indian",
  "recipeCategory": ["Dinner", "Main"],
  "recipeIngredient": ["2 cups chickpeas", "1 onion", "2 tomatoes"],
  "recipeInstructions": [
    {"@type": "HowToStep", "text": "Soak the chickpeas overnight."},
    {"@type": "HowToStep", "text": "Simmer with spices."}
  ]
}
</script>
</head><body><h1>Chana Masala</h1></body></html>`

func TestParse_JSONLDRecipe(t *testing.T) {
	res, err := Parse(jsonLDRecipePage, "https://example.com/chana-masala")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if res.Recipe == nil {
		t.Fatal("expected a recipe")
	}
	if res.Recipe.Title != "Chana Masala" {
		t.Errorf("unexpected title %q", res.Recipe.Title)
	}
	if res.Recipe.Cuisine != "Indian" {
		t.Errorf("unexpected cuisine %q", res.Recipe.Cuisine)
	}
	if res.Recipe.Category != "Dinner" {
		t.Errorf("expected first category, got %q", res.Recipe.Category)
	}
	if len(res.Recipe.Ingredients) != 3 {
		t.Errorf("unexpected ingredients %v", res.Recipe.Ingredients)
	}
	if len(res.Recipe.Instructions) != 2 || res.Recipe.Instructions[0] != "Soak the chickpeas overnight." {
		t.Errorf("unexpected instructions %v", res.Recipe.Instructions)
	}
	if res.Recipe.SourceURL != "https://example.com/chana-masala" {
		t.Errorf("unexpected source url %q", res.Recipe.SourceURL)
	}
}

func TestParse_JSONLDGraphWrapper(t *testing.T) {
	page := `<html><head><script type="application/ld+json">
	{"@graph": [
	  {"@type": "WebSite", "name": "Example"},
	  {"@type": "Recipe", "name": "Dal Tadka",
	   "recipeIngredient": ["1 cup lentils"],
	   "recipeInstructions": "Boil the lentils."}
	]}
	</script></head><body></body></html>`

	res, err := Parse(page, "https://example.com/dal")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if res.Recipe == nil || res.Recipe.Title != "Dal Tadka" {
		t.Fatalf("expected Dal Tadka from @graph, got %+v", res.Recipe)
	}
	if len(res.Recipe.Instructions) != 1 {
		t.Errorf("expected single string instruction, got %v", res.Recipe.Instructions)
	}
}

func TestParse_HowToSectionInstructions(t *testing.T) {
	page := `<html><head><script type="application/ld+json">
	{"@type": "Recipe", "name": "Layered Biryani",
	 "recipeIngredient": ["rice", "spices"],
	 "recipeInstructions": [
	   {"@type": "HowToSection", "name": "Rice", "itemListElement": [
	     {"@type": "HowToStep", "text": "Rinse the rice."},
	     {"@type": "HowToStep", "text": "Parboil."}
	   ]},
	   {"@type": "HowToStep", "text": "Layer and steam."}
	 ]}
	</script></head><body></body></html>`

	res, err := Parse(page, "https://example.com/biryani")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := []string{"Rinse the rice.", "Parboil.", "Layer and steam."}
	if len(res.Recipe.Instructions) != len(want) {
		t.Fatalf("expected %d steps, got %v", len(want), res.Recipe.Instructions)
	}
	for i, s := range want {
		if res.Recipe.Instructions[i] != s {
			t.Errorf("step %d = %q, want %q", i, res.Recipe.Instructions[i], s)
		}
	}
}

func TestParse_ItemListLinks(t *testing.T) {
	page := `<html><head><script type="application/ld+json">
	{"@type": "ItemList", "name": "25 Best Vegan Dinners",
	 "itemListElement": [
	   {"@type": "ListItem", "position": 1, "url": "https://example.com/r/1"},
	   {"@type": "ListItem", "position": 2, "url": "https://example.com/r/2"}
	 ]}
	</script></head><body><h1>25 Best Vegan Dinners</h1></body></html>`

	res, err := Parse(page, "https://example.com/roundup")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if res.Recipe != nil {
		t.Error("expected no single recipe for an ItemList page")
	}
	if len(res.ItemLinks) != 2 {
		t.Fatalf("expected 2 item links, got %v", res.ItemLinks)
	}
	if res.Title != "25 Best Vegan Dinners" {
		t.Errorf("unexpected title %q", res.Title)
	}
}

func TestParse_ItemListEmbeddedRecipes(t *testing.T) {
	page := `<html><head><script type="application/ld+json">
	{"@type": "ItemList", "name": "Curry Collection",
	 "itemListElement": [
	   {"@type": "ListItem", "item": {"@type": "Recipe", "name": "Red Curry",
	     "recipeIngredient": ["coconut milk", "curry paste"],
	     "recipeInstructions": [{"@type": "HowToStep", "text": "Simmer."}]}},
	   {"@type": "ListItem", "item": {"@type": "Recipe", "name": "Green Curry",
	     "recipeIngredient": ["coconut milk", "green chilies"],
	     "recipeInstructions": [{"@type": "HowToStep", "text": "Simmer."}]}}
	 ]}
	</script></head><body></body></html>`

	res, err := Parse(page, "https://example.com/curries")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(res.Recipes) != 2 {
		t.Fatalf("expected 2 embedded recipes, got %d", len(res.Recipes))
	}
	if res.Recipes[0].Title != "Red Curry" || res.Recipes[1].Title != "Green Curry" {
		t.Errorf("unexpected recipes %v, %v", res.Recipes[0].Title, res.Recipes[1].Title)
	}
}

const heuristicPage = `<!DOCTYPE html>
<html><head><title>Garlic Naan - Some Blog</title></head>
<body>
<h1>Garlic Naan</h1>
<div class="recipe-ingredients">
  <ul>
    <li>2 cups flour</li>
    <li>1 tsp yeast</li>
    <li>3 cloves garlic</li>
  </ul>
</div>
<div class="recipe-directions">
  <ol>
    <li>Knead the dough.</li>
    <li>Rest for an hour.</li>
    <li>Cook on a hot tawa.</li>
  </ol>
</div>
</body></html>`

func TestParse_HeuristicFallback(t *testing.T) {
	res, err := Parse(heuristicPage, "https://example.com/naan")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if res.Recipe == nil {
		t.Fatal("expected a recipe from heuristics")
	}
	if res.Recipe.Title != "Garlic Naan" {
		t.Errorf("unexpected title %q", res.Recipe.Title)
	}
	if len(res.Recipe.Ingredients) != 3 {
		t.Errorf("unexpected ingredients %v", res.Recipe.Ingredients)
	}
	if len(res.Recipe.Instructions) != 3 {
		t.Errorf("unexpected instructions %v", res.Recipe.Instructions)
	}
}

func TestParse_HeuristicDeduplicatesItems(t *testing.T) {
	page := `<html><body><h1>Test</h1>
	<ul class="ingredients"><li>salt</li><li>salt</li><li>pepper</li></ul>
	</body></html>`

	res, err := Parse(page, "https://example.com/x")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(res.Recipe.Ingredients) != 2 {
		t.Errorf("expected duplicates dropped, got %v", res.Recipe.Ingredients)
	}
}

func TestParse_UnusablePage(t *testing.T) {
	page := `<html><head><title>About Us</title></head>
	<body><h1>About Us</h1><p>We write about food.</p></body></html>`

	res, err := Parse(page, "https://example.com/about")
	if !errors.Is(err, domain.ErrPageUnusable) {
		t.Fatalf("expected ErrPageUnusable, got %v", err)
	}
	if res.Title != "About Us" {
		t.Errorf("expected title to survive for classification, got %q", res.Title)
	}
}

func TestParse_MalformedJSONLDFallsThrough(t *testing.T) {
	page := `<html><head><script type="application/ld+json">{broken json</script></head>
	<body><h1>Paneer Tikka</h1>
	<ul class="ingredient-list"><li>paneer</li><li>yogurt</li></ul>
	</body></html>`

	res, err := Parse(page, "https://example.com/tikka")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if res.Recipe == nil || len(res.Recipe.Ingredients) != 2 {
		t.Fatalf("expected heuristic rescue after bad JSON-LD, got %+v", res)
	}
}
