// Package classify decides whether a (title, url) pair points at a
// collection/listicle page rather than an individual recipe. Pure and
// table-driven: each rule is independently testable and no rule consults
// network or mutable state.
package classify

import (
	"regexp"
	"strings"
)

// minTitleLen below which a title is treated as a bare category name
// ("Desserts", "Curries") rather than a dish.
const minTitleLen = 10

// Rule is a single named predicate over a lowercased title/url pair.
type Rule struct {
	Name  string
	Match func(title, url string) bool
}

var (
	numberListRe = regexp.MustCompile(`^\d+\s+\S.*\b(recipes|dishes|meals|snacks|ideas)\b`)
	hyphenatedRe = regexp.MustCompile(`\b\w+-\w+\s+(recipes|dishes)\b`)
)

// collectionKeywords in a title mark roundup-style pages.
var collectionKeywords = []string{
	"best ", "top ", "collection", "roundup", "ideas",
	"easy recipes", "quick recipes",
	"dinner recipes", "lunch recipes", "breakfast recipes",
	"vegetarian recipes", "vegan recipes",
	"batch cooking", "minute meal",
}

// collectionPathSegments in a URL mark browse/roundup sections.
var collectionPathSegments = []string{
	"/collection/", "/collections/",
	"/roundup/", "/roundups/",
	"/ideas/", "/browse/",
}

// Rules is the ordered rule table. Evaluation stops at the first match.
var Rules = []Rule{
	{
		Name: "collection-keyword",
		Match: func(title, _ string) bool {
			for _, kw := range collectionKeywords {
				if strings.Contains(title, kw) {
					return true
				}
			}
			return false
		},
	},
	{
		Name: "plural-suffix",
		Match: func(title, _ string) bool {
			return strings.HasSuffix(title, " recipes") ||
				strings.HasSuffix(title, " dishes") ||
				strings.HasSuffix(title, " snacks")
		},
	},
	{
		Name: "leading-numeral-list",
		Match: func(title, _ string) bool {
			return numberListRe.MatchString(title)
		},
	},
	{
		Name: "hyphenated-plural",
		Match: func(title, _ string) bool {
			return hyphenatedRe.MatchString(title)
		},
	},
	{
		Name: "colon-and-more",
		Match: func(title, _ string) bool {
			idx := strings.Index(title, ":")
			if idx < 0 {
				return false
			}
			rest := title[idx+1:]
			return strings.Contains(rest, "& more") || strings.Contains(rest, "and more")
		},
	},
	{
		Name: "bare-category-title",
		Match: func(title, _ string) bool {
			return len(title) > 0 && len(title) < minTitleLen
		},
	},
	{
		Name: "collection-url-segment",
		Match: func(_, url string) bool {
			for _, seg := range collectionPathSegments {
				if strings.Contains(url, seg) {
					return true
				}
			}
			return false
		},
	},
	{
		Name: "url-plural-segment",
		Match: func(_, url string) bool {
			for _, seg := range strings.Split(strings.TrimSuffix(url, "/"), "/") {
				if strings.HasSuffix(seg, "-recipes") || strings.HasSuffix(seg, "-dishes") {
					return true
				}
			}
			return false
		},
	},
}

// IsCollectionPage reports whether the title/url pair looks like a
// collection page. Empty titles are never classified as collections.
func IsCollectionPage(title, url string) bool {
	if strings.TrimSpace(title) == "" {
		return false
	}
	title = strings.ToLower(strings.TrimSpace(title))
	url = strings.ToLower(url)

	for _, rule := range Rules {
		if rule.Match(title, url) {
			return true
		}
	}
	return false
}
