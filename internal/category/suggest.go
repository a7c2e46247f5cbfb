package category

import "strings"

// collectionKeywords associates each category with the collection-name
// keywords that mark a collection as a good home for links of that category.
var collectionKeywords = map[Category][]string{
	Development:   {"coding", "dev", "development", "tech", "programming"},
	Design:        {"design", "ui", "ux", "creative", "graphics"},
	Business:      {"business", "work", "professional", "corporate"},
	Education:     {"learning", "education", "courses", "tutorials"},
	Entertainment: {"entertainment", "fun", "games", "movies"},
	News:          {"news", "articles", "current", "updates"},
	Shopping:      {"shopping", "products", "buy", "store"},
	Research:      {"research", "study", "academic", "papers"},
	Documentation: {"docs", "documentation", "guides", "reference"},
	Productivity:  {"productivity", "tools", "utilities", "apps"},
	SocialMedia:   {"social", "media", "networking", "community"},
	Video:         {"videos", "youtube", "streaming", "media"},
	Portfolio:     {"portfolio", "showcase", "personal", "work"},
	Blog:          {"blog", "articles", "writing", "content"},
}

// SuggestCollection returns the name of the first collection that looks like a
// home for links of the given category: its name (case-insensitive) contains
// one of the category's keywords, or the category tag itself.
//
// No suggestion is made when current is non-empty — an explicit user choice is
// never overridden — or when nothing matches.
func SuggestCollection(cat Category, names []string, current string) (string, bool) {
	if current != "" || cat == "" || len(names) == 0 {
		return "", false
	}

	keywords := collectionKeywords[cat]
	for _, name := range names {
		lower := strings.ToLower(name)
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				return name, true
			}
		}
		if strings.Contains(lower, string(cat)) {
			return name, true
		}
	}
	return "", false
}
