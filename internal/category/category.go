package category

import (
	"net/url"
	"strings"
)

// Category is one of the closed set of link classification tags.
type Category string

const (
	SocialMedia   Category = "social_media"
	Video         Category = "video"
	Development   Category = "development"
	News          Category = "news"
	Shopping      Category = "shopping"
	Education     Category = "education"
	Productivity  Category = "productivity"
	Design        Category = "design"
	Business      Category = "business"
	Entertainment Category = "entertainment"
	Research      Category = "research"
	Documentation Category = "documentation"
	Portfolio     Category = "portfolio"
	Blog          Category = "blog"
	Other         Category = "other"
)

// All returns every valid category in canonical order.
func All() []Category {
	return []Category{
		SocialMedia, Video, Development, News, Shopping, Education,
		Productivity, Design, Business, Entertainment, Research,
		Documentation, Portfolio, Blog, Other,
	}
}

// Valid reports whether s is a member of the closed category set.
func Valid(s string) bool {
	for _, c := range All() {
		if string(c) == s {
			return true
		}
	}
	return false
}

// Normalize maps an arbitrary string onto the closed set, defaulting to Other.
// Enrichment responses pass through here so a creative model answer can never
// introduce a category the rest of the app does not know.
func Normalize(s string) Category {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, " ", "_")
	if Valid(s) {
		return Category(s)
	}
	return Other
}

var labels = map[Category]string{
	SocialMedia:   "Social Media",
	Video:         "Videos",
	Development:   "Development",
	News:          "News",
	Shopping:      "Shopping",
	Education:     "Education",
	Productivity:  "Productivity",
	Design:        "Design",
	Business:      "Business",
	Entertainment: "Entertainment",
	Research:      "Research",
	Documentation: "Documentation",
	Portfolio:     "Portfolio",
	Blog:          "Blog",
	Other:         "Other",
}

// Label returns the human-readable display name for a category.
func (c Category) Label() string {
	if l, ok := labels[c]; ok {
		return l
	}
	return labels[Other]
}

// domainCategories maps well-known domains to a category. Used as the offline
// fallback when enrichment is disabled or fails.
var domainCategories = map[string]Category{
	"youtube.com":           Video,
	"vimeo.com":             Video,
	"twitch.tv":             Video,
	"facebook.com":          SocialMedia,
	"twitter.com":           SocialMedia,
	"instagram.com":         SocialMedia,
	"linkedin.com":          SocialMedia,
	"github.com":            Development,
	"stackoverflow.com":     Development,
	"developer.mozilla.org": Documentation,
	"amazon.com":            Shopping,
	"ebay.com":              Shopping,
	"medium.com":            Blog,
	"dev.to":                Blog,
	"dribbble.com":          Design,
	"behance.net":           Design,
	"figma.com":             Design,
}

// ForURL guesses a category from the link's domain alone.
func ForURL(rawURL string) Category {
	domain := strings.ToLower(Domain(rawURL))
	if domain == "" {
		return Other
	}
	for key, cat := range domainCategories {
		if strings.Contains(domain, key) {
			return cat
		}
	}
	return Other
}

// Domain extracts the hostname from a URL, with the www. prefix stripped.
// Returns "" for unparseable input.
func Domain(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return ""
	}
	return strings.TrimPrefix(u.Hostname(), "www.")
}
