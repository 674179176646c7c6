// Package content labels a page's content type, client-side architecture, and
// user-interaction flows from keyword and marker heuristics.
package content

import (
	"regexp"
	"strings"

	"github.com/webaudit/webaudit/internal/page"
)

// Profile is the classification output for one page.
type Profile struct {
	ContentType  string   `json:"contentType"`
	Architecture string   `json:"architecture"`
	UserFlows    []string `json:"userFlows"`
}

// contentTypeRule pairs a label with its indicator terms. Rules are evaluated
// in order; the first rule with any term present in the page text wins.
type contentTypeRule struct {
	label string
	terms []string
}

var contentTypeRules = []contentTypeRule{
	{"e-commerce", []string{"add to cart", "buy now", "checkout", "shop", "buy", "cart", "price", "product"}},
	{"blog/news", []string{"blog", "article", "news", "posted", "author", "published", "comments"}},
	{"corporate", []string{"about us", "contact us", "services", "company", "business", "team", "mission"}},
	{"educational", []string{"learn", "course", "education", "tutorial"}},
	{"social", []string{"profile", "follow", "share", "like", "comment", "friends"}},
}

// architectureRule pairs a framework label with its source markers. Markers
// are matched against the lowercased serialized document.
type architectureRule struct {
	label   string
	markers []string
}

var architectureRules = []architectureRule{
	{"React", []string{"react", "__react"}},
	{"Angular", []string{"angular", "ng-"}},
	{"Vue.js", []string{"vue", "v-bind", "v-if", "v-for"}},
	{"WordPress", []string{"wp-content", "wordpress"}},
	{"jQuery", []string{"jquery"}},
}

const maxUserFlows = 5

var (
	authTextPattern   = regexp.MustCompile(`(?i)login|sign in|register|sign up`)
	searchTextPattern = regexp.MustCompile(`(?i)search`)
)

// Classifier derives a content profile from a page snapshot.
type Classifier struct{}

// NewClassifier builds a classifier.
func NewClassifier() *Classifier {
	return &Classifier{}
}

// Classify labels the page. It never fails; a page with no matches gets the
// fallback labels and an empty flow list.
func (c *Classifier) Classify(p *page.Page) *Profile {
	profile := &Profile{
		ContentType:  "general",
		Architecture: "Traditional",
		UserFlows:    []string{},
	}
	if p == nil || p.Doc == nil {
		return profile
	}

	text := strings.ToLower(page.Text(p.Doc))
	for _, rule := range contentTypeRules {
		if containsAny(text, rule.terms) {
			profile.ContentType = rule.label
			break
		}
	}

	source := strings.ToLower(page.Render(p.Doc))
	for _, rule := range architectureRules {
		if containsAny(source, rule.markers) {
			profile.Architecture = rule.label
			break
		}
	}

	profile.UserFlows = c.detectUserFlows(p, text)
	return profile
}

// detectUserFlows checks independent indicators in a fixed order and caps the
// result at five labels.
func (c *Classifier) detectUserFlows(p *page.Page, text string) []string {
	flows := []string{}

	if len(page.Elements(p.Doc, "form")) > 0 {
		flows = append(flows, "Form submission workflow")
	}
	if len(page.Elements(p.Doc, "nav", "menu")) > 0 {
		flows = append(flows, "Site navigation flow")
	}
	if authTextPattern.MatchString(text) {
		flows = append(flows, "Authentication workflow")
	}
	if hasSearchInput(p) || searchTextPattern.MatchString(text) {
		flows = append(flows, "Search functionality")
	}

	if len(flows) > maxUserFlows {
		flows = flows[:maxUserFlows]
	}
	return flows
}

func hasSearchInput(p *page.Page) bool {
	for _, n := range page.Elements(p.Doc, "input") {
		if strings.EqualFold(page.Attr(n, "type"), "search") {
			return true
		}
	}
	return false
}

func containsAny(haystack string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}
