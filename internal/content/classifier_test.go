package content

import (
	"testing"

	"github.com/webaudit/webaudit/internal/page"
)

func pageFrom(t *testing.T, src string) *page.Page {
	t.Helper()
	doc, err := page.ParseDocument([]byte(src))
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}
	return &page.Page{Doc: doc, Body: []byte(src)}
}

func TestClassifyContentType(t *testing.T) {
	cases := []struct {
		name, body, want string
	}{
		{"ecommerce", "<html><body><p>Add to cart and checkout today</p></body></html>", "e-commerce"},
		{"blog", "<html><body><p>Read our latest blog article by the author</p></body></html>", "blog/news"},
		{"corporate", "<html><body><p>About us and our company mission</p></body></html>", "corporate"},
		{"educational", "<html><body><p>Take this tutorial to master the material</p></body></html>", "educational"},
		{"social", "<html><body><p>Follow friends and view your timeline</p></body></html>", "social"},
		{"general", "<html><body><p>Plain page without markers</p></body></html>", "general"},
	}
	c := NewClassifier()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := c.Classify(pageFrom(t, tc.body))
			if got.ContentType != tc.want {
				t.Errorf("ContentType = %q, want %q", got.ContentType, tc.want)
			}
		})
	}
}

func TestClassifyContentTypePrecedence(t *testing.T) {
	// Both e-commerce and blog terms present; e-commerce wins.
	c := NewClassifier()
	p := pageFrom(t, "<html><body><p>Shop our products and read our blog</p></body></html>")
	if got := c.Classify(p); got.ContentType != "e-commerce" {
		t.Errorf("ContentType = %q, want e-commerce", got.ContentType)
	}
}

func TestClassifyArchitecture(t *testing.T) {
	cases := []struct {
		name, body, want string
	}{
		{"react", `<html><body><div id="root"></div><script src="/react.production.min.js"></script></body></html>`, "React"},
		{"angular", `<html><body><div ng-app="demo"></div></body></html>`, "Angular"},
		{"wordpress", `<html><head><link href="/wp-content/themes/x/style.css"></head><body></body></html>`, "WordPress"},
		{"jquery", `<html><body><script src="/jquery.min.js"></script></body></html>`, "jQuery"},
		{"traditional", `<html><body><p>static page</p></body></html>`, "Traditional"},
	}
	c := NewClassifier()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := c.Classify(pageFrom(t, tc.body))
			if got.Architecture != tc.want {
				t.Errorf("Architecture = %q, want %q", got.Architecture, tc.want)
			}
		})
	}
}

func TestClassifyUserFlows(t *testing.T) {
	c := NewClassifier()
	p := pageFrom(t, `<html><body>
		<nav><a href="/">Home</a></nav>
		<form action="/subscribe"><input type="email" name="e"></form>
		<a href="/login">Sign in</a>
		<input type="search" name="q">
	</body></html>`)

	got := c.Classify(p)
	want := []string{
		"Form submission workflow",
		"Site navigation flow",
		"Authentication workflow",
		"Search functionality",
	}
	if len(got.UserFlows) != len(want) {
		t.Fatalf("UserFlows = %v, want %v", got.UserFlows, want)
	}
	for i := range want {
		if got.UserFlows[i] != want[i] {
			t.Errorf("UserFlows[%d] = %q, want %q", i, got.UserFlows[i], want[i])
		}
	}
}

func TestClassifyNoFlows(t *testing.T) {
	c := NewClassifier()
	got := c.Classify(pageFrom(t, "<html><body><p>just text</p></body></html>"))
	if got.UserFlows == nil {
		t.Fatal("UserFlows is nil, want empty slice")
	}
	if len(got.UserFlows) != 0 {
		t.Errorf("UserFlows = %v, want empty", got.UserFlows)
	}
}

func TestClassifyNilPage(t *testing.T) {
	c := NewClassifier()
	got := c.Classify(nil)
	if got.ContentType != "general" || got.Architecture != "Traditional" {
		t.Errorf("nil page profile = %+v", got)
	}
}
