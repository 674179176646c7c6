package page

import (
	"strings"
	"testing"

	"golang.org/x/net/html"
)

const sampleHTML = `<!DOCTYPE html>
<html>
<head>
<title>Acme Store</title>
<style>body { color: red; }</style>
</head>
<body>
<h1 id="main">Welcome</h1>
<p class="intro">Shop our <a href="/catalog">catalog</a> today.</p>
<script>console.log("hidden");</script>
<img src="/logo.png" alt="logo">
<form action="/search"><input type="text" name="q"></form>
</body>
</html>`

func mustParse(t *testing.T, src string) *html.Node {
	t.Helper()
	doc, err := ParseDocument([]byte(src))
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}
	return doc
}

func TestElements(t *testing.T) {
	doc := mustParse(t, sampleHTML)

	links := Elements(doc, "a")
	if len(links) != 1 {
		t.Fatalf("expected 1 link, got %d", len(links))
	}
	if got := Attr(links[0], "href"); got != "/catalog" {
		t.Errorf("href = %q, want /catalog", got)
	}

	multi := Elements(doc, "img", "form", "input")
	if len(multi) != 3 {
		t.Errorf("expected 3 nodes for img/form/input, got %d", len(multi))
	}

	if got := Elements(nil, "a"); got != nil {
		t.Errorf("Elements(nil) = %v, want nil", got)
	}
}

func TestCountElements(t *testing.T) {
	doc := mustParse(t, "<html><head></head><body><p>one</p><p>two</p></body></html>")
	// html, head, body, p, p
	if got := CountElements(doc); got != 5 {
		t.Errorf("CountElements = %d, want 5", got)
	}
	if got := CountElements(nil); got != 0 {
		t.Errorf("CountElements(nil) = %d, want 0", got)
	}
}

func TestAttrCaseInsensitive(t *testing.T) {
	doc := mustParse(t, `<html><body><div DATA-Role="nav"></div></body></html>`)
	divs := Elements(doc, "div")
	if len(divs) != 1 {
		t.Fatalf("expected 1 div, got %d", len(divs))
	}
	if got := Attr(divs[0], "data-role"); got != "nav" {
		t.Errorf("Attr = %q, want nav", got)
	}
	if got := Attr(divs[0], "missing"); got != "" {
		t.Errorf("Attr missing = %q, want empty", got)
	}
}

func TestTextSkipsScriptAndStyle(t *testing.T) {
	doc := mustParse(t, sampleHTML)
	text := Text(doc)

	if strings.Contains(text, "console.log") {
		t.Errorf("script content leaked into text: %q", text)
	}
	if strings.Contains(text, "color: red") {
		t.Errorf("style content leaked into text: %q", text)
	}
	for _, want := range []string{"Welcome", "Shop our", "catalog"} {
		if !strings.Contains(text, want) {
			t.Errorf("text missing %q: %q", want, text)
		}
	}
}

func TestTextCollapsesWhitespace(t *testing.T) {
	doc := mustParse(t, "<html><body><p>one\n\n   two\tthree</p></body></html>")
	if got := Text(doc); got != "one two three" {
		t.Errorf("Text = %q, want %q", got, "one two three")
	}
}

func TestDocumentTitle(t *testing.T) {
	doc := mustParse(t, sampleHTML)
	if got := DocumentTitle(doc); got != "Acme Store" {
		t.Errorf("DocumentTitle = %q, want Acme Store", got)
	}

	empty := mustParse(t, "<html><body></body></html>")
	if got := DocumentTitle(empty); got != "" {
		t.Errorf("DocumentTitle without title = %q, want empty", got)
	}
}

func TestRenderRoundTrip(t *testing.T) {
	doc := mustParse(t, `<html><body><a href="/x">link</a></body></html>`)
	out := Render(doc)
	if !strings.Contains(out, `href="/x"`) {
		t.Errorf("Render missing attribute: %q", out)
	}
	if got := Render(nil); got != "" {
		t.Errorf("Render(nil) = %q, want empty", got)
	}
}
