// Package page holds the normalized snapshot a fetch strategy produces and
// the document queries the analysis stages run against it. Every strategy
// returns the same Page shape so downstream stages are strategy-agnostic.
package page

import (
	"bytes"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html"
)

// Timing carries in-page execution timing and aggregated resource sizes.
// Strategies that cannot measure a field leave it zero, never null.
type Timing struct {
	DNSMillis       float64
	ConnectMillis   float64
	SSLMillis       float64
	TTFBMillis      float64
	DOMLoadMillis   float64
	TotalLoadMillis float64
	TotalSize       int64
	ScriptSize      int64
	StyleSize       int64
	ImageSize       int64
}

// Page is an immutable snapshot of one fetched document.
type Page struct {
	URL            string
	FinalURL       string
	StatusCode     int
	Headers        http.Header
	Body           []byte
	Doc            *html.Node
	Title          string
	FetchDuration  time.Duration
	Timing         Timing
	JSErrors       int
	ScriptExecuted bool
}

// ParseDocument parses an HTML body into a document tree. The parser is
// forgiving; malformed markup yields a best-effort tree rather than an error
// in almost all cases.
func ParseDocument(body []byte) (*html.Node, error) {
	return html.Parse(bytes.NewReader(body))
}

// Elements returns every element node in the subtree rooted at n whose tag
// matches one of tags, in document order.
func Elements(n *html.Node, tags ...string) []*html.Node {
	if n == nil {
		return nil
	}
	want := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		want[t] = struct{}{}
	}

	var found []*html.Node
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.ElementNode {
			if _, ok := want[node.Data]; ok {
				found = append(found, node)
			}
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return found
}

// CountElements counts all element nodes in the tree.
func CountElements(n *html.Node) int {
	if n == nil {
		return 0
	}
	count := 0
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.ElementNode {
			count++
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return count
}

// Attr returns the value of the named attribute on n, or "".
func Attr(n *html.Node, key string) string {
	if n == nil {
		return ""
	}
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			return a.Val
		}
	}
	return ""
}

// Text extracts the visible text content of the tree, skipping script and
// style subtrees, with runs of whitespace collapsed to single spaces.
func Text(n *html.Node) string {
	if n == nil {
		return ""
	}
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.ElementNode && (node.Data == "script" || node.Data == "style") {
			return
		}
		if node.Type == html.TextNode {
			sb.WriteString(node.Data)
			sb.WriteByte(' ')
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(sb.String()), " ")
}

// InnerText returns the text directly contained in the subtree rooted at n,
// including element children, without the script/style exclusion. Useful for
// reading a single element such as a title or script body.
func InnerText(n *html.Node) string {
	if n == nil {
		return ""
	}
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			sb.WriteString(node.Data)
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(sb.String())
}

// Render serializes a node back to HTML. Returns "" when rendering fails,
// which only happens for trees we did not produce ourselves.
func Render(n *html.Node) string {
	if n == nil {
		return ""
	}
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return ""
	}
	return buf.String()
}

// DocumentTitle returns the contents of the first <title> element.
func DocumentTitle(doc *html.Node) string {
	titles := Elements(doc, "title")
	if len(titles) == 0 {
		return ""
	}
	return InnerText(titles[0])
}
