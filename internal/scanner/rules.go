package scanner

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/webaudit/webaudit/internal/page"
)

// RulesetVersion identifies the rule tables below. Bump when a rule or
// severity weighting changes.
const RulesetVersion = "rules-v1"

// headerSpec describes one required response header.
type headerSpec struct {
	severity       Severity
	description    string
	recommendation string
}

// securityHeaderChecklist is the fixed set of headers every response is
// expected to carry. Missing Content-Security-Policy is weighted high; the
// rest are medium.
var securityHeaderChecklist = map[string]headerSpec{
	"X-Frame-Options": {
		severity:       SeverityMedium,
		description:    "Responses can be embedded in frames on other origins, enabling clickjacking.",
		recommendation: "Set X-Frame-Options to DENY or SAMEORIGIN.",
	},
	"X-Content-Type-Options": {
		severity:       SeverityMedium,
		description:    "Browsers may MIME-sniff responses into executable types.",
		recommendation: "Set X-Content-Type-Options to nosniff.",
	},
	"X-XSS-Protection": {
		severity:       SeverityMedium,
		description:    "Legacy browser XSS filtering is not enabled.",
		recommendation: "Set X-XSS-Protection to 1; mode=block.",
	},
	"Strict-Transport-Security": {
		severity:       SeverityMedium,
		description:    "Browsers are not instructed to keep future connections on HTTPS.",
		recommendation: "Set Strict-Transport-Security with a max-age of at least one year.",
	},
	"Content-Security-Policy": {
		severity:       SeverityHigh,
		description:    "No content security policy restricts where scripts and resources load from.",
		recommendation: "Define a Content-Security-Policy appropriate for the site.",
	},
}

// escapeMarkers are substrings whose presence in a value attribute suggests
// the value passed through server-side escaping.
var escapeMarkers = []string{"htmlentities", "escape", "sanitize"}

// Scanner runs the vulnerability ruleset against a page snapshot.
type Scanner struct {
	logger *zap.SugaredLogger
}

// New builds a scanner.
func New(logger *zap.SugaredLogger) *Scanner {
	return &Scanner{logger: logger}
}

// Scan applies every rule to the page and returns the accumulated findings.
// Rules are independent; a panic inside one rule drops that rule's findings
// and the scan continues.
func (s *Scanner) Scan(rawURL string, p *page.Page) []Finding {
	findings := make([]Finding, 0)
	for _, rule := range []struct {
		name string
		fn   func(string, *page.Page) []Finding
	}{
		{"transport", s.checkTransport},
		{"security_headers", s.checkSecurityHeaders},
		{"csrf", s.checkCSRF},
		{"xss", s.checkXSS},
	} {
		findings = append(findings, s.runRule(rule.name, rule.fn, rawURL, p)...)
	}
	return findings
}

// runRule isolates one rule. A panic is logged and the rule contributes
// nothing.
func (s *Scanner) runRule(name string, fn func(string, *page.Page) []Finding, rawURL string, p *page.Page) (out []Finding) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Warnw("scan rule aborted", "rule", name, "panic", r)
			out = nil
		}
	}()
	return fn(rawURL, p)
}

func (s *Scanner) checkTransport(rawURL string, p *page.Page) []Finding {
	if strings.HasPrefix(strings.ToLower(rawURL), "https://") {
		return nil
	}

	findings := []Finding{{
		Type:           TypeOther,
		Severity:       SeverityHigh,
		Title:          "Site not served over HTTPS",
		Description:    "The page is delivered over an unencrypted connection; traffic can be read and modified in transit.",
		Location:       rawURL,
		Recommendation: "Serve the site over HTTPS and redirect HTTP traffic.",
	}}

	if hasPasswordField(p) {
		findings = append(findings, Finding{
			Type:           TypeOther,
			Severity:       SeverityCritical,
			Title:          "Password field on unencrypted page",
			Description:    "A password input is submitted over plain HTTP, exposing credentials to interception.",
			Location:       rawURL,
			Recommendation: "Move all authentication forms behind HTTPS immediately.",
		})
	}
	return findings
}

func hasPasswordField(p *page.Page) bool {
	if p == nil || p.Doc == nil {
		return false
	}
	for _, n := range page.Elements(p.Doc, "input") {
		if strings.EqualFold(page.Attr(n, "type"), "password") {
			return true
		}
	}
	return false
}

func (s *Scanner) checkSecurityHeaders(rawURL string, p *page.Page) []Finding {
	if p == nil || p.Headers == nil {
		return nil
	}
	var findings []Finding
	for _, name := range orderedHeaderNames() {
		if p.Headers.Get(name) != "" {
			continue
		}
		spec := securityHeaderChecklist[name]
		findings = append(findings, Finding{
			Type:           TypeMissingHeaders,
			Severity:       spec.severity,
			Title:          fmt.Sprintf("Missing %s header", name),
			Description:    spec.description,
			Location:       rawURL,
			Recommendation: spec.recommendation,
		})
	}
	return findings
}

// orderedHeaderNames keeps header findings in a stable order across runs.
func orderedHeaderNames() []string {
	return []string{
		"X-Frame-Options",
		"X-Content-Type-Options",
		"X-XSS-Protection",
		"Strict-Transport-Security",
		"Content-Security-Policy",
	}
}

func (s *Scanner) checkCSRF(rawURL string, p *page.Page) []Finding {
	if p == nil || p.Doc == nil {
		return nil
	}
	var findings []Finding
	for _, form := range page.Elements(p.Doc, "form") {
		if formHasCSRFToken(form) {
			continue
		}
		action := page.Attr(form, "action")
		if action == "" {
			action = rawURL
		}
		findings = append(findings, Finding{
			Type:           TypeCSRF,
			Severity:       SeverityMedium,
			Title:          "Form without CSRF token",
			Description:    "The form submits without an anti-forgery token, allowing cross-site request forgery.",
			Location:       action,
			Recommendation: "Include a per-session CSRF token in every state-changing form.",
		})
	}
	return findings
}

func formHasCSRFToken(form *html.Node) bool {
	for _, input := range page.Elements(form, "input") {
		if strings.Contains(strings.ToLower(page.Attr(input, "name")), "csrf") {
			return true
		}
	}
	return false
}

func (s *Scanner) checkXSS(rawURL string, p *page.Page) []Finding {
	if p == nil || p.Doc == nil {
		return nil
	}
	var findings []Finding

	for _, n := range page.Elements(p.Doc, "input", "textarea") {
		value := page.Attr(n, "value")
		if value == "" || hasEscapeMarker(value) {
			continue
		}
		findings = append(findings, Finding{
			Type:           TypeXSS,
			Severity:       SeverityMedium,
			Title:          "Unescaped value in input field",
			Description:    "An input carries a literal value with no sign of output escaping; reflected content may execute.",
			Location:       rawURL,
			Evidence:       truncate(value, 80),
			Recommendation: "HTML-escape all user-controlled values before rendering them into attributes.",
		})
	}

	// Inline scripts are only meaningful evidence against a live document
	// where they actually executed.
	if p.ScriptExecuted {
		for _, n := range page.Elements(p.Doc, "script") {
			if page.Attr(n, "src") != "" {
				continue
			}
			body := page.InnerText(n)
			if strings.TrimSpace(body) == "" {
				continue
			}
			findings = append(findings, Finding{
				Type:           TypeXSS,
				Severity:       SeverityLow,
				Title:          "Inline script block",
				Description:    "Inline scripts widen the injection surface and prevent strict CSP enforcement.",
				Location:       rawURL,
				Evidence:       truncate(body, 80),
				Recommendation: "Move scripts to external files and enable a CSP without unsafe-inline.",
			})
		}
	}
	return findings
}

func hasEscapeMarker(value string) bool {
	lower := strings.ToLower(value)
	for _, marker := range escapeMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
