package pipeline

import (
	"fmt"
	"time"

	"github.com/webaudit/webaudit/internal/content"
	"github.com/webaudit/webaudit/internal/nlp"
	"github.com/webaudit/webaudit/internal/page"
	"github.com/webaudit/webaudit/internal/scanner"
)

// BrowserInfo reports what the fetch observed about the final document.
type BrowserInfo struct {
	Title      string `json:"title"`
	URL        string `json:"url"`
	StatusCode int    `json:"statusCode"`
}

// Report is the result payload of a completed run.
type Report struct {
	URL                string             `json:"url"`
	LoadTime           string             `json:"loadTime"`
	SecurityScore      int                `json:"securityScore"`
	DOMElements        int                `json:"domElements"`
	JSErrors           int                `json:"jsErrors"`
	Vulnerabilities    []scanner.Finding  `json:"vulnerabilities"`
	PerformanceMetrics map[string]float64 `json:"performanceMetrics"`
	NLPInsights        *nlp.Insights      `json:"nlpInsights,omitempty"`
	ContentProfile     *content.Profile   `json:"contentProfile,omitempty"`
	BrowserInfo        BrowserInfo        `json:"browserInfo"`
	Timestamp          string             `json:"timestamp"`
}

// performanceMetricKeys are always present in a report, zero when a metric
// was unavailable, never null.
var performanceMetricKeys = []string{
	"dns", "connect", "ssl", "ttfb", "domLoad", "totalLoad",
	"totalSize", "jsSize", "cssSize", "imageSize",
}

// newReport builds a report with every collection initialized and every
// metric defaulted to zero.
func newReport(rawURL string) *Report {
	metrics := make(map[string]float64, len(performanceMetricKeys))
	for _, key := range performanceMetricKeys {
		metrics[key] = 0
	}
	return &Report{
		URL:                rawURL,
		Vulnerabilities:    []scanner.Finding{},
		PerformanceMetrics: metrics,
		Timestamp:          time.Now().Format(time.RFC3339),
	}
}

// fillFromPage copies the fetch snapshot into the report.
func (r *Report) fillFromPage(p *page.Page) {
	r.LoadTime = fmt.Sprintf("%.2fs", p.FetchDuration.Seconds())
	r.DOMElements = page.CountElements(p.Doc)
	r.JSErrors = p.JSErrors
	r.BrowserInfo = BrowserInfo{
		Title:      p.Title,
		URL:        p.FinalURL,
		StatusCode: p.StatusCode,
	}
}

// fillPerformance copies in-page timing into the metric map.
func (r *Report) fillPerformance(t page.Timing) {
	r.PerformanceMetrics["dns"] = t.DNSMillis
	r.PerformanceMetrics["connect"] = t.ConnectMillis
	r.PerformanceMetrics["ssl"] = t.SSLMillis
	r.PerformanceMetrics["ttfb"] = t.TTFBMillis
	r.PerformanceMetrics["domLoad"] = t.DOMLoadMillis
	r.PerformanceMetrics["totalLoad"] = t.TotalLoadMillis
	r.PerformanceMetrics["totalSize"] = float64(t.TotalSize)
	r.PerformanceMetrics["jsSize"] = float64(t.ScriptSize)
	r.PerformanceMetrics["cssSize"] = float64(t.StyleSize)
	r.PerformanceMetrics["imageSize"] = float64(t.ImageSize)
}

// ErrorReport is the result payload of a failed run.
type ErrorReport struct {
	Error         string `json:"error"`
	URL           string `json:"url"`
	SecurityScore int    `json:"securityScore"`
	Status        string `json:"status"`
	Timestamp     string `json:"timestamp"`
}

func newErrorReport(rawURL, message string) *ErrorReport {
	return &ErrorReport{
		Error:     message,
		URL:       rawURL,
		Status:    "failed",
		Timestamp: time.Now().Format(time.RFC3339),
	}
}
