package fetch

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/webaudit/webaudit/internal/constants"
	"github.com/webaudit/webaudit/internal/page"
)

// StaticStrategy fetches the page with a plain HTTP client. It cannot execute
// scripts, so script-dependent metrics are left zero and ScriptExecuted is
// false on the snapshot.
type StaticStrategy struct {
	client  *http.Client
	limiter *rate.Limiter
	logger  *zap.SugaredLogger
}

// NewStaticStrategy builds the static strategy with the shared fetch timeout.
func NewStaticStrategy(logger *zap.SugaredLogger) *StaticStrategy {
	return &StaticStrategy{
		client: &http.Client{
			Timeout: constants.FetchTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(constants.ResourceRequestsPerSecond), constants.ResourceRequestsPerSecond),
		logger:  logger,
	}
}

// Name identifies the strategy in logs.
func (s *StaticStrategy) Name() string { return "static" }

// Fetch retrieves rawURL, parses the document, and estimates resource sizes
// from inline content plus bounded HEAD requests for external assets.
func (s *StaticStrategy) Fetch(ctx context.Context, rawURL string) (*page.Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fetchError("build request for %s: %v", rawURL, err)
	}
	req.Header.Set("User-Agent", constants.BrowserUserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	start := time.Now()
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fetchError("get %s: %v", rawURL, err)
	}
	defer resp.Body.Close()
	ttfb := time.Since(start)

	body, err := io.ReadAll(io.LimitReader(resp.Body, constants.MaxBodyBytes))
	if err != nil {
		return nil, fetchError("read body of %s: %v", rawURL, err)
	}
	total := time.Since(start)

	doc, err := page.ParseDocument(body)
	if err != nil {
		return nil, fetchError("parse %s: %v", rawURL, err)
	}

	p := &page.Page{
		URL:           rawURL,
		FinalURL:      resp.Request.URL.String(),
		StatusCode:    resp.StatusCode,
		Headers:       resp.Header.Clone(),
		Body:          body,
		Doc:           doc,
		Title:         page.DocumentTitle(doc),
		FetchDuration: total,
	}
	p.Timing.TTFBMillis = float64(ttfb.Milliseconds())
	p.Timing.TotalLoadMillis = float64(total.Milliseconds())
	p.Timing.TotalSize = int64(len(body))

	s.measureResources(ctx, p)
	return p, nil
}

// measureResources sums inline script and style sizes, then sizes a bounded
// number of external assets with paced HEAD requests. Sizing failures only
// cost accuracy, never the run.
func (s *StaticStrategy) measureResources(ctx context.Context, p *page.Page) {
	base, err := url.Parse(p.FinalURL)
	if err != nil {
		return
	}

	for _, n := range page.Elements(p.Doc, "script") {
		if page.Attr(n, "src") == "" {
			p.Timing.ScriptSize += int64(len(page.InnerText(n)))
		}
	}
	for _, n := range page.Elements(p.Doc, "style") {
		p.Timing.StyleSize += int64(len(page.InnerText(n)))
	}

	var external []string
	for _, n := range page.Elements(p.Doc, "script") {
		if src := page.Attr(n, "src"); src != "" {
			external = append(external, src)
		}
	}
	for _, n := range page.Elements(p.Doc, "link") {
		rel := strings.ToLower(page.Attr(n, "rel"))
		if rel == "stylesheet" {
			if href := page.Attr(n, "href"); href != "" {
				external = append(external, href)
			}
		}
	}
	for _, n := range page.Elements(p.Doc, "img") {
		if src := page.Attr(n, "src"); src != "" && !strings.HasPrefix(src, "data:") {
			external = append(external, src)
		}
	}

	sized := 0
	for _, ref := range external {
		if sized >= constants.MaxSizedResources {
			break
		}
		abs, err := base.Parse(ref)
		if err != nil || (abs.Scheme != "http" && abs.Scheme != "https") {
			continue
		}
		if err := s.limiter.Wait(ctx); err != nil {
			return
		}
		size, err := s.headSize(ctx, abs.String())
		if err != nil {
			s.logger.Debugw("resource size probe failed", "url", abs.String(), "error", err)
			continue
		}
		sized++
		p.Timing.TotalSize += size
		switch ClassifyResource(abs.String()) {
		case KindScript:
			p.Timing.ScriptSize += size
		case KindStyle:
			p.Timing.StyleSize += size
		case KindImage:
			p.Timing.ImageSize += size
		}
	}
}

func (s *StaticStrategy) headSize(ctx context.Context, rawURL string) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, rawURL, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("User-Agent", constants.BrowserUserAgent)
	resp, err := s.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, 1024))
	if resp.ContentLength > 0 {
		return resp.ContentLength, nil
	}
	return 0, nil
}
