package fetch

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/webaudit/webaudit/internal/constants"
	"github.com/webaudit/webaudit/internal/event"
	"github.com/webaudit/webaudit/internal/page"
)

// BrowserConfig tunes the headless browser strategy.
type BrowserConfig struct {
	// ExecPath points at a Chrome or Chromium binary. Empty lets chromedp
	// find one on PATH.
	ExecPath string
	// DeepInspection enables a scripted second pass after the initial load.
	DeepInspection bool
	// BlockResources skips images, fonts, and media during navigation.
	BlockResources bool
	// CaptureScreenshots emits a screenshot event once the page settles.
	CaptureScreenshots bool
}

// blockedResourcePatterns are applied when BlockResources is set.
var blockedResourcePatterns = []string{
	"*.png", "*.jpg", "*.jpeg", "*.gif", "*.svg", "*.ico", "*.webp",
	"*.woff", "*.woff2", "*.ttf", "*.eot",
	"*.mp4", "*.mp3", "*.webm",
}

// BrowserStrategy drives a headless Chrome through the DevTools protocol and
// reports its visible steps on the event stream.
type BrowserStrategy struct {
	config BrowserConfig
	sink   event.Sink
	logger *zap.SugaredLogger
}

// NewBrowserStrategy builds the browser strategy. The sink receives
// browserAction and screenshot events during fetches.
func NewBrowserStrategy(config BrowserConfig, sink event.Sink, logger *zap.SugaredLogger) *BrowserStrategy {
	return &BrowserStrategy{config: config, sink: sink, logger: logger}
}

// Name identifies the strategy in logs.
func (b *BrowserStrategy) Name() string { return "browser" }

// navigationTiming mirrors the values read from the page's performance API.
type navigationTiming struct {
	DNS       float64 `json:"dns"`
	Connect   float64 `json:"connect"`
	SSL       float64 `json:"ssl"`
	TTFB      float64 `json:"ttfb"`
	DOMLoad   float64 `json:"domLoad"`
	TotalLoad float64 `json:"totalLoad"`
}

const navigationTimingJS = `(() => {
	const t = performance.timing;
	const nav = t.navigationStart;
	return {
		dns: Math.max(0, t.domainLookupEnd - t.domainLookupStart),
		connect: Math.max(0, t.connectEnd - t.connectStart),
		ssl: t.secureConnectionStart > 0 ? Math.max(0, t.connectEnd - t.secureConnectionStart) : 0,
		ttfb: Math.max(0, t.responseStart - nav),
		domLoad: Math.max(0, t.domContentLoadedEventEnd - nav),
		totalLoad: Math.max(0, (t.loadEventEnd > 0 ? t.loadEventEnd : Date.now()) - nav)
	};
})()`

// networkStats accumulates what the DevTools network events report while the
// page loads. Listener callbacks run on chromedp's goroutine, so access is
// mutex guarded.
type networkStats struct {
	mu         sync.Mutex
	statusCode int
	headers    map[string]string
	finalURL   string
	totalSize  int64
	scriptSize int64
	styleSize  int64
	imageSize  int64
	jsErrors   int
}

func (n *networkStats) recordResponse(e *network.EventResponseReceived) {
	n.mu.Lock()
	defer n.mu.Unlock()

	size := int64(e.Response.EncodedDataLength)
	n.totalSize += size
	switch e.Type {
	case network.ResourceTypeDocument:
		if n.statusCode == 0 {
			n.statusCode = int(e.Response.Status)
			n.finalURL = e.Response.URL
			n.headers = make(map[string]string, len(e.Response.Headers))
			for k, v := range e.Response.Headers {
				if s, ok := v.(string); ok {
					n.headers[k] = s
				}
			}
		}
	case network.ResourceTypeScript:
		n.scriptSize += size
	case network.ResourceTypeStylesheet:
		n.styleSize += size
	case network.ResourceTypeImage:
		n.imageSize += size
	}
}

func (n *networkStats) recordException() {
	n.mu.Lock()
	n.jsErrors++
	n.mu.Unlock()
}

// Fetch loads rawURL in a headless browser, executing scripts and measuring
// real navigation timing. The initial navigation is terminal on failure; the
// optional deep-inspection pass degrades to a warning.
func (b *BrowserStrategy) Fetch(ctx context.Context, rawURL string) (*page.Page, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.FetchTimeout)
	defer cancel()

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("window-size", "1920,1080"),
		chromedp.UserAgent(constants.BrowserUserAgent),
	)
	if b.config.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(b.config.ExecPath))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	defer allocCancel()

	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	defer browserCancel()

	stats := &networkStats{}
	chromedp.ListenTarget(browserCtx, func(ev interface{}) {
		switch e := ev.(type) {
		case *network.EventResponseReceived:
			stats.recordResponse(e)
		case *runtime.EventExceptionThrown:
			stats.recordException()
		}
	})

	b.action("Launching headless browser")

	setup := []chromedp.Action{network.Enable()}
	if b.config.BlockResources {
		b.action("Blocking media and font resources")
		setup = append(setup, network.SetBlockedURLs(blockedResourcePatterns))
	}

	b.action(fmt.Sprintf("Navigating to %s", rawURL))
	start := time.Now()
	if err := chromedp.Run(browserCtx, append(setup, chromedp.Navigate(rawURL))...); err != nil {
		return nil, fetchError("navigate to %s: %v", rawURL, err)
	}

	b.action("Waiting for page to settle")
	if err := b.waitSettled(browserCtx); err != nil {
		b.logger.Warnw("page did not settle, continuing with partial content", "url", rawURL, "error", err)
	}
	loadDuration := time.Since(start)

	var title, outerHTML string
	var timing navigationTiming
	if err := chromedp.Run(browserCtx,
		chromedp.Title(&title),
		chromedp.Evaluate(navigationTimingJS, &timing),
		chromedp.OuterHTML("html", &outerHTML),
	); err != nil {
		return nil, fetchError("read page state of %s: %v", rawURL, err)
	}

	if b.config.DeepInspection {
		b.runDeepInspection(browserCtx, rawURL, &outerHTML, &title)
	}

	if b.config.CaptureScreenshots {
		b.captureScreenshot(browserCtx)
	}

	body := []byte(outerHTML)
	doc, err := page.ParseDocument(body)
	if err != nil {
		return nil, fetchError("parse %s: %v", rawURL, err)
	}

	stats.mu.Lock()
	defer stats.mu.Unlock()

	p := &page.Page{
		URL:            rawURL,
		FinalURL:       stats.finalURL,
		StatusCode:     stats.statusCode,
		Headers:        make(http.Header, len(stats.headers)),
		Body:           body,
		Doc:            doc,
		Title:          title,
		FetchDuration:  loadDuration,
		JSErrors:       stats.jsErrors,
		ScriptExecuted: true,
	}
	if p.FinalURL == "" {
		p.FinalURL = rawURL
	}
	for k, v := range stats.headers {
		p.Headers.Set(k, v)
	}

	p.Timing = page.Timing{
		DNSMillis:       timing.DNS,
		ConnectMillis:   timing.Connect,
		SSLMillis:       timing.SSL,
		TTFBMillis:      timing.TTFB,
		DOMLoadMillis:   timing.DOMLoad,
		TotalLoadMillis: timing.TotalLoad,
		TotalSize:       stats.totalSize,
		ScriptSize:      stats.scriptSize,
		StyleSize:       stats.styleSize,
		ImageSize:       stats.imageSize,
	}
	return p, nil
}

// waitSettled waits for document.readyState to reach complete, bounded by the
// wait-condition timeout. A miss degrades to partial content.
func (b *BrowserStrategy) waitSettled(browserCtx context.Context) error {
	waitCtx, cancel := context.WithTimeout(browserCtx, constants.WaitConditionTimeout)
	defer cancel()

	for {
		var ready string
		if err := chromedp.Run(waitCtx, chromedp.Evaluate(`document.readyState`, &ready)); err != nil {
			return err
		}
		if ready == "complete" {
			return nil
		}
		select {
		case <-waitCtx.Done():
			return waitCtx.Err()
		case <-time.After(200 * time.Millisecond):
		}
	}
}

// runDeepInspection scrolls the page and re-reads the DOM so lazily rendered
// content is included in the snapshot. Failures are soft.
func (b *BrowserStrategy) runDeepInspection(browserCtx context.Context, rawURL string, outerHTML, title *string) {
	b.action("Running deep inspection pass")

	deepCtx, cancel := context.WithTimeout(browserCtx, constants.DeepInspectionTimeout)
	defer cancel()

	err := chromedp.Run(deepCtx,
		chromedp.Evaluate(`window.scrollTo(0, document.body.scrollHeight)`, nil),
		chromedp.Sleep(500*time.Millisecond),
		chromedp.Evaluate(`window.scrollTo(0, 0)`, nil),
		chromedp.Sleep(200*time.Millisecond),
	)
	if err != nil {
		b.logger.Warnw("deep inspection incomplete", "url", rawURL, "error", err)
		return
	}

	var refreshedHTML, refreshedTitle string
	if err := chromedp.Run(deepCtx,
		chromedp.Title(&refreshedTitle),
		chromedp.OuterHTML("html", &refreshedHTML),
	); err != nil {
		b.logger.Warnw("deep inspection re-read failed", "url", rawURL, "error", err)
		return
	}
	*outerHTML = refreshedHTML
	*title = refreshedTitle
	b.action("Deep inspection complete")
}

// captureScreenshot takes a compressed full-page screenshot and emits it as a
// data URI. Failures are soft.
func (b *BrowserStrategy) captureScreenshot(browserCtx context.Context) {
	b.action("Capturing screenshot")

	var buf []byte
	if err := chromedp.Run(browserCtx, chromedp.FullScreenshot(&buf, 30)); err != nil {
		b.logger.Warnw("screenshot capture failed", "error", err)
		return
	}
	dataURI := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf)
	if err := b.sink.Emit(event.Screenshot(dataURI)); err != nil {
		b.logger.Warnw("screenshot emit failed", "error", err)
	}
}

func (b *BrowserStrategy) action(msg string) {
	if b.sink == nil {
		return
	}
	if err := b.sink.Emit(event.BrowserAction(msg)); err != nil {
		b.logger.Warnw("browser action emit failed", "error", err)
	}
}
