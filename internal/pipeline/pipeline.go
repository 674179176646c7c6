// Package pipeline sequences a single analysis run: validate, fetch, audit,
// score, and report, with every step observable on the event stream.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"go.uber.org/zap"

	"github.com/webaudit/webaudit/internal/content"
	"github.com/webaudit/webaudit/internal/event"
	"github.com/webaudit/webaudit/internal/fetch"
	"github.com/webaudit/webaudit/internal/nlp"
	"github.com/webaudit/webaudit/internal/page"
	"github.com/webaudit/webaudit/internal/scanner"
)

// ErrInvalidURL marks a request whose URL lacks a scheme or host.
var ErrInvalidURL = errors.New("invalid url")

// State tracks where a run is in its lifecycle.
type State int

const (
	StateInit State = iota
	StateValidating
	StateFetching
	StateSecurityAudit
	StatePerformanceAudit
	StateContentAudit
	StateScoring
	StateCompleted
	StateFailed
)

var stateNames = map[State]string{
	StateInit:             "init",
	StateValidating:       "validating",
	StateFetching:         "fetching",
	StateSecurityAudit:    "security_audit",
	StatePerformanceAudit: "performance_audit",
	StateContentAudit:     "content_audit",
	StateScoring:          "scoring",
	StateCompleted:        "completed",
	StateFailed:           "failed",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

// Options selects which optional stages a run executes.
type Options struct {
	SecurityAudit   bool `json:"securityAudit"`
	PerformanceTest bool `json:"performanceTest"`
	NLPAnalysis     bool `json:"nlpAnalysis"`
	DeepInspection  bool `json:"deepInspection"`
}

// DefaultOptions enables the three analysis stages and leaves deep inspection
// off.
func DefaultOptions() Options {
	return Options{
		SecurityAudit:   true,
		PerformanceTest: true,
		NLPAnalysis:     true,
	}
}

// Request describes one analysis run.
type Request struct {
	URL       string
	SessionID string
	Options   Options
}

// Progress milestones per stage. Skipped stages skip their milestone; the
// values observed on the stream stay non-decreasing regardless.
const (
	progressValidated   = 5
	progressFetched     = 35
	progressSecurity    = 50
	progressPerformance = 70
	progressNLP         = 85
	progressDone        = 100
)

// Orchestrator runs the analysis pipeline. One orchestrator handles one run
// at a time; it is not safe for concurrent Run calls.
type Orchestrator struct {
	strategy   fetch.Strategy
	scanner    *scanner.Scanner
	nlp        *nlp.Engine
	classifier *content.Classifier
	sink       event.Sink
	logger     *zap.SugaredLogger

	state       State
	maxProgress int
}

// NewOrchestrator wires the pipeline stages together.
func NewOrchestrator(strategy fetch.Strategy, sink event.Sink, logger *zap.SugaredLogger) *Orchestrator {
	return &Orchestrator{
		strategy:   strategy,
		scanner:    scanner.New(logger),
		nlp:        nlp.NewEngine(),
		classifier: content.NewClassifier(),
		sink:       sink,
		logger:     logger,
		state:      StateInit,
	}
}

// State reports the current lifecycle state.
func (o *Orchestrator) State() State {
	return o.state
}

// Run executes the pipeline for one request. Exactly one result event is
// emitted on every path, success or failure.
func (o *Orchestrator) Run(ctx context.Context, req Request) error {
	o.state = StateValidating
	o.maxProgress = 0

	o.info(fmt.Sprintf("Starting analysis of %s", req.URL))
	o.progress(progressValidated, "running")

	if err := validateURL(req.URL); err != nil {
		return o.fail(req, err)
	}

	o.state = StateFetching
	o.info(fmt.Sprintf("Fetching %s using %s strategy", req.URL, o.strategy.Name()))
	p, err := o.strategy.Fetch(ctx, req.URL)
	if err != nil {
		return o.fail(req, err)
	}
	o.info(fmt.Sprintf("Page fetched in %.2f seconds", p.FetchDuration.Seconds()))
	o.progress(progressFetched, "")

	report := newReport(req.URL)
	report.fillFromPage(p)

	if req.Options.SecurityAudit {
		o.state = StateSecurityAudit
		o.info("Running security audit")
		runStage(o, "security audit", func() {
			report.Vulnerabilities = append(report.Vulnerabilities, o.scanner.Scan(req.URL, p)...)
		})
		o.progress(progressSecurity, "")
	}

	if req.Options.PerformanceTest {
		o.state = StatePerformanceAudit
		o.info("Running performance analysis")
		runStage(o, "performance analysis", func() {
			report.fillPerformance(p.Timing)
		})
		o.progress(progressPerformance, "")
	}

	if req.Options.NLPAnalysis {
		o.state = StateContentAudit
		o.info("Running content analysis")
		runStage(o, "content analysis", func() {
			report.NLPInsights = o.nlp.Analyze(page.Text(p.Doc))
			report.ContentProfile = o.classifier.Classify(p)
		})
		o.progress(progressNLP, "")
	}

	o.state = StateScoring
	report.SecurityScore = scanner.Score(report.Vulnerabilities)

	o.state = StateCompleted
	o.progress(progressDone, "completed")
	o.info("Analysis completed successfully")
	return o.sink.Emit(event.Result(report))
}

// fail terminates the run with a single error-carrying result event.
func (o *Orchestrator) fail(req Request, cause error) error {
	o.state = StateFailed
	msg := cause.Error()
	o.errorLog(fmt.Sprintf("Analysis failed: %s", msg))
	o.progress(0, "failed")
	if err := o.sink.Emit(event.Result(newErrorReport(req.URL, msg))); err != nil {
		return err
	}
	return cause
}

// runStage isolates one optional stage. A panic is logged and the stage's
// output stays at its default.
func runStage(o *Orchestrator, name string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			o.logger.Warnw("stage failed, continuing with defaults", "stage", name, "panic", r)
			o.warn(fmt.Sprintf("%s failed, continuing", name))
		}
	}()
	fn()
}

// progress emits a progress event, clamped so observed values never decrease
// within a run.
func (o *Orchestrator) progress(value int, status string) {
	if value < o.maxProgress {
		value = o.maxProgress
	}
	o.maxProgress = value
	o.emit(event.Progress(value, status))
}

func (o *Orchestrator) info(msg string)     { o.emit(event.Log(event.LevelInfo, msg)) }
func (o *Orchestrator) warn(msg string)     { o.emit(event.Log(event.LevelWarn, msg)) }
func (o *Orchestrator) errorLog(msg string) { o.emit(event.Log(event.LevelError, msg)) }

func (o *Orchestrator) emit(ev event.Event) {
	if err := o.sink.Emit(ev); err != nil {
		o.logger.Warnw("event emit failed", "type", ev.Type, "error", err)
	}
}

func validateURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidURL, rawURL)
	}
	if u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: %s", ErrInvalidURL, rawURL)
	}
	return nil
}
