package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/webaudit/webaudit/internal/event"
	"github.com/webaudit/webaudit/internal/fetch"
	"github.com/webaudit/webaudit/internal/pipeline"
	"github.com/webaudit/webaudit/internal/session"
)

var (
	analyzeSession  string
	analyzeStrategy string

	flagSecurityAudit   bool
	flagPerformanceTest bool
	flagNLPAnalysis     bool
	flagDeepInspection  bool
	flagPersist         bool
	flagScreenshots     bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <url>",
	Short: "Analyze a single page and stream results as NDJSON events",
	Long: `Analyze fetches one page, runs the enabled audit stages against it, and
writes the event stream (log, progress, browserAction, screenshot, result)
to stdout, one JSON record per line. Diagnostics go to stderr.`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE:         runAnalyze,
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	targetURL := args[0]

	sessionID := analyzeSession
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var sink event.Sink = event.NewStreamSink(os.Stdout)
	if flagPersist || viper.GetBool("persist") {
		store, err := session.NewStore(logsDir, sessionID)
		if err != nil {
			return err
		}
		defer store.Close()
		logger.Infow("persisting session", "log", store.LogPath(), "result", store.ResultPath())
		sink = event.NewMultiSink(sink, store)
	}

	strategy, err := buildStrategy(sink)
	if err != nil {
		return err
	}

	req := pipeline.Request{
		URL:       targetURL,
		SessionID: sessionID,
		Options: pipeline.Options{
			SecurityAudit:   flagSecurityAudit,
			PerformanceTest: flagPerformanceTest,
			NLPAnalysis:     flagNLPAnalysis,
			DeepInspection:  flagDeepInspection,
		},
	}

	logger.Infow("starting analysis", "url", targetURL, "session", sessionID, "strategy", strategy.Name())

	orch := pipeline.NewOrchestrator(strategy, sink, logger)
	if err := orch.Run(ctx, req); err != nil {
		fmt.Fprintf(os.Stderr, "analysis %s: %s\n", formatStatusWithColor("failed"), err)
		return err
	}
	fmt.Fprintf(os.Stderr, "analysis %s session=%s\n", formatStatusWithColor("ok"), sessionID)
	return nil
}

func buildStrategy(sink event.Sink) (fetch.Strategy, error) {
	switch analyzeStrategy {
	case "static":
		return fetch.NewStaticStrategy(logger), nil
	case "browser":
		return fetch.NewBrowserStrategy(fetch.BrowserConfig{
			ExecPath:           viper.GetString("browser.exec_path"),
			DeepInspection:     flagDeepInspection,
			BlockResources:     !flagDeepInspection && !flagScreenshots,
			CaptureScreenshots: flagScreenshots,
		}, sink, logger), nil
	default:
		return nil, fmt.Errorf("unknown strategy %q (want static or browser)", analyzeStrategy)
	}
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeSession, "session", "s", "", "session identifier (default: random)")
	analyzeCmd.Flags().StringVar(&analyzeStrategy, "strategy", "static", "fetch strategy: static or browser")
	analyzeCmd.Flags().BoolVar(&flagSecurityAudit, "security-audit", true, "run the vulnerability scan")
	analyzeCmd.Flags().BoolVar(&flagPerformanceTest, "performance-test", true, "collect performance metrics")
	analyzeCmd.Flags().BoolVar(&flagNLPAnalysis, "nlp-analysis", true, "run text and content analysis")
	analyzeCmd.Flags().BoolVar(&flagDeepInspection, "deep-inspection", false, "run a second scripted pass (browser strategy)")
	analyzeCmd.Flags().BoolVar(&flagScreenshots, "screenshots", false, "capture a screenshot (browser strategy)")
	analyzeCmd.Flags().BoolVar(&flagPersist, "persist", false, "write the event log and result to session files")
}
