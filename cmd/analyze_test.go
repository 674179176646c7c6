package cmd

import (
	"testing"

	"go.uber.org/zap"

	"github.com/webaudit/webaudit/internal/event"
)

func TestBuildStrategy(t *testing.T) {
	logger = zap.NewNop().Sugar()
	sink := &event.MemorySink{}

	prev := analyzeStrategy
	defer func() { analyzeStrategy = prev }()

	analyzeStrategy = "static"
	s, err := buildStrategy(sink)
	if err != nil {
		t.Fatalf("static: %v", err)
	}
	if s.Name() != "static" {
		t.Errorf("Name = %q, want static", s.Name())
	}

	analyzeStrategy = "browser"
	s, err = buildStrategy(sink)
	if err != nil {
		t.Fatalf("browser: %v", err)
	}
	if s.Name() != "browser" {
		t.Errorf("Name = %q, want browser", s.Name())
	}

	analyzeStrategy = "carrier-pigeon"
	if _, err := buildStrategy(sink); err == nil {
		t.Error("expected error for unknown strategy")
	}
}

func TestAnalyzeRequiresURL(t *testing.T) {
	if err := analyzeCmd.Args(analyzeCmd, []string{}); err == nil {
		t.Error("expected usage error with no arguments")
	}
	if err := analyzeCmd.Args(analyzeCmd, []string{"https://example.com"}); err != nil {
		t.Errorf("one argument rejected: %v", err)
	}
	if err := analyzeCmd.Args(analyzeCmd, []string{"a", "b"}); err == nil {
		t.Error("expected usage error with two arguments")
	}
}
