package session

import (
	"bufio"
	"encoding/json"
	"os"
	"testing"

	"github.com/webaudit/webaudit/internal/event"
)

func TestStoreWritesEventLog(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir, "abc123")
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	defer store.Close()

	events := []event.Event{
		event.Log(event.LevelInfo, "starting"),
		event.Progress(5, "running"),
		event.Progress(100, "completed"),
	}
	for _, ev := range events {
		if err := store.Emit(ev); err != nil {
			t.Fatalf("Emit: %v", err)
		}
	}

	f, err := os.Open(store.LogPath())
	if err != nil {
		t.Fatalf("open log: %v", err)
	}
	defer f.Close()

	var lines int
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var ev struct {
			Type string          `json:"type"`
			Data json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(scanner.Bytes(), &ev); err != nil {
			t.Errorf("line %d is not valid JSON: %v", lines+1, err)
		}
		if ev.Type == "" {
			t.Errorf("line %d missing type", lines+1)
		}
		lines++
	}
	if lines != len(events) {
		t.Errorf("log lines = %d, want %d", lines, len(events))
	}
}

func TestStoreWritesResultFile(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir, "abc123")
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	defer store.Close()

	payload := map[string]interface{}{"url": "https://example.com", "securityScore": 85}
	if err := store.Emit(event.Result(payload)); err != nil {
		t.Fatalf("Emit result: %v", err)
	}

	data, err := os.ReadFile(store.ResultPath())
	if err != nil {
		t.Fatalf("read result file: %v", err)
	}
	var got map[string]interface{}
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("result file is not valid JSON: %v", err)
	}
	if got["url"] != "https://example.com" {
		t.Errorf("url = %v", got["url"])
	}
}

func TestStoreNoResultFileWithoutResult(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir, "abc123")
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	defer store.Close()

	if err := store.Emit(event.Log(event.LevelInfo, "only a log")); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if _, err := os.Stat(store.ResultPath()); !os.IsNotExist(err) {
		t.Errorf("result file exists without a result event")
	}
}

func TestStoreCreatesDirectory(t *testing.T) {
	dir := t.TempDir() + "/nested/logs"
	store, err := NewStore(dir, "xyz")
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dir); err != nil {
		t.Errorf("directory not created: %v", err)
	}
}
