// Package session persists a run's event log and final result as
// session-scoped files.
package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/webaudit/webaudit/internal/constants"
	"github.com/webaudit/webaudit/internal/event"
)

const timestampLayout = "20060102_150405"

// Store is an event sink that appends every event to a session log file and
// writes the terminal result to its own JSON file. File names are derived
// from the session identifier and the store's creation time, so reruns never
// overwrite earlier sessions.
type Store struct {
	mu         sync.Mutex
	dir        string
	sessionID  string
	stamp      string
	logFile    *os.File
	resultPath string
}

// NewStore opens the log file for one session, creating the directory when
// missing.
func NewStore(dir, sessionID string) (*Store, error) {
	if err := os.MkdirAll(dir, constants.DefaultDirPerm); err != nil {
		return nil, fmt.Errorf("create session dir %s: %w", dir, err)
	}

	stamp := time.Now().Format(timestampLayout)
	logPath := filepath.Join(dir, fmt.Sprintf("scan_%s_%s.jsonl", sessionID, stamp))
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, constants.DefaultFilePerm)
	if err != nil {
		return nil, fmt.Errorf("open session log %s: %w", logPath, err)
	}

	return &Store{
		dir:        dir,
		sessionID:  sessionID,
		stamp:      stamp,
		logFile:    logFile,
		resultPath: filepath.Join(dir, fmt.Sprintf("results_%s_%s.json", sessionID, stamp)),
	}, nil
}

// LogPath returns the session log file location.
func (s *Store) LogPath() string {
	return s.logFile.Name()
}

// ResultPath returns where the terminal result is written.
func (s *Store) ResultPath() string {
	return s.resultPath
}

// Emit appends the event to the session log. Result events are additionally
// written to the result file.
func (s *Store) Emit(ev event.Event) error {
	b, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	b = append(b, '\n')

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.logFile.Write(b); err != nil {
		return err
	}

	if ev.Type == event.TypeResult {
		data, err := json.MarshalIndent(ev.Data, "", "  ")
		if err != nil {
			return err
		}
		if err := os.WriteFile(s.resultPath, data, constants.DefaultFilePerm); err != nil {
			return err
		}
	}
	return nil
}

// Close flushes and closes the session log.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.logFile.Close()
}
