// Package event defines the typed notifications an analysis run emits and the
// sinks that carry them to the parent coordinator. The wire format is
// newline-delimited JSON, one event per line.
package event

import "time"

// Type discriminates the event union on the wire.
type Type string

const (
	TypeLog           Type = "log"
	TypeProgress      Type = "progress"
	TypeBrowserAction Type = "browserAction"
	TypeScreenshot    Type = "screenshot"
	TypeResult        Type = "result"
)

// Log levels carried by log events.
const (
	LevelInfo  = "INFO"
	LevelWarn  = "WARN"
	LevelError = "ERROR"
)

// Event is one record on the stream.
type Event struct {
	Type Type        `json:"type"`
	Data interface{} `json:"data"`
}

// LogData is the payload of a log event.
type LogData struct {
	Timestamp string `json:"timestamp"`
	Level     string `json:"level"`
	Message   string `json:"message"`
}

// ProgressData is the payload of a progress event. Progress is 0..100 and
// non-decreasing within a session.
type ProgressData struct {
	Progress int    `json:"progress"`
	Status   string `json:"status,omitempty"`
}

// BrowserActionData describes a visible browser-automation step.
type BrowserActionData struct {
	Action    string `json:"action"`
	Timestamp string `json:"timestamp"`
}

// ScreenshotData carries a captured viewport as a data-URI string.
type ScreenshotData struct {
	Image     string `json:"image"`
	Timestamp string `json:"timestamp"`
}

func now() string {
	return time.Now().Format(time.RFC3339)
}

// Log builds a log event at the given level.
func Log(level, message string) Event {
	return Event{Type: TypeLog, Data: LogData{Timestamp: now(), Level: level, Message: message}}
}

// Progress builds a progress event. Status is optional.
func Progress(progress int, status string) Event {
	return Event{Type: TypeProgress, Data: ProgressData{Progress: progress, Status: status}}
}

// BrowserAction builds a browser-action event.
func BrowserAction(action string) Event {
	return Event{Type: TypeBrowserAction, Data: BrowserActionData{Action: action, Timestamp: now()}}
}

// Screenshot builds a screenshot event from a data-URI image.
func Screenshot(dataURI string) Event {
	return Event{Type: TypeScreenshot, Data: ScreenshotData{Image: dataURI, Timestamp: now()}}
}

// Result builds the terminal result event. Exactly one is emitted per session.
func Result(data interface{}) Event {
	return Event{Type: TypeResult, Data: data}
}
