package event

import (
	"encoding/json"
	"io"
	"sync"
)

// Sink receives events in emission order. Implementations must be safe for
// concurrent use; the orchestrator and a fetch strategy may emit interleaved.
type Sink interface {
	Emit(ev Event) error
}

// StreamSink writes one JSON record per line to an output stream. Records are
// written atomically under a mutex so concurrent emitters never interleave
// partial lines.
type StreamSink struct {
	mu sync.Mutex
	w  io.Writer
}

// NewStreamSink wraps w as an NDJSON event sink.
func NewStreamSink(w io.Writer) *StreamSink {
	return &StreamSink{w: w}
}

// Emit serializes the event and appends a newline.
func (s *StreamSink) Emit(ev Event) error {
	b, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	b = append(b, '\n')

	s.mu.Lock()
	defer s.mu.Unlock()
	_, err = s.w.Write(b)
	return err
}

// MultiSink fans an event out to several sinks. Every sink sees every event;
// the first error is returned after all sinks have been offered the event.
type MultiSink struct {
	sinks []Sink
}

// NewMultiSink builds a fan-out sink.
func NewMultiSink(sinks ...Sink) *MultiSink {
	return &MultiSink{sinks: sinks}
}

// Emit delivers the event to all sinks.
func (m *MultiSink) Emit(ev Event) error {
	var first error
	for _, s := range m.sinks {
		if err := s.Emit(ev); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// MemorySink collects events for inspection in tests.
type MemorySink struct {
	mu     sync.Mutex
	events []Event
}

// Emit records the event.
func (m *MemorySink) Emit(ev Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, ev)
	return nil
}

// Events returns a copy of everything emitted so far.
func (m *MemorySink) Events() []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Event, len(m.events))
	copy(out, m.events)
	return out
}
