// Package journal implements the Event Builder & Journal Writer (§4.6):
// wrapping normalized/extracted payloads with type/time/sequence
// metadata and appending them as newline-delimited JSON to a per-session
// file.
package journal

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Type is the canonical event kind (§3 "Canonical event").
type Type string

const (
	TypeUserInput Type = "user_input"
	TypeToolIO    Type = "tool_io"
	TypeLLMAnswer Type = "llm_answer"
)

// Event is the canonical on-disk record: { type, at, requestSequence, payload }.
type Event struct {
	Type            Type   `json:"type"`
	At              string `json:"at"`
	RequestSequence *int64 `json:"requestSequence"`
	Payload         any    `json:"payload"`
}

type userInputPayload struct {
	Text string `json:"text"`
}

type toolIOPayload struct {
	Phase string `json:"phase"`
	Text  string `json:"text"`
}

type llmAnswerPayload struct {
	Text string `json:"text"`
}

// UserInput builds a user_input event.
func UserInput(at time.Time, seq int64, text string) Event {
	return Event{Type: TypeUserInput, At: formatTime(at), RequestSequence: &seq, Payload: userInputPayload{Text: text}}
}

// ToolIO builds a tool_io event (phase "input" or "output").
func ToolIO(at time.Time, seq int64, phase, text string) Event {
	return Event{Type: TypeToolIO, At: formatTime(at), RequestSequence: &seq, Payload: toolIOPayload{Phase: phase, Text: text}}
}

// LLMAnswer builds an llm_answer event.
func LLMAnswer(at time.Time, seq int64, text string) Event {
	return Event{Type: TypeLLMAnswer, At: formatTime(at), RequestSequence: &seq, Payload: llmAnswerPayload{Text: text}}
}

// formatTime renders an RFC-3339 UTC timestamp with millisecond
// precision and a literal "Z" suffix, per §3's canonical event format.
func formatTime(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z")
}

// Writer appends canonical events to a session's journal file.
type Writer struct {
	destDir string
}

// NewWriter returns a Writer rooted at destDir; the directory is
// created lazily on first Append, not here.
func NewWriter(destDir string) *Writer {
	return &Writer{destDir: destDir}
}

// Append opens <destDir>/<sanitizedID>.json in append mode, writes one
// compact JSON line per event, and closes on return. An empty event
// list is a no-op: the file is neither created nor opened. No fsync is
// attempted; a write failure is returned to the caller, who must not
// advance the cursor for the sequence that produced these events.
func (w *Writer) Append(sanitizedID string, events []Event) error {
	if len(events) == 0 {
		return nil
	}
	if err := os.MkdirAll(w.destDir, 0o755); err != nil {
		return fmt.Errorf("journal: create dest dir: %w", err)
	}

	path := filepath.Join(w.destDir, sanitizedID+".json")
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("journal: open %s: %w", path, err)
	}
	defer f.Close()

	for _, ev := range events {
		b, err := json.Marshal(ev)
		if err != nil {
			return fmt.Errorf("journal: encode event: %w", err)
		}
		b = append(b, '\n')
		if _, err := f.Write(b); err != nil {
			return fmt.Errorf("journal: write %s: %w", path, err)
		}
	}
	return nil
}
