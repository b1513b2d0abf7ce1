// Package sse parses a server-sent-events byte stream into an ordered
// sequence of (event-name, data) records (§4.2).
package sse

import (
	"bufio"
	"encoding/json"
	"strings"
)

// Record is one flushed SSE record. Data holds either the parsed JSON
// value (map[string]any, []any, or a JSON scalar) or, if the accumulated
// data lines failed to parse as JSON, the raw joined string.
type Record struct {
	Event string
	Data  any
}

// DoneSentinel is the value the caller should drop: a record whose raw
// data (after trimming) was the literal string "[DONE]".
const DoneSentinel = "[DONE]"

// Parse reads an entire SSE body and returns its flushed records in order.
// Lines are split on '\n'; a trailing '\r' is stripped. Comment lines
// (starting with ':') are skipped. 'event:' sets the pending event name.
// 'data:' lines accumulate (a single leading space after the colon is
// stripped). A blank line flushes the pending record; a final implicit
// flush happens at end-of-input so a trailing record with no blank line
// is not dropped.
func Parse(body string) []Record {
	var records []Record
	var eventName string
	var dataLines []string
	hasPending := false

	flush := func() {
		if !hasPending {
			return
		}
		joined := strings.Join(dataLines, "\n")
		name := eventName
		if name == "" {
			name = "message"
		}
		records = append(records, Record{Event: name, Data: decode(joined)})
		eventName = ""
		dataLines = nil
		hasPending = false
	}

	scanner := bufio.NewScanner(strings.NewReader(body))
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSuffix(scanner.Text(), "\r")

		if line == "" {
			flush()
			continue
		}
		if strings.HasPrefix(line, ":") {
			continue
		}
		if rest, ok := cutPrefix(line, "event:"); ok {
			eventName = strings.TrimSpace(rest)
			hasPending = true
			continue
		}
		if rest, ok := cutPrefix(line, "data:"); ok {
			rest = strings.TrimPrefix(rest, " ")
			dataLines = append(dataLines, rest)
			hasPending = true
			continue
		}
	}
	flush()
	return records
}

func cutPrefix(line, prefix string) (string, bool) {
	if !strings.HasPrefix(line, prefix) {
		return "", false
	}
	return line[len(prefix):], true
}

func decode(joined string) any {
	var v any
	if err := json.Unmarshal([]byte(joined), &v); err != nil {
		return joined
	}
	return v
}

// IsDone reports whether a record's data is the [DONE] sentinel.
func IsDone(data any) bool {
	s, ok := data.(string)
	if !ok {
		return false
	}
	return strings.TrimSpace(s) == DoneSentinel
}

// LooksLikeSSE implements the first half of the Format Detector (§4.1):
// scanning lines top to bottom, the body is SSE if the first non-empty,
// non-comment line begins with "event:" or "data:".
func LooksLikeSSE(body string) bool {
	scanner := bufio.NewScanner(strings.NewReader(body))
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSuffix(scanner.Text(), "\r")
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, ":") {
			continue
		}
		return strings.HasPrefix(trimmed, "event:") || strings.HasPrefix(trimmed, "data:")
	}
	return false
}
