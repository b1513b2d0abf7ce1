// Package normalize implements the Message Normalizer (§4.4): turning a
// decoded request-side messages array into canonical user_input and
// tool_io(output) events, independent of the provider-specific response
// extraction in internal/extract.
package normalize

import "strings"

// Kind distinguishes the two event families this package emits; the
// llm_answer event kind is produced by internal/extract instead.
type Kind string

const (
	KindUserInput Kind = "user_input"
	KindToolIO    Kind = "tool_io"
)

// Event is a normalized event awaiting the sequence/timestamp wrapping
// internal/journal applies. Phase is only meaningful for KindToolIO.
type Event struct {
	Kind  Kind
	Phase string // "input" or "output"
	Text  string
}

// systemPrefixes are the scaffolding headers the spec says to suppress
// when a user message has no explicit "User:" block.
var systemPrefixes = []string{
	"# AGENTS.md instructions",
	"<environment_context>",
	"# System Instructions",
	"# Conversation",
}

// Messages implements §4.4: walks a decoded messages array in order,
// emitting user_input events for user-authored text and tool_io(output)
// events for tool results, preserving both message order and the order
// of parts within a message's content.
func Messages(messages []any) []Event {
	var events []Event
	for _, msg := range messages {
		events = append(events, messageEvents(msg)...)
	}
	return events
}

func messageEvents(msg any) []Event {
	var events []Event

	content, hasContent := field(msg, "content")
	if !hasContent {
		content, _ = field(msg, "parts")
	}
	text := normalizeText(content)

	if role, _ := fieldString(msg, "role"); role == "user" && strings.TrimSpace(text) != "" {
		events = append(events, userInputEvents(text)...)
	}

	if typ, _ := fieldString(msg, "type"); typ == "input_text" {
		if inputText, ok := fieldString(msg, "text"); ok {
			events = append(events, userInputEvents(inputText)...)
		}
	}

	if contentParts, ok := asArray(content); ok {
		for _, part := range contentParts {
			if partType, _ := fieldString(part, "type"); partType == "tool_result" {
				if out := normalizeText(mustField(part, "content")); out != "" {
					events = append(events, Event{Kind: KindToolIO, Phase: "output", Text: out})
				}
			}
		}
	}

	if role, _ := fieldString(msg, "role"); role == "tool" {
		if text != "" {
			events = append(events, Event{Kind: KindToolIO, Phase: "output", Text: text})
		}
	}

	if typ, _ := fieldString(msg, "type"); typ == "function_call_output" {
		raw, present := field(msg, "output")
		if !present {
			raw, present = field(msg, "content")
		}
		if !present {
			raw, present = field(msg, "result")
		}
		if present {
			if out := normalizeText(raw); out != "" {
				events = append(events, Event{Kind: KindToolIO, Phase: "output", Text: out})
			}
		}
	}

	return events
}

// userInputEvents applies the "User:"-block extraction / system-prefix
// suppression rule to a single text value.
func userInputEvents(text string) []Event {
	blocks := extractUserBlocks(text)
	if len(blocks) > 0 {
		events := make([]Event, 0, len(blocks))
		for _, b := range blocks {
			events = append(events, Event{Kind: KindUserInput, Text: b})
		}
		return events
	}
	if hasSystemPrefix(text) {
		return nil
	}
	return []Event{{Kind: KindUserInput, Text: strings.TrimSpace(text)}}
}

func hasSystemPrefix(text string) bool {
	trimmed := strings.TrimSpace(text)
	for _, prefix := range systemPrefixes {
		if strings.HasPrefix(trimmed, prefix) {
			return true
		}
	}
	return false
}

func mustField(v any, key string) any {
	val, _ := field(v, key)
	return val
}
