package extract

import (
	"github.com/vinayprograms/tracecap/internal/sse"
)

// extractResponseAPIObject implements §4.3 "Response-API object": for
// each item in output[], a "message" item's content[] parts of type
// output_text or text are appended as text, a bare "output_text" item
// appends its own text field, and a "function_call" item is recorded as
// a tool use with input parsed from its arguments (or input) field.
func extractResponseAPIObject(v any, acc *accumulator) {
	output, ok := fieldArray(v, "output")
	if !ok {
		if resp, ok := fieldObject(v, "response"); ok {
			output, ok = fieldArray(resp, "output")
			if !ok {
				return
			}
		} else {
			return
		}
	}
	for _, item := range output {
		extractResponseAPIItem(item, acc)
	}
}

func extractResponseAPIItem(item any, acc *accumulator) {
	typ, _ := fieldString(item, "type")
	switch typ {
	case "message":
		content, ok := fieldArray(item, "content")
		if !ok {
			return
		}
		for _, part := range content {
			partType, _ := fieldString(part, "type")
			if partType == "output_text" || partType == "text" {
				if text, ok := fieldString(part, "text"); ok {
					acc.addText(text)
				}
			}
		}
	case "output_text":
		if text, ok := fieldString(item, "text"); ok {
			acc.addText(text)
		}
	case "function_call":
		id, _ := fieldString(item, "id")
		name, _ := fieldString(item, "name")
		raw, hasArgs := field(item, "arguments")
		if !hasArgs {
			raw, hasArgs = field(item, "input")
		}
		if !hasArgs {
			return
		}
		acc.addTool(ToolUse{ID: id, Name: name, Input: parseArguments(raw)})
	}
}

// extractResponseAPIStream implements §4.3 "Response-API streaming":
// output_text.delta events append delta.text; output_item.added events
// re-enter object extraction wrapping the added item in a one-element
// output[]; any event whose type contains "function_call" derives name
// and arguments directly from that event's own fields (incremental
// response.function_call_arguments.delta events carry only a "delta"
// fragment and so contribute nothing — the terminating ...done event
// carries the full arguments string and is what actually records the
// tool use); any event carrying a "response" object re-enters object
// extraction on it (response.completed-style terminal events restate
// the full output alongside the incremental deltas).
func extractResponseAPIStream(records []sse.Record, acc *accumulator) {
	for _, rec := range records {
		if sse.IsDone(rec.Data) {
			continue
		}
		typ, _ := fieldString(rec.Data, "type")

		switch {
		case typ == "response.output_text.delta":
			if delta, ok := fieldObject(rec.Data, "delta"); ok {
				if text, ok := asString(delta["text"]); ok {
					acc.addText(text)
				}
			}
		case typ == "response.output_item.added":
			if item, ok := field(rec.Data, "item"); ok {
				extractResponseAPIObject(map[string]any{"output": []any{item}}, acc)
			}
		case containsFunctionCall(typ):
			name, hasName := fieldString(rec.Data, "name")
			if !hasName {
				if fn, ok := fieldObject(rec.Data, "function"); ok {
					name, hasName = asString(fn["name"])
				}
			}
			args, hasArgs := field(rec.Data, "arguments")
			if !hasArgs {
				if fn, ok := fieldObject(rec.Data, "function"); ok {
					args, hasArgs = fn["arguments"], fn["arguments"] != nil
				}
			}
			if hasName || hasArgs {
				id, _ := fieldString(rec.Data, "id")
				acc.addTool(ToolUse{ID: id, Name: name, Input: parseArguments(args)})
			}
		}

		if resp, ok := fieldObject(rec.Data, "response"); ok {
			extractResponseAPIObject(resp, acc)
		}
	}
}

func containsFunctionCall(typ string) bool {
	const needle = "function_call"
	if len(typ) < len(needle) {
		return false
	}
	for i := 0; i+len(needle) <= len(typ); i++ {
		if typ[i:i+len(needle)] == needle {
			return true
		}
	}
	return false
}
