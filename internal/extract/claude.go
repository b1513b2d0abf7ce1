package extract

import (
	"encoding/json"

	"github.com/vinayprograms/tracecap/internal/sse"
)

// extractClaudeObject implements §4.3 "Claude object": for each block in
// content[], type=="text" appends text, type=="tool_use" records
// {id, name, input}.
func extractClaudeObject(v any, acc *accumulator) {
	content, ok := fieldArray(v, "content")
	if !ok {
		return
	}
	for _, block := range content {
		typ, _ := fieldString(block, "type")
		switch typ {
		case "text":
			if text, ok := fieldString(block, "text"); ok {
				acc.addText(text)
			}
		case "tool_use":
			id, _ := fieldString(block, "id")
			name, _ := fieldString(block, "name")
			input, _ := field(block, "input")
			acc.addTool(ToolUse{ID: id, Name: name, Input: input})
		}
	}
}

type claudeToolState struct {
	id        string
	name      string
	input     any
	hasInput  bool
	inputJSON string
}

// extractClaudeStream implements §4.3 "Claude streaming": a map from
// block index to partial tool-use state, text_delta appended directly,
// input_json_delta buffered and parsed once the stream ends.
func extractClaudeStream(records []sse.Record, acc *accumulator) {
	blocks := map[float64]*claudeToolState{}
	var order []float64

	for _, rec := range records {
		if sse.IsDone(rec.Data) {
			continue
		}
		// The data payload's own "type" decides; the SSE event: name is
		// used when the payload carries none.
		typ, _ := fieldString(rec.Data, "type")
		if typ == "" {
			typ = rec.Event
		}
		switch typ {
		case "content_block_start":
			idx, ok := asFloat(mustField(rec.Data, "index"))
			if !ok {
				continue
			}
			block, ok := fieldObject(rec.Data, "content_block")
			if !ok {
				continue
			}
			if typ, _ := asString(block["type"]); typ == "tool_use" {
				st := &claudeToolState{}
				st.id, _ = asString(block["id"])
				st.name, _ = asString(block["name"])
				if input, present := block["input"]; present {
					st.input = input
					st.hasInput = true
				}
				blocks[idx] = st
				order = append(order, idx)
			}
		case "content_block_delta":
			idx, ok := asFloat(mustField(rec.Data, "index"))
			if !ok {
				continue
			}
			delta, ok := fieldObject(rec.Data, "delta")
			if !ok {
				continue
			}
			switch delta["type"] {
			case "text_delta":
				if text, ok := asString(delta["text"]); ok {
					acc.addText(text)
				}
			case "input_json_delta":
				if partial, ok := asString(delta["partial_json"]); ok {
					if st, exists := blocks[idx]; exists {
						st.inputJSON += partial
					}
				}
			}
		}
	}

	for _, idx := range order {
		st := blocks[idx]
		if !st.hasInput && st.inputJSON != "" {
			var parsed any
			if err := json.Unmarshal([]byte(st.inputJSON), &parsed); err == nil {
				st.input = parsed
			} else {
				st.input = st.inputJSON
			}
		}
		acc.addTool(ToolUse{ID: st.id, Name: st.name, Input: st.input})
	}
}

func mustField(v any, key string) any {
	val, _ := field(v, key)
	return val
}
