package extract

import (
	"encoding/json"
	"fmt"

	"github.com/vinayprograms/tracecap/internal/sse"
)

// extractOpenAIObject implements §4.3 "OpenAI object": for each entry of
// choices[], its message.content is appended as text and each entry of
// message.tool_calls[] is recorded as a tool use, with function.arguments
// (a JSON-encoded string) parsed into input.
func extractOpenAIObject(v any, acc *accumulator) {
	choices, ok := fieldArray(v, "choices")
	if !ok {
		return
	}
	for _, choice := range choices {
		message, ok := fieldObject(choice, "message")
		if !ok {
			continue
		}
		if text, ok := asString(message["content"]); ok {
			acc.addText(text)
		}
		toolCalls, ok := asArray(message["tool_calls"])
		if !ok {
			continue
		}
		for _, call := range toolCalls {
			id, _ := fieldString(call, "id")
			fn, ok := fieldObject(call, "function")
			if !ok {
				continue
			}
			name, _ := asString(fn["name"])
			acc.addTool(ToolUse{ID: id, Name: name, Input: parseArguments(fn["arguments"])})
		}
	}
}

func parseArguments(raw any) any {
	s, ok := asString(raw)
	if !ok || s == "" {
		return raw
	}
	var parsed any
	if err := json.Unmarshal([]byte(s), &parsed); err == nil {
		return parsed
	}
	return s
}

type openAIToolState struct {
	id        string
	name      string
	arguments string
}

// extractOpenAIStream implements §4.3 "OpenAI streaming": for each
// chunk, for each entry of choices[], delta.content is appended as
// text. tool_calls[] entries accumulate by key: the choice's index (or
// position, if absent) combined with the call's id when present, else
// "index:<i>", else position in the array (OpenAI's own deltas always
// carry index, the fallback exists for shapes that omit it) — the
// choice prefix keeps concurrently-streamed choices' tool calls from
// colliding on the same call-local key.
func extractOpenAIStream(records []sse.Record, acc *accumulator) {
	calls := map[string]*openAIToolState{}
	var order []string

	for _, rec := range records {
		if sse.IsDone(rec.Data) {
			continue
		}
		choices, ok := fieldArray(rec.Data, "choices")
		if !ok {
			continue
		}
		for choicePos, choice := range choices {
			choiceKey := openAIChoiceKey(choice, choicePos)

			delta, ok := fieldObject(choice, "delta")
			if !ok {
				continue
			}
			if text, ok := asString(delta["content"]); ok {
				acc.addText(text)
			}
			toolCalls, ok := asArray(delta["tool_calls"])
			if !ok {
				continue
			}
			for pos, call := range toolCalls {
				key := choiceKey + ":" + openAIToolCallKey(call, pos)
				st, exists := calls[key]
				if !exists {
					st = &openAIToolState{}
					calls[key] = st
					order = append(order, key)
				}
				if id, ok := fieldString(call, "id"); ok && id != "" {
					st.id = id
				}
				if fn, ok := fieldObject(call, "function"); ok {
					if name, ok := asString(fn["name"]); ok && name != "" {
						st.name = name
					}
					if args, ok := asString(fn["arguments"]); ok {
						st.arguments += args
					}
				}
			}
		}
	}

	for _, key := range order {
		st := calls[key]
		acc.addTool(ToolUse{ID: st.id, Name: st.name, Input: parseArguments(st.arguments)})
	}
}

func openAIChoiceKey(choice any, pos int) string {
	if idx, ok := asFloat(mustField(choice, "index")); ok {
		return fmt.Sprintf("choice:%v", idx)
	}
	return fmt.Sprintf("choicepos:%d", pos)
}

func openAIToolCallKey(call any, pos int) string {
	if id, ok := fieldString(call, "id"); ok && id != "" {
		return id
	}
	if idx, ok := asFloat(mustField(call, "index")); ok {
		return fmt.Sprintf("index:%v", idx)
	}
	return fmt.Sprintf("pos:%d", pos)
}
