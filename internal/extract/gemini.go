package extract

// extractGeminiObject implements §4.3 "Gemini object": for every
// candidate's content.parts[], a part's text field is appended as text
// and a part's functionCall is recorded as a tool use (Gemini never
// assigns an id to a function call, so ID is left empty; its input
// field is named "args" in the public API but some gateways relay it
// as "arguments").
func extractGeminiObject(v any, acc *accumulator) {
	candidates, ok := fieldArray(v, "candidates")
	if !ok {
		return
	}
	for _, candidate := range candidates {
		content, ok := fieldObject(candidate, "content")
		if !ok {
			continue
		}
		parts, ok := asArray(content["parts"])
		if !ok {
			continue
		}
		for _, part := range parts {
			if text, ok := fieldString(part, "text"); ok {
				acc.addText(text)
			}
			if call, ok := fieldObject(part, "functionCall"); ok {
				name, _ := asString(call["name"])
				input, present := call["args"]
				if !present {
					input = call["arguments"]
				}
				acc.addTool(ToolUse{Name: name, Input: input})
			}
		}
	}
}
