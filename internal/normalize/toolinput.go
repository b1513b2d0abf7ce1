package normalize

import "encoding/json"

// ToolInputText implements §4.4's tool-use input text derivation: if
// the input is an object with a non-empty string "command" field, that
// command is used verbatim; otherwise the input is JSON-stringified.
// The result is combined with the tool name as "<name>: <text>" when
// both are available, else whichever one is present.
func ToolInputText(name string, input any) string {
	text := deriveInputText(input)
	switch {
	case name != "" && text != "":
		return name + ": " + text
	case name != "":
		return name
	default:
		return text
	}
}

func deriveInputText(input any) string {
	if obj, ok := input.(map[string]any); ok {
		if cmd, ok := obj["command"].(string); ok && cmd != "" {
			return cmd
		}
	}
	b, err := json.Marshal(input)
	if err != nil {
		return ""
	}
	s := string(b)
	if s == "null" {
		return ""
	}
	return s
}
