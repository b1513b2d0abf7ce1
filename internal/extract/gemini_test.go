package extract

import "testing"

func TestExtractGeminiObject(t *testing.T) {
	payload := map[string]any{
		"candidates": []any{
			map[string]any{
				"content": map[string]any{
					"parts": []any{
						map[string]any{"text": "part one"},
						map[string]any{"functionCall": map[string]any{
							"name": "lookup",
							"args": map[string]any{"q": "go"},
						}},
					},
				},
			},
		},
	}
	acc := &accumulator{}
	extractGeminiObject(payload, acc)

	if len(acc.textParts) != 1 || acc.textParts[0] != "part one" {
		t.Fatalf("textParts = %#v", acc.textParts)
	}
	if len(acc.toolUses) != 1 || acc.toolUses[0].Name != "lookup" {
		t.Fatalf("toolUses = %#v", acc.toolUses)
	}
}
