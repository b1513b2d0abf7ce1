package extract

import "testing"

// TestDetectJSONProvidersSequentialPrecedence covers the case where a
// payload carries more than one discriminating field at once: the first
// match in precedence order (choices before output/candidates/content)
// wins outright, rather than treating the payload as ambiguous.
func TestDetectJSONProvidersSequentialPrecedence(t *testing.T) {
	payload := map[string]any{
		"choices": []any{map[string]any{"message": map[string]any{"content": "hi"}}},
		"content": []any{map[string]any{"type": "text", "text": "bye"}},
	}
	providers := detectJSONProviders(payload)
	if len(providers) != 1 || providers[0] != ProviderOpenAI {
		t.Fatalf("providers = %#v, want exactly [openai]", providers)
	}
}

func TestDetectJSONProvidersNoDiscriminatorRunsAllFour(t *testing.T) {
	providers := detectJSONProviders(map[string]any{"foo": "bar"})
	if len(providers) != len(allProviders) {
		t.Fatalf("providers = %#v, want all four providers as fallback", providers)
	}
}

// TestResponseSequentialPrecedenceIgnoresLowerPriorityField is the
// end-to-end counterpart: a response body carrying both an openai
// choices[] array and a claude content[] array only yields the openai
// extractor's output.
func TestResponseSequentialPrecedenceIgnoresLowerPriorityField(t *testing.T) {
	body := `{
		"choices": [{"message": {"content": "from openai"}}],
		"content": [{"type": "text", "text": "from claude"}]
	}`
	result := Response(body)
	if result.Answer == nil || *result.Answer != "from openai" {
		t.Fatalf("Answer = %v, want only the openai extractor to run", result.Answer)
	}
}
