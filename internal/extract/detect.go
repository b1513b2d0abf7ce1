package extract

import "github.com/vinayprograms/tracecap/internal/sse"

// detectJSONProviders implements §4.1's JSON discrimination by
// sequential first-match precedence: choices[] => openai, output[] =>
// response-api, candidates[] => gemini, content[] => claude; a nested
// "response" object is checked last, for output[] / candidates[]. The
// first discriminator that fires wins outright, even if a payload also
// happens to carry a later discriminator's field — all four run only
// when none of them fires.
func detectJSONProviders(v any) []Provider {
	if _, ok := fieldArray(v, "choices"); ok {
		return []Provider{ProviderOpenAI}
	}
	if _, ok := fieldArray(v, "output"); ok {
		return []Provider{ProviderResponseAPI}
	}
	if _, ok := fieldArray(v, "candidates"); ok {
		return []Provider{ProviderGemini}
	}
	if _, ok := fieldArray(v, "content"); ok {
		return []Provider{ProviderClaude}
	}
	if resp, ok := fieldObject(v, "response"); ok {
		if _, ok := fieldArray(resp, "output"); ok {
			return []Provider{ProviderResponseAPI}
		}
		if _, ok := fieldArray(resp, "candidates"); ok {
			return []Provider{ProviderGemini}
		}
	}
	return allProviders
}

// detectSSEProviders implements §4.1's SSE discrimination: the first
// event whose data is an object exhibiting a discriminating shape
// decides the provider; a "type" field starting with "response." or
// matching one of the Claude block-lifecycle event names also decides.
// If no event discriminates, all four run.
func detectSSEProviders(records []sse.Record) []Provider {
	for _, rec := range records {
		if sse.IsDone(rec.Data) {
			continue
		}
		data, ok := asObject(rec.Data)
		if !ok {
			continue
		}
		if p, ok := discriminateSSEEvent(data); ok {
			return []Provider{p}
		}
	}
	return allProviders
}

func discriminateSSEEvent(data map[string]any) (Provider, bool) {
	if _, ok := data["choices"].([]any); ok {
		return ProviderOpenAI, true
	}
	if _, ok := data["candidates"].([]any); ok {
		return ProviderGemini, true
	}
	if _, ok := data["output"].([]any); ok {
		return ProviderResponseAPI, true
	}
	if resp, ok := data["response"].(map[string]any); ok {
		if _, ok := resp["output"].([]any); ok {
			return ProviderResponseAPI, true
		}
		if _, ok := resp["candidates"].([]any); ok {
			return ProviderGemini, true
		}
	}
	if typ, ok := data["type"].(string); ok {
		if hasPrefix(typ, "response.") {
			return ProviderResponseAPI, true
		}
		switch typ {
		case "message_start", "message_stop", "content_block_start",
			"content_block_delta", "content_block_stop", "message_delta":
			return ProviderClaude, true
		}
	}
	return "", false
}

func hasPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && s[:len(prefix)] == prefix
}
