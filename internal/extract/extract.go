package extract

import (
	"encoding/json"
	"strings"

	"github.com/vinayprograms/tracecap/internal/sse"
)

// Response implements the top-level §4.1/§4.3 pipeline: detect whether
// body is an SSE stream or a plain JSON object, detect which provider(s)
// it belongs to, run the matching extractor(s) (all four, accumulating
// into the same textParts/toolUses, when the provider is ambiguous),
// deduplicate tool uses, and assemble the final Result.
func Response(body string) Result {
	acc := &accumulator{}

	if sse.LooksLikeSSE(body) {
		records := sse.Parse(body)
		for _, p := range detectSSEProviders(records) {
			runStreamExtractor(p, records, acc)
		}
	} else {
		var payload any
		if err := json.Unmarshal([]byte(body), &payload); err != nil {
			return Result{}
		}
		for _, p := range detectJSONProviders(payload) {
			runObjectExtractor(p, payload, acc)
		}
	}

	return finalize(acc)
}

func runObjectExtractor(p Provider, payload any, acc *accumulator) {
	switch p {
	case ProviderClaude:
		extractClaudeObject(payload, acc)
	case ProviderOpenAI:
		extractOpenAIObject(payload, acc)
	case ProviderGemini:
		extractGeminiObject(payload, acc)
	case ProviderResponseAPI:
		extractResponseAPIObject(payload, acc)
	}
}

func runStreamExtractor(p Provider, records []sse.Record, acc *accumulator) {
	switch p {
	case ProviderClaude:
		extractClaudeStream(records, acc)
	case ProviderOpenAI:
		extractOpenAIStream(records, acc)
	case ProviderResponseAPI:
		extractResponseAPIStream(records, acc)
	case ProviderGemini:
		// Gemini's streaming wire format mirrors its object format
		// (a sequence of whole candidate objects, not incremental
		// deltas), so each SSE data payload is run through the
		// object extractor.
		for _, rec := range records {
			if sse.IsDone(rec.Data) {
				continue
			}
			extractGeminiObject(rec.Data, acc)
		}
	}
}

func finalize(acc *accumulator) Result {
	toolUses := dedupToolUses(acc.toolUses)
	if toolUses == nil {
		toolUses = []ToolUse{}
	}

	joined := strings.Join(acc.textParts, "")
	var answer *string
	if strings.TrimSpace(joined) != "" {
		answer = &joined
	}

	return Result{Answer: answer, ToolUses: toolUses}
}
