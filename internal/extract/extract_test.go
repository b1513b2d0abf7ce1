package extract

import "testing"

// TestResponseOpenAIJSONHappyPath covers the spec's E2E scenario 1: a
// plain (non-streaming) OpenAI chat-completion JSON object yields the
// assistant's text as Answer and no tool uses.
func TestResponseOpenAIJSONHappyPath(t *testing.T) {
	body := `{
		"choices": [
			{"message": {"content": "The answer is 42."}}
		]
	}`
	result := Response(body)
	if result.Answer == nil || *result.Answer != "The answer is 42." {
		t.Fatalf("Answer = %v", result.Answer)
	}
	if len(result.ToolUses) != 0 {
		t.Fatalf("ToolUses = %#v", result.ToolUses)
	}
}

// TestResponseClaudeStreamingWithToolUse covers the spec's E2E scenario
// 3: a Claude SSE stream interleaving text_delta and a tool_use block
// built up via input_json_delta fragments.
func TestResponseClaudeStreamingWithToolUse(t *testing.T) {
	body := "event: message_start\n" +
		"data: {\"type\":\"message_start\"}\n\n" +
		"event: content_block_start\n" +
		"data: {\"index\":0,\"content_block\":{\"type\":\"text\"}}\n\n" +
		"event: content_block_delta\n" +
		"data: {\"index\":0,\"delta\":{\"type\":\"text_delta\",\"text\":\"Let me check that.\"}}\n\n" +
		"event: content_block_stop\n" +
		"data: {\"index\":0}\n\n" +
		"event: content_block_start\n" +
		"data: {\"index\":1,\"content_block\":{\"type\":\"tool_use\",\"id\":\"toolu_1\",\"name\":\"weather\"}}\n\n" +
		"event: content_block_delta\n" +
		"data: {\"index\":1,\"delta\":{\"type\":\"input_json_delta\",\"partial_json\":\"{\\\"city\\\":\"}}\n\n" +
		"event: content_block_delta\n" +
		"data: {\"index\":1,\"delta\":{\"type\":\"input_json_delta\",\"partial_json\":\"\\\"sf\\\"}\"}}\n\n" +
		"event: content_block_stop\n" +
		"data: {\"index\":1}\n\n" +
		"event: message_stop\n" +
		"data: {\"type\":\"message_stop\"}\n\n"

	result := Response(body)
	if result.Answer == nil || *result.Answer != "Let me check that." {
		t.Fatalf("Answer = %v", result.Answer)
	}
	if len(result.ToolUses) != 1 || result.ToolUses[0].Name != "weather" {
		t.Fatalf("ToolUses = %#v", result.ToolUses)
	}
	input, ok := result.ToolUses[0].Input.(map[string]any)
	if !ok || input["city"] != "sf" {
		t.Fatalf("Input = %#v", result.ToolUses[0].Input)
	}
}

func TestResponseEmptyBodyYieldsNilAnswer(t *testing.T) {
	result := Response(`{"choices":[{"message":{"content":"   "}}]}`)
	if result.Answer != nil {
		t.Fatalf("Answer = %v, want nil for whitespace-only content", *result.Answer)
	}
}

func TestResponseDedupesDuplicateToolUses(t *testing.T) {
	body := `{
		"content": [
			{"type": "tool_use", "id": "t1", "name": "lookup", "input": {"q": "go"}},
			{"type": "tool_use", "id": "t1", "name": "lookup", "input": {"q": "go"}}
		]
	}`
	result := Response(body)
	if len(result.ToolUses) != 1 {
		t.Fatalf("ToolUses = %#v, want deduplication to collapse identical calls", result.ToolUses)
	}
}

func TestResponseInvalidJSONYieldsEmptyResult(t *testing.T) {
	result := Response("not json at all")
	if result.Answer != nil || len(result.ToolUses) != 0 {
		t.Fatalf("result = %#v, want empty result for unparsable body", result)
	}
}
