// Package extract implements the provider-agnostic extractor (§4.3):
// four pairs of extractors (one JSON-object, one streaming) that turn an
// arbitrary chat-completion payload into (answer text, tool-use list).
package extract

// Provider identifies one of the four supported wire-format families.
type Provider string

const (
	ProviderClaude      Provider = "claude"
	ProviderOpenAI      Provider = "openai"
	ProviderGemini      Provider = "gemini"
	ProviderResponseAPI Provider = "response-api"
)

// allProviders is the fallback set run when the detector can't
// discriminate a single provider (§4.1: "all four extractors are run").
var allProviders = []Provider{ProviderClaude, ProviderOpenAI, ProviderGemini, ProviderResponseAPI}

// ToolUse is a structured record of a model-initiated function call
// (glossary: "Tool use").
type ToolUse struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name,omitempty"`
	Input any    `json:"input"`
}

// Result is what an extractor (or the top-level Response function)
// produces: the concatenated answer text (nil if empty/whitespace-only)
// and the deduplicated list of tool uses, in first-seen order.
type Result struct {
	Answer   *string
	ToolUses []ToolUse
}

// accumulator holds the shared, explicitly-passed mutable state every
// extractor writes into (§9: "shared mutable accumulators... passed in
// explicitly so the fallback mode composes without re-entry hazards").
type accumulator struct {
	textParts []string
	toolUses  []ToolUse
}

func (a *accumulator) addText(s string) {
	if s != "" {
		a.textParts = append(a.textParts, s)
	}
}

func (a *accumulator) addTool(t ToolUse) {
	a.toolUses = append(a.toolUses, t)
}
