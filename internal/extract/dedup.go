package extract

import "encoding/json"

// dedupToolUses implements §4.3's tool-use deduplication: a signature is
// the canonical JSON encoding of {id, name, input} (encoding/json sorts
// map keys, giving a stable signature regardless of input field order);
// the first occurrence of a signature wins and later duplicates are
// dropped. This runs as a post-pass over the full accumulated list
// because response-api tool calls can be observed via two independent
// event pathways (output_item.added + the final object), which would
// otherwise double-record the same call.
func dedupToolUses(uses []ToolUse) []ToolUse {
	seen := make(map[string]bool, len(uses))
	out := make([]ToolUse, 0, len(uses))
	for _, u := range uses {
		sig, err := toolUseSignature(u)
		if err != nil {
			out = append(out, u)
			continue
		}
		if seen[sig] {
			continue
		}
		seen[sig] = true
		out = append(out, u)
	}
	return out
}

func toolUseSignature(u ToolUse) (string, error) {
	canonical := map[string]any{
		"id":    u.ID,
		"name":  u.Name,
		"input": u.Input,
	}
	b, err := json.Marshal(canonical)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
