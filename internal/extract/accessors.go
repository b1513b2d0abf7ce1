package extract

// Dynamic-shape accessors for unfamiliar provider JSON (§9 design notes:
// "Dynamic shape traversal"). Every field access on a provider payload
// goes through one of these; none of them panics or errors on a shape
// mismatch, they just return ok=false.

func asString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

func asObject(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

func asArray(v any) ([]any, bool) {
	a, ok := v.([]any)
	return a, ok
}

func asFloat(v any) (float64, bool) {
	f, ok := v.(float64)
	return f, ok
}

// field looks up key in v if v is an object, else returns (nil, false).
func field(v any, key string) (any, bool) {
	m, ok := asObject(v)
	if !ok {
		return nil, false
	}
	val, present := m[key]
	return val, present
}

// fieldString resolves a nested string field, tolerating a missing or
// wrong-typed object/key at any level.
func fieldString(v any, key string) (string, bool) {
	val, ok := field(v, key)
	if !ok {
		return "", false
	}
	return asString(val)
}

// fieldObject resolves a nested object field.
func fieldObject(v any, key string) (map[string]any, bool) {
	val, ok := field(v, key)
	if !ok {
		return nil, false
	}
	return asObject(val)
}

// fieldArray resolves a nested array field.
func fieldArray(v any, key string) ([]any, bool) {
	val, ok := field(v, key)
	if !ok {
		return nil, false
	}
	return asArray(val)
}
