package normalize

// Dynamic-shape accessors, mirroring internal/extract's: normalize
// operates on the same loosely-typed decoded JSON and must tolerate any
// shape mismatch without panicking.

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

func field(v any, key string) (any, bool) {
	m, ok := asObject(v)
	if !ok {
		return nil, false
	}
	val, present := m[key]
	return val, present
}

func fieldString(v any, key string) (string, bool) {
	val, ok := field(v, key)
	if !ok {
		return "", false
	}
	return asString(val)
}
