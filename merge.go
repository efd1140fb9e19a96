package onion

// Map is the working representation of configuration data: a string-keyed,
// arbitrarily nested mapping of scalars, sequences and further mappings.
// It is what YAML/JSON files parse into, what the pre-load hook receives,
// and what the schema is decoded from.
type Map = map[string]any

// merge folds src into dst and returns dst. Keys absent from dst are set
// directly; when both sides hold mappings the merge recurses; in every other
// pairing (scalar, sequence, or mixed types) the src value replaces the dst
// value wholesale. src is deep-copied on the way in, so dst never aliases
// memory owned by the caller of Load.
//
// dst is the loader's private accumulator and is mutated in place.
func merge(dst, src Map) Map {
	if dst == nil {
		dst = make(Map, len(src))
	}
	for k, v := range src {
		sub, ok := v.(map[string]any)
		if !ok {
			dst[k] = deepCopyValue(v)
			continue
		}
		old, ok := dst[k].(map[string]any)
		if !ok {
			dst[k] = deepCopy(sub)
			continue
		}
		dst[k] = merge(old, sub)
	}
	return dst
}

// deepCopy returns a copy of m sharing no mutable state with it.
func deepCopy(m Map) Map {
	out := make(Map, len(m))
	for k, v := range m {
		out[k] = deepCopyValue(v)
	}
	return out
}

func deepCopyValue(v any) any {
	switch x := v.(type) {
	case map[string]any:
		return deepCopy(x)
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = deepCopyValue(e)
		}
		return out
	default:
		return v
	}
}
