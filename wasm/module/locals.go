package module

import "github.com/kjx98/gowasm/wasm"

// ExpandLocals splits every entry into single-local entries, preserving
// total count and kind order. A zero-count entry contributes nothing.
func ExpandLocals(entries []LocalEntry) []LocalEntry {
	var out []LocalEntry
	for _, e := range entries {
		for i := uint32(0); i < e.Count; i++ {
			out = append(out, LocalEntry{Kind: e.Kind, Count: 1})
		}
	}
	return out
}

// CompressLocals merges adjacent same-kind entries, preserving total count
// and kind order. This is the inverse of ExpandLocals up to the grouping of
// runs: compressing an expanded list reproduces the original run lengths
// only when the input was already maximally compressed, but the total count
// per kind-run is always preserved either way.
func CompressLocals(entries []LocalEntry) []LocalEntry {
	var out []LocalEntry
	for _, e := range entries {
		if n := len(out); n > 0 && out[n-1].Kind == e.Kind {
			out[n-1].Count += e.Count
			continue
		}
		out = append(out, e)
	}
	return out
}

// Flatten returns the kind of each individual local entries describes, in
// order, expanding counts. Used to build a function's locals vector
// alongside its parameters.
func Flatten(entries []LocalEntry) []wasm.ValueKind {
	var out []wasm.ValueKind
	for _, e := range entries {
		for i := uint32(0); i < e.Count; i++ {
			out = append(out, e.Kind)
		}
	}
	return out
}
