package reconcile

import "reflect"

// Diff computes the set of fields in desired whose values differ from
// current. Only keys present in desired are considered; fields the caller
// did not supply never appear in the result.
//
// Nested mappings are compared recursively: the diff for a nested field
// contains only the nested keys that differ, not the whole nested value.
// Sequences are compared order-sensitively and scalars are compared with
// type-sensitive equality, so "60s" does not equal 60 and int(1) does not
// equal float64(1).
//
// Diff is a pure function: it never modifies its inputs, and Diff(x, x)
// always returns an empty mapping.
func Diff(current, desired map[string]any) map[string]any {
	delta := map[string]any{}
	for key, want := range desired {
		have, ok := current[key]
		if !ok {
			delta[key] = want
			continue
		}

		haveMap, haveIsMap := have.(map[string]any)
		wantMap, wantIsMap := want.(map[string]any)
		if haveIsMap && wantIsMap {
			if nested := Diff(haveMap, wantMap); len(nested) > 0 {
				delta[key] = nested
			}
			continue
		}

		if !valueEqual(have, want) {
			delta[key] = want
		}
	}
	return delta
}

// valueEqual reports structural equality for sequences and scalars.
// reflect.DeepEqual gives the exact semantics required here: element-wise,
// order-sensitive comparison for slices and type-and-value comparison for
// scalars. Cross-type numeric equality (1 vs 1.0) is deliberately false.
func valueEqual(have, want any) bool {
	return reflect.DeepEqual(have, want)
}

// merge returns a shallow copy of base with overlay values written over it.
// Neither input is modified.
func merge(base, overlay map[string]any) map[string]any {
	merged := make(map[string]any, len(base)+len(overlay))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range overlay {
		merged[k] = v
	}
	return merged
}

// keysOf returns the key set of a mapping as a slice, in no particular order.
func keysOf(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}
