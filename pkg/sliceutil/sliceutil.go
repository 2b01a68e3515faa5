// Package sliceutil provides small generic helpers over slices and maps.
package sliceutil

import (
	"cmp"
	"slices"
)

// SortedKeys returns the keys of m in ascending order. Everything that walks a
// document map goes through here so output order never depends on Go's map
// iteration order.
func SortedKeys[K cmp.Ordered, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Deduplicate returns s without repeated elements, keeping first occurrences.
func Deduplicate[T comparable](s []T) []T {
	seen := make(map[T]struct{}, len(s))
	out := make([]T, 0, len(s))
	for _, v := range s {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
