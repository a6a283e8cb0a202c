package config

import "encoding/json"

// Copy-on-write slice helpers used when applying editor deltas. Each returns
// a fresh slice so a committed configuration is never mutated in place under
// a component still rendering the previous one.

// InsertAt returns a copy of s with v inserted at index i. An out-of-range
// index appends.
func InsertAt[T any](s []T, i int, v T) []T {
	if i < 0 || i > len(s) {
		i = len(s)
	}
	out := make([]T, 0, len(s)+1)
	out = append(out, s[:i]...)
	out = append(out, v)
	out = append(out, s[i:]...)
	return out
}

// RemoveAt returns a copy of s without the element at index i. An
// out-of-range index returns a plain copy.
func RemoveAt[T any](s []T, i int) []T {
	if i < 0 || i >= len(s) {
		return append([]T(nil), s...)
	}
	out := make([]T, 0, len(s)-1)
	out = append(out, s[:i]...)
	out = append(out, s[i+1:]...)
	return out
}

// Move returns a copy of s with the element at from relocated to to.
func Move[T any](s []T, from, to int) []T {
	if from < 0 || from >= len(s) || to < 0 || to >= len(s) || from == to {
		return append([]T(nil), s...)
	}
	out := append([]T(nil), s...)
	v := out[from]
	out = append(out[:from], out[from+1:]...)
	out = append(out[:to], append([]T{v}, out[to:]...)...)
	return out
}

// ReplaceAt returns a copy of s with the element at index i replaced.
func ReplaceAt[T any](s []T, i int, v T) []T {
	out := append([]T(nil), s...)
	if i >= 0 && i < len(out) {
		out[i] = v
	}
	return out
}

// Clone deep-copies the configuration. Used by the top-level card before
// applying a delta so the previous render's config stays immutable.
func (h *House) Clone() *House {
	data, err := json.Marshal(h)
	if err != nil {
		// The schema is plain data; marshal cannot fail for a valid House.
		return &House{}
	}
	var out House
	if err := json.Unmarshal(data, &out); err != nil {
		return &House{}
	}
	return &out
}
