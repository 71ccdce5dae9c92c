package models

import "slices"

// Ptr returns a pointer to v. Snapshot fields that may be absent are pointers.
func Ptr[T any](v T) *T { return &v }

// Value returns the optional value or its zero value when absent.
func Value[T any](p *T) T {
	if p == nil {
		var zero T
		return zero
	}
	return *p
}

// EqualPtr reports whether two optional values are both absent or both present
// and equal.
func EqualPtr[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// EqualSlice compares element-wise. A nil slice equals an empty one.
func EqualSlice[T comparable](a, b []T) bool {
	return slices.Equal(a, b)
}
