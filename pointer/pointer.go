// Package pointer provides helpers for the optional fields of the document model.
package pointer

// From returns a pointer to a copy of t.
func From[T any](t T) *T {
	return &t
}

// ValueOrZero returns the pointed-to value, or the zero value for a nil pointer.
func ValueOrZero[T any](v *T) T {
	if v == nil {
		var zero T
		return zero
	}
	return *v
}

// ValueOrDefault returns the pointed-to value, or def for a nil pointer.
// It makes the fallback for a missing optional field an explicit argument at the call site.
func ValueOrDefault[T any](v *T, def T) T {
	if v == nil {
		return def
	}
	return *v
}
