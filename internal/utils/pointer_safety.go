package utils

// Ptr returns a pointer to v. Handy for nullable columns like verified_at.
func Ptr[T any](v T) *T {
	return &v
}
