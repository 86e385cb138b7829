package utils

// NewNullString returns a pointer to s, or nil when s is empty. Optional
// fields and query filters use it so empty input maps to NULL / no filter.
func NewNullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
