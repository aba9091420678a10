package db

import "strings"

// IsUniqueViolation reports whether the error came from a unique constraint,
// matching both the postgres and sqlite message shapes.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}
