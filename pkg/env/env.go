// Package env reads raw environment variables for the few spots that need a
// value before the typed config is loaded.
package env

import "os"

// Get returns the variable's value, or fallback when unset or empty.
func Get(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
