// Package env reads process environment variables that sit outside the
// envconfig-managed configuration, e.g. platform-injected ones like PORT.
package env

import "os"

// Get returns the variable's value, or fallback when unset or empty.
func Get(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
