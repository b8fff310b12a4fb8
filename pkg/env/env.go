// Package env reads raw environment variables. It covers the few knobs that
// are needed before the config layer has loaded, such as log formatting.
package env

import "os"

// Get returns the variable's value, or fallback when it is unset or blank.
func Get(key, fallback string) string {
	val, ok := os.LookupEnv(key)
	if !ok || val == "" {
		return fallback
	}
	return val
}
