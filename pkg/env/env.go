package env

import (
	"os"
	"strings"
)

// Prefix namespaces storefront variables, matching the envconfig prefix.
const Prefix = "STOREFRONT_"

// Get returns STOREFRONT_<key>, then the bare key, then fallback. Empty
// values count as unset.
func Get(key, fallback string) string {
	if !strings.HasPrefix(key, Prefix) {
		if val := os.Getenv(Prefix + key); val != "" {
			return val
		}
	}
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
