// File: pkg/common/provider.go
package common

import "strings"

// Provider identifies a storage backend. Values are upper case ("AWS"), registry keys lower case ("aws")
type Provider string

const (
	GCP Provider = "GCP"
	AWS Provider = "AWS"
)

// Accepts any casing and surrounding whitespace, e.g. " aws " or "Gcp"
func ParseProvider(name string) Provider {
	return Provider(strings.ToUpper(strings.TrimSpace(name)))
}

// Returns the registry key for the provider (e.g., "aws")
func (p Provider) Key() string {
	return strings.ToLower(string(p))
}
