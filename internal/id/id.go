// Package id generates unique identifiers for log entries and
// request-scoped artifacts.
package id

import (
	"strings"

	"github.com/google/uuid"
)

// New returns a random UUID v4 string.
func New() string {
	return uuid.NewString()
}

// Short returns a compact 12-character identifier derived from a UUID.
// Suitable where a full UUID is noisy, e.g. log entry ids.
func Short() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}
