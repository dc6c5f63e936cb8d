package postgres

import (
	"strings"

	"github.com/google/uuid"
)

// newID returns prefix followed by eight random hex characters, e.g. p-1a2b3c4d.
func newID(prefix string) string {
	return prefix + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}
