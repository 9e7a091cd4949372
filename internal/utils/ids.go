package utils

import (
	"strings"

	"github.com/google/uuid"
)

// NewID returns prefix followed by eight upper-case hex characters, e.g. "B-3F9A12C0".
func NewID(prefix string) string {
	raw := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	if prefix == "" {
		return raw[:8]
	}
	return prefix + "-" + raw[:8]
}
