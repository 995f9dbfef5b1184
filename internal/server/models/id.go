package models

import (
	"strings"

	"github.com/google/uuid"
)

// CanonicalID normalises a client id to the lower-case 8-4-4-4-12 form.
// Values that are not UUIDs are only trimmed and lower-cased.
func CanonicalID(s string) string {
	s = strings.TrimSpace(s)
	if u, err := uuid.Parse(s); err == nil {
		return u.String()
	}
	return strings.ToLower(s)
}
