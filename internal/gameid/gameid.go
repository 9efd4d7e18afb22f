// Package gameid mints sortable, URL-safe game identifiers: UUIDv7 encoded
// as 26 characters of Crockford base32.
package gameid

import (
	"encoding/base32"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const alphabet = "0123456789abcdefghjkmnpqrstvwxyz"

var encoding = base32.NewEncoding(alphabet).WithPadding(base32.NoPadding)

// New returns a new game id. Ids generated later sort later, which keeps
// snapshot listings in creation order.
func New() string {
	id, err := uuid.NewV7()
	if err != nil {
		// NewV7 only fails if the entropy source does; fall back to v4.
		id = uuid.New()
	}
	return encoding.EncodeToString(id[:])
}

// Validate checks that a string is a well-formed game id
func Validate(id string) error {
	if len(id) != 26 {
		return fmt.Errorf("game id must be 26 characters, got %d", len(id))
	}
	for i, r := range id {
		if !strings.ContainsRune(alphabet, r) {
			return fmt.Errorf("invalid character %q at position %d", r, i)
		}
	}
	return nil
}
