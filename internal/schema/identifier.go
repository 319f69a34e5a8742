package schema

import (
	"errors"
	"fmt"
	"regexp"
)

var ErrInvalidIdentifier = errors.New("invalid identifier")

// Plain SQL identifiers only, up to the Postgres limit of 63 bytes.
var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]{0,62}$`)

// ValidIdentifier rejects anything that is not a plain schema or table name. Names
// reaching the introspection query must pass it.
func ValidIdentifier(name string) error {
	if !identifierPattern.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidIdentifier, name)
	}
	return nil
}
