package wikibase

import (
	"strconv"
	"strings"

	"github.com/kulturarv/wikibasekit/pkg/errors"
)

// EntityID is the canonical identifier of a graph node, "Q" followed by a
// positive integer.
type EntityID string

// PropertyID is the canonical identifier of an edge type, "P" followed by a
// positive integer.
type PropertyID string

// ParseEntityID canonicalises an entity identifier. It accepts "Q123",
// "q123" or "123" and returns "Q123". Empty, negative, non-numeric and
// wrong-prefix input fails.
func ParseEntityID(s string) (EntityID, error) {
	n, err := parseID(s, 'Q')
	if err != nil {
		return "", err
	}
	return EntityID("Q" + strconv.FormatInt(n, 10)), nil
}

// ParsePropertyID canonicalises a property identifier. It accepts "P123",
// "p123" or "123" and returns "P123".
func ParsePropertyID(s string) (PropertyID, error) {
	n, err := parseID(s, 'P')
	if err != nil {
		return "", err
	}
	return PropertyID("P" + strconv.FormatInt(n, 10)), nil
}

// EntityIDFromInt canonicalises a numeric entity identifier.
func EntityIDFromInt(n int64) (EntityID, error) {
	if n <= 0 {
		return "", errors.NewValidationError("entity id", n, "must be a positive integer")
	}
	return EntityID("Q" + strconv.FormatInt(n, 10)), nil
}

// PropertyIDFromInt canonicalises a numeric property identifier.
func PropertyIDFromInt(n int64) (PropertyID, error) {
	if n <= 0 {
		return "", errors.NewValidationError("property id", n, "must be a positive integer")
	}
	return PropertyID("P" + strconv.FormatInt(n, 10)), nil
}

// Numeric returns the integer tail of the identifier, or 0 if it is not a
// canonical entity id.
func (id EntityID) Numeric() int64 {
	if len(id) < 2 || id[0] != 'Q' {
		return 0
	}
	n, err := strconv.ParseInt(string(id[1:]), 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// Valid reports whether the identifier is canonical.
func (id EntityID) Valid() bool {
	return id.Numeric() > 0
}

// String returns the identifier as a plain string.
func (id EntityID) String() string {
	return string(id)
}

// Numeric returns the integer tail of the identifier, or 0 if it is not a
// canonical property id.
func (id PropertyID) Numeric() int64 {
	if len(id) < 2 || id[0] != 'P' {
		return 0
	}
	n, err := strconv.ParseInt(string(id[1:]), 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// Valid reports whether the identifier is canonical.
func (id PropertyID) Valid() bool {
	return id.Numeric() > 0
}

// String returns the identifier as a plain string.
func (id PropertyID) String() string {
	return string(id)
}

// parseID strips an optional prefix letter (either case) and parses the
// numeric tail. The prefix must match the expected letter when present.
func parseID(s string, prefix byte) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.NewValidationError("id", s, "empty identifier")
	}

	if s[0] == prefix || s[0] == prefix+'a'-'A' {
		s = s[1:]
	} else if s[0] < '0' || s[0] > '9' {
		return 0, errors.NewValidationError("id", s, "wrong prefix, expected "+string(prefix))
	}

	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, errors.NewValidationError("id", s, "non-numeric identifier")
	}
	if n <= 0 {
		return 0, errors.NewValidationError("id", s, "must be a positive integer")
	}
	return n, nil
}
