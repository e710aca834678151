package model

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// ShortIDLength is the number of characters shown for an item ID in list views.
const ShortIDLength = 8

var (
	// ErrInvalidID is returned when an ID reference matches no item.
	ErrInvalidID = errors.New("invalid ID")
)

// AmbiguousIDError is returned when an ID prefix matches more than one item.
type AmbiguousIDError struct {
	Ref        string
	Candidates []string
}

func (e *AmbiguousIDError) Error() string {
	shorts := make([]string, len(e.Candidates))
	for i, c := range e.Candidates {
		shorts[i] = ShortID(c)
	}
	return fmt.Sprintf("ambiguous ID %q matches: %s", e.Ref, strings.Join(shorts, ", "))
}

// NewID returns a fresh random item ID.
func NewID() string {
	return uuid.NewString()
}

// NewUniqueID returns a fresh ID not present in taken.
func NewUniqueID(taken map[string]bool) string {
	for {
		id := NewID()
		if !taken[id] {
			return id
		}
	}
}

// ShortID returns the first ShortIDLength characters of id.
// IDs shorter than that are returned unchanged.
func ShortID(id string) string {
	if len(id) <= ShortIDLength {
		return id
	}
	return id[:ShortIDLength]
}

// MatchID resolves ref against ids.
// An exact (case-insensitive) match wins. Otherwise ref must be a prefix of
// exactly one ID. Returns ErrInvalidID if nothing matches and
// *AmbiguousIDError if several IDs share the prefix.
func MatchID(ref string, ids []string) (string, error) {
	ref = strings.ToLower(strings.TrimSpace(ref))
	if ref == "" {
		return "", fmt.Errorf("%w: empty reference", ErrInvalidID)
	}

	for _, id := range ids {
		if strings.ToLower(id) == ref {
			return id, nil
		}
	}

	var matches []string
	for _, id := range ids {
		if strings.HasPrefix(strings.ToLower(id), ref) {
			matches = append(matches, id)
		}
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%w: no item matches %q", ErrInvalidID, ref)
	case 1:
		return matches[0], nil
	default:
		sort.Strings(matches)
		return "", &AmbiguousIDError{Ref: ref, Candidates: matches}
	}
}
