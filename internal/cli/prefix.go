// Package cli provides CLI infrastructure for shop.
package cli

import (
	"fmt"
	"strings"
)

// ChoiceError reports input that matched no choice, or more than one.
type ChoiceError struct {
	What    string   // kind of choice, e.g. "sort key"
	Input   string   // normalized user input
	Matches []string // empty when nothing matched
}

func (e *ChoiceError) Error() string {
	if len(e.Matches) == 0 {
		return fmt.Sprintf("unknown %s %q", e.What, e.Input)
	}
	return fmt.Sprintf("ambiguous %s %q matches: %s", e.What, e.Input, strings.Join(e.Matches, ", "))
}

// MatchChoice finds a unique choice from a prefix.
// Returns the matched choice or a *ChoiceError if ambiguous or no match.
func MatchChoice(prefix string, choices []string, what string) (string, error) {
	prefix = strings.ToLower(strings.TrimSpace(prefix))

	// First check for exact match
	for _, c := range choices {
		if strings.ToLower(c) == prefix {
			return c, nil
		}
	}

	var matches []string
	for _, c := range choices {
		if strings.HasPrefix(strings.ToLower(c), prefix) {
			matches = append(matches, c)
		}
	}

	if len(matches) == 1 {
		return matches[0], nil
	}
	return "", &ChoiceError{What: what, Input: prefix, Matches: matches}
}
