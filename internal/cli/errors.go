package cli

import (
	"errors"
	"strings"

	"github.com/jacksmith/shop/internal/model"
	"github.com/jacksmith/shop/internal/ops"
)

// Describe returns the user-facing text for err, with a hint line
// appended when there is an obvious way forward.
func Describe(err error) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	if hint := Hint(err); hint != "" {
		msg += "\n" + hint
	}
	return msg
}

// Hint suggests how to recover from err. Returns "" if there is no suggestion.
func Hint(err error) string {
	var amb *model.AmbiguousIDError
	var verr *ops.ValidationError

	switch {
	case errors.As(err, &amb):
		return "Type more characters of the id."
	case errors.Is(err, ops.ErrNotFound):
		return "Run 'shop list' to see item ids."
	case errors.Is(err, ops.ErrUnknownSortKey):
		return "Valid sort keys: " + strings.Join(SortKeyNames(), ", ") + "."
	case errors.As(err, &verr) && verr.Kind == ops.KindInvalidPrice:
		return "Use a positive number such as 4.99 or 4,99."
	case errors.As(err, &verr) && verr.Kind == ops.KindInvalidQuantity:
		return "Use a whole number of at least 1."
	default:
		return ""
	}
}

// SortKeyNames returns the sort keys as strings, for help text and completion.
func SortKeyNames() []string {
	names := make([]string, len(ops.SortKeys))
	for i, k := range ops.SortKeys {
		names[i] = string(k)
	}
	return names
}

// FormatError returns a user-friendly error message.
// It prefixes the error with "error: " for consistent CLI output.
func FormatError(err error) string {
	if err == nil {
		return ""
	}
	return "error: " + Describe(err)
}
