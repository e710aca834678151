package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorGray   = "\033[90m"
)

// colorEnabled is true when stdout is a terminal, unless overridden.
var colorEnabled = true

func init() {
	colorEnabled = IsTerminal(os.Stdout)
}

// SetColorEnabled allows overriding the color output setting.
func SetColorEnabled(enabled bool) {
	colorEnabled = enabled
}

// ColorEnabled returns whether color output is currently enabled.
func ColorEnabled() bool {
	return colorEnabled
}

// IsTerminal returns true if w is a terminal.
func IsTerminal(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return term.IsTerminal(int(f.Fd()))
	}
	return false
}

func colorize(code, s string) string {
	if !colorEnabled {
		return s
	}
	return code + s + colorReset
}

// Green returns s in green if colors are enabled.
func Green(s string) string { return colorize(colorGreen, s) }

// Red returns s in red if colors are enabled.
func Red(s string) string { return colorize(colorRed, s) }

// Yellow returns s in yellow if colors are enabled.
func Yellow(s string) string { return colorize(colorYellow, s) }

// Gray returns s in gray if colors are enabled.
func Gray(s string) string { return colorize(colorGray, s) }

// DefaultMaxNameWidth is the default maximum visible width for item name columns.
const DefaultMaxNameWidth = 40

// FormatMoney formats an amount with two decimals using the number
// conventions of locale (e.g. "1,234.50" for en, "1.234,50" for pt-BR).
func FormatMoney(locale language.Tag, amount float64) string {
	return message.NewPrinter(locale).Sprintf("%.2f", amount)
}

// Table formats columnar output with automatic column width calculation.
type Table struct {
	rows       [][]string
	colWidths  []int
	maxWidths  map[int]int  // optional per-column max visible width
	rightAlign map[int]bool // columns padded on the left
}

// NewTable creates a new empty table.
func NewTable() *Table {
	return &Table{}
}

// SetMaxWidth sets the maximum visible width for a column.
// Content exceeding the limit is truncated with an ellipsis ("...").
func (t *Table) SetMaxWidth(col, maxWidth int) {
	if t.maxWidths == nil {
		t.maxWidths = make(map[int]int)
	}
	t.maxWidths[col] = maxWidth
}

// AlignRight right-aligns a column, for amounts.
func (t *Table) AlignRight(col int) {
	if t.rightAlign == nil {
		t.rightAlign = make(map[int]bool)
	}
	t.rightAlign[col] = true
}

// AddRow adds a row to the table.
func (t *Table) AddRow(cols ...string) {
	for len(t.colWidths) < len(cols) {
		t.colWidths = append(t.colWidths, 0)
	}

	for i, col := range cols {
		width := visibleWidth(col)
		if maxW, ok := t.maxWidths[i]; ok && width > maxW {
			width = maxW
		}
		t.colWidths[i] = max(t.colWidths[i], width)
	}

	t.rows = append(t.rows, cols)
}

// Render writes the table to w with columns separated by two spaces.
// The last column is never padded unless it is right-aligned.
func (t *Table) Render(w io.Writer) {
	last := len(t.colWidths) - 1
	for _, row := range t.rows {
		parts := make([]string, len(row))
		for i, col := range row {
			if maxW, ok := t.maxWidths[i]; ok {
				col = Truncate(col, maxW)
			}
			padding := strings.Repeat(" ", t.colWidths[i]-visibleWidth(col))
			switch {
			case t.rightAlign[i]:
				parts[i] = padding + col
			case i < last:
				parts[i] = col + padding
			default:
				parts[i] = col
			}
		}
		fmt.Fprintln(w, strings.Join(parts, "  "))
	}
}

// Truncate returns s cut to maxWidth visible characters, ending in "..."
// when there is room for it. ANSI escape codes are kept, and colored
// input gets a trailing reset.
func Truncate(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if visibleWidth(s) <= maxWidth {
		return s
	}

	const ellipsis = "..."
	limit := maxWidth
	if maxWidth >= len(ellipsis) {
		limit = maxWidth - len(ellipsis)
	}

	var b strings.Builder
	visible := 0
	inEscape, hasAnsi := false, false
loop:
	for _, r := range s {
		switch {
		case r == '\033':
			inEscape, hasAnsi = true, true
		case inEscape:
			inEscape = r != 'm'
		case visible >= limit:
			break loop
		default:
			visible++
		}
		b.WriteRune(r)
	}

	if maxWidth >= len(ellipsis) {
		b.WriteString(ellipsis)
		if hasAnsi {
			b.WriteString(colorReset)
		}
	}
	return b.String()
}

// visibleWidth returns the visible width of s, excluding ANSI escape codes.
func visibleWidth(s string) int {
	width := 0
	inEscape := false
	for _, r := range s {
		switch {
		case r == '\033':
			inEscape = true
		case inEscape:
			inEscape = r != 'm'
		default:
			width++
		}
	}
	return width
}
