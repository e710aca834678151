package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// ErrNotConfirmed is returned when a confirmation prompt cannot be shown.
var ErrNotConfirmed = errors.New("not confirmed")

// Confirm writes prompt to out and reads a yes/no answer from in.
// Only "y" and "yes" (any case) count as yes. End of input counts as no.
func Confirm(in io.Reader, out io.Writer, prompt string) (bool, error) {
	fmt.Fprintf(out, "%s [y/N] ", prompt)

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("failed to read answer: %w", err)
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// ConfirmTTY asks on the terminal. When stdin is not a terminal it fails
// without prompting so scripts never hang.
func ConfirmTTY(prompt string) (bool, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return false, fmt.Errorf("%w: stdin is not a terminal (use --yes)", ErrNotConfirmed)
	}
	return Confirm(os.Stdin, os.Stderr, prompt)
}
