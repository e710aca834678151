package cli

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrNoChanges is returned by EditYAML when the file is saved unchanged.
var ErrNoChanges = errors.New("no changes made")

// EditYAML opens v as YAML in the user's editor and decodes the saved
// result into out. Each line of header is shown as a leading comment.
func EditYAML(v any, out any, header string) error {
	body, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode for editing: %w", err)
	}

	var buf bytes.Buffer
	if header = strings.TrimRight(header, "\n"); header != "" {
		for _, line := range strings.Split(header, "\n") {
			if line == "" {
				buf.WriteString("#\n")
				continue
			}
			buf.WriteString("# " + line + "\n")
		}
	}
	buf.Write(body)
	content := buf.Bytes()

	edited, err := EditInEditor(content, ".yaml")
	if err != nil {
		return err
	}
	if bytes.Equal(edited, content) {
		return ErrNoChanges
	}

	if err := yaml.Unmarshal(edited, out); err != nil {
		return fmt.Errorf("failed to parse edited YAML: %w", err)
	}
	return nil
}

// EditInEditor opens content in the user's editor and returns what was saved.
// The suffix names the temp file type (".yaml" gets YAML highlighting).
func EditInEditor(content []byte, suffix string) ([]byte, error) {
	editor := editorCommand()
	if editor == "" {
		return nil, fmt.Errorf("EDITOR not set. Set it or use --name/--price/--quantity instead of -i")
	}

	tmpFile, err := os.CreateTemp("", "shop-*"+suffix)
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer os.Remove(tmpPath)

	if _, err := tmpFile.Write(content); err != nil {
		tmpFile.Close()
		return nil, fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return nil, fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := runEditor(editor, tmpPath); err != nil {
		return nil, err
	}

	result, err := os.ReadFile(tmpPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read edited file: %w", err)
	}
	return result, nil
}

// editorCommand returns VISUAL if set, otherwise EDITOR.
func editorCommand() string {
	if editor := os.Getenv("VISUAL"); editor != "" {
		return editor
	}
	return os.Getenv("EDITOR")
}

// runEditor runs the editor on path. The editor may carry its own
// arguments, as in "code --wait".
func runEditor(editor, path string) error {
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("empty editor command")
	}

	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return fmt.Errorf("editor exited with status %d", exitErr.ExitCode())
		}
		return fmt.Errorf("failed to run editor: %w", err)
	}
	return nil
}
