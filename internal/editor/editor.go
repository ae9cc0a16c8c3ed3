package editor

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Editor handles editor resolution and invocation.
type Editor struct {
	command string
}

// NewEditor creates a new Editor. command is the [editor] command from the
// config and may be empty.
func NewEditor(command string) *Editor {
	return &Editor{command: command}
}

// Resolve returns the editor command to use.
// Order: config > $VISUAL > $EDITOR > vim
func (e *Editor) Resolve() string {
	if strings.TrimSpace(e.command) != "" {
		return e.command
	}

	for _, env := range []string{"VISUAL", "EDITOR"} {
		if editor := os.Getenv(env); editor != "" {
			return editor
		}
	}

	return "vim"
}

// Edit opens the editor on a temp file holding content and returns the
// edited content. ext picks the temp file extension so editors can apply
// syntax highlighting.
func (e *Editor) Edit(content, ext string) (string, error) {
	tmpFile, err := os.CreateTemp("", "webslide-edit-*."+strings.TrimPrefix(ext, "."))
	if err != nil {
		return "", err
	}
	tmpPath := tmpFile.Name()
	defer os.Remove(tmpPath)

	if _, err := tmpFile.WriteString(content); err != nil {
		tmpFile.Close()
		return "", err
	}
	tmpFile.Close()

	// Commands like "code --wait" carry their own arguments
	parts := strings.Fields(e.Resolve())
	cmd := exec.Command(parts[0], append(parts[1:], tmpPath)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("editor %q failed: %w", parts[0], err)
	}

	edited, err := os.ReadFile(tmpPath)
	if err != nil {
		return "", err
	}

	return string(edited), nil
}
