// Package executor runs external programs on behalf of toru.
package executor

import (
	"fmt"
	"io"
	"os"
	"os/exec"
)

// Editor opens files in the user's editor. The command is run through the
// shell so editors configured with arguments (e.g. "code --wait") work.
type Editor struct {
	Stdin   io.Reader
	Stdout  io.Writer
	Stderr  io.Writer
	Command string
}

// NewEditor creates an editor attached to the terminal.
func NewEditor(command string) *Editor {
	return &Editor{
		Command: command,
		Stdin:   os.Stdin,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
	}
}

// Edit blocks until the editor exits. A non-zero exit is an error.
func (e *Editor) Edit(path string) error {
	// #nosec G204 - the command comes from the user's own configuration
	cmd := exec.Command("sh", "-c", e.Command+` "$1"`, "sh", path)
	cmd.Stdin = e.Stdin
	cmd.Stdout = e.Stdout
	cmd.Stderr = e.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("editor %s: %w", e.Command, err)
	}
	return nil
}
