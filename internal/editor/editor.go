// Package editor opens entry files in an interactive external program and
// blocks until it exits.
package editor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
)

// fallback is used when neither configuration nor $EDITOR name a command.
const fallback = "vi"

// Editor invokes an external text editor as a blocking child process.
type Editor struct {
	command string
}

// New creates an Editor. An empty command falls back to $EDITOR, then to vi.
func New(command string) *Editor {
	if command == "" {
		command = os.Getenv("EDITOR")
	}
	if command == "" {
		command = fallback
	}
	return &Editor{command: command}
}

// Command returns the resolved editor command.
func (e *Editor) Command() string {
	return e.command
}

// Open runs the editor on path with inherited stdio and waits for it to
// exit. A non-zero exit is treated as completed, not as a failure: the entry
// file was written before the editor launched, so its exit status says
// nothing about the entry's state. Only failing to run the process at all is
// an error.
func (e *Editor) Open(ctx context.Context, path string) error {
	cmd := exec.CommandContext(ctx, e.command, path)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			slog.Warn("editor exited with non-zero status",
				slog.String("editor", e.command),
				slog.Int("code", exitErr.ExitCode()))
			return nil
		}
		return fmt.Errorf("editor: run %s: %w", e.command, err)
	}
	return nil
}
