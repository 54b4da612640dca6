package archiver

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Exec invokes an external archiving command, by default the single-file
// CLI. The configured command receives the URL and the destination path as
// its two trailing arguments and is treated as a black box: raido only
// observes the exit status and stderr.
type Exec struct {
	command []string
}

// NewExec creates an Exec archiver from a non-empty command line,
// e.g. ["npx", "single-file"].
func NewExec(command []string) (*Exec, error) {
	if len(command) == 0 {
		return nil, fmt.Errorf("archiver: empty command")
	}
	return &Exec{command: command}, nil
}

// Archive runs the command and waits for it to finish. The external tool is
// responsible for its own timeouts; ctx cancellation kills the process.
func (e *Exec) Archive(ctx context.Context, url, dest string) error {
	args := append(append([]string{}, e.command[1:]...), url, dest)
	cmd := exec.CommandContext(ctx, e.command[0], args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return fmt.Errorf("archiver: %s: %w", e.command[0], err)
		}
		return fmt.Errorf("archiver: %s: %w: %s", e.command[0], err, msg)
	}
	return nil
}
