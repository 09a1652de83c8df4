package schema

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
)

// Exec is an implementation wrapping external process execution.
type Exec struct{}

// Run executes a command line to completion and returns its standard output.
// A non-zero exit or spawn failure is returned as a [*CommandError] carrying
// the command line, the exit status and the captured standard error.
func (*Exec) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		exitCode := -1

		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}

		return stdout.Bytes(), &CommandError{
			Command:  strings.Join(append([]string{name}, args...), " "),
			ExitCode: exitCode,
			Stderr:   strings.TrimSpace(stderr.String()),
			Err:      err,
		}
	}

	return stdout.Bytes(), nil
}
