// Package command runs external programs to completion and captures their output.
package command

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/muicebot/plugin-index/internal/logger"
)

//go:generate mockgen -destination=mocks/mock_runner.go -package=mocks -source=command.go Runner

// Runner executes a program in a working directory and waits for it
type Runner interface {
	// Run executes name with args in dir and returns its standard output.
	// A non-zero exit yields an *Error carrying the standard error text.
	Run(ctx context.Context, dir, name string, args ...string) ([]byte, error)
}

// Error describes a failed command
type Error struct {
	Command string
	Stderr  string
	Err     error
}

func (e *Error) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("%s: %v: %s", e.Command, e.Err, e.Stderr)
	}
	return fmt.Sprintf("%s: %v", e.Command, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// ExecRunner implements Runner with os/exec
type ExecRunner struct {
	env []string
}

// NewExecRunner returns a Runner that inherits the process environment plus env
func NewExecRunner(env ...string) *ExecRunner {
	return &ExecRunner{env: env}
}

// Run implements Runner
func (r *ExecRunner) Run(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	//nolint:gosec // Programs and arguments come from the operator's configuration
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	if len(r.env) > 0 {
		cmd.Env = append(cmd.Environ(), r.env...)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	display := Display(name, args...)
	logger.Debugf("Running %q in %s", display, dir)

	if err := cmd.Run(); err != nil {
		return stdout.Bytes(), &Error{
			Command: display,
			Stderr:  strings.TrimSpace(stderr.String()),
			Err:     err,
		}
	}
	return stdout.Bytes(), nil
}

// Display renders a command line for logs and errors. The payload of an
// inline script flag (-c, -e) is shown as <script>.
func Display(name string, args ...string) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, name)
	for i, arg := range args {
		if i > 0 && (args[i-1] == "-c" || args[i-1] == "-e") {
			arg = "<script>"
		}
		parts = append(parts, arg)
	}
	return strings.Join(parts, " ")
}
