// SPDX-License-Identifier: MPL-2.0

// Package execx runs external commands with fail-fast semantics: every
// invocation either succeeds or produces an error naming the exact command
// line that failed. There is no retry and no timeout — builds in particular
// may run arbitrarily long.
package execx

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/charmbracelet/log"
)

// Spec describes a single external command invocation.
type Spec struct {
	// Name is the command to run (resolved on PATH).
	Name string
	// Args are the command arguments.
	Args []string
	// Dir is the working directory (empty = inherit).
	Dir string
	// Env are extra KEY=VALUE pairs appended to the inherited environment.
	Env []string
}

// String renders the command line for diagnostics.
func (s Spec) String() string {
	return strings.Join(append([]string{s.Name}, s.Args...), " ")
}

// Runner executes external commands. The production implementation shells
// out; tests substitute a recording fake.
type Runner interface {
	// Run executes the command, streaming output to the runner's writers.
	Run(ctx context.Context, spec Spec) error
	// Output executes the command and captures its stdout.
	Output(ctx context.Context, spec Spec) (string, error)
}

// ExecRunner is the production Runner backed by os/exec.
type ExecRunner struct {
	// Stdout and Stderr receive command output; nil defaults to the
	// process's own streams.
	Stdout io.Writer
	Stderr io.Writer

	logger *log.Logger
}

// NewRunner creates an ExecRunner writing through to the current process's
// stdout/stderr.
func NewRunner(logger *log.Logger) *ExecRunner {
	if logger == nil {
		logger = log.Default()
	}
	return &ExecRunner{
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		logger: logger,
	}
}

// Run executes the command, inheriting the process environment plus
// spec.Env. A non-zero exit is returned as an error carrying the full
// command line.
func (r *ExecRunner) Run(ctx context.Context, spec Spec) error {
	cmd := exec.CommandContext(ctx, spec.Name, spec.Args...)
	cmd.Dir = spec.Dir
	cmd.Env = append(os.Environ(), spec.Env...)
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr

	r.logger.Debug("running command", "cmd", spec.String(), "dir", spec.Dir)

	if err := cmd.Run(); err != nil {
		return wrapRunError(spec, err)
	}
	return nil
}

// Output executes the command and returns its captured stdout. Stderr is
// captured as well and folded into the error on failure.
func (r *ExecRunner) Output(ctx context.Context, spec Spec) (string, error) {
	cmd := exec.CommandContext(ctx, spec.Name, spec.Args...)
	cmd.Dir = spec.Dir
	cmd.Env = append(os.Environ(), spec.Env...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	r.logger.Debug("running command", "cmd", spec.String(), "dir", spec.Dir)

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", fmt.Errorf("command %q failed: %w: %s", spec.String(), err, msg)
		}
		return "", wrapRunError(spec, err)
	}
	return stdout.String(), nil
}

func wrapRunError(spec Spec, err error) error {
	if exitErr, ok := err.(*exec.ExitError); ok {
		return fmt.Errorf("command %q exited with status %d: %w", spec.String(), exitErr.ExitCode(), exitErr)
	}
	return fmt.Errorf("command %q failed: %w", spec.String(), err)
}
