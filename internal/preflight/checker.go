// SPDX-License-Identifier: MPL-2.0

// Package preflight verifies that the external tools an install pipeline
// shells out to are actually present before any other action runs.
package preflight

import (
	"fmt"
	"os/exec"
)

//nolint:gochecknoglobals // Test seam for exec.LookPath().
var lookPath = exec.LookPath

// MissingCommandError reports the first required command that could not be
// resolved on PATH.
type MissingCommandError struct {
	Command string
}

// Error implements the error interface.
func (e *MissingCommandError) Error() string {
	return fmt.Sprintf("required command %q not found on PATH", e.Command)
}

// Checker verifies required external commands before the pipeline starts.
type Checker struct {
	required []string
}

// NewChecker creates a Checker for the given command names.
func NewChecker(required ...string) *Checker {
	return &Checker{required: required}
}

// Check resolves each required command on PATH, in order. It returns a
// MissingCommandError for the first command that cannot be resolved; no
// partial operation is attempted past that point.
func (c *Checker) Check() error {
	for _, name := range c.required {
		if _, err := lookPath(name); err != nil {
			return &MissingCommandError{Command: name}
		}
	}
	return nil
}
