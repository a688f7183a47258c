// SPDX-License-Identifier: MPL-2.0

// Package issue carries user-facing error context for the install pipeline:
// which operation failed, on what resource, and what the user can do next.
package issue

import (
	"errors"
	"fmt"
	"strings"
)

// Error is an error with context for user-facing diagnostics. The pipeline
// is fail-fast, so the first Error built is the one the user sees.
type Error struct {
	// Operation describes what was being attempted, as a verb phrase
	// (e.g. "clone heimdall source", "download artifact").
	Operation string

	// Resource identifies the path, URL, or version involved (optional).
	Resource string

	// Suggestions are hints on how to fix the issue (optional).
	Suggestions []string

	// Cause is the underlying error (optional).
	Cause error
}

// Wrap builds an Error for a failed operation. A nil cause returns nil, so
// call sites can wrap unconditionally.
func Wrap(cause error, operation string) *Error {
	if cause == nil {
		return nil
	}
	return &Error{Operation: operation, Cause: cause}
}

// WithResource attaches the resource involved and returns the error.
func (e *Error) WithResource(res string) *Error {
	e.Resource = res
	return e
}

// WithSuggestion appends a remediation hint and returns the error.
func (e *Error) WithSuggestion(s string) *Error {
	e.Suggestions = append(e.Suggestions, s)
	return e
}

// Error implements the error interface.
func (e *Error) Error() string {
	var msg strings.Builder
	msg.WriteString("failed to ")
	msg.WriteString(e.Operation)
	if e.Resource != "" {
		msg.WriteString(": ")
		msg.WriteString(e.Resource)
	}
	if e.Cause != nil {
		msg.WriteString(": ")
		msg.WriteString(e.Cause.Error())
	}
	return msg.String()
}

// Unwrap returns the underlying cause for errors.Is/As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Format renders the error for terminal output, one suggestion per line.
// With verbose set, the full cause chain is appended.
func (e *Error) Format(verbose bool) string {
	var msg strings.Builder
	msg.WriteString(e.Error())

	for _, s := range e.Suggestions {
		msg.WriteString("\n  • ")
		msg.WriteString(s)
	}

	if verbose && e.Cause != nil {
		msg.WriteString("\n\nError chain:")
		depth := 1
		for err := e.Cause; err != nil; err = errors.Unwrap(err) {
			fmt.Fprintf(&msg, "\n  %d. %s", depth, err.Error())
			depth++
		}
	}

	return msg.String()
}
