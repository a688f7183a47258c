// SPDX-License-Identifier: MPL-2.0

// Package testutil provides shared test doubles for the install pipeline.
package testutil

import (
	"context"
	"fmt"

	"bifrost-cli/internal/execx"
)

// RecordingRunner is an execx.Runner that records every invocation instead
// of shelling out. Outputs and errors can be scripted per command line.
type RecordingRunner struct {
	// Calls holds every Spec passed to Run or Output, in order.
	Calls []execx.Spec

	// Outputs maps a command line (Spec.String()) to the stdout Output
	// should return for it.
	Outputs map[string]string

	// Errs maps a command line to the error Run/Output should return.
	Errs map[string]error
}

// NewRecordingRunner creates an empty RecordingRunner.
func NewRecordingRunner() *RecordingRunner {
	return &RecordingRunner{
		Outputs: map[string]string{},
		Errs:    map[string]error{},
	}
}

// Run records the invocation and returns any scripted error.
func (r *RecordingRunner) Run(_ context.Context, spec execx.Spec) error {
	r.Calls = append(r.Calls, spec)
	return r.Errs[spec.String()]
}

// Output records the invocation and returns the scripted stdout.
func (r *RecordingRunner) Output(_ context.Context, spec execx.Spec) (string, error) {
	r.Calls = append(r.Calls, spec)
	if err := r.Errs[spec.String()]; err != nil {
		return "", err
	}
	out, ok := r.Outputs[spec.String()]
	if !ok {
		return "", fmt.Errorf("no scripted output for %q", spec.String())
	}
	return out, nil
}

// CommandLines returns the recorded invocations rendered as command lines.
func (r *RecordingRunner) CommandLines() []string {
	lines := make([]string, 0, len(r.Calls))
	for _, c := range r.Calls {
		lines = append(lines, c.String())
	}
	return lines
}
