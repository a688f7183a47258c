// SPDX-License-Identifier: MPL-2.0

// Package selfupdate re-installs the manager itself: it wipes the toolchain
// root and re-runs the canonical bootstrap script from the remote.
package selfupdate

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"

	"bifrost-cli/internal/config"
)

// BootstrapFetcher fetches the canonical install script.
type BootstrapFetcher interface {
	FetchBootstrap(ctx context.Context, scriptURL string) (string, error)
}

// Updater wipes the toolchain root and re-executes the bootstrap script.
// The script runs in an embedded shell interpreter, so self-update does not
// depend on a system shell being present.
type Updater struct {
	cfg     *config.Config
	fetcher BootstrapFetcher

	// Stdout and Stderr receive the bootstrap script's output.
	Stdout io.Writer
	Stderr io.Writer
}

// NewUpdater creates an Updater writing script output to the process streams.
func NewUpdater(cfg *config.Config, fetcher BootstrapFetcher) *Updater {
	return &Updater{
		cfg:     cfg,
		fetcher: fetcher,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
	}
}

// Run deletes the entire toolchain root — including any unrelated files
// placed in it — then fetches and executes the bootstrap script. It never
// resumes the original invocation: a successful update ends the run.
func (u *Updater) Run(ctx context.Context) error {
	if err := os.RemoveAll(u.cfg.Root); err != nil {
		return fmt.Errorf("removing toolchain root %s: %w", u.cfg.Root, err)
	}

	script, err := u.fetcher.FetchBootstrap(ctx, u.cfg.BootstrapURL)
	if err != nil {
		return err
	}

	prog, err := syntax.NewParser().Parse(strings.NewReader(script), "bootstrap")
	if err != nil {
		return fmt.Errorf("parsing bootstrap script: %w", err)
	}

	env := append(os.Environ(), config.RootEnvVar+"="+u.cfg.Root)
	runner, err := interp.New(
		interp.Env(expand.ListEnviron(env...)),
		interp.StdIO(os.Stdin, u.Stdout, u.Stderr),
	)
	if err != nil {
		return fmt.Errorf("creating bootstrap interpreter: %w", err)
	}

	if err := runner.Run(ctx, prog); err != nil {
		return fmt.Errorf("running bootstrap script: %w", err)
	}
	return nil
}
