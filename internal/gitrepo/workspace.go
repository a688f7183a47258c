// SPDX-License-Identifier: MPL-2.0

package gitrepo

import (
	"context"
	"fmt"
	"os"

	"bifrost-cli/internal/config"
	"bifrost-cli/internal/execx"
)

// Workspace prepares the build scratch directory and materializes a pinned
// version of the heimdall source tree in it.
type Workspace struct {
	cfg    *config.Config
	runner execx.Runner
}

// NewWorkspace creates a Workspace rooted at cfg.BuildDir().
func NewWorkspace(cfg *config.Config, runner execx.Runner) *Workspace {
	return &Workspace{cfg: cfg, runner: runner}
}

// Materialize produces a checkout of version under the build directory.
// Any prior checkout is removed first, so no stale files leak between
// installs. The explicit fetch after clone covers tags pushed after the
// clone's default branch snapshot.
//
// When trackLatest is set (no explicit version was requested), the checkout
// creates or resets a local "latest" branch at the resolved tag, so repeated
// runs against an unchanged remote converge instead of erroring on an
// existing branch.
func (w *Workspace) Materialize(ctx context.Context, version string, trackLatest bool) error {
	if version == "" {
		return fmt.Errorf("materialize workspace: empty version")
	}

	if err := os.MkdirAll(w.cfg.BuildDir(), 0o755); err != nil {
		return fmt.Errorf("preparing build directory: %w", err)
	}
	if err := os.RemoveAll(w.cfg.CheckoutDir()); err != nil {
		return fmt.Errorf("removing stale checkout: %w", err)
	}

	if err := w.runner.Run(ctx, execx.Spec{
		Name: "git",
		Args: []string{"clone", w.cfg.RemoteURL, w.cfg.ProjectDirName},
		Dir:  w.cfg.BuildDir(),
	}); err != nil {
		return fmt.Errorf("cloning %s: %w", w.cfg.RemoteURL, err)
	}

	if err := w.runner.Run(ctx, execx.Spec{
		Name: "git",
		Args: []string{"fetch", "origin", "--tags"},
		Dir:  w.cfg.CheckoutDir(),
	}); err != nil {
		return fmt.Errorf("fetching tags: %w", err)
	}

	checkoutArgs := []string{"checkout", version}
	if trackLatest {
		checkoutArgs = []string{"checkout", "-B", "latest", version}
	}
	if err := w.runner.Run(ctx, execx.Spec{
		Name: "git",
		Args: checkoutArgs,
		Dir:  w.cfg.CheckoutDir(),
	}); err != nil {
		return fmt.Errorf("checking out %s: %w", version, err)
	}

	return nil
}
