// SPDX-License-Identifier: MPL-2.0

package install

import (
	"context"
	"fmt"
	"path/filepath"

	"bifrost-cli/internal/config"
	"bifrost-cli/internal/execx"
	"bifrost-cli/internal/manifest"
)

// modernCLIDir is the CLI crate directory in the modern workspace layout.
const modernCLIDir = "cli"

// releaseBuildEnv carries the performance flags every source install
// compiles with: native CPU targeting, a single codegen unit, and LTO.
var releaseBuildEnv = []string{
	"RUSTFLAGS=-C target-cpu=native",
	"CARGO_PROFILE_RELEASE_LTO=true",
	"CARGO_PROFILE_RELEASE_CODEGEN_UNITS=1",
}

// SourceInstaller compiles the materialized checkout and installs the
// resulting binary under the toolchain root. The build may run arbitrarily
// long; no timeout is imposed beyond ctx.
type SourceInstaller struct {
	cfg    *config.Config
	runner execx.Runner

	// detectLayout is a seam over manifest.DetectLayout for tests.
	detectLayout func(dir string) (manifest.Layout, error)
}

// NewSourceInstaller creates a SourceInstaller over the given checkout.
func NewSourceInstaller(cfg *config.Config, runner execx.Runner) *SourceInstaller {
	return &SourceInstaller{
		cfg:          cfg,
		runner:       runner,
		detectLayout: manifest.DetectLayout,
	}
}

// Install detects the checkout's build layout and runs the matching
// release-mode cargo install, forcing overwrite of any prior artifact and
// rooting the install at the toolchain root (cargo places the binary in
// <root>/bin).
func (s *SourceInstaller) Install(ctx context.Context, version string) error {
	layout, err := s.detectLayout(s.cfg.CheckoutDir())
	if err != nil {
		return fmt.Errorf("detecting build layout: %w", err)
	}

	buildPath := s.cfg.CheckoutDir()
	if layout == manifest.LayoutModern {
		buildPath = filepath.Join(buildPath, modernCLIDir)
	}

	if err := s.runner.Run(ctx, execx.Spec{
		Name: "cargo",
		Args: []string{
			"install",
			"--path", buildPath,
			"--bins",
			"--locked",
			"--force",
			"--root", s.cfg.Root,
		},
		Dir: s.cfg.CheckoutDir(),
		Env: releaseBuildEnv,
	}); err != nil {
		return fmt.Errorf("building heimdall %s: %w", version, err)
	}

	return nil
}
