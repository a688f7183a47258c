// SPDX-License-Identifier: MPL-2.0

package install

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"

	"bifrost-cli/internal/config"
	"bifrost-cli/internal/remote"
)

// platformIdentifiers maps GOOS values to the platform suffix of published
// release artifacts. Only these two platforms ship precompiled binaries;
// everything else must build from source.
var platformIdentifiers = map[string]string{
	"linux":  "linux-amd64",
	"darwin": "macos-amd64",
}

//nolint:gochecknoglobals // Test seam for runtime.GOOS.
var currentGOOS = func() string { return runtime.GOOS }

// BinaryInstaller downloads a precompiled heimdall artifact for the running
// platform straight into the toolchain's bin directory.
type BinaryInstaller struct {
	cfg    *config.Config
	client *remote.Client
}

// NewBinaryInstaller creates a BinaryInstaller using the given download client.
func NewBinaryInstaller(cfg *config.Config, client *remote.Client) *BinaryInstaller {
	return &BinaryInstaller{cfg: cfg, client: client}
}

// Install resolves the platform identifier, downloads the artifact for
// version, and installs it as an executable under bin/. The platform check
// runs before any filesystem write, so an unsupported platform leaves bin/
// untouched. Any prior artifact is unconditionally replaced.
func (b *BinaryInstaller) Install(ctx context.Context, version string) error {
	platform, ok := platformIdentifiers[currentGOOS()]
	if !ok {
		return &UnsupportedPlatformError{GOOS: currentGOOS()}
	}

	assetURL := fmt.Sprintf("%s/download/%s/%s-%s",
		b.cfg.ReleaseBase, version, b.cfg.ArtifactName, platform)

	body, err := b.client.DownloadAsset(ctx, assetURL)
	if err != nil {
		return err
	}
	defer body.Close()

	if err := os.MkdirAll(b.cfg.BinDir(), 0o755); err != nil {
		return fmt.Errorf("preparing bin directory: %w", err)
	}
	if err := os.RemoveAll(b.cfg.ArtifactPath()); err != nil {
		return fmt.Errorf("removing prior artifact: %w", err)
	}

	f, err := os.OpenFile(b.cfg.ArtifactPath(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o755)
	if err != nil {
		return fmt.Errorf("creating artifact file: %w", err)
	}

	if _, err := io.Copy(f, body); err != nil {
		f.Close()
		// Best-effort removal of the partial download; the next run's
		// unconditional replacement repairs anything left behind.
		_ = os.Remove(b.cfg.ArtifactPath())
		return fmt.Errorf("writing artifact: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing artifact file: %w", err)
	}

	if err := os.Chmod(b.cfg.ArtifactPath(), 0o755); err != nil {
		return fmt.Errorf("marking artifact executable: %w", err)
	}

	return nil
}
