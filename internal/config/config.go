// SPDX-License-Identifier: MPL-2.0

package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

const (
	// AppName is the application name.
	AppName = "bifrost"

	// ArtifactName is the name of the installed heimdall executable.
	ArtifactName = "heimdall"

	// ProjectDirName is the directory name of the heimdall checkout under build/.
	ProjectDirName = "heimdall-rs"

	// RootEnvVar overrides the toolchain root directory.
	RootEnvVar = "BIFROST_PATH"

	// defaultRootDirName is the toolchain root under the user's home directory.
	defaultRootDirName = ".bifrost"

	// defaultRemoteURL is the canonical heimdall repository.
	defaultRemoteURL = "https://github.com/Jon-Becker/heimdall-rs"

	// defaultReleaseBase is the base URL for precompiled release artifacts.
	defaultReleaseBase = "https://github.com/Jon-Becker/heimdall-rs/releases"

	// defaultBootstrapURL is the install script re-executed on self-update.
	defaultBootstrapURL = "https://raw.githubusercontent.com/Jon-Becker/heimdall-rs/main/bifrost/install"
)

// Config holds every path and remote location the toolchain components need.
// It is built once per invocation and passed into each component constructor,
// so tests can point an entire pipeline at a temporary root.
type Config struct {
	// Root is the toolchain root directory owning bin/ and build/.
	Root string

	// RemoteURL is the git remote the heimdall source is cloned from.
	RemoteURL string

	// ReleaseBase is the base URL precompiled artifacts are downloaded from.
	ReleaseBase string

	// BootstrapURL is the install script fetched and executed on self-update.
	BootstrapURL string

	// ArtifactName is the executable name placed under Root/bin.
	ArtifactName string

	// ProjectDirName is the checkout directory name under Root/build.
	ProjectDirName string

	// InsecureTLS skips TLS certificate verification on downloads.
	InsecureTLS bool
}

// Load builds a Config from the environment. BIFROST_PATH overrides the
// toolchain root; BIFROST_REMOTE_URL, BIFROST_RELEASE_BASE and
// BIFROST_BOOTSTRAP_URL override the remote locations (primarily for tests
// against fake remotes).
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("BIFROST")
	v.AutomaticEnv()

	v.SetDefault("remote_url", defaultRemoteURL)
	v.SetDefault("release_base", defaultReleaseBase)
	v.SetDefault("bootstrap_url", defaultBootstrapURL)
	v.SetDefault("insecure_tls", false)

	root := os.Getenv(RootEnvVar)
	if root == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		root = filepath.Join(home, defaultRootDirName)
	}

	return &Config{
		Root:           root,
		RemoteURL:      v.GetString("remote_url"),
		ReleaseBase:    v.GetString("release_base"),
		BootstrapURL:   v.GetString("bootstrap_url"),
		ArtifactName:   ArtifactName,
		ProjectDirName: ProjectDirName,
		InsecureTLS:    v.GetBool("insecure_tls"),
	}, nil
}

// BinDir returns the directory installed executables live in.
func (c *Config) BinDir() string {
	return filepath.Join(c.Root, "bin")
}

// BuildDir returns the scratch workspace for source checkouts.
func (c *Config) BuildDir() string {
	return filepath.Join(c.Root, "build")
}

// CheckoutDir returns the path of the heimdall source checkout.
func (c *Config) CheckoutDir() string {
	return filepath.Join(c.BuildDir(), c.ProjectDirName)
}

// ArtifactPath returns the full path of the installed executable.
func (c *Config) ArtifactPath() string {
	return filepath.Join(c.BinDir(), c.ArtifactName)
}

// StatePath returns the path of the install record file.
func (c *Config) StatePath() string {
	return filepath.Join(c.Root, "bifrost.toml")
}
