// SPDX-License-Identifier: MPL-2.0

// Package install places a heimdall executable into the toolchain's bin
// directory, either by compiling the materialized source checkout or by
// downloading a precompiled release artifact.
package install

import (
	"context"
	"fmt"
)

// Installer installs the given pinned version into the toolchain. The two
// implementations — source build and precompiled binary — are selected by
// the --binary flag.
type Installer interface {
	Install(ctx context.Context, version string) error
}

// UnsupportedPlatformError reports an operating system no precompiled
// artifact is published for.
type UnsupportedPlatformError struct {
	GOOS string
}

// Error implements the error interface.
func (e *UnsupportedPlatformError) Error() string {
	return fmt.Sprintf("no precompiled artifact is published for platform %q", e.GOOS)
}
