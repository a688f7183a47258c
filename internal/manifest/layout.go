// SPDX-License-Identifier: MPL-2.0

// Package manifest decides which of heimdall's two build layouts a checkout
// uses, by sniffing the declared package version out of its Cargo.toml.
//
// The sniff is deliberately textual and first-match: the manifest is NOT
// parsed as TOML. The first line matching `version = "X.Y.Z"` wins, which is
// the conventional position of the package version in a Cargo manifest. A
// manifest that declares its version in any other form is outside this
// contract.
package manifest

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
)

// Layout identifies one of the two mutually incompatible build invocation
// conventions heimdall has used over its history.
type Layout int

const (
	// LayoutLegacy is the single-crate layout rooted at the checkout top
	// level, used before 0.6.0.
	LayoutLegacy Layout = iota
	// LayoutModern is the multi-crate workspace layout with the CLI crate
	// under cli/, introduced in 0.6.0.
	LayoutModern
)

// String returns the layout name.
func (l Layout) String() string {
	if l == LayoutModern {
		return "modern"
	}
	return "legacy"
}

// modernThreshold is the period-stripped encoding of version 0.6.0. Any
// declared version encoding at or above it selects the modern layout; the
// encoding grows with the version number, so the mapping stays monotonic.
const modernThreshold = 60

// manifestFileName is the Cargo manifest sniffed for the version line.
const manifestFileName = "Cargo.toml"

var versionLine = regexp.MustCompile(`^\s*version\s*=\s*"(\d+)\.(\d+)\.(\d+)"`)

// DetectLayout reads the manifest in the checkout at dir and maps its
// declared package version to a Layout. It fails when the manifest cannot
// be read or no conventional version line is present.
func DetectLayout(dir string) (Layout, error) {
	path := filepath.Join(dir, manifestFileName)

	f, err := os.Open(path)
	if err != nil {
		return LayoutLegacy, fmt.Errorf("reading manifest: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		m := versionLine.FindStringSubmatch(scanner.Text())
		if m == nil {
			continue
		}
		encoded, err := encodeVersion(m[1], m[2], m[3])
		if err != nil {
			return LayoutLegacy, fmt.Errorf("manifest %s: %w", path, err)
		}
		if encoded >= modernThreshold {
			return LayoutModern, nil
		}
		return LayoutLegacy, nil
	}
	if err := scanner.Err(); err != nil {
		return LayoutLegacy, fmt.Errorf("scanning manifest %s: %w", path, err)
	}

	return LayoutLegacy, fmt.Errorf("manifest %s has no version declaration", path)
}

// encodeVersion strips the separators from a three-part version and parses
// the concatenation as an integer, e.g. 0.6.0 -> 60 and 0.12.3 -> 123.
func encodeVersion(major, minor, patch string) (int, error) {
	encoded, err := strconv.Atoi(major + minor + patch)
	if err != nil {
		return 0, fmt.Errorf("parsing version digits %s.%s.%s: %w", major, minor, patch, err)
	}
	return encoded, nil
}
