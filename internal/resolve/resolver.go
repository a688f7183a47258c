// SPDX-License-Identifier: MPL-2.0

// Package resolve turns an install request into a concrete, pinned version.
package resolve

import (
	"context"

	"bifrost-cli/internal/gitrepo"
)

// Resolver pins an install to a concrete tag or branch string.
type Resolver struct {
	tags gitrepo.TagLister
}

// NewResolver creates a Resolver backed by the given remote tag lister.
func NewResolver(tags gitrepo.TagLister) *Resolver {
	return &Resolver{tags: tags}
}

// Resolve returns the version an install commits to. An explicit requested
// version is returned verbatim — no normalization and no validation against
// the remote; a bogus tag surfaces later as a checkout failure. With no
// requested version, the most recently created remote tag is used.
func (r *Resolver) Resolve(ctx context.Context, requested string) (string, error) {
	if requested != "" {
		return requested, nil
	}
	return r.tags.Latest(ctx)
}
