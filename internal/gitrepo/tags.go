// SPDX-License-Identifier: MPL-2.0

// Package gitrepo wraps the git operations the install pipeline depends on:
// remote tag discovery and workspace materialization (clone, fetch,
// checkout). Every git invocation is ensured — a non-zero exit aborts the
// operation with an error naming the failed command.
package gitrepo

import (
	"context"
	"fmt"
	"strings"

	"bifrost-cli/internal/config"
	"bifrost-cli/internal/execx"
)

const tagRefPrefix = "refs/tags/"

// TagLister discovers the tags published on the canonical remote.
type TagLister interface {
	// Tags returns the remote's tag names in tag-creation order, oldest first.
	Tags(ctx context.Context) ([]string, error)
	// Latest returns the most recently created tag.
	Latest(ctx context.Context) (string, error)
}

// RemoteTags lists tags straight off the remote via ls-remote, so no local
// clone or cached tag history is ever consulted.
type RemoteTags struct {
	cfg    *config.Config
	runner execx.Runner
}

// NewRemoteTags creates a RemoteTags lister.
func NewRemoteTags(cfg *config.Config, runner execx.Runner) *RemoteTags {
	return &RemoteTags{cfg: cfg, runner: runner}
}

// Tags runs `git ls-remote --tags --refs` against the configured remote and
// returns the tag names in tag-creation order, oldest first. ls-remote sorts
// refnames lexicographically by default, which misorders multi-digit version
// components (0.10.0 would land between 0.1.x and 0.2.0), so the listing is
// sorted by creatordate instead; that key works for lightweight and annotated
// tags alike.
func (r *RemoteTags) Tags(ctx context.Context) ([]string, error) {
	out, err := r.runner.Output(ctx, execx.Spec{
		Name: "git",
		Args: []string{"ls-remote", "--tags", "--refs", "--sort=creatordate", r.cfg.RemoteURL},
	})
	if err != nil {
		return nil, fmt.Errorf("listing remote tags: %w", err)
	}
	return parseTagListing(out), nil
}

// Latest returns the most recently created tag, the last element of the
// creatordate-sorted listing.
func (r *RemoteTags) Latest(ctx context.Context) (string, error) {
	tags, err := r.Tags(ctx)
	if err != nil {
		return "", err
	}
	if len(tags) == 0 {
		return "", fmt.Errorf("remote %s has no tags", r.cfg.RemoteURL)
	}
	return tags[len(tags)-1], nil
}

// parseTagListing extracts tag names from ls-remote output lines of the form
// "<sha>\trefs/tags/<name>". Lines without a tag ref are skipped.
func parseTagListing(out string) []string {
	var tags []string
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		ref := fields[len(fields)-1]
		if !strings.HasPrefix(ref, tagRefPrefix) {
			continue
		}
		tags = append(tags, strings.TrimPrefix(ref, tagRefPrefix))
	}
	return tags
}
