// SPDX-License-Identifier: MPL-2.0

package gitrepo

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"bifrost-cli/internal/config"
	"bifrost-cli/internal/testutil"
)

func testConfig(root string) *config.Config {
	return &config.Config{
		Root:           root,
		RemoteURL:      "https://example.com/heimdall-rs",
		ArtifactName:   "heimdall",
		ProjectDirName: "heimdall-rs",
	}
}

const lsRemoteCmd = "git ls-remote --tags --refs --sort=creatordate https://example.com/heimdall-rs"

func TestRemoteTags_ParsesListingInOrder(t *testing.T) {
	t.Parallel()

	runner := testutil.NewRecordingRunner()
	runner.Outputs[lsRemoteCmd] = strings.Join([]string{
		"1111111111111111111111111111111111111111\trefs/tags/0.4.0",
		"2222222222222222222222222222222222222222\trefs/tags/0.5.0",
		"3333333333333333333333333333333333333333\trefs/tags/0.6.0",
		"",
	}, "\n")

	lister := NewRemoteTags(testConfig(t.TempDir()), runner)
	tags, err := lister.Tags(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"0.4.0", "0.5.0", "0.6.0"}
	if !reflect.DeepEqual(tags, want) {
		t.Errorf("tags: got %v, want %v", tags, want)
	}
}

func TestRemoteTags_LatestIsMostRecentlyCreated(t *testing.T) {
	t.Parallel()

	runner := testutil.NewRecordingRunner()
	runner.Outputs[lsRemoteCmd] = strings.Join([]string{
		"aaaa\trefs/tags/0.5.9",
		"bbbb\trefs/tags/0.6.0",
		"cccc\trefs/tags/0.6.1",
	}, "\n")

	lister := NewRemoteTags(testConfig(t.TempDir()), runner)
	latest, err := lister.Latest(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if latest != "0.6.1" {
		t.Errorf("latest: got %q, want %q", latest, "0.6.1")
	}

	cmds := runner.CommandLines()
	if len(cmds) != 1 || !strings.Contains(cmds[0], "--sort=creatordate") {
		t.Errorf("ls-remote must request creation order, got %v", cmds)
	}
}

// Two-digit version components sort lexicographically between 0.1.x and
// 0.2.0, so creation order is the only ordering that resolves them
// correctly. The scripted listing is creatordate-sorted, as git emits it
// with --sort=creatordate.
func TestRemoteTags_LatestSurvivesTwoDigitComponents(t *testing.T) {
	t.Parallel()

	runner := testutil.NewRecordingRunner()
	runner.Outputs[lsRemoteCmd] = strings.Join([]string{
		"aaaa\trefs/tags/0.1.0",
		"bbbb\trefs/tags/0.2.0",
		"cccc\trefs/tags/0.9.0",
		"dddd\trefs/tags/0.10.0",
	}, "\n")

	lister := NewRemoteTags(testConfig(t.TempDir()), runner)
	latest, err := lister.Latest(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if latest != "0.10.0" {
		t.Errorf("latest: got %q, want %q", latest, "0.10.0")
	}
}

func TestRemoteTags_NoTagsIsAnError(t *testing.T) {
	t.Parallel()

	runner := testutil.NewRecordingRunner()
	runner.Outputs[lsRemoteCmd] = "\n"

	lister := NewRemoteTags(testConfig(t.TempDir()), runner)
	if _, err := lister.Latest(context.Background()); err == nil {
		t.Fatal("expected error for tagless remote")
	}
}

func TestRemoteTags_CommandFailurePropagates(t *testing.T) {
	t.Parallel()

	runner := testutil.NewRecordingRunner()
	runner.Errs[lsRemoteCmd] = errors.New("remote unreachable")

	lister := NewRemoteTags(testConfig(t.TempDir()), runner)
	if _, err := lister.Tags(context.Background()); err == nil {
		t.Fatal("expected error when ls-remote fails")
	}
}
