// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"bifrost-cli/internal/config"
	"bifrost-cli/internal/execx"
	"bifrost-cli/internal/gitrepo"
	"bifrost-cli/internal/install"
	"bifrost-cli/internal/issue"
	"bifrost-cli/internal/preflight"
	"bifrost-cli/internal/remote"
	"bifrost-cli/internal/resolve"
	"bifrost-cli/internal/selfupdate"
	"bifrost-cli/internal/state"
)

type (
	// versionResolver pins an install request to a concrete version.
	versionResolver interface {
		Resolve(ctx context.Context, requested string) (string, error)
	}

	// workspaceManager materializes a pinned version's source tree.
	workspaceManager interface {
		Materialize(ctx context.Context, version string, trackLatest bool) error
	}

	// toolUpdater re-installs bifrost itself.
	toolUpdater interface {
		Run(ctx context.Context) error
	}

	// releaseChecker reports the latest published release tag.
	releaseChecker interface {
		LatestReleaseTag(ctx context.Context) (string, error)
	}

	// recordStore persists what an install produced.
	recordStore interface {
		Save(version string, source state.InstallSource) error
	}

	// pipeline bundles the collaborators behind every mode of a bifrost
	// invocation, so the dispatch logic is testable without git, cargo,
	// or the network.
	pipeline struct {
		cfg    *config.Config
		stdout io.Writer
		stderr io.Writer

		checker   func(mode requestMode, useBinary bool) error
		resolver  versionResolver
		workspace workspaceManager
		tags      gitrepo.TagLister
		source    install.Installer
		binary    install.Installer
		updater   toolUpdater
		store     recordStore
		releases  releaseChecker
	}
)

// run wires the production pipeline and dispatches the request.
func run(ctx context.Context, req installRequest) error {
	cfg, err := config.Load()
	if err != nil {
		return fatal(err)
	}

	logger := newLogger()
	runner := execx.NewRunner(logger)
	tags := gitrepo.NewRemoteTags(cfg, runner)

	clientOpts := []remote.ClientOption{remote.WithUserAgent("bifrost/" + Version)}
	if cfg.InsecureTLS {
		clientOpts = append(clientOpts, remote.WithInsecureTLS())
	}
	client := remote.NewClient(clientOpts...)

	p := pipeline{
		cfg:       cfg,
		stdout:    os.Stdout,
		stderr:    os.Stderr,
		checker:   checkPreconditions,
		resolver:  resolve.NewResolver(tags),
		workspace: gitrepo.NewWorkspace(cfg, runner),
		tags:      tags,
		source:    install.NewSourceInstaller(cfg, runner),
		binary:    install.NewBinaryInstaller(cfg, client),
		updater:   selfupdate.NewUpdater(cfg, client),
		store:     state.NewStore(cfg),
		releases:  client,
	}

	return dispatch(ctx, p, req)
}

// checkPreconditions verifies the external tools a mode shells out to. The
// update mode runs entirely over HTTP and the embedded shell interpreter,
// so it has no external requirements; source installs additionally need
// cargo.
func checkPreconditions(mode requestMode, useBinary bool) error {
	var required []string
	switch mode {
	case modeUpdate:
	case modeList:
		required = []string{"git"}
	case modeInstall:
		required = []string{"git"}
		if !useBinary {
			required = append(required, "cargo")
		}
	}
	return preflight.NewChecker(required...).Check()
}

// dispatch runs exactly one of the three pipelines and converts any failure
// into a styled fatal diagnostic with exit code 1.
func dispatch(ctx context.Context, p pipeline, req installRequest) error {
	if err := p.checker(req.mode, req.useBinary); err != nil {
		return p.fail(err)
	}

	var err error
	switch req.mode {
	case modeUpdate:
		err = runUpdate(ctx, p)
	case modeList:
		err = runList(ctx, p)
	case modeInstall:
		err = runInstall(ctx, p, req)
	}
	if err != nil {
		return p.fail(err)
	}
	return nil
}

// runUpdate delegates to the self-updater and terminates the run; an
// update never continues into an install.
func runUpdate(ctx context.Context, p pipeline) error {
	fmt.Fprintln(p.stdout, "Updating bifrost...")
	if err := p.updater.Run(ctx); err != nil {
		return issue.Wrap(err, "update bifrost").
			WithSuggestion("check your network connection and retry")
	}
	fmt.Fprintln(p.stdout, SuccessStyle.Render("bifrost updated"))
	return nil
}

// runList prints the remote's tag listing, one version per line, in the
// remote's own order.
func runList(ctx context.Context, p pipeline) error {
	tags, err := p.tags.Tags(ctx)
	if err != nil {
		return issue.Wrap(err, "list remote versions").
			WithResource(p.cfg.RemoteURL)
	}
	for _, tag := range tags {
		fmt.Fprintln(p.stdout, tag)
	}
	return nil
}

// runInstall is the core install pipeline: resolve, materialize, install,
// record. Every step is fail-fast; the next invocation's cleanup repairs
// whatever a failed run left behind.
func runInstall(ctx context.Context, p pipeline, req installRequest) error {
	version, err := p.resolver.Resolve(ctx, req.requestedVersion)
	if err != nil {
		return issue.Wrap(err, "resolve version").
			WithResource(p.cfg.RemoteURL).
			WithSuggestion("check your network connection").
			WithSuggestion("pin an explicit version with --version")
	}

	fmt.Fprintf(p.stdout, "Installing heimdall %s\n", TagStyle.Render(version))

	trackLatest := req.requestedVersion == ""
	if err := p.workspace.Materialize(ctx, version, trackLatest); err != nil {
		return issue.Wrap(err, "materialize heimdall source").
			WithResource(version).
			WithSuggestion("verify the version exists: bifrost --list")
	}

	installer := p.source
	source := state.SourceBuild
	if req.useBinary {
		installer = p.binary
		source = state.SourceBinary
	}

	if err := installer.Install(ctx, version); err != nil {
		var unsupported *install.UnsupportedPlatformError
		if errors.As(err, &unsupported) {
			return issue.Wrap(err, "install precompiled binary").
				WithSuggestion("retry without --binary to build from source")
		}
		return issue.Wrap(err, "install heimdall").WithResource(version)
	}

	if err := p.store.Save(version, source); err != nil {
		return issue.Wrap(err, "record installed version").
			WithResource(p.cfg.StatePath())
	}

	fmt.Fprintln(p.stdout, SuccessStyle.Render(
		fmt.Sprintf("heimdall %s installed to %s", version, p.cfg.ArtifactPath())))

	printUpdateHint(ctx, p, version)
	return nil
}

// printUpdateHint tells the user when a newer release than the one just
// installed exists. The hint is advisory: any failure to reach the release
// API is silently ignored.
func printUpdateHint(ctx context.Context, p pipeline, installed string) {
	latest, err := p.releases.LatestReleaseTag(ctx)
	if err != nil || latest == "" || latest == installed {
		return
	}
	fmt.Fprintf(p.stdout, "\nA newer release is available: %s\n", TagStyle.Render(latest))
	fmt.Fprintf(p.stdout, "Install it with: %s\n", TagStyle.Render("bifrost --version "+latest))
}

// fail renders err as a styled diagnostic on stderr and wraps it in an
// ExitError carrying exit code 1.
func (p pipeline) fail(err error) error {
	var ie *issue.Error
	if errors.As(err, &ie) {
		fmt.Fprintln(p.stderr, ErrorStyle.Render("Error: ")+ie.Format(flagVerbose))
	} else {
		fmt.Fprintln(p.stderr, ErrorStyle.Render("Error: ")+err.Error())
	}
	return &ExitError{Code: 1, Err: err}
}

// fatal is fail without a wired pipeline (config load errors).
func fatal(err error) error {
	fmt.Fprintln(os.Stderr, ErrorStyle.Render("Error: ")+err.Error())
	return &ExitError{Code: 1, Err: err}
}
