// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the bifrost CLI surface.
package cmd

import (
	"context"
	"errors"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"bifrost-cli/internal/config"
)

var (
	// Version is the bifrost version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"

	// Flag state, parsed into an immutable installRequest per invocation.
	flagVersion string
	flagBinary  bool
	flagUpdate  bool
	flagList    bool
	flagVerbose bool

	// rootCmd is the whole CLI: bifrost has a flag-driven surface with no
	// subcommands, matching its original single-script shape.
	rootCmd = &cobra.Command{
		Use:   "bifrost",
		Short: "The heimdall toolchain installer and version manager",
		Long: TitleStyle.Render("bifrost") + SubtitleStyle.Render(" - heimdall toolchain installer") + `

bifrost resolves which heimdall version to install, obtains it by source
build or precompiled binary, and places it in the toolchain directory
(` + config.RootEnvVar + `, default ~/.bifrost).`,
		Example: `  bifrost                   Install the latest tagged release from source
  bifrost -v 0.5.2          Install a specific tag or branch
  bifrost -B                Install the latest precompiled binary
  bifrost -l                List versions available on the remote
  bifrost -u                Update bifrost itself`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceErrors = true
			cmd.SilenceUsage = true

			req := requestFromFlags()
			return run(cmd.Context(), req)
		},
	}
)

// installRequest is the structured user intent, constructed exactly once
// per invocation.
type installRequest struct {
	mode             requestMode
	requestedVersion string
	useBinary        bool
}

// requestMode selects which pipeline an invocation runs.
type requestMode int

const (
	modeInstall requestMode = iota
	modeUpdate
	modeList
)

// requestFromFlags folds the parsed flags into one request. Update takes
// precedence over everything else and short-circuits the install pipeline;
// list comes next.
func requestFromFlags() installRequest {
	switch {
	case flagUpdate:
		return installRequest{mode: modeUpdate}
	case flagList:
		return installRequest{mode: modeList}
	default:
		return installRequest{
			mode:             modeInstall,
			requestedVersion: flagVersion,
			useBinary:        flagBinary,
		}
	}
}

// normalizeFlagAliases maps the long-form aliases onto their canonical
// flags: --upgrade = --update, --bin = --binary, --versions = --list.
func normalizeFlagAliases(_ *pflag.FlagSet, name string) pflag.NormalizedName {
	switch name {
	case "upgrade":
		name = "update"
	case "bin":
		name = "binary"
	case "versions":
		name = "list"
	}
	return pflag.NormalizedName(name)
}

func init() {
	rootCmd.Flags().StringVarP(&flagVersion, "version", "v", "", "install a specific tag or branch")
	rootCmd.Flags().BoolVarP(&flagBinary, "binary", "B", false, "install a precompiled binary instead of building from source")
	rootCmd.Flags().BoolVarP(&flagUpdate, "update", "u", false, "update bifrost itself and exit")
	rootCmd.Flags().BoolVarP(&flagList, "list", "l", false, "list versions available on the remote and exit")
	rootCmd.Flags().BoolVar(&flagVerbose, "verbose", false, "enable verbose output")
	rootCmd.Flags().SetNormalizeFunc(normalizeFlagAliases)
}

// Execute runs the CLI. It is called by main.main() exactly once.
func Execute() {
	// fang.WithVersion is deliberately not used: it would register a
	// --version flag, and bifrost's --version takes a value (the tag to
	// install) instead of printing the manager version.
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}

// newLogger builds the CLI logger; --verbose lowers the level to debug so
// every external command invocation is visible.
func newLogger() *log.Logger {
	logger := log.New(os.Stderr)
	if flagVerbose {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}
