// SPDX-License-Identifier: MPL-2.0

package cmd

import "github.com/charmbracelet/lipgloss"

// Palette for the installer's terminal output. Kept deliberately small:
// the pipeline only ever prints a title line, tag listings, the update
// hint, and fatal diagnostics.
const (
	// ColorPrimary is purple, the tool name in help output.
	ColorPrimary = lipgloss.Color("#7C3AED")

	// ColorMuted is gray, secondary help text.
	ColorMuted = lipgloss.Color("#6B7280")

	// ColorSuccess is green, a finished install.
	ColorSuccess = lipgloss.Color("#10B981")

	// ColorError is red, fatal diagnostics on stderr.
	ColorError = lipgloss.Color("#EF4444")

	// ColorHighlight is blue, version tags and suggested commands.
	ColorHighlight = lipgloss.Color("#3B82F6")
)

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess)

	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorError)

	// TagStyle marks version tags in listings and the update hint.
	TagStyle = lipgloss.NewStyle().
			Foreground(ColorHighlight)
)
