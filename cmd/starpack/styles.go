// SPDX-License-Identifier: MPL-2.0

package cmd

import "github.com/charmbracelet/lipgloss"

// Shared color palette, picked for dark terminal backgrounds.
const (
	// ColorPrimary is teal, used for titles and primary emphasis.
	ColorPrimary = lipgloss.Color("#2DD4BF")

	// ColorMuted is gray, used for subtitles and secondary text.
	ColorMuted = lipgloss.Color("#71717A")

	// ColorSuccess is green, used for success states and checkmarks.
	ColorSuccess = lipgloss.Color("#22C55E")

	// ColorError is red, used for failures.
	ColorError = lipgloss.Color("#DC2626")

	// ColorWarning is amber, used for caution states.
	ColorWarning = lipgloss.Color("#FBBF24")

	// ColorHighlight is blue, used for commands, paths, and resource names.
	ColorHighlight = lipgloss.Color("#60A5FA")

	// ColorVerbose is light gray, used for verbose output.
	ColorVerbose = lipgloss.Color("#A1A1AA")
)

// Reusable styles built from the palette. Extend at the call site when a
// command needs margins or padding on top of these.
var (
	// TitleStyle renders section titles.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	// SubtitleStyle renders descriptions under a title.
	SubtitleStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	// SuccessStyle renders success lines.
	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess)

	// ErrorStyle renders failure lines.
	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorError)

	// WarningStyle renders warnings.
	WarningStyle = lipgloss.NewStyle().
			Foreground(ColorWarning)

	// CmdStyle renders command names and paths inline.
	CmdStyle = lipgloss.NewStyle().
			Foreground(ColorHighlight)

	// VerboseStyle renders verbose detail lines.
	VerboseStyle = lipgloss.NewStyle().
			Foreground(ColorVerbose)

	// VerboseHighlightStyle emphasizes items inside verbose output.
	VerboseHighlightStyle = lipgloss.NewStyle().
				Foreground(ColorHighlight)
)
