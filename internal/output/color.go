// Package output provides styled terminal rendering helpers for revibe.
package output

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/blackwell-systems/revibe/internal/metrics"
)

// Color constants for consistent styling across the CLI.
var (
	// ColorPrimary is used for headers and emphasis.
	ColorPrimary = lipgloss.Color("#64b5f6")

	// ColorSuccess is used for healthy values and improvements.
	ColorSuccess = lipgloss.Color("#66bb6a")

	// ColorError is used for unhealthy values and regressions.
	ColorError = lipgloss.Color("#ef5350")

	// ColorWarning is used for caution indicators.
	ColorWarning = lipgloss.Color("#fff59d")

	// ColorOrange marks elevated risk.
	ColorOrange = lipgloss.Color("#ffa726")

	// ColorMuted is used for secondary text and borders.
	ColorMuted = lipgloss.Color("#888888")
)

// Styles provides reusable lipgloss styles.
var (
	StyleHeader  lipgloss.Style
	StyleSuccess lipgloss.Style
	StyleError   lipgloss.Style
	StyleWarning lipgloss.Style
	StyleOrange  lipgloss.Style
	StyleMuted   lipgloss.Style
	StyleBold    lipgloss.Style

	// StyleLabel is used for metric labels.
	StyleLabel lipgloss.Style

	// StyleValue is used for metric values.
	StyleValue lipgloss.Style
)

func init() {
	applyStyles(false)
}

// noColor tracks whether color output is disabled.
var noColor bool

func applyStyles(plain bool) {
	s := lipgloss.NewStyle
	if plain {
		base := lipgloss.NewStyle()
		StyleHeader, StyleSuccess, StyleError, StyleWarning = base, base, base, base
		StyleOrange, StyleMuted, StyleBold = base, base, base
		StyleLabel = base.Width(24)
		StyleValue = base.Width(12)
		return
	}
	StyleHeader = s().Foreground(ColorPrimary).Bold(true)
	StyleSuccess = s().Foreground(ColorSuccess)
	StyleError = s().Foreground(ColorError)
	StyleWarning = s().Foreground(ColorWarning)
	StyleOrange = s().Foreground(ColorOrange)
	StyleMuted = s().Foreground(ColorMuted)
	StyleBold = s().Bold(true)
	StyleLabel = s().Width(24)
	StyleValue = s().Bold(true).Width(12)
}

// SetNoColor disables or enables color output globally.
func SetNoColor(disabled bool) {
	noColor = disabled
	applyStyles(disabled)
}

// IsNoColor returns whether color output is currently disabled.
func IsNoColor() bool {
	return noColor
}

// ShouldColor reports whether output to w should be colored. Color is off
// when disabled by flag or config, when NO_COLOR is set, or when w is not a
// terminal.
func ShouldColor(w io.Writer, flagDisabled, configEnabled bool) bool {
	if flagDisabled || !configEnabled || os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// RiskStyle returns the style used for a risk tier.
func RiskStyle(r metrics.RiskLevel) lipgloss.Style {
	switch r {
	case metrics.RiskLow:
		return StyleSuccess
	case metrics.RiskModerate:
		return StyleWarning
	case metrics.RiskElevated:
		return StyleOrange
	case metrics.RiskHigh, metrics.RiskCritical:
		return StyleError
	default:
		return StyleMuted
	}
}

// RiskColor returns the raw color for a risk tier, for borders.
func RiskColor(r metrics.RiskLevel) lipgloss.Color {
	switch r {
	case metrics.RiskLow:
		return ColorSuccess
	case metrics.RiskModerate:
		return ColorWarning
	case metrics.RiskElevated:
		return ColorOrange
	case metrics.RiskHigh, metrics.RiskCritical:
		return ColorError
	default:
		return ColorMuted
	}
}
