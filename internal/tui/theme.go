package tui

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"sprintboard-cli/internal/controller"
	"sprintboard-cli/internal/model"
)

// The TUI must stay readable on both light and dark terminal backgrounds, so
// colors are adaptive throughout.

func ac(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

var (
	colorMuted      = ac("240", "243")
	colorTitle      = ac("232", "255")
	colorSuccess    = ac("28", "42")
	colorWarning    = ac("130", "214")
	colorError      = ac("124", "203")
	colorInfo       = ac("240", "249")
	colorSelectedBg = ac("#e9e9e9", "#262626")
	colorSelectedFg = ac("235", "255")
	colorModalBrd   = ac("250", "243")
)

func styleMuted() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(colorMuted)
}

func toastStyle(sev controller.Severity) lipgloss.Style {
	switch sev {
	case controller.SeveritySuccess:
		return lipgloss.NewStyle().Foreground(colorSuccess)
	case controller.SeverityWarning:
		return lipgloss.NewStyle().Foreground(colorWarning)
	case controller.SeverityError:
		return lipgloss.NewStyle().Foreground(colorError).Bold(true)
	}
	return lipgloss.NewStyle().Foreground(colorInfo)
}

// initColorProfile respects NO_COLOR and CLICOLOR conventions via termenv.
func initColorProfile() {
	if strings.TrimSpace(os.Getenv("NO_COLOR")) != "" {
		lipgloss.SetColorProfile(termenv.Ascii)
		return
	}
	lipgloss.SetColorProfile(termenv.EnvColorProfile())
}

// statusGlyph maps the domain status to its display glyph. Glyphs are a
// rendering concern; the enum itself stays plain.
func statusGlyph(s model.Status) string {
	switch s {
	case model.StatusNotStarted:
		return "○"
	case model.StatusInProgress:
		return "◐"
	case model.StatusCompleted:
		return "●"
	case model.StatusOnHold:
		return "◌"
	}
	return "?"
}

func statusLabel(s model.Status) string {
	switch s {
	case model.StatusNotStarted:
		return "Not Started"
	case model.StatusInProgress:
		return "In Progress"
	case model.StatusCompleted:
		return "Completed"
	case model.StatusOnHold:
		return "On Hold"
	}
	return string(s)
}

// nextStatus is the cycle order used by the status key.
func nextStatus(s model.Status) model.Status {
	switch s {
	case model.StatusNotStarted:
		return model.StatusInProgress
	case model.StatusInProgress:
		return model.StatusCompleted
	case model.StatusCompleted:
		return model.StatusOnHold
	}
	return model.StatusNotStarted
}
