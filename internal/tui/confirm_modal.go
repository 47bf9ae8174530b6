package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderModalBox draws content inside a bordered box centered-ish in the
// available width. Borders stay simple: nested backgrounds show artifacts on
// some terminals.
func renderModalBox(width int, content string) string {
	boxW := width - 4
	if boxW > 72 {
		boxW = 72
	}
	if boxW < 20 {
		boxW = 20
	}
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorModalBrd).
		Padding(1, 2).
		Width(boxW)
	return box.Render(content)
}

func renderConfirmModal(width int, title, body, help string) string {
	content := strings.Join([]string{
		lipgloss.NewStyle().Bold(true).Foreground(colorTitle).Render(title),
		"",
		body,
		"",
		styleMuted().Render(help),
	}, "\n")
	return renderModalBox(width, content)
}
