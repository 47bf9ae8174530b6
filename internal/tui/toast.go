package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

const toastDefault = 3 * time.Second

func timeNow() time.Time { return time.Now() }

func expireToast(seq int, after time.Duration) tea.Cmd {
	return tea.Tick(after, func(time.Time) tea.Msg {
		return toastExpireMsg{seq: seq}
	})
}
