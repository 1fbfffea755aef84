// Package tui provides the Bubble Tea integration for the arcade
// platform. It handles the terminal UI loop, input mapping, and the
// interactive driving of environments.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg is sent to trigger one simulation step.
type TickMsg time.Time

// tickCmd returns a Bubble Tea command that sends tick messages at the
// given rate.
func tickCmd(tickRate int) tea.Cmd {
	if tickRate < 1 {
		tickRate = 30
	}
	interval := time.Second / time.Duration(tickRate)
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
