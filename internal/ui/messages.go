package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/yildizm/AIDetect/internal/controller"
)

// submissionDoneMsg carries a finished task's event back into Update
type submissionDoneMsg struct {
	event controller.Event
}

type tickMsg time.Time

// tick drives the loading spinner
func tick() tea.Cmd {
	return tea.Tick(time.Millisecond*100, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// taskCmd runs a controller task off the Update loop
func taskCmd(task controller.Task) tea.Cmd {
	return func() tea.Msg {
		return submissionDoneMsg{event: task()}
	}
}
