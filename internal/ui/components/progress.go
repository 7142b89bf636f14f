package components

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Spinner represents a spinning progress indicator
type Spinner struct {
	Frame int
	Label string
	Color lipgloss.TerminalColor
}

// NewSpinner creates a new spinner
func NewSpinner() *Spinner {
	return &Spinner{Color: lipgloss.Color("#10B981")}
}

// SetLabel sets the spinner label
func (s *Spinner) SetLabel(label string) {
	s.Label = label
}

// Tick advances the spinner animation
func (s *Spinner) Tick() {
	s.Frame = (s.Frame + 1) % len(spinnerFrames)
}

// Render renders the spinner
func (s *Spinner) Render() string {
	style := lipgloss.NewStyle().Foreground(s.Color).Bold(true)
	spinner := style.Render(spinnerFrames[s.Frame])

	if s.Label != "" {
		return fmt.Sprintf("%s %s", spinner, s.Label)
	}
	return spinner
}

// LoadingIndicator is a spinner that also reports how long it has been
// running and how many requests are outstanding
type LoadingIndicator struct {
	spinner   *Spinner
	startTime time.Time
	pending   int
}

// NewLoadingIndicator creates a new loading indicator
func NewLoadingIndicator(label string, color lipgloss.TerminalColor) *LoadingIndicator {
	s := NewSpinner()
	s.SetLabel(label)
	if color != nil {
		s.Color = color
	}
	return &LoadingIndicator{spinner: s}
}

// Start records a new outstanding request
func (l *LoadingIndicator) Start(now time.Time) {
	if l.pending == 0 {
		l.startTime = now
	}
	l.pending++
}

// Done records a finished request
func (l *LoadingIndicator) Done() {
	if l.pending > 0 {
		l.pending--
	}
}

// Pending returns the number of outstanding requests
func (l *LoadingIndicator) Pending() int {
	return l.pending
}

// Tick advances the animation
func (l *LoadingIndicator) Tick() {
	l.spinner.Tick()
}

// Render renders the loading indicator
func (l *LoadingIndicator) Render(now time.Time) string {
	out := l.spinner.Render()
	if !l.startTime.IsZero() && l.pending > 0 {
		out += fmt.Sprintf(" (%s)", formatDuration(now.Sub(l.startTime)))
	}
	if l.pending > 1 {
		out += fmt.Sprintf(" [%d requests in flight]", l.pending)
	}
	return out
}

// formatDuration formats a duration for display
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.0fs", d.Seconds())
	} else if d < time.Hour {
		return fmt.Sprintf("%.0fm", d.Minutes())
	}
	return fmt.Sprintf("%.1fh", d.Hours())
}
