package chart

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Chart labels
const (
	Title      = "Content Source Probability"
	HumanLabel = "Human-Written"
	AILabel    = "AI-Generated"
)

// Bar is one category of a bar chart; Percent is on a 0-100 scale
type Bar struct {
	Label   string
	Percent float64
	Color   lipgloss.TerminalColor
}

// BarChart draws horizontal bars scaled 0-100%
type BarChart struct {
	Title string
	Bars  []Bar
	Width int
}

// Render draws the chart
func (c *BarChart) Render() string {
	width := c.Width
	if width < 10 {
		width = 10
	}

	titleStyle := lipgloss.NewStyle().Bold(true)
	mutedStyle := lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"})

	labelWidth := 0
	for _, bar := range c.Bars {
		if w := lipgloss.Width(bar.Label); w > labelWidth {
			labelWidth = w
		}
	}

	lines := make([]string, 0, len(c.Bars)+2)
	if c.Title != "" {
		lines = append(lines, titleStyle.Render(c.Title))
	}

	for _, bar := range c.Bars {
		pct := clampPercent(bar.Percent)
		filled := int(math.Round(float64(width) * pct / 100))
		barStyle := lipgloss.NewStyle().Foreground(bar.Color)

		lines = append(lines, fmt.Sprintf("%-*s %s%s %6.2f%%",
			labelWidth, bar.Label,
			barStyle.Render(strings.Repeat("█", filled)),
			mutedStyle.Render(strings.Repeat("░", width-filled)),
			pct))
	}

	lines = append(lines, mutedStyle.Render(axis(labelWidth, width)))
	return strings.Join(lines, "\n")
}

// axis draws the 0% / 50% / 100% ticks under the bars
func axis(offset, width int) string {
	line := []rune(strings.Repeat(" ", offset+1+width+5))
	place := func(pos int, text string) {
		for i, r := range text {
			if pos+i < len(line) {
				line[pos+i] = r
			}
		}
	}
	place(offset+1, "0%")
	place(offset+1+width/2-1, "50%")
	place(offset+1+width-2, "100%")
	return strings.TrimRight(string(line), " ")
}

func clampPercent(p float64) float64 {
	if math.IsNaN(p) || p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
