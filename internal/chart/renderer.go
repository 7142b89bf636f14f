package chart

import (
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Handle is a live chart drawn into a slot
type Handle interface {
	// Dispose removes the chart from its slot. Calling it twice is a no-op.
	Dispose()
	Disposed() bool
}

// Renderer draws a human/AI probability pair
type Renderer interface {
	Render(humanProbability, aiProbability float64) Handle
}

// Slot is the visual area a renderer draws into. It holds at most one live
// chart; View shows it, or nothing once it is disposed.
type Slot struct {
	mu      sync.Mutex
	current *slotChart
	created int
}

// NewSlot creates an empty slot
func NewSlot() *Slot {
	return &Slot{}
}

// View returns the live chart's drawing, or "" when the slot is empty
func (s *Slot) View() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return ""
	}
	return s.current.rendered
}

// Live reports how many charts are currently drawn (0 or 1)
func (s *Slot) Live() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return 0
	}
	return 1
}

// Created counts every chart ever drawn into the slot
func (s *Slot) Created() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.created
}

// replace disposes the current chart and installs next
func (s *Slot) replace(next *slotChart) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current != nil {
		s.current.disposed = true
	}
	s.current = next
	s.created++
}

func (s *Slot) release(c *slotChart) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.disposed = true
	if s.current == c {
		s.current = nil
	}
}

type slotChart struct {
	slot     *Slot
	rendered string
	disposed bool
}

func (c *slotChart) Dispose() {
	c.slot.release(c)
}

func (c *slotChart) Disposed() bool {
	c.slot.mu.Lock()
	defer c.slot.mu.Unlock()
	return c.disposed
}

// Palette assigns the category colors
type Palette struct {
	Human lipgloss.TerminalColor // success hue
	AI    lipgloss.TerminalColor // accent hue
}

// DefaultPalette uses the web UI's success green and accent pink
var DefaultPalette = Palette{
	Human: lipgloss.Color("#28A745"),
	AI:    lipgloss.Color("#FF4081"),
}

// ProbabilityRenderer draws the human/AI comparison into a slot
type ProbabilityRenderer struct {
	slot    *Slot
	palette Palette
	width   int
}

// NewProbabilityRenderer creates a renderer bound to slot
func NewProbabilityRenderer(slot *Slot, palette Palette, width int) *ProbabilityRenderer {
	if slot == nil {
		slot = NewSlot()
	}
	if width <= 0 {
		width = 40
	}
	return &ProbabilityRenderer{slot: slot, palette: palette, width: width}
}

// Slot returns the area this renderer draws into
func (r *ProbabilityRenderer) Slot() *Slot {
	return r.slot
}

// Render replaces whatever the slot shows with a fresh chart of the two
// probabilities, each scaled to 0-100%.
func (r *ProbabilityRenderer) Render(humanProbability, aiProbability float64) Handle {
	bc := &BarChart{
		Title: Title,
		Width: r.width,
		Bars: []Bar{
			{Label: HumanLabel, Percent: humanProbability * 100, Color: r.palette.Human},
			{Label: AILabel, Percent: aiProbability * 100, Color: r.palette.AI},
		},
	}

	c := &slotChart{slot: r.slot, rendered: bc.Render()}
	r.slot.replace(c)
	return c
}
