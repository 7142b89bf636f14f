package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/yildizm/AIDetect/internal/detect"
)

// Report is one finished submission as seen by the user
type Report struct {
	Source      string
	Kind        detect.SubmissionKind
	State       detect.State
	Chart       string // drawing of the live chart, empty unless successful
	GeneratedAt time.Time
}

// NewReport captures the outcome of a submission
func NewReport(source string, kind detect.SubmissionKind, state detect.State, chart string) *Report {
	return &Report{
		Source:      source,
		Kind:        kind,
		State:       state,
		Chart:       chart,
		GeneratedAt: time.Now(),
	}
}

// Formatter defines the interface for output formatting
type Formatter interface {
	Format(report *Report) ([]byte, error)
}

// Supported output formats
const (
	FormatText     = "text"
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
	FormatCSV      = "csv"
)

// New returns the formatter for format
func New(format string, color bool) (Formatter, error) {
	switch strings.ToLower(format) {
	case "", FormatText, "terminal":
		return NewTerminal(color), nil
	case FormatJSON:
		return NewJSON(), nil
	case FormatMarkdown, "md":
		return NewMarkdown(), nil
	case FormatCSV:
		return NewCSV(), nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

// sourceLabel names where the submission came from
func sourceLabel(r *Report) string {
	if r.Source != "" {
		return r.Source
	}
	if r.Kind == detect.KindText {
		return "pasted text"
	}
	return "(no file)"
}
