package formatter

import (
	"encoding/json"
	"time"

	"github.com/yildizm/AIDetect/internal/detect"
)

// jsonFormatter formats output as JSON
type jsonFormatter struct{}

// NewJSON creates a new JSON formatter
func NewJSON() Formatter {
	return &jsonFormatter{}
}

// JSONOutput mirrors the service's response body, plus submission details
type JSONOutput struct {
	Source      string                  `json:"source"`
	Kind        string                  `json:"kind"`
	Status      string                  `json:"status"`
	Analysis    *detect.AnalysisPayload `json:"analysis,omitempty"`
	Percentages *PercentOutput          `json:"percentages,omitempty"`
	Error       string                  `json:"error,omitempty"`
	Note        string                  `json:"note,omitempty"`
	GeneratedAt time.Time               `json:"generated_at"`
}

// PercentOutput holds the two-decimal display values
type PercentOutput struct {
	AI    string `json:"ai"`
	Human string `json:"human"`
}

func (f *jsonFormatter) Format(report *Report) ([]byte, error) {
	output := &JSONOutput{
		Source:      sourceLabel(report),
		Kind:        report.Kind.String(),
		Status:      report.State.Phase.String(),
		GeneratedAt: report.GeneratedAt,
	}

	switch report.State.Phase {
	case detect.PhaseSuccess:
		result := report.State.Result
		output.Analysis = result.ToPayload()
		output.Percentages = &PercentOutput{AI: result.AIPercent(), Human: result.HumanPercent()}
		output.Note = detect.HighlightNotice
	case detect.PhaseFailure:
		output.Error = report.State.Message
	}

	return json.MarshalIndent(output, "", "  ")
}
