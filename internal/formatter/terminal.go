package formatter

import (
	"fmt"
	"strings"

	"github.com/yildizm/AIDetect/internal/detect"
	"github.com/yildizm/AIDetect/internal/emoji"
	"github.com/yildizm/go-termfmt"
)

// terminalFormatter formats output as plain text for terminal display using go-termfmt
type terminalFormatter struct {
	opts *termfmt.TerminalOptions
}

// NewTerminal creates a new terminal formatter with optional color support
func NewTerminal(color bool) Formatter {
	opts := termfmt.DefaultOptions()
	opts.Color = color
	opts.Emoji = !emoji.IsEmojiDisabled()
	return &terminalFormatter{opts: opts}
}

func (f *terminalFormatter) Format(report *Report) ([]byte, error) {
	var b strings.Builder

	f.writeHeader(&b)
	f.writeSubmission(&b, report)

	switch report.State.Phase {
	case detect.PhaseSuccess:
		f.writeResult(&b, report.State.Result)
		if report.Chart != "" {
			b.WriteString(report.Chart + "\n\n")
		}
		f.writeNotice(&b)
	case detect.PhaseFailure:
		fmt.Fprintf(&b, "%s Error: %s\n", emoji.GetEmoji("error"), report.State.Message)
	default:
		fmt.Fprintf(&b, "%s Analysis %s\n", emoji.GetEmoji("loading"), report.State.Phase)
	}

	return []byte(b.String()), nil
}

// writeHeader writes the boxed title
func (f *terminalFormatter) writeHeader(b *strings.Builder) {
	header := "AI Content Detection"
	headerLen := len(header)

	b.WriteString("╔" + strings.Repeat("═", headerLen+2) + "╗\n")
	b.WriteString("║ " + header + " ║\n")
	b.WriteString("╚" + strings.Repeat("═", headerLen+2) + "╝\n\n")
}

func (f *terminalFormatter) writeSubmission(b *strings.Builder, report *Report) {
	key := "upload"
	if report.Kind == detect.KindText {
		key = "text"
	}
	fmt.Fprintf(b, "%s %s\n\n", emoji.GetEmoji(key), sourceLabel(report))
}

// writeResult writes prediction and probabilities as a tree
func (f *terminalFormatter) writeResult(b *strings.Builder, result detect.AnalysisResult) {
	b.WriteString(emoji.GetEmoji("target") + " Result\n")

	items := []termfmt.TreeItem{
		{Label: "Prediction", Value: predictionEmoji(result.Prediction) + " " + result.Prediction.String()},
		{
			Label: "AI-Generated",
			Value: result.AIPercent() + "%",
			Children: []termfmt.TreeItem{
				{Label: termfmt.CreateConfidenceBar(result.AIProbability, f.opts), Value: ""},
			},
		},
		{
			Label: "Human-Written",
			Value: result.HumanPercent() + "%",
			Children: []termfmt.TreeItem{
				{Label: termfmt.CreateConfidenceBar(result.HumanProbability, f.opts), Value: ""},
			},
			Last: true,
		},
	}

	tree := termfmt.TreeViewWithOptions(items, f.opts)
	b.WriteString(tree + "\n\n")
}

func (f *terminalFormatter) writeNotice(b *strings.Builder) {
	fmt.Fprintf(b, "%s %s\n", emoji.GetEmoji("note"), detect.HighlightNotice)
}

// predictionEmoji picks the verdict symbol
func predictionEmoji(p detect.Prediction) string {
	if p == detect.PredictionAI {
		return emoji.GetEmoji("ai")
	}
	return emoji.GetEmoji("human")
}
