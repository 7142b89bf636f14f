package formatter

import (
	"bytes"
	"io"
	"math"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
	"github.com/yildizm/AIDetect/internal/chart"
	"github.com/yildizm/AIDetect/internal/detect"
)

// markdownFormatter formats output as Markdown
type markdownFormatter struct{}

// NewMarkdown creates a new Markdown formatter
func NewMarkdown() Formatter {
	return &markdownFormatter{}
}

func (f *markdownFormatter) Format(report *Report) ([]byte, error) {
	var buf bytes.Buffer
	md := markdown.NewMarkdown(&buf)

	f.writeHeader(md, report)

	switch report.State.Phase {
	case detect.PhaseSuccess:
		f.writeResult(md, report.State.Result)
	case detect.PhaseFailure:
		md.H2("Error")
		md.PlainText("")
		md.PlainTextf("**Error**: %s", report.State.Message)
		md.PlainText("")
	default:
		md.PlainTextf("Analysis %s.", report.State.Phase)
		md.PlainText("")
	}

	f.writeFooter(md)

	if err := md.Build(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// writeHeader writes the submission details table
func (f *markdownFormatter) writeHeader(md *markdown.Markdown, report *Report) {
	md.H1("AI Content Detection Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Source", "`" + sourceLabel(report) + "`"},
			{"Submission", report.Kind.String()},
			{"Generated", report.GeneratedAt.Format("2006-01-02 15:04:05")},
			{"Status", statusText(report.State)},
		},
	})
	md.PlainText("")
}

func (f *markdownFormatter) writeResult(md *markdown.Markdown, result detect.AnalysisResult) {
	md.H2("Result")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Category", "Probability"},
		Rows: [][]string{
			{"Prediction", "**" + result.Prediction.String() + "**"},
			{chart.AILabel, result.AIPercent() + "%"},
			{chart.HumanLabel, result.HumanPercent() + "%"},
		},
	})
	md.PlainText("")

	f.writePieChart(md, result)

	md.PlainText("> " + detect.HighlightNotice)
	md.PlainText("")
}

// writePieChart writes a mermaid pie chart of the two probabilities
func (f *markdownFormatter) writePieChart(md *markdown.Markdown, result detect.AnalysisResult) {
	pie := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle(chart.Title),
		piechart.WithShowData(true),
	)
	pie.LabelAndIntValue(chart.HumanLabel, percentValue(result.HumanProbability))
	pie.LabelAndIntValue(chart.AILabel, percentValue(result.AIProbability))

	md.CodeBlocks(markdown.SyntaxHighlightMermaid, pie.String())
	md.PlainText("")
}

func (f *markdownFormatter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by aidetect*")
}

func statusText(state detect.State) string {
	switch state.Phase {
	case detect.PhaseSuccess:
		return "✅ Complete"
	case detect.PhaseFailure:
		return "❌ Failed"
	default:
		return "⏳ " + state.Phase.String()
	}
}

// percentValue rounds a probability to a whole percentage for the pie chart
func percentValue(p float64) uint64 {
	if math.IsNaN(p) || p <= 0 {
		return 0
	}
	return uint64(math.Round(p * 100))
}
