package formatter

import (
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/yildizm/AIDetect/internal/detect"
)

func successReport() *Report {
	result := detect.AnalysisResult{
		Prediction:       detect.PredictionAI,
		AIProbability:    0.87,
		HumanProbability: 0.13,
	}
	return NewReport("essay.txt", detect.KindFile, detect.Success(result), "CHART")
}

func failureReport() *Report {
	return NewReport("", detect.KindText, detect.Failure("File too large"), "")
}

func TestNew(t *testing.T) {
	for _, format := range []string{"", "text", "JSON", "markdown", "md", "csv"} {
		if _, err := New(format, false); err != nil {
			t.Errorf("New(%q) error = %v", format, err)
		}
	}
	if _, err := New("xml", false); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestTerminalFormatter(t *testing.T) {
	out, err := NewTerminal(false).Format(successReport())
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	text := string(out)
	for _, want := range []string{"AI Content Detection", "essay.txt", "Prediction", "87.00%", "13.00%", "CHART", detect.HighlightNotice} {
		if !strings.Contains(text, want) {
			t.Errorf("terminal output missing %q:\n%s", want, text)
		}
	}

	out, err = NewTerminal(false).Format(failureReport())
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if !strings.Contains(string(out), "Error: File too large") {
		t.Errorf("failure output missing error text:\n%s", out)
	}
	if !strings.Contains(string(out), "pasted text") {
		t.Errorf("text submissions should be labelled, got:\n%s", out)
	}
	if strings.Contains(string(out), "Prediction") {
		t.Error("failure output must not show a result")
	}
}

func TestJSONFormatter(t *testing.T) {
	out, err := NewJSON().Format(successReport())
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	var got JSONOutput
	if err := json.Unmarshal(out, &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if got.Status != "success" || got.Kind != "file" {
		t.Errorf("unexpected status/kind %s/%s", got.Status, got.Kind)
	}
	if got.Analysis == nil || got.Analysis.Prediction != "AI" || got.Analysis.AIProbability != 0.87 {
		t.Errorf("unexpected analysis %+v", got.Analysis)
	}
	if got.Percentages == nil || got.Percentages.AI != "87.00" || got.Percentages.Human != "13.00" {
		t.Errorf("unexpected percentages %+v", got.Percentages)
	}
	if got.Error != "" {
		t.Error("success must not carry an error")
	}

	out, _ = NewJSON().Format(failureReport())
	if !strings.Contains(string(out), `"error": "File too large"`) {
		t.Errorf("failure JSON missing error:\n%s", out)
	}
	if strings.Contains(string(out), `"analysis"`) {
		t.Error("failure JSON must omit analysis")
	}
}

func TestMarkdownFormatter(t *testing.T) {
	out, err := NewMarkdown().Format(successReport())
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	md := string(out)
	for _, want := range []string{"# AI Content Detection Report", "| Property", "87.00%", "```mermaid", "Content Source Probability", "Human-Written", "AI-Generated"} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q:\n%s", want, md)
		}
	}

	out, err = NewMarkdown().Format(failureReport())
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if !strings.Contains(string(out), "**Error**: File too large") {
		t.Errorf("failure markdown missing error:\n%s", out)
	}
	if strings.Contains(string(out), "mermaid") {
		t.Error("failure markdown must not include a chart")
	}
}

func TestCSVFormatter(t *testing.T) {
	out, err := NewCSV().Format(successReport())
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(string(out))).ReadAll()
	if err != nil {
		t.Fatalf("invalid CSV: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected header and one record, got %d rows", len(records))
	}
	row := records[1]
	if row[3] != "success" || row[4] != "AI" || row[5] != "0.87" || row[6] != "0.13" {
		t.Errorf("unexpected record %v", row)
	}

	out, _ = NewCSVRows().Format(failureReport())
	records, _ = csv.NewReader(strings.NewReader(string(out))).ReadAll()
	if len(records) != 1 || records[0][7] != "File too large" {
		t.Errorf("expected a single failure row, got %v", records)
	}
}

func TestEscapeCSVString(t *testing.T) {
	if got := escapeCSVString("a\nb\rc"); got != "a b c" {
		t.Errorf("escapeCSVString() = %q", got)
	}
	long := strings.Repeat("x", 150)
	if got := escapeCSVString(long); len(got) != 100 || !strings.HasSuffix(got, "...") {
		t.Errorf("long messages should be truncated, got %d chars", len(got))
	}
}
