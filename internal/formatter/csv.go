package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/yildizm/AIDetect/internal/detect"
)

// csvFormatter writes a report as one CSV record under a header row
type csvFormatter struct {
	header bool
}

// NewCSV creates a new CSV formatter
func NewCSV() Formatter {
	return &csvFormatter{header: true}
}

// NewCSVRows creates a CSV formatter that omits the header, for appending
// records as a watched file is resubmitted
func NewCSVRows() Formatter {
	return &csvFormatter{}
}

// CSVHeaders lists the CSV columns
var CSVHeaders = []string{
	"Generated",
	"Source",
	"Kind",
	"Status",
	"Prediction",
	"AI Probability",
	"Human Probability",
	"Error",
}

func (f *csvFormatter) Format(report *Report) ([]byte, error) {
	var b bytes.Buffer
	writer := csv.NewWriter(&b)

	if f.header {
		if err := writer.Write(CSVHeaders); err != nil {
			return nil, fmt.Errorf("failed to write CSV headers: %w", err)
		}
	}

	record := []string{
		report.GeneratedAt.Format("2006-01-02 15:04:05"),
		sourceLabel(report),
		report.Kind.String(),
		report.State.Phase.String(),
		"", "", "",
		escapeCSVString(report.State.Message),
	}
	if report.State.Phase == detect.PhaseSuccess {
		result := report.State.Result
		record[4] = result.Prediction.String()
		record[5] = strconv.FormatFloat(result.AIProbability, 'f', -1, 64)
		record[6] = strconv.FormatFloat(result.HumanProbability, 'f', -1, 64)
	}

	if err := writer.Write(record); err != nil {
		return nil, fmt.Errorf("failed to write CSV record: %w", err)
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return b.Bytes(), nil
}

// escapeCSVString flattens newlines and truncates long messages
func escapeCSVString(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\r", " ")

	if len(s) > 100 {
		s = s[:97] + "..."
	}

	return s
}
