package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/yildizm/AIDetect/internal/client"
	"github.com/yildizm/AIDetect/internal/config"
	"github.com/yildizm/AIDetect/internal/detect"
	"github.com/yildizm/AIDetect/internal/formatter"
)

// newDetectorServer answers both endpoints; uploads named "fail*" are rejected
func newDetectorServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/analyze_text", func(w http.ResponseWriter, r *http.Request) {
		var body detect.TextRequestBody
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"bad json"}`))
			return
		}
		if body.Text == "" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"No text provided"}`))
			return
		}
		_, _ = w.Write([]byte(`{"analysis":{"prediction":"Human","ai_probability":0.1,"human_probability":0.9}}`))
	})
	mux.HandleFunc("/upload", func(w http.ResponseWriter, r *http.Request) {
		file, header, err := r.FormFile(client.FieldFile)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"No file part"}`))
			return
		}
		_ = file.Close()
		if strings.HasPrefix(header.Filename, "fail") {
			w.WriteHeader(http.StatusRequestEntityTooLarge)
			_, _ = w.Write([]byte(`{"error":"File too large"}`))
			return
		}
		_, _ = w.Write([]byte(`{"analysis":{"prediction":"AI","ai_probability":0.87,"human_probability":0.13}}`))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(srv *httptest.Server) *config.Config {
	cfg := config.DefaultConfig()
	cfg.Server.BaseURL = srv.URL
	return cfg
}

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

func TestShouldUseTUIMode(t *testing.T) {
	tests := []struct {
		name           string
		noTUI          bool
		outputFormat   string
		verbose        bool
		expectedResult bool
	}{
		{"should use TUI - all conditions met", false, "text", false, true},
		{"should not use TUI - no-tui flag set", true, "text", false, false},
		{"should not use TUI - json output", false, "json", false, false},
		{"should not use TUI - verbose mode", false, "text", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oldAnalyzeNoTUI := analyzeNoTUI
			oldVerbose := verbose
			oldOutputFmt := outputFmt

			analyzeNoTUI = tt.noTUI
			verbose = tt.verbose
			outputFmt = tt.outputFormat

			defer func() {
				analyzeNoTUI = oldAnalyzeNoTUI
				verbose = oldVerbose
				outputFmt = oldOutputFmt
			}()

			if result := shouldUseTUIMode(); result != tt.expectedResult {
				t.Errorf("shouldUseTUIMode() = %v, want %v", result, tt.expectedResult)
			}
		})
	}
}

func TestSetupInput(t *testing.T) {
	path := writeTempFile(t, "essay.txt", "hello")

	t.Run("text flag", func(t *testing.T) {
		old := analyzeText
		analyzeText = "pasted"
		defer func() { analyzeText = old }()

		in, err := setupInput(nil, true)
		if err != nil {
			t.Fatalf("setupInput() error = %v", err)
		}
		if in.kind != detect.KindText || in.text != "pasted" {
			t.Errorf("unexpected input %+v", in)
		}
	})

	t.Run("text flag with file argument", func(t *testing.T) {
		if _, err := setupInput([]string{path}, true); err == nil {
			t.Error("expected error when combining --text with a file")
		}
	})

	t.Run("file argument", func(t *testing.T) {
		in, err := setupInput([]string{path}, false)
		if err != nil {
			t.Fatalf("setupInput() error = %v", err)
		}
		if in.kind != detect.KindFile || in.name != "essay.txt" || string(in.content) != "hello" {
			t.Errorf("unexpected input %+v", in)
		}
	})

	t.Run("stdin", func(t *testing.T) {
		old := stdin
		stdin = strings.NewReader("piped text")
		defer func() { stdin = old }()

		in, err := setupInput(nil, false)
		if err != nil {
			t.Fatalf("setupInput() error = %v", err)
		}
		if !in.stdin || in.kind != detect.KindText || in.text != "piped text" {
			t.Errorf("unexpected input %+v", in)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := setupInput([]string{filepath.Join(t.TempDir(), "nope.txt")}, false); err == nil {
			t.Error("expected error for missing file")
		}
	})

	t.Run("directory", func(t *testing.T) {
		if _, err := setupInput([]string{t.TempDir()}, false); err == nil {
			t.Error("expected error for directory")
		}
	})
}

func TestValidateOCRModel(t *testing.T) {
	for _, model := range []string{detect.OCRModelPrinted, detect.OCRModelHandwritten} {
		if err := validateOCRModel(model); err != nil {
			t.Errorf("validateOCRModel(%q) error = %v", model, err)
		}
	}
	if err := validateOCRModel("cursive"); err == nil {
		t.Error("expected error for unknown model")
	}
}

func TestRunHeadless(t *testing.T) {
	srv := newDetectorServer(t)
	cfg := testConfig(srv)

	tests := []struct {
		name       string
		in         *input
		phase      detect.Phase
		prediction detect.Prediction
		message    string
		wantChart  bool
	}{
		{
			name:       "text success",
			in:         &input{kind: detect.KindText, text: "some words"},
			phase:      detect.PhaseSuccess,
			prediction: detect.PredictionHuman,
			wantChart:  true,
		},
		{
			name:    "empty text is sent and rejected by the service",
			in:      &input{kind: detect.KindText},
			phase:   detect.PhaseFailure,
			message: "No text provided",
		},
		{
			name:       "image upload",
			in:         &input{kind: detect.KindFile, source: "scan.png", name: "scan.png", content: []byte("\x89PNG")},
			phase:      detect.PhaseSuccess,
			prediction: detect.PredictionAI,
			wantChart:  true,
		},
		{
			name:    "upload rejected",
			in:      &input{kind: detect.KindFile, source: "fail.pdf", name: "fail.pdf", content: []byte("%PDF")},
			phase:   detect.PhaseFailure,
			message: "File too large",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report, err := runHeadless(context.Background(), cfg, "", tt.in)
			if err != nil {
				t.Fatalf("runHeadless() error = %v", err)
			}
			if report.State.Phase != tt.phase {
				t.Fatalf("phase = %s, want %s (message %q)", report.State.Phase, tt.phase, report.State.Message)
			}
			if tt.phase == detect.PhaseSuccess && report.State.Result.Prediction != tt.prediction {
				t.Errorf("prediction = %s, want %s", report.State.Result.Prediction, tt.prediction)
			}
			if tt.message != "" && report.State.Message != tt.message {
				t.Errorf("message = %q, want %q", report.State.Message, tt.message)
			}
			if (report.Chart != "") != tt.wantChart {
				t.Errorf("chart present = %v, want %v", report.Chart != "", tt.wantChart)
			}
		})
	}
}

func TestRunHeadless_ServiceDown(t *testing.T) {
	srv := newDetectorServer(t)
	cfg := testConfig(srv)
	srv.Close()

	report, err := runHeadless(context.Background(), cfg, "", &input{kind: detect.KindText, text: "x"})
	if err != nil {
		t.Fatalf("runHeadless() error = %v", err)
	}
	if report.State.Phase != detect.PhaseFailure || report.State.Message == "" {
		t.Errorf("expected a failure with a message, got %+v", report.State)
	}
}

func TestRunHeadless_ChartDisabled(t *testing.T) {
	srv := newDetectorServer(t)
	cfg := testConfig(srv)
	cfg.Output.ShowChart = false

	report, err := runHeadless(context.Background(), cfg, "", &input{kind: detect.KindText, text: "x"})
	if err != nil {
		t.Fatalf("runHeadless() error = %v", err)
	}
	if report.Chart != "" {
		t.Error("chart should be omitted when disabled")
	}
}

func executeRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCommand("dev", "none", "unknown")
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestAnalyzeCommand(t *testing.T) {
	srv := newDetectorServer(t)
	t.Setenv("AIDETECT_SERVER_BASE_URL", srv.URL)

	out, err := executeRoot(t, "analyze", "--no-tui", "--no-emoji", "-o", "json", "--text", "hello")
	if err != nil {
		t.Fatalf("analyze error = %v", err)
	}
	var got formatter.JSONOutput
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, out)
	}
	if got.Status != "success" || got.Analysis == nil || got.Analysis.Prediction != "Human" {
		t.Errorf("unexpected output %+v", got)
	}

	path := writeTempFile(t, "fail.docx", "content")
	out, err = executeRoot(t, "analyze", "--no-tui", "--no-emoji", "--no-color", path)
	if !errors.Is(err, ErrAnalysisFailed) {
		t.Fatalf("expected ErrAnalysisFailed, got %v", err)
	}
	if !strings.Contains(out, "Error: File too large") {
		t.Errorf("failure should still be printed:\n%s", out)
	}
}

func TestAnalyzeCommand_OutputFile(t *testing.T) {
	srv := newDetectorServer(t)
	t.Setenv("AIDETECT_SERVER_BASE_URL", srv.URL)

	dest := filepath.Join(t.TempDir(), "report.md")
	out, err := executeRoot(t, "analyze", "--no-tui", "-o", "markdown", "--output-file", dest, "--text", "hello")
	if err != nil {
		t.Fatalf("analyze error = %v", err)
	}
	if out != "" {
		t.Errorf("nothing should be written to stdout, got %q", out)
	}

	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("output file not written: %v", err)
	}
	if !strings.Contains(string(data), "# AI Content Detection Report") {
		t.Errorf("unexpected report:\n%s", data)
	}
}

func TestAnalyzeCommand_BadOCRModel(t *testing.T) {
	if _, err := executeRoot(t, "analyze", "--no-tui", "--ocr-model", "cursive", "--text", "x"); err == nil {
		t.Error("expected error for unknown OCR model")
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := executeRoot(t, "version")
	if err != nil {
		t.Fatalf("version error = %v", err)
	}
	if !strings.Contains(out, "aidetect development (local-build)") {
		t.Errorf("unexpected version output:\n%s", out)
	}
}
