package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/yildizm/AIDetect/internal/config"
	"github.com/yildizm/AIDetect/internal/detect"
	"github.com/yildizm/AIDetect/internal/formatter"
	"github.com/yildizm/AIDetect/internal/ui"
)

var (
	analyzeText       string
	analyzeOCRModel   string
	analyzeTimeout    time.Duration
	analyzeNoTUI      bool
	analyzeOutputFile string

	stdin io.Reader = os.Stdin
)

// ErrAnalysisFailed is returned when the service could not analyze a submission
var ErrAnalysisFailed = errors.New("analysis failed")

// input is what a command was asked to submit
type input struct {
	kind    detect.SubmissionKind
	source  string
	path    string
	name    string
	content []byte
	text    string
	stdin   bool
}

func newAnalyzeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [file]",
		Short: "Detect whether content is AI-generated",
		Long: `Submit a file, an image or a piece of text to the detection service.

A file argument is uploaded as is; images (png, jpg, jpeg by default) are
sent with an OCR model. Use --text to analyze a string, or pipe text on stdin.

Examples:
  aidetect analyze essay.docx
  aidetect analyze --ocr-model handwritten scan.jpg
  aidetect analyze --text "The quick brown fox"
  cat notes.txt | aidetect analyze -o json`,
		Args: cobra.MaximumNArgs(1),
		RunE: runAnalyze,
	}

	cmd.Flags().StringVarP(&analyzeText, "text", "t", "", "analyze this text instead of a file")
	cmd.Flags().StringVar(&analyzeOCRModel, "ocr-model", "", "OCR model for images (printed, handwritten)")
	cmd.Flags().DurationVar(&analyzeTimeout, "timeout", 0, "request timeout (0 waits indefinitely)")
	cmd.Flags().BoolVar(&analyzeNoTUI, "no-tui", false, "disable interactive terminal UI")
	cmd.Flags().StringVar(&analyzeOutputFile, "output-file", "", "save output to file instead of stdout")

	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg := *GetGlobalConfig()

	// Explicit flags override config values
	if cmd.Flag("timeout").Changed {
		cfg.Server.Timeout = analyzeTimeout
	}
	if cmd.Flag("ocr-model").Changed {
		if err := validateOCRModel(analyzeOCRModel); err != nil {
			return err
		}
	}

	in, err := setupInput(args, cmd.Flag("text").Changed)
	if err != nil {
		return err
	}

	if shouldUseTUIMode() && !in.stdin {
		if isVerbose() {
			fmt.Fprintf(os.Stderr, "Launching interactive terminal UI...\n")
		}
		return runInteractive(&cfg, analyzeOCRModel, in)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report, err := runHeadless(ctx, &cfg, analyzeOCRModel, in)
	if err != nil {
		return err
	}

	if err := formatAndOutputResults(cmd.OutOrStdout(), report); err != nil {
		return err
	}

	if report.State.Phase == detect.PhaseFailure {
		cmd.SilenceUsage = true
		return fmt.Errorf("%w: %s", ErrAnalysisFailed, report.State.Message)
	}
	return nil
}

func shouldUseTUIMode() bool {
	return !analyzeNoTUI && getOutputFormat() == "text" && !isVerbose()
}

func validateOCRModel(model string) error {
	switch model {
	case detect.OCRModelPrinted, detect.OCRModelHandwritten:
		return nil
	default:
		return fmt.Errorf("unknown OCR model: %s (use %s or %s)", model, detect.OCRModelPrinted, detect.OCRModelHandwritten)
	}
}

// setupInput resolves what to submit: --text, a file argument, or stdin
func setupInput(args []string, textSet bool) (*input, error) {
	if textSet {
		if len(args) > 0 {
			return nil, fmt.Errorf("cannot combine --text with a file argument")
		}
		return &input{kind: detect.KindText, text: analyzeText}, nil
	}

	if len(args) == 0 {
		if isVerbose() {
			fmt.Fprintf(os.Stderr, "Reading from stdin...\n")
		}
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return &input{kind: detect.KindText, source: "stdin", text: string(data), stdin: true}, nil
	}

	in, err := readFileInput(args[0])
	if err != nil {
		return nil, err
	}
	if isVerbose() {
		fmt.Fprintf(os.Stderr, "Analyzing file: %s\n", in.path)
	}
	return in, nil
}

// readFileInput loads a file for upload
func readFileInput(path string) (*input, error) {
	if err := validateFilePath(path); err != nil {
		return nil, fmt.Errorf("invalid file path: %w", err)
	}

	// Clean the path to handle Windows path separators and trailing slashes
	cleanPath := filepath.Clean(path)

	// #nosec G304 - path is validated above
	content, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}

	name := filepath.Base(cleanPath)
	return &input{
		kind:    detect.KindFile,
		source:  name,
		path:    cleanPath,
		name:    name,
		content: content,
	}, nil
}

// runHeadless submits in once and waits for the controller to settle
func runHeadless(ctx context.Context, cfg *config.Config, ocrModel string, in *input) (*formatter.Report, error) {
	s := newSession(cfg, ocrModel, newLogger())
	loop, stop := s.startLoop(ctx)
	defer stop()

	if err := s.submit(ctx, loop, in); err != nil {
		return nil, err
	}
	if err := loop.Wait(ctx); err != nil {
		return nil, fmt.Errorf("analysis interrupted: %w", err)
	}
	s.log.Debug("submission stats: %s", strings.TrimSpace(s.stats.Snapshot().Summary()))

	return formatter.NewReport(in.source, in.kind, s.ctrl.State(), s.chartView()), nil
}

// runInteractive opens the TUI with the form pre-filled from in
func runInteractive(cfg *config.Config, ocrModel string, in *input) error {
	s := newSession(cfg, ocrModel, newLogger().WithWriter(io.Discard))
	m := ui.NewModel(context.Background(), s.ctrl, s.slot)
	if in != nil {
		if in.kind == detect.KindText {
			m.SetText(in.text)
		} else {
			m.SetFilePath(in.path)
		}
	}
	return ui.Run(m)
}

// formatAndOutputResults renders report in the selected format
func formatAndOutputResults(w io.Writer, report *formatter.Report) error {
	f, err := formatter.New(getOutputFormat(), !noColor)
	if err != nil {
		return err
	}

	output, err := f.Format(report)
	if err != nil {
		return fmt.Errorf("failed to format results: %w", err)
	}

	return handleOutputDestination(w, output)
}

// handleOutputDestination writes output to file or w
func handleOutputDestination(w io.Writer, output []byte) error {
	if analyzeOutputFile != "" {
		if err := validateOutputFilePath(analyzeOutputFile); err != nil {
			return fmt.Errorf("invalid output file path: %w", err)
		}

		if err := writeOutputBytesToFile(output, analyzeOutputFile); err != nil {
			return fmt.Errorf("failed to write output to file: %w", err)
		}

		if isVerbose() {
			fmt.Fprintf(os.Stderr, "Output saved to: %s\n", analyzeOutputFile)
		}
		return nil
	}

	_, err := w.Write(output)
	return err
}

func validateFilePath(path string) error {
	if path == "" {
		return fmt.Errorf("empty file path")
	}

	cleanPath := filepath.Clean(path)

	info, err := os.Stat(cleanPath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("file does not exist: %s", cleanPath)
		}
		return fmt.Errorf("cannot access file: %w", err)
	}

	if info.IsDir() {
		return fmt.Errorf("path is a directory, not a file: %s", cleanPath)
	}

	return nil
}

func validateOutputFilePath(path string) error {
	if path == "" {
		return fmt.Errorf("empty file path")
	}
	return nil
}

// writeOutputBytesToFile writes output to a file with proper error handling
func writeOutputBytesToFile(output []byte, filePath string) error {
	cleanPath := filepath.Clean(filePath)

	file, err := os.Create(cleanPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && isVerbose() {
			fmt.Fprintf(os.Stderr, "Warning: failed to close output file: %v\n", closeErr)
		}
	}()

	if _, err := file.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	// Sync to ensure data is written
	if err := file.Sync(); err != nil {
		return fmt.Errorf("failed to sync output file: %w", err)
	}

	return nil
}
