package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"github.com/yildizm/AIDetect/internal/detect"
	"github.com/yildizm/AIDetect/internal/dispatch"
	"github.com/yildizm/AIDetect/internal/emoji"
	"github.com/yildizm/AIDetect/internal/formatter"
)

var (
	watchAsText   bool
	watchOCRModel string
)

func newWatchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [file]",
		Short: "Re-analyze a file every time it changes",
		Long: `Monitor a file and submit it to the detection service whenever it is written.

The file is analyzed once on start and again after every change. Submissions
are never coalesced; when several are in flight the last response to arrive
is the one reported. Press Ctrl+C to stop watching.

Examples:
  aidetect watch draft.md
  aidetect watch --as-text -o csv draft.md >> history.csv`,
		Args: cobra.ExactArgs(1),
		RunE: runWatch,
	}

	cmd.Flags().BoolVar(&watchAsText, "as-text", false, "submit the file contents as text instead of uploading the file")
	cmd.Flags().StringVar(&watchOCRModel, "ocr-model", "", "OCR model for images (printed, handwritten)")

	return cmd
}

func runWatch(cmd *cobra.Command, args []string) error {
	filename := filepath.Clean(args[0])
	if cmd.Flag("ocr-model").Changed {
		if err := validateOCRModel(watchOCRModel); err != nil {
			return err
		}
	}

	watcher, cleanup, err := setupFileWatcher(filename)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	printer, err := newWatchPrinter(cmd.OutOrStdout(), getOutputFormat(), !noColor)
	if err != nil {
		return err
	}

	w := &fileWatch{filename: filename, asText: watchAsText, printer: printer}
	cfg := *GetGlobalConfig()
	s := newSession(&cfg, watchOCRModel, newLogger(), w.observe)
	w.session = s

	loop, stop := s.startLoop(ctx)
	defer stop()

	defer func() {
		fmt.Fprintf(cmd.ErrOrStderr(), "\n%s %s", emoji.GetEmoji("chart"), s.stats.Snapshot().Summary())
	}()

	if err := w.submit(ctx, loop); err != nil {
		return err
	}
	return runWatchLoop(ctx, watcher, w, loop)
}

// fileWatch resubmits one file and reports every settled outcome
type fileWatch struct {
	filename string
	asText   bool
	session  *session
	printer  *watchPrinter
	last     *input
}

func (w *fileWatch) submit(ctx context.Context, loop *dispatch.Loop) error {
	in, err := readFileInput(w.filename)
	if err != nil {
		return err
	}
	if w.asText {
		in = &input{kind: detect.KindText, source: in.name, text: string(in.content)}
	}
	return loop.Post(func() {
		w.last = in
		if err := w.session.submit(ctx, loop, in); err != nil {
			w.session.log.Debug("submit failed: %v", err)
		}
	})
}

// observe runs on the loop goroutine after each transition
func (w *fileWatch) observe(state detect.State) {
	if state.Phase != detect.PhaseSuccess && state.Phase != detect.PhaseFailure {
		return
	}
	report := formatter.NewReport(w.last.source, w.last.kind, state, w.session.chartView())
	if err := w.printer.Print(report); err != nil {
		w.session.log.Warn("failed to print result: %v", err)
	}
}

// watchPrinter writes one report per outcome; CSV gets a single header
type watchPrinter struct {
	out         io.Writer
	format      string
	color       bool
	wroteHeader bool
}

func newWatchPrinter(out io.Writer, format string, color bool) (*watchPrinter, error) {
	if _, err := formatter.New(format, color); err != nil {
		return nil, err
	}
	return &watchPrinter{out: out, format: format, color: color}, nil
}

func (p *watchPrinter) Print(report *formatter.Report) error {
	var f formatter.Formatter
	if strings.EqualFold(p.format, formatter.FormatCSV) && p.wroteHeader {
		f = formatter.NewCSVRows()
	} else {
		var err error
		if f, err = formatter.New(p.format, p.color); err != nil {
			return err
		}
	}

	out, err := f.Format(report)
	if err != nil {
		return err
	}
	p.wroteHeader = true
	_, err = p.out.Write(out)
	return err
}

// cleanupWatcher safely closes watcher with error logging
func cleanupWatcher(watcher *fsnotify.Watcher) {
	if err := watcher.Close(); err != nil && isVerbose() {
		fmt.Fprintf(os.Stderr, "Warning: failed to close watcher: %v\n", err)
	}
}

// setupFileWatcher validates filename and starts watching it
func setupFileWatcher(filename string) (*fsnotify.Watcher, func(), error) {
	if err := validateWatchFilePath(filename); err != nil {
		return nil, nil, fmt.Errorf("invalid file path: %w", err)
	}

	if isVerbose() {
		fmt.Fprintf(os.Stderr, "Watching file: %s\n", filename)
		fmt.Fprintf(os.Stderr, "Press Ctrl+C to stop...\n\n")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	// Watch the directory so editors that replace the file are still seen
	if err := watcher.Add(filepath.Dir(filename)); err != nil {
		cleanupWatcher(watcher)
		return nil, nil, fmt.Errorf("failed to watch file: %w", err)
	}

	return watcher, func() { cleanupWatcher(watcher) }, nil
}

// runWatchLoop runs the main watch loop with signal handling
func runWatchLoop(ctx context.Context, watcher *fsnotify.Watcher, w *fileWatch, loop *dispatch.Loop) error {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(signals)

	for {
		select {
		case <-ctx.Done():
			return nil

		case <-signals:
			if isVerbose() {
				fmt.Fprintf(os.Stderr, "\nReceived interrupt signal, stopping...\n")
			}
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if err := handleWatchEvent(ctx, event, w, loop); err != nil && isVerbose() {
				fmt.Fprintf(os.Stderr, "Error handling event: %v\n", err)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			if isVerbose() {
				fmt.Fprintf(os.Stderr, "Watcher error: %v\n", err)
			}
		}
	}
}

// handleWatchEvent resubmits the file when it is written or recreated
func handleWatchEvent(ctx context.Context, event fsnotify.Event, w *fileWatch, loop *dispatch.Loop) error {
	if filepath.Clean(event.Name) != w.filename {
		return nil
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return nil
	}
	return w.submit(ctx, loop)
}

// validateWatchFilePath validates that a file path is safe to watch
func validateWatchFilePath(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("empty file path")
	}

	cleanPath := filepath.Clean(path)

	// Check for path traversal attempts
	if strings.Contains(cleanPath, "..") {
		return fmt.Errorf("path traversal not allowed")
	}

	info, err := os.Stat(cleanPath)
	if err != nil {
		return fmt.Errorf("cannot access file: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("cannot watch directory, must be a file")
	}

	return nil
}
