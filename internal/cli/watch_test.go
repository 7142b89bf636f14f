package cli

import (
	"bytes"
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/yildizm/AIDetect/internal/detect"
	"github.com/yildizm/AIDetect/internal/formatter"
	"github.com/yildizm/AIDetect/internal/logger"
)

func TestWatchPrinter_CSVHeaderOnce(t *testing.T) {
	var out bytes.Buffer
	p, err := newWatchPrinter(&out, "csv", false)
	if err != nil {
		t.Fatalf("newWatchPrinter() error = %v", err)
	}

	success := detect.Success(detect.AnalysisResult{Prediction: detect.PredictionAI, AIProbability: 0.6, HumanProbability: 0.4})
	for _, state := range []detect.State{success, detect.Failure("File too large")} {
		if err := p.Print(formatter.NewReport("draft.md", detect.KindFile, state, "")); err != nil {
			t.Fatalf("Print() error = %v", err)
		}
	}

	records, err := csv.NewReader(&out).ReadAll()
	if err != nil {
		t.Fatalf("invalid CSV: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected header and two rows, got %d", len(records))
	}
	if records[0][0] != formatter.CSVHeaders[0] {
		t.Errorf("first row should be the header, got %v", records[0])
	}
}

func TestNewWatchPrinter_UnknownFormat(t *testing.T) {
	if _, err := newWatchPrinter(&bytes.Buffer{}, "xml", false); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestValidateWatchFilePath(t *testing.T) {
	path := writeTempFile(t, "draft.md", "x")

	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"valid file", path, false},
		{"empty", "  ", true},
		{"traversal", "../draft.md", true},
		{"directory", filepath.Dir(path), true},
		{"missing", filepath.Join(filepath.Dir(path), "missing.md"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateWatchFilePath(tt.path)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateWatchFilePath(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
		})
	}
}

func TestHandleWatchEvent(t *testing.T) {
	srv := newDetectorServer(t)
	path := writeTempFile(t, "draft.md", "first draft")

	var out bytes.Buffer
	printer, err := newWatchPrinter(&out, "csv", false)
	if err != nil {
		t.Fatalf("newWatchPrinter() error = %v", err)
	}

	w := &fileWatch{filename: path, asText: true, printer: printer}
	w.session = newSession(testConfig(srv), "", logger.Discard(), w.observe)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	loop, stop := w.session.startLoop(ctx)
	defer stop()

	events := []fsnotify.Event{
		{Name: path, Op: fsnotify.Write},
		{Name: path, Op: fsnotify.Chmod},
		{Name: filepath.Join(filepath.Dir(path), "other.md"), Op: fsnotify.Write},
		{Name: path, Op: fsnotify.Create},
	}
	for _, ev := range events {
		if err := handleWatchEvent(ctx, ev, w, loop); err != nil {
			t.Fatalf("handleWatchEvent(%v) error = %v", ev, err)
		}
		if err := loop.Wait(ctx); err != nil {
			t.Fatalf("Wait() error = %v", err)
		}
	}

	records, err := csv.NewReader(&out).ReadAll()
	if err != nil {
		t.Fatalf("invalid CSV: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected header plus one row per write or create, got %d rows:\n%s", len(records), out.String())
	}
	for _, row := range records[1:] {
		if row[1] != "draft.md" || row[2] != "text" || row[3] != "success" {
			t.Errorf("unexpected row %v", row)
		}
	}

	if snap := w.session.stats.Snapshot(); snap.Submitted != 2 || snap.Succeeded != 2 {
		t.Errorf("stats should count both submissions, got %+v", snap)
	}
}

func TestFileWatch_SubmitMissingFile(t *testing.T) {
	srv := newDetectorServer(t)
	path := writeTempFile(t, "draft.md", "x")

	printer, _ := newWatchPrinter(&bytes.Buffer{}, "text", false)
	w := &fileWatch{filename: path, printer: printer}
	w.session = newSession(testConfig(srv), "", logger.Discard(), w.observe)

	loop, stop := w.session.startLoop(context.Background())
	defer stop()

	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	err := w.submit(context.Background(), loop)
	if err == nil || !strings.Contains(err.Error(), "invalid file path") {
		t.Errorf("expected invalid file path error, got %v", err)
	}
}
