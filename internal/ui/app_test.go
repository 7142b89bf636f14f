package ui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/yildizm/AIDetect/internal/chart"
	"github.com/yildizm/AIDetect/internal/client"
	"github.com/yildizm/AIDetect/internal/controller"
	"github.com/yildizm/AIDetect/internal/detect"
	"github.com/yildizm/AIDetect/internal/page"
)

type stubSubmitter struct {
	requests []detect.Request
	body     string
}

func (s *stubSubmitter) Submit(_ context.Context, req detect.Request) (*client.Response, error) {
	s.requests = append(s.requests, req)
	return &client.Response{StatusCode: 200, Body: []byte(s.body)}, nil
}

func newTestModel(body string) (*Model, *stubSubmitter) {
	sub := &stubSubmitter{body: body}
	slot := chart.NewSlot()
	ctrl := controller.New(page.New(), chart.NewProbabilityRenderer(slot, chart.DefaultPalette, 20), sub)
	m := NewModel(context.Background(), ctrl, slot)
	m.WithReadFile(func(path string) ([]byte, error) {
		if path == "missing.txt" {
			return nil, errors.New("no such file")
		}
		return []byte("content of " + path), nil
	})
	return m, sub
}

func typeString(m *Model, s string) {
	for _, r := range s {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

// run executes a command and feeds its message back, as the program would
func run(t *testing.T, m *Model, cmd tea.Cmd) {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	msg := cmd()
	if _, ok := msg.(submissionDoneMsg); !ok {
		t.Fatalf("expected submissionDoneMsg, got %T", msg)
	}
	m.Update(msg)
}

func TestModel_TextSubmission(t *testing.T) {
	m, sub := newTestModel(`{"analysis":{"prediction":"AI","ai_probability":0.87,"human_probability":0.13}}`)

	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if m.Focus() != FormText {
		t.Fatal("tab should focus the text form")
	}
	typeString(m, "hello")
	m.Update(tea.KeyMsg{Type: tea.KeySpace})
	typeString(m, "world")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.ctrl.State().Phase != detect.PhaseLoading {
		t.Errorf("enter should put the controller in Loading, got %s", m.ctrl.State().Phase)
	}
	if !strings.Contains(m.View(), "Analyzing") {
		t.Error("loading indicator should be shown while waiting")
	}

	run(t, m, cmd)

	if len(sub.requests) != 1 {
		t.Fatalf("expected one request, got %d", len(sub.requests))
	}
	if text := sub.requests[0].(detect.TextSubmission); text.Text != "hello world" {
		t.Errorf("unexpected text %q", text.Text)
	}

	view := m.View()
	for _, want := range []string{"Prediction", "87.00%", "13.00%", chart.Title, "Note:"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestModel_FileSubmissionWithOCR(t *testing.T) {
	m, sub := newTestModel(`{"error":"File too large"}`)

	typeString(m, "scan.png")
	if !m.ctrl.Page().Visible(page.OCROptions) {
		t.Fatal("typing an image path should reveal OCR options")
	}
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlO})
	if !strings.Contains(m.View(), detect.OCRModelHandwritten) {
		t.Error("ctrl+o should switch the OCR model")
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	run(t, m, cmd)

	fs := sub.requests[0].(detect.FileSubmission)
	if fs.Name != "scan.png" || !fs.OCREnabled || fs.OCRModel != detect.OCRModelHandwritten {
		t.Errorf("unexpected submission %#v", fs)
	}
	if !strings.Contains(m.View(), "Error: File too large") {
		t.Error("error surface should be rendered")
	}
}

func TestModel_BackspaceHidesOCR(t *testing.T) {
	m, _ := newTestModel(`{}`)

	typeString(m, "a.jpgx")
	if m.ctrl.Page().Visible(page.OCROptions) {
		t.Fatal("jpgx is not an image")
	}
	m.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	if !m.ctrl.Page().Visible(page.OCROptions) {
		t.Error("a.jpg should reveal OCR options")
	}
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlU})
	if m.ctrl.Page().Visible(page.OCROptions) {
		t.Error("clearing the path should hide OCR options")
	}
}

func TestModel_EmptyFileIsForwarded(t *testing.T) {
	m, sub := newTestModel(`{"error":"No selected file"}`)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	run(t, m, cmd)

	fs := sub.requests[0].(detect.FileSubmission)
	if fs.Name != "" || len(fs.Content) != 0 {
		t.Errorf("expected an empty submission, got %#v", fs)
	}
	if m.ctrl.State().Message != "No selected file" {
		t.Errorf("service decides the error, got %q", m.ctrl.State().Message)
	}
}

func TestModel_UnreadableFile(t *testing.T) {
	m, sub := newTestModel(`{}`)

	typeString(m, "missing.txt")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Error("an unreadable file must not be submitted")
	}
	if len(sub.requests) != 0 {
		t.Error("no request expected")
	}
	if !strings.Contains(m.View(), "cannot read missing.txt") {
		t.Error("status line should explain the failure")
	}
}

func TestModel_Quit(t *testing.T) {
	m, _ := newTestModel(`{}`)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("ctrl+c should return a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}

func TestTheme_ChartPalette(t *testing.T) {
	t.Setenv("NO_COLOR", "")
	theme := GetTheme()
	palette := theme.ChartPalette()
	if palette.Human != theme.Success || palette.AI != theme.Accent {
		t.Error("chart should use success for human and accent for AI")
	}

	if !SetThemeByName("minimal") {
		t.Fatal("minimal theme should exist")
	}
	defer SetThemeByName("default")
	if GetTheme().Name != "minimal" {
		t.Error("theme not switched")
	}
	if SetThemeByName("neon") {
		t.Error("unknown theme should be rejected")
	}
}
