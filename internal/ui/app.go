package ui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/yildizm/AIDetect/internal/chart"
	"github.com/yildizm/AIDetect/internal/controller"
	"github.com/yildizm/AIDetect/internal/detect"
	"github.com/yildizm/AIDetect/internal/emoji"
	"github.com/yildizm/AIDetect/internal/page"
	"github.com/yildizm/AIDetect/internal/ui/components"
)

// Form identifies which input form has focus
type Form int

const (
	FormFile Form = iota
	FormText
)

// ReadFileFunc loads the file chosen in the upload form
type ReadFileFunc func(path string) ([]byte, error)

// Model is the interactive detector. Update is the only place the
// controller is touched, so events are applied one at a time.
type Model struct {
	ctx      context.Context
	ctrl     *controller.Controller
	slot     *chart.Slot
	readFile ReadFileFunc
	styles   *Styles
	loading  *components.LoadingIndicator

	focus    Form
	filePath string
	text     string
	status   string

	width    int
	height   int
	quitting bool
	now      func() time.Time
}

// NewModel creates the TUI model around a controller and the chart slot
// its renderer draws into
func NewModel(ctx context.Context, ctrl *controller.Controller, slot *chart.Slot) *Model {
	styles := GetStyles()
	return &Model{
		ctx:      ctx,
		ctrl:     ctrl,
		slot:     slot,
		readFile: os.ReadFile,
		styles:   styles,
		loading:  components.NewLoadingIndicator("Analyzing...", styles.Theme.Progress),
		now:      time.Now,
	}
}

// WithReadFile replaces how files are loaded
func (m *Model) WithReadFile(fn ReadFileFunc) *Model {
	m.readFile = fn
	return m
}

// SetFilePath pre-fills the upload form
func (m *Model) SetFilePath(path string) {
	m.filePath = path
	m.ctrl.FileSelectionChanged(filepath.Base(path))
}

// SetText pre-fills the text form and focuses it
func (m *Model) SetText(text string) {
	m.text = text
	m.focus = FormText
}

// Focus returns the focused form
func (m *Model) Focus() Form {
	return m.focus
}

// Init initializes the model
func (m *Model) Init() tea.Cmd {
	return tick()
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case tickMsg:
		m.loading.Tick()
		return m, tick()
	case submissionDoneMsg:
		m.loading.Done()
		m.ctrl.Apply(msg.event)
		return m, nil
	}
	return m, nil
}

// handleKeyPress handles keyboard input
func (m *Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		m.quitting = true
		return m, tea.Quit
	case "tab", "shift+tab":
		if m.focus == FormFile {
			m.focus = FormText
		} else {
			m.focus = FormFile
		}
		return m, nil
	case "ctrl+o":
		m.toggleOCRModel()
		return m, nil
	case "enter":
		return m, m.submit()
	case "backspace":
		m.editInput(func(s string) string {
			if s == "" {
				return s
			}
			r := []rune(s)
			return string(r[:len(r)-1])
		})
		return m, nil
	case "ctrl+u":
		m.editInput(func(string) string { return "" })
		return m, nil
	}

	switch msg.Type {
	case tea.KeyRunes:
		m.editInput(func(s string) string { return s + string(msg.Runes) })
	case tea.KeySpace:
		m.editInput(func(s string) string { return s + " " })
	}
	return m, nil
}

// editInput applies fn to the focused input
func (m *Model) editInput(fn func(string) string) {
	if m.focus == FormText {
		m.text = fn(m.text)
		return
	}
	m.filePath = fn(m.filePath)
	m.ctrl.FileSelectionChanged(filepath.Base(m.filePath))
}

func (m *Model) toggleOCRModel() {
	if m.ctrl.OCRModel() == detect.OCRModelPrinted {
		m.ctrl.SetOCRModel(detect.OCRModelHandwritten)
	} else {
		m.ctrl.SetOCRModel(detect.OCRModelPrinted)
	}
}

// submit sends the focused form. Nothing is validated here; an empty path
// or empty text goes to the service as is.
func (m *Model) submit() tea.Cmd {
	m.status = ""

	var task controller.Task
	if m.focus == FormText {
		task = m.ctrl.SubmitText(m.ctx, m.text)
	} else {
		var name string
		var content []byte
		if path := strings.TrimSpace(m.filePath); path != "" {
			data, err := m.readFile(path)
			if err != nil {
				m.status = fmt.Sprintf("cannot read %s: %v", path, err)
				return nil
			}
			name, content = filepath.Base(path), data
		}
		task = m.ctrl.SubmitFile(m.ctx, name, content)
	}

	m.loading.Start(m.now())
	return taskCmd(task)
}

// View renders the model
func (m *Model) View() string {
	if m.quitting {
		return "Goodbye! " + emoji.GetEmoji("door") + "\n"
	}

	sections := []string{
		m.styles.Title.Render(emoji.GetEmoji("target") + " AI Content Detector"),
		m.renderFileForm(),
		m.renderTextForm(),
	}
	if m.status != "" {
		sections = append(sections, m.styles.Error.Render(m.status))
	}
	if results := m.renderResults(); results != "" {
		sections = append(sections, results)
	}
	sections = append(sections, m.styles.Muted.Render("tab switch form • enter analyze • ctrl+o OCR model • ctrl+u clear • esc quit"))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *Model) formStyle(form Form) lipgloss.Style {
	style := m.styles.Panel
	if m.focus == form {
		style = m.styles.Focused
	}
	if m.width > 4 {
		style = style.Width(m.width - 4)
	}
	return style
}

func (m *Model) renderFileForm() string {
	p := m.ctrl.Page()
	lines := []string{
		m.styles.Header.Render(emoji.GetEmoji("upload") + " Upload a file"),
		m.cursor(FormFile, m.filePath),
	}
	if p.Visible(page.OCROptions) {
		lines = append(lines, m.styles.Info.Render(fmt.Sprintf("%s OCR model: %s", emoji.GetEmoji("image"), m.ctrl.OCRModel())))
	}
	return m.formStyle(FormFile).Render(strings.Join(lines, "\n"))
}

func (m *Model) renderTextForm() string {
	lines := []string{
		m.styles.Header.Render(emoji.GetEmoji("text") + " Paste text"),
		m.cursor(FormText, m.text),
	}
	return m.formStyle(FormText).Render(strings.Join(lines, "\n"))
}

func (m *Model) cursor(form Form, value string) string {
	if m.focus == form {
		return value + "█"
	}
	if value == "" {
		return m.styles.Muted.Render("(empty)")
	}
	return value
}

// renderResults draws the results section from the page surfaces
func (m *Model) renderResults() string {
	p := m.ctrl.Page()
	if !p.Visible(page.ResultsSection) {
		return ""
	}

	var lines []string
	if p.Visible(page.LoadingIndicator) {
		lines = append(lines, m.loading.Render(m.now()))
	}
	if p.Visible(page.ErrorMessage) {
		lines = append(lines, m.styles.Error.Render(emoji.GetEmoji("error")+" "+p.Text(page.ErrorMessage)))
	}
	if p.Visible(page.AnalysisOutput) {
		prediction := m.styles.PredictionStyle(p.Class(page.Prediction)).Render(p.Text(page.Prediction))
		lines = append(lines,
			"Prediction: "+prediction,
			fmt.Sprintf("%s: %s%%", chart.AILabel, p.Text(page.AIProb)),
			fmt.Sprintf("%s: %s%%", chart.HumanLabel, p.Text(page.HumanProb)),
		)
	}
	if p.Visible(page.ProbabilityGraph) {
		if view := m.slot.View(); view != "" {
			lines = append(lines, "", view)
		}
	}
	if p.Visible(page.HighlightedText) {
		lines = append(lines, "", m.styles.Muted.Render(emoji.GetEmoji("note")+" "+p.Text(page.HighlightedText)))
	}

	return m.styles.Panel.Render(strings.Join(lines, "\n"))
}

// Run starts the interactive program
func Run(m *Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
