package page

import "sort"

// ID names a surface of the page
type ID string

// Surface identifiers
const (
	UploadForm       ID = "upload-form"
	TextForm         ID = "text-form"
	FileInput        ID = "file-input"
	TextInput        ID = "text-input"
	OCROptions       ID = "ocr-options"
	ResultsSection   ID = "results-section"
	LoadingIndicator ID = "loading-indicator"
	ErrorMessage     ID = "error-message"
	AnalysisOutput   ID = "analysis-output"
	Prediction       ID = "prediction"
	AIProb           ID = "ai-prob"
	HumanProb        ID = "human-prob"
	ProbabilityGraph ID = "probability-graph"
	HighlightedText  ID = "highlighted-text"
)

// Surface is one addressable element: whether it is shown, its text and its
// style class
type Surface struct {
	ID      ID
	Visible bool
	Text    string
	Class   string
}

// Page is the set of surfaces the controller drives. It is not safe for
// concurrent use; all mutation happens on the event loop.
type Page struct {
	surfaces map[ID]*Surface
}

// initialLayout lists every surface with its starting visibility
var initialLayout = []struct {
	id      ID
	visible bool
}{
	{UploadForm, true},
	{TextForm, true},
	{FileInput, true},
	{TextInput, true},
	{OCROptions, false},
	{ResultsSection, false},
	{LoadingIndicator, false},
	{ErrorMessage, false},
	{AnalysisOutput, false},
	{Prediction, true},
	{AIProb, true},
	{HumanProb, true},
	{ProbabilityGraph, false},
	{HighlightedText, false},
}

// New creates a page in its initial layout: both forms shown, results hidden
func New() *Page {
	p := &Page{surfaces: make(map[ID]*Surface, len(initialLayout))}
	for _, s := range initialLayout {
		p.surfaces[s.id] = &Surface{ID: s.id, Visible: s.visible}
	}
	return p
}

func (p *Page) get(id ID) *Surface {
	s, ok := p.surfaces[id]
	if !ok {
		s = &Surface{ID: id}
		p.surfaces[id] = s
	}
	return s
}

// Show makes the surfaces visible
func (p *Page) Show(ids ...ID) {
	for _, id := range ids {
		p.get(id).Visible = true
	}
}

// Hide makes the surfaces invisible
func (p *Page) Hide(ids ...ID) {
	for _, id := range ids {
		p.get(id).Visible = false
	}
}

// SetVisible shows or hides a surface
func (p *Page) SetVisible(id ID, visible bool) {
	p.get(id).Visible = visible
}

// SetText replaces a surface's text content
func (p *Page) SetText(id ID, text string) {
	p.get(id).Text = text
}

// SetClass replaces a surface's style class
func (p *Page) SetClass(id ID, class string) {
	p.get(id).Class = class
}

// Visible reports whether a surface is shown
func (p *Page) Visible(id ID) bool {
	s, ok := p.surfaces[id]
	return ok && s.Visible
}

// Text returns a surface's text content
func (p *Page) Text(id ID) string {
	if s, ok := p.surfaces[id]; ok {
		return s.Text
	}
	return ""
}

// Class returns a surface's style class
func (p *Page) Class(id ID) string {
	if s, ok := p.surfaces[id]; ok {
		return s.Class
	}
	return ""
}

// Surface returns a copy of a surface
func (p *Page) Surface(id ID) Surface {
	if s, ok := p.surfaces[id]; ok {
		return *s
	}
	return Surface{ID: id}
}

// Surfaces returns copies of all surfaces ordered by id
func (p *Page) Surfaces() []Surface {
	out := make([]Surface, 0, len(p.surfaces))
	for _, s := range p.surfaces {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
