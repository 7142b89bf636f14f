package controller

import (
	"context"
	"errors"

	"github.com/yildizm/AIDetect/internal/chart"
	"github.com/yildizm/AIDetect/internal/client"
	"github.com/yildizm/AIDetect/internal/detect"
	"github.com/yildizm/AIDetect/internal/logger"
	"github.com/yildizm/AIDetect/internal/page"
)

// ErrorPrefix precedes every failure message on the error surface
const ErrorPrefix = "Error: "

// Submitter sends one request to the analysis service
type Submitter interface {
	Submit(ctx context.Context, req detect.Request) (*client.Response, error)
}

// Controller drives the page through Idle, Loading, Success and Failure.
//
// It is not safe for concurrent use. Every method must be called from the
// single goroutine that processes events; Tasks returned by the submit
// methods are the only work meant to run elsewhere.
type Controller struct {
	state     detect.State
	chart     chart.Handle
	page      *page.Page
	renderer  chart.Renderer
	submitter Submitter
	log       *logger.Logger
	imageExts []string
	ocrModel  string
	observers []func(detect.State)
}

// Option customizes a Controller
type Option func(*Controller)

// WithLogger sets the controller's logger
func WithLogger(l *logger.Logger) Option {
	return func(c *Controller) {
		c.log = l.WithComponent("controller")
	}
}

// WithImageExtensions overrides the extensions that enable OCR
func WithImageExtensions(exts []string) Option {
	return func(c *Controller) {
		if len(exts) > 0 {
			c.imageExts = exts
		}
	}
}

// WithOCRModel sets the OCR model sent with image uploads
func WithOCRModel(model string) Option {
	return func(c *Controller) {
		c.SetOCRModel(model)
	}
}

// WithObserver registers a callback invoked after every state transition
func WithObserver(fn func(detect.State)) Option {
	return func(c *Controller) {
		c.observers = append(c.observers, fn)
	}
}

// New creates a controller in the Idle state
func New(p *page.Page, renderer chart.Renderer, submitter Submitter, opts ...Option) *Controller {
	if p == nil {
		p = page.New()
	}
	c := &Controller{
		state:     detect.Idle(),
		page:      p,
		renderer:  renderer,
		submitter: submitter,
		log:       logger.Discard(),
		imageExts: detect.DefaultImageExtensions,
		ocrModel:  detect.OCRModelPrinted,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns the current state
func (c *Controller) State() detect.State {
	return c.state
}

// Page returns the surfaces the controller drives
func (c *Controller) Page() *page.Page {
	return c.page
}

// OCRModel returns the model used for image uploads
func (c *Controller) OCRModel() string {
	return c.ocrModel
}

// SetOCRModel selects the OCR model; unknown values are ignored
func (c *Controller) SetOCRModel(model string) {
	switch model {
	case detect.OCRModelPrinted, detect.OCRModelHandwritten:
		c.ocrModel = model
	}
}

// FileSelectionChanged shows the OCR options iff name looks like an image.
// Returns the new visibility.
func (c *Controller) FileSelectionChanged(name string) bool {
	shown := detect.IsImage(name, c.imageExts)
	c.page.SetVisible(page.OCROptions, shown)
	c.page.SetText(page.FileInput, name)
	return shown
}

// SubmitFile enters Loading and returns the task that uploads the file
func (c *Controller) SubmitFile(ctx context.Context, name string, content []byte) Task {
	sub := detect.NewFileSubmission(name, content, c.ocrModel, c.imageExts)
	return c.submit(ctx, sub)
}

// SubmitText enters Loading and returns the task that posts the text
func (c *Controller) SubmitText(ctx context.Context, text string) Task {
	return c.submit(ctx, detect.TextSubmission{Text: text})
}

func (c *Controller) submit(ctx context.Context, req detect.Request) Task {
	c.enterLoading()

	kind := req.Kind()
	submitter := c.submitter
	log := c.log

	return func() Event {
		resp, err := submitter.Submit(ctx, req)
		if err != nil {
			log.Debug("%s submission failed: %v", kind, err)
			return NetworkErrorEvent{Kind: kind, Err: err}
		}
		return ResponseEvent{
			SubmissionID: resp.SubmissionID,
			Kind:         kind,
			StatusCode:   resp.StatusCode,
			Body:         resp.Body,
		}
	}
}

// Apply feeds a completed task's event into the state machine. Events are
// applied in arrival order, so the last one to arrive decides what is shown.
func (c *Controller) Apply(ev Event) {
	switch e := ev.(type) {
	case ResponseEvent:
		c.log.DebugWithFields("applying response", []logger.Field{
			logger.Submission(e.SubmissionID),
			logger.Status(e.StatusCode),
		})
		c.ResponseReceived(e.StatusCode, e.Body)
	case NetworkErrorEvent:
		c.NetworkError(e.Err, e.Kind)
	}
}

// ResponseReceived classifies a response and enters Success or Failure
func (c *Controller) ResponseReceived(status int, body []byte) {
	result, err := detect.Classify(status, body)
	if err != nil {
		c.log.Debug("response classified as failure: %v", err)
		c.enterFailure(detect.DisplayMessage(err))
		return
	}
	c.enterSuccess(result)
}

// NetworkError enters Failure for a submission that got no response
func (c *Controller) NetworkError(err error, kind detect.SubmissionKind) {
	var se *detect.SubmissionError
	if !errors.As(err, &se) {
		se = detect.NewTransportError(err, kind)
	}
	c.enterFailure(se.Message)
}

func (c *Controller) enterLoading() {
	c.disposeChart()
	c.page.Show(page.ResultsSection, page.LoadingIndicator)
	c.page.Hide(page.ErrorMessage, page.AnalysisOutput, page.ProbabilityGraph, page.HighlightedText)
	c.transition(detect.Loading())
}

func (c *Controller) enterSuccess(result detect.AnalysisResult) {
	c.page.Hide(page.LoadingIndicator, page.ErrorMessage)
	c.page.Show(page.ResultsSection, page.AnalysisOutput)

	c.page.SetText(page.Prediction, result.Prediction.String())
	c.page.SetClass(page.Prediction, result.Prediction.Token())
	c.page.SetText(page.AIProb, result.AIPercent())
	c.page.SetText(page.HumanProb, result.HumanPercent())

	c.disposeChart()
	c.page.Show(page.ProbabilityGraph)
	if c.renderer != nil {
		c.chart = c.renderer.Render(result.HumanProbability, result.AIProbability)
	}

	c.page.SetText(page.HighlightedText, detect.HighlightNotice)
	c.page.Show(page.HighlightedText)

	c.transition(detect.Success(result))
}

func (c *Controller) enterFailure(message string) {
	c.page.Show(page.ResultsSection)
	c.page.Hide(page.LoadingIndicator, page.AnalysisOutput)
	c.page.SetText(page.ErrorMessage, ErrorPrefix+message)
	c.page.Show(page.ErrorMessage)

	c.disposeChart()
	c.page.Hide(page.ProbabilityGraph, page.HighlightedText)
	c.page.SetText(page.HighlightedText, detect.MsgNotCompleted)

	c.transition(detect.Failure(message))
}

func (c *Controller) disposeChart() {
	if c.chart != nil {
		c.chart.Dispose()
		c.chart = nil
	}
}

func (c *Controller) transition(next detect.State) {
	prev := c.state
	c.state = next
	c.log.Debug("state %s -> %s", prev.Phase, next.Phase)
	for _, fn := range c.observers {
		fn(next)
	}
}
