package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/yildizm/AIDetect/internal/config"
	"github.com/yildizm/AIDetect/internal/detect"
	"github.com/yildizm/AIDetect/internal/logger"
)

// Multipart field names expected by the upload endpoint
const (
	FieldFile     = "file"
	FieldOCRModel = "ocr_model_type"
)

// RequestIDHeader carries the submission id for log correlation
const RequestIDHeader = "X-Request-ID"

// Response is the raw outcome of a request that reached the service
type Response struct {
	SubmissionID string
	StatusCode   int
	Body         []byte
	Elapsed      time.Duration
}

// Client issues exactly one HTTP request per submission. It never retries
// and never deduplicates; callers get either a Response or a transport error.
type Client struct {
	httpClient     *http.Client
	uploadURL      string
	analyzeTextURL string
	log            *logger.Logger
}

// Option customizes a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger sets the logger used for request tracing
func WithLogger(l *logger.Logger) Option {
	return func(c *Client) {
		c.log = l.WithComponent("client")
	}
}

// New creates a client for the endpoints in cfg
func New(cfg *config.Config, opts ...Option) *Client {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	c := &Client{
		httpClient:     &http.Client{Timeout: cfg.Server.Timeout},
		uploadURL:      cfg.UploadURL(),
		analyzeTextURL: cfg.AnalyzeTextURL(),
		log:            logger.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Submit sends req to the endpoint matching its variant
func (c *Client) Submit(ctx context.Context, req detect.Request) (*Response, error) {
	switch r := req.(type) {
	case detect.FileSubmission:
		return c.Upload(ctx, r)
	case detect.TextSubmission:
		return c.AnalyzeText(ctx, r)
	default:
		return nil, fmt.Errorf("unsupported submission type %T", req)
	}
}

// Upload sends a file as multipart form data to the upload endpoint
func (c *Client) Upload(ctx context.Context, sub detect.FileSubmission) (*Response, error) {
	body, contentType, err := encodeMultipart(sub)
	if err != nil {
		return nil, detect.NewTransportError(fmt.Errorf("failed to encode upload: %w", err), detect.KindFile)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.uploadURL, body)
	if err != nil {
		return nil, detect.NewTransportError(fmt.Errorf("failed to create request: %w", err), detect.KindFile)
	}
	httpReq.Header.Set("Content-Type", contentType)

	return c.do(httpReq, detect.KindFile)
}

// AnalyzeText posts {"text": ...} to the text analysis endpoint
func (c *Client) AnalyzeText(ctx context.Context, sub detect.TextSubmission) (*Response, error) {
	payload, err := json.Marshal(detect.TextRequestBody{Text: sub.Text})
	if err != nil {
		return nil, detect.NewTransportError(fmt.Errorf("failed to marshal request: %w", err), detect.KindText)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.analyzeTextURL, bytes.NewReader(payload))
	if err != nil {
		return nil, detect.NewTransportError(fmt.Errorf("failed to create request: %w", err), detect.KindText)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	return c.do(httpReq, detect.KindText)
}

func (c *Client) do(httpReq *http.Request, kind detect.SubmissionKind) (*Response, error) {
	id := uuid.NewString()
	httpReq.Header.Set(RequestIDHeader, id)
	httpReq.Header.Set("Accept", "application/json")

	c.log.DebugWithFields("sending %s submission", []logger.Field{
		logger.Submission(id),
		logger.F("url", httpReq.URL.String()),
	}, kind)

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.log.WarnWithFields("request failed", []logger.Field{logger.Submission(id), logger.Error(err)})
		return nil, detect.NewTransportError(err, kind)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, detect.NewTransportError(fmt.Errorf("failed to read response: %w", err), kind)
	}

	elapsed := time.Since(start)
	c.log.DebugWithFields("response received", []logger.Field{
		logger.Submission(id),
		logger.Status(resp.StatusCode),
		logger.Duration(elapsed),
	})

	return &Response{
		SubmissionID: id,
		StatusCode:   resp.StatusCode,
		Body:         data,
		Elapsed:      elapsed,
	}, nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// encodeMultipart builds the upload form. The OCR model field is only
// written for image submissions.
func encodeMultipart(sub detect.FileSubmission) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	contentType := "application/octet-stream"
	if sub.Name != "" {
		contentType = mimetype.Detect(sub.Content).String()
	}

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		quoteEscaper.Replace(FieldFile), quoteEscaper.Replace(sub.Name)))
	header.Set("Content-Type", contentType)

	part, err := w.CreatePart(header)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(sub.Content); err != nil {
		return nil, "", err
	}

	if sub.OCREnabled {
		if err := w.WriteField(FieldOCRModel, sub.OCRModel); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}
