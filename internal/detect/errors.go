package detect

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind categorizes submission failures
type ErrorKind string

const (
	// ErrKindTransport means the request never reached the service
	ErrKindTransport ErrorKind = "transport"

	// ErrKindService means the service answered with a failure status or an error payload
	ErrKindService ErrorKind = "service"

	// ErrKindContract means the service answered 2xx with an unrecognized body
	ErrKindContract ErrorKind = "contract"
)

// Messages shown when nothing more specific is available
const (
	MsgUnexpectedResponse = "Received unexpected response from server."
	MsgUploadUnreachable  = "Could not connect to the server or process the file."
	MsgTextUnreachable    = "Could not connect to the server or analyze the text."
	MsgNotCompleted       = "Analysis could not be completed."
)

// HTTPStatusMessage is the fallback reason for a failure status without an error field
func HTTPStatusMessage(status int) string {
	return fmt.Sprintf("HTTP error! status: %d", status)
}

// UnreachableMessage returns the generic transport fallback for a form
func UnreachableMessage(kind SubmissionKind) string {
	if kind == KindText {
		return MsgTextUnreachable
	}
	return MsgUploadUnreachable
}

// SubmissionError is returned for every failed submission. Message is the
// text that ends up on screen after the "Error: " prefix.
type SubmissionError struct {
	Kind       ErrorKind
	Message    string
	StatusCode int
	Cause      error
}

// Error implements the error interface
func (e *SubmissionError) Error() string {
	parts := []string{fmt.Sprintf("type=%s", e.Kind)}
	if e.StatusCode > 0 {
		parts = append(parts, fmt.Sprintf("status=%d", e.StatusCode))
	}
	parts = append(parts, e.Message)
	if e.Cause != nil {
		parts = append(parts, fmt.Sprintf("cause=%s", e.Cause.Error()))
	}
	return strings.Join(parts, ": ")
}

// Unwrap returns the underlying error
func (e *SubmissionError) Unwrap() error {
	return e.Cause
}

// Is matches another SubmissionError of the same kind
func (e *SubmissionError) Is(target error) bool {
	if se, ok := target.(*SubmissionError); ok {
		return e.Kind == se.Kind
	}
	return false
}

// Sentinels for errors.Is
var (
	ErrTransport = &SubmissionError{Kind: ErrKindTransport}
	ErrService   = &SubmissionError{Kind: ErrKindService}
	ErrContract  = &SubmissionError{Kind: ErrKindContract}
)

// NewTransportError wraps a transport failure. The cause's text is used as
// the message when it has any, otherwise the per-form fallback.
func NewTransportError(cause error, kind SubmissionKind) *SubmissionError {
	msg := ""
	if cause != nil {
		msg = cause.Error()
	}
	if strings.TrimSpace(msg) == "" {
		msg = UnreachableMessage(kind)
	}
	return &SubmissionError{Kind: ErrKindTransport, Message: msg, Cause: cause}
}

// NewServiceError creates an error for a failure status or error payload
func NewServiceError(status int, message string) *SubmissionError {
	return &SubmissionError{Kind: ErrKindService, Message: message, StatusCode: status}
}

// NewContractViolation creates an error for an unrecognized success body
func NewContractViolation(status int, cause error) *SubmissionError {
	return &SubmissionError{Kind: ErrKindContract, Message: MsgUnexpectedResponse, StatusCode: status, Cause: cause}
}

// DisplayMessage extracts the on-screen reason from any error
func DisplayMessage(err error) string {
	var se *SubmissionError
	if errors.As(err, &se) {
		return se.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
