package controller

import "github.com/yildizm/AIDetect/internal/detect"

// Event is a completion posted back to the event loop
type Event interface {
	isEvent()
}

// ResponseEvent carries a response that reached the service
type ResponseEvent struct {
	SubmissionID string
	Kind         detect.SubmissionKind
	StatusCode   int
	Body         []byte
}

// NetworkErrorEvent reports a submission that never got a response
type NetworkErrorEvent struct {
	Kind detect.SubmissionKind
	Err  error
}

func (ResponseEvent) isEvent()     {}
func (NetworkErrorEvent) isEvent() {}

// Task performs the blocking part of a submission off the event loop and
// returns the event to apply when it finishes.
type Task func() Event
