package detect

// Phase enumerates the UI states
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseSuccess
	PhaseFailure
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseSuccess:
		return "success"
	case PhaseFailure:
		return "failure"
	default:
		return "unknown"
	}
}

// HighlightNotice accompanies every successful analysis; sentence level
// highlighting is not offered.
const HighlightNotice = "Note: The current model provides an overall score. " +
	"Highlighting specific AI-generated sentences requires different techniques " +
	"or models and is not yet implemented."

// State is exactly one of Idle, Loading, Success(result) or Failure(message).
// Result is only meaningful in PhaseSuccess, Message only in PhaseFailure.
type State struct {
	Phase   Phase
	Result  AnalysisResult
	Message string
}

func Idle() State    { return State{Phase: PhaseIdle} }
func Loading() State { return State{Phase: PhaseLoading} }

func Success(result AnalysisResult) State {
	return State{Phase: PhaseSuccess, Result: result}
}

func Failure(message string) State {
	return State{Phase: PhaseFailure, Message: message}
}
