package detect

import (
	"fmt"
	"path"
	"strings"
)

// Prediction is the classifier's verdict
type Prediction int

const (
	PredictionHuman Prediction = iota
	PredictionAI
)

// String returns the wire name of the prediction ("Human" or "AI")
func (p Prediction) String() string {
	switch p {
	case PredictionHuman:
		return "Human"
	case PredictionAI:
		return "AI"
	default:
		return fmt.Sprintf("Prediction(%d)", int(p))
	}
}

// Token is the lowercase style class derived from the prediction name
func (p Prediction) Token() string {
	return strings.ToLower(p.String())
}

// ParsePrediction maps the service's prediction string onto the enum.
// Matching is exact: the service only ever sends "Human" or "AI".
func ParsePrediction(s string) (Prediction, bool) {
	switch s {
	case "Human":
		return PredictionHuman, true
	case "AI":
		return PredictionAI, true
	default:
		return 0, false
	}
}

// AnalysisResult is what the service returns for a successful submission.
// The probabilities are displayed as received and are not renormalized.
type AnalysisResult struct {
	Prediction       Prediction
	AIProbability    float64
	HumanProbability float64
}

// AIPercent formats the AI probability as a percentage with two decimals
func (r AnalysisResult) AIPercent() string {
	return FormatPercent(r.AIProbability)
}

// HumanPercent formats the human probability as a percentage with two decimals
func (r AnalysisResult) HumanPercent() string {
	return FormatPercent(r.HumanProbability)
}

// FormatPercent renders p in [0,1] as "87.00"
func FormatPercent(p float64) string {
	return fmt.Sprintf("%.2f", p*100)
}

// SubmissionKind identifies which form produced a submission
type SubmissionKind int

const (
	KindFile SubmissionKind = iota
	KindText
)

func (k SubmissionKind) String() string {
	if k == KindText {
		return "text"
	}
	return "file"
}

// Request is the tagged union of the two submission variants. Only
// FileSubmission and TextSubmission implement it.
type Request interface {
	Kind() SubmissionKind
	isRequest()
}

// OCR model types understood by the service
const (
	OCRModelPrinted     = "printed"
	OCRModelHandwritten = "handwritten"
)

// FileSubmission carries an uploaded file. OCREnabled is set when the file
// name has an image extension; OCRModel is then sent along with it.
type FileSubmission struct {
	Name       string
	Content    []byte
	OCREnabled bool
	OCRModel   string
}

func (FileSubmission) Kind() SubmissionKind { return KindFile }
func (FileSubmission) isRequest()           {}

// TextSubmission carries pasted text. Empty text is allowed.
type TextSubmission struct {
	Text string
}

func (TextSubmission) Kind() SubmissionKind { return KindText }
func (TextSubmission) isRequest()           {}

// DefaultImageExtensions is the extension set that reveals the OCR options
var DefaultImageExtensions = []string{"png", "jpg", "jpeg"}

// Extension returns the lowercase substring after the final "." of name, or
// "" when there is none. Directory components are ignored.
func Extension(name string) string {
	base := path.Base(strings.ReplaceAll(name, `\`, "/"))
	idx := strings.LastIndex(base, ".")
	if idx < 0 {
		return ""
	}
	return strings.ToLower(base[idx+1:])
}

// IsImage reports whether name's extension is in exts (compared lowercase)
func IsImage(name string, exts []string) bool {
	ext := Extension(name)
	if ext == "" {
		return false
	}
	for _, e := range exts {
		if strings.ToLower(strings.TrimPrefix(e, ".")) == ext {
			return true
		}
	}
	return false
}

// NewFileSubmission packages a file; the OCR flag follows the extension
func NewFileSubmission(name string, content []byte, ocrModel string, imageExts []string) FileSubmission {
	sub := FileSubmission{Name: name, Content: content}
	if IsImage(name, imageExts) {
		sub.OCREnabled = true
		sub.OCRModel = ocrModel
		if sub.OCRModel == "" {
			sub.OCRModel = OCRModelPrinted
		}
	}
	return sub
}
