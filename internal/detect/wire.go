package detect

import (
	"encoding/json"
	"fmt"
)

// TextRequestBody is the JSON body of POST /analyze_text
type TextRequestBody struct {
	Text string `json:"text"`
}

// AnalysisPayload is the "analysis" object of a success response
type AnalysisPayload struct {
	Prediction       string  `json:"prediction"`
	AIProbability    float64 `json:"ai_probability"`
	HumanProbability float64 `json:"human_probability"`
}

// ResponseBody is the union of the success and failure response shapes
type ResponseBody struct {
	Message  string           `json:"message,omitempty"`
	Error    string           `json:"error,omitempty"`
	Analysis *AnalysisPayload `json:"analysis,omitempty"`
}

// ParsedBody is a response body decoded loosely so field presence can be checked
type ParsedBody map[string]json.RawMessage

// ParseBody decodes a response body. A body that is not a JSON object
// yields an error and a nil map.
func ParseBody(data []byte) (ParsedBody, error) {
	var body ParsedBody
	if err := json.Unmarshal(data, &body); err != nil {
		return nil, fmt.Errorf("response is not a JSON object: %w", err)
	}
	return body, nil
}

// ErrorField returns the "error" value when it is present and non-empty.
// Non-string values are returned as their JSON text.
func (b ParsedBody) ErrorField() (string, bool) {
	raw, ok := b["error"]
	if !ok {
		return "", false
	}
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return "", false
	}
	switch val := v.(type) {
	case nil:
		return "", false
	case string:
		return val, val != ""
	case bool:
		if !val {
			return "", false
		}
	case float64:
		if val == 0 {
			return "", false
		}
	}
	return string(raw), true
}

// Analysis returns the result when the body carries a complete "analysis"
// object with a known prediction and both probabilities.
func (b ParsedBody) Analysis() (AnalysisResult, bool) {
	raw, ok := b["analysis"]
	if !ok {
		return AnalysisResult{}, false
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return AnalysisResult{}, false
	}

	var predictionName string
	if err := unmarshalField(fields, "prediction", &predictionName); err != nil {
		return AnalysisResult{}, false
	}
	prediction, ok := ParsePrediction(predictionName)
	if !ok {
		return AnalysisResult{}, false
	}

	var aiProb, humanProb float64
	if err := unmarshalField(fields, "ai_probability", &aiProb); err != nil {
		return AnalysisResult{}, false
	}
	if err := unmarshalField(fields, "human_probability", &humanProb); err != nil {
		return AnalysisResult{}, false
	}

	return AnalysisResult{
		Prediction:       prediction,
		AIProbability:    aiProb,
		HumanProbability: humanProb,
	}, true
}

func unmarshalField(fields map[string]json.RawMessage, key string, dst interface{}) error {
	raw, ok := fields[key]
	if !ok || string(raw) == "null" {
		return fmt.Errorf("missing field %q", key)
	}
	return json.Unmarshal(raw, dst)
}

// ToPayload converts a result back to its wire form
func (r AnalysisResult) ToPayload() *AnalysisPayload {
	return &AnalysisPayload{
		Prediction:       r.Prediction.String(),
		AIProbability:    r.AIProbability,
		HumanProbability: r.HumanProbability,
	}
}
