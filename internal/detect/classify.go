package detect

// Classify turns an HTTP status and raw body into a result or a
// *SubmissionError. The checks run in a fixed priority order:
//
//  1. a non-2xx status is a service error, reason taken from a non-empty
//     "error" field if the body has one
//  2. an "error" field on a 2xx body is a service error
//  3. a complete "analysis" object is a success
//  4. anything else is a contract violation
func Classify(status int, body []byte) (AnalysisResult, error) {
	parsed, parseErr := ParseBody(body)

	if status < 200 || status > 299 {
		if msg, ok := parsed.ErrorField(); ok {
			return AnalysisResult{}, NewServiceError(status, msg)
		}
		return AnalysisResult{}, NewServiceError(status, HTTPStatusMessage(status))
	}

	if parseErr != nil {
		return AnalysisResult{}, NewContractViolation(status, parseErr)
	}

	if msg, ok := parsed.ErrorField(); ok {
		return AnalysisResult{}, NewServiceError(status, msg)
	}

	if result, ok := parsed.Analysis(); ok {
		return result, nil
	}

	return AnalysisResult{}, NewContractViolation(status, nil)
}
