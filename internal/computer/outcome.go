// File: internal/computer/outcome.go
package computer

// OutcomeType tags which variant of an Outcome is populated.
type OutcomeType int

const (
	// OutcomeText is a successful action with a textual result.
	OutcomeText OutcomeType = iota
	// OutcomeImage is a successful capture carrying encoded image bytes.
	OutcomeImage
	// OutcomeError is a failed or rejected action. Errors are ordinary data
	// reported back to the model; they never terminate the run.
	OutcomeError
)

// Outcome is the normalized result of attempting an action. Exactly one
// variant is populated, selected by Type.
type Outcome struct {
	Type OutcomeType

	// Text holds the success text for OutcomeText and the error message for
	// OutcomeError.
	Text string

	// MediaType and Data are populated for OutcomeImage only.
	MediaType string
	Data      []byte
}

// TextOutcome wraps a successful textual result.
func TextOutcome(text string) Outcome {
	return Outcome{Type: OutcomeText, Text: text}
}

// ImageOutcome wraps a successful image capture.
func ImageOutcome(mediaType string, data []byte) Outcome {
	return Outcome{Type: OutcomeImage, MediaType: mediaType, Data: data}
}

// ErrorOutcome wraps a failure description.
func ErrorOutcome(message string) Outcome {
	return Outcome{Type: OutcomeError, Text: message}
}

// IsError reports whether the outcome describes a failure.
func (o Outcome) IsError() bool { return o.Type == OutcomeError }
