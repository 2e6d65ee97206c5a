package generation

import "fmt"

// ErrorKind classifies why a generation call failed.
type ErrorKind string

const (
	KindRateLimit       ErrorKind = "rate-limit"
	KindTimeout         ErrorKind = "timeout"
	KindMalformedPrompt ErrorKind = "malformed-prompt"
	KindBackend         ErrorKind = "backend"
)

// GenerationError describes a failed generation call for one record.
type GenerationError struct {
	Kind    ErrorKind
	Message string
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation failed (%s): %s", e.Kind, e.Message)
}
