package transcript

import (
	"errors"
	"fmt"
)

// Validation failure reasons. A *ValidationError unwraps to one of these.
var (
	// ErrEmptyText is returned when edited text is empty or only whitespace.
	ErrEmptyText = errors.New("empty text")
	// ErrMultipleTokens is returned when edited text holds more than one token.
	ErrMultipleTokens = errors.New("text must be a single word")
	// ErrIndexOutOfRange is returned when an edit targets a missing word.
	ErrIndexOutOfRange = errors.New("word index out of range")

	// ErrNegativeTiming is returned by Validate for negative start or duration.
	ErrNegativeTiming = errors.New("negative timing value")
	// ErrUnordered is returned by Validate when start times decrease.
	ErrUnordered = errors.New("start times are not non-decreasing")
)

// ValidationError reports a rejected word edit or a malformed input word.
type ValidationError struct {
	Err   error  // One of the sentinel reasons above
	Index int    // Word index the check ran against
	Text  string // Offending text, if any
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	reason := "invalid word"
	if e.Err != nil {
		reason = e.Err.Error()
	}
	return fmt.Sprintf("word %d: %s", e.Index, reason)
}

// Unwrap returns the underlying reason.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Message returns the text shown to the user for this failure.
func (e *ValidationError) Message() string {
	switch {
	case errors.Is(e.Err, ErrEmptyText):
		return "Please enter text!"
	case errors.Is(e.Err, ErrMultipleTokens):
		return "Please enter a single word!"
	default:
		return e.Error()
	}
}

// IsValidationError reports whether err is, or wraps, a *ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
