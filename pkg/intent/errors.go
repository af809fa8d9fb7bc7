package intent

import "strings"

// InvalidError is returned when a parsed Intent fails validation. It is
// never panicked; callers receive it as a normal error value.
type InvalidError struct {
	Issues []string
}

// NewInvalidError wraps a set of validation issues as an error.
func NewInvalidError(issues []string) *InvalidError {
	return &InvalidError{Issues: issues}
}

func (e *InvalidError) Error() string {
	return "intent invalid: " + strings.Join(e.Issues, "; ")
}
