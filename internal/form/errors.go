package form

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownField = errors.New("unknown form field")
	ErrInvalidInput = errors.New("invalid input")
)

// InvalidInputError reports the fields that kept an input from being submitted.
type InvalidInputError struct {
	Missing []Field
}

func (e *InvalidInputError) Error() string {
	if e == nil {
		return ""
	}
	if len(e.Missing) == 0 {
		return ErrInvalidInput.Error()
	}
	names := make([]string, len(e.Missing))
	for i, f := range e.Missing {
		names[i] = string(f)
	}
	return fmt.Sprintf("%s: missing %s", ErrInvalidInput.Error(), strings.Join(names, ", "))
}

func (e *InvalidInputError) Unwrap() error { return ErrInvalidInput }
