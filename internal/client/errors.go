package client

import (
	"errors"
	"fmt"
)

// ErrNoResponse matches every TransportError.
var ErrNoResponse = errors.New("no response from analysis service")

// TransportError is returned when no usable response was obtained.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrNoResponse.Error(), e.Op, e.Err)
}

func (e *TransportError) Unwrap() []error { return []error{ErrNoResponse, e.Err} }

// ServiceError is a non-2xx response from the analysis service.
type ServiceError struct {
	StatusCode int
	// Detail is the string "detail" field of the body, if any.
	Detail string
	Body   string
}

func (e *ServiceError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("analysis service error (status %d): %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("analysis service error (status %d)", e.StatusCode)
}
