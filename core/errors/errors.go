package errors

import (
	"errors"
	"fmt"
)

type Category string

const (
	CategoryInvalidInput    Category = "invalid_input"
	CategoryNotInitialized  Category = "not_initialized"
	CategoryConflict        Category = "conflict"
	CategoryValidation      Category = "validation_failed"
	CategoryIOFailure       Category = "io_failure"
	CategoryStateContention Category = "state_contention"
	CategoryInternalFailure Category = "internal_failure"
)

// Stable error codes surfaced in CLI envelopes. Each maps 1:1 to a rejected
// precondition or validation failure.
const (
	CodeAlreadyExists      = "already_exists"
	CodeNotInitialized     = "not_initialized"
	CodeAlreadyOpen        = "already_open"
	CodeNoSuchOpenEvent    = "no_such_open_event"
	CodeAmbiguousOpenEvent = "ambiguous_open_event"
	CodeInvalidMetadata    = "invalid_metadata"
	CodeMalformedRecord    = "malformed_record"
	CodeOutOfOrder         = "out_of_order"
	CodeUnclosedEvents     = "unclosed_events"
)

type classifiedError struct {
	category  Category
	code      string
	hint      string
	retryable bool
	cause     error
}

func (e *classifiedError) Error() string {
	if e.cause == nil {
		return "unknown error"
	}
	return e.cause.Error()
}

func (e *classifiedError) Unwrap() error {
	return e.cause
}

func (e *classifiedError) Category() Category {
	return e.category
}

func (e *classifiedError) Code() string {
	return e.code
}

func (e *classifiedError) Hint() string {
	return e.hint
}

func (e *classifiedError) Retryable() bool {
	return e.retryable
}

func Wrap(cause error, category Category, code, hint string) error {
	if cause == nil {
		return nil
	}
	return &classifiedError{
		category:  category,
		code:      code,
		hint:      hint,
		retryable: category == CategoryStateContention,
		cause:     cause,
	}
}

// Newf builds a classified error from a fresh message. Domain preconditions
// originate here rather than wrapping an underlying cause.
func Newf(category Category, code, hint, format string, args ...any) error {
	return Wrap(fmt.Errorf(format, args...), category, code, hint)
}

func CategoryOf(err error) Category {
	var classified *classifiedError
	if errors.As(err, &classified) {
		return classified.category
	}
	return ""
}

func CodeOf(err error) string {
	var classified *classifiedError
	if errors.As(err, &classified) {
		return classified.code
	}
	return ""
}

func HintOf(err error) string {
	var classified *classifiedError
	if errors.As(err, &classified) {
		return classified.hint
	}
	return ""
}

func RetryableOf(err error) bool {
	var classified *classifiedError
	if errors.As(err, &classified) {
		return classified.retryable
	}
	return false
}
