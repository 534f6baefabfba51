package conversion

import (
	"context"
	"errors"
	"fmt"

	"subcorpus/internal/charset"
)

// Failure kinds recorded for failed documents.
const (
	KindEncoding  = "encoding"
	KindTokenizer = "tokenizer"
	KindInput     = "input"
	KindOutput    = "output"
	KindCanceled  = "canceled"
	KindInternal  = "internal"
)

// Error is a classified conversion failure.
type Error struct {
	Kind string
	Op   string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// ErrorKind returns the failure classification.
func (e *Error) ErrorKind() string { return e.Kind }

func wrap(kind, op string, err error) error {
	if err == nil {
		return nil
	}
	var classified *Error
	if errors.As(err, &classified) {
		return err
	}
	return &Error{Kind: kind, Op: op, Err: err}
}

// FailureKind classifies err for reporting.
func FailureKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return KindCanceled
	case errors.Is(err, charset.ErrExhausted), errors.Is(err, charset.ErrLowConfidence), errors.Is(err, charset.ErrDisallowed):
		return KindEncoding
	}
	var classified *Error
	if errors.As(err, &classified) {
		return classified.Kind
	}
	return KindInternal
}
