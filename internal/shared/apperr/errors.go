// Package apperr defines the error kinds surfaced at the request boundary.
package apperr

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds. Wrap with Error or fmt.Errorf and classify with errors.Is.
var (
	ErrValidation       = errors.New("validation error")
	ErrRateLimited      = errors.New("rate limited")
	ErrExtractionFailed = errors.New("extraction failed")
	ErrInsufficientText = errors.New("insufficient text")
	ErrAIResponse       = errors.New("ai response error")
	ErrTimeout          = errors.New("timeout")
)

// Error carries a kind, the message key shown to the client and an internal cause.
type Error struct {
	Kind error
	Key  string
	Args []any
	Err  error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.Error())
	if e.Key != "" {
		b.WriteString(": ")
		b.WriteString(e.Key)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Is matches the kind. The cause chain is reached through Unwrap.
func (e *Error) Is(target error) bool {
	return target == e.Kind
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New returns an Error of kind with a message key.
func New(kind error, key string, args ...any) *Error {
	return &Error{Kind: kind, Key: key, Args: args}
}

// Wrap returns an Error of kind caused by err.
func Wrap(kind error, key string, err error) *Error {
	return &Error{Kind: kind, Key: key, Err: err}
}

// Validation is shorthand for New(ErrValidation, key, args...).
func Validation(key string, args ...any) *Error {
	return New(ErrValidation, key, args...)
}

// RateLimitedError reports a refused rewrite and the seconds until the next one is allowed.
type RateLimitedError struct {
	RemainingSeconds int
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("rate limited: %ds remaining", e.RemainingSeconds)
}

func (e *RateLimitedError) Is(target error) bool {
	return target == ErrRateLimited
}

// KeyOf returns the message key attached to err, if any.
func KeyOf(err error) (string, []any) {
	var e *Error
	if errors.As(err, &e) && e.Key != "" {
		return e.Key, e.Args
	}
	return "", nil
}
