// MoodMirror - Emotion Reaction Statistics for Interactive Installations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodmirror

package ingest

import (
	"errors"
	"fmt"
)

// Sentinel errors matched with errors.Is against a *RejectionError.
var (
	ErrMethodNotAllowed = errors.New("method not allowed")
	ErrRateLimited      = errors.New("rate limit exceeded")
	ErrInvalidPayload   = errors.New("invalid payload")
	ErrInvalidField     = errors.New("invalid field")
	ErrStorage          = errors.New("storage error")
)

// Kind classifies a rejected submission.
type Kind int

const (
	KindMethodNotAllowed Kind = iota + 1
	KindRateLimited
	KindInvalidPayload
	KindInvalidField
	KindStorage
)

// String returns the metrics label for k.
func (k Kind) String() string {
	switch k {
	case KindMethodNotAllowed:
		return "method_not_allowed"
	case KindRateLimited:
		return "rate_limited"
	case KindInvalidPayload:
		return "invalid_payload"
	case KindInvalidField:
		return "invalid_field"
	case KindStorage:
		return "storage_error"
	default:
		return "unknown"
	}
}

func (k Kind) sentinel() error {
	switch k {
	case KindMethodNotAllowed:
		return ErrMethodNotAllowed
	case KindRateLimited:
		return ErrRateLimited
	case KindInvalidPayload:
		return ErrInvalidPayload
	case KindInvalidField:
		return ErrInvalidField
	case KindStorage:
		return ErrStorage
	default:
		return nil
	}
}

// RejectionError reports why a submission was not accepted. Message is the
// client-facing text; Err carries the underlying cause for storage errors.
type RejectionError struct {
	Kind    Kind
	Field   string
	Message string
	Err     error
}

func (e *RejectionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Is matches the sentinel for the error's kind.
func (e *RejectionError) Is(target error) bool {
	return target != nil && target == e.Kind.sentinel()
}

func (e *RejectionError) Unwrap() error {
	return e.Err
}

func methodNotAllowed() *RejectionError {
	return &RejectionError{Kind: KindMethodNotAllowed, Message: "Method not allowed"}
}

func rateLimited() *RejectionError {
	return &RejectionError{Kind: KindRateLimited, Message: "Rate limit exceeded"}
}

func invalidPayload() *RejectionError {
	return &RejectionError{Kind: KindInvalidPayload, Message: "Invalid JSON"}
}

func invalidField(field string) *RejectionError {
	return &RejectionError{Kind: KindInvalidField, Field: field, Message: "Invalid " + field}
}

func invalidScore(field string) *RejectionError {
	return &RejectionError{Kind: KindInvalidField, Field: field, Message: "Invalid score: " + field}
}

func storageFailure(err error) *RejectionError {
	return &RejectionError{Kind: KindStorage, Message: "Failed to save reaction", Err: err}
}

// AsRejection extracts a *RejectionError from err.
func AsRejection(err error) (*RejectionError, bool) {
	var re *RejectionError
	if errors.As(err, &re) {
		return re, true
	}
	return nil, false
}
