// Package aierrors defines the error taxonomy shared by the dispatcher,
// the provider adapters and the workflow coordinators. Every failure that
// reaches a caller carries a Kind so programmatic consumers can branch on
// it while users see the human-readable message.
package aierrors

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v3"
)

// Kind is a stable machine-readable error code.
type Kind string

const (
	KindModelNotFound         Kind = "model-not-found"
	KindProviderNotConfigured Kind = "provider-not-configured"
	KindAuth                  Kind = "auth-failed"
	KindRemote                Kind = "remote-error"
	KindEmptyResponse         Kind = "empty-response"
	KindCancelled             Kind = "cancelled"
	KindTimeout               Kind = "timeout"
	KindMalformedResponse     Kind = "malformed-response"
	KindAlreadyInProgress     Kind = "already-in-progress"
	KindInvalidInput          Kind = "invalid-input"
	KindNoProblemContext      Kind = "no-problem-context"
	KindUnknown               Kind = "unknown"
)

// HumanMessages provides user-facing messages per error kind.
var HumanMessages = map[Kind]string{
	KindModelNotFound:         "That model isn't available.",
	KindProviderNotConfigured: "No API key is configured for this provider.",
	KindAuth:                  "Authentication failed. Check your API key.",
	KindRemote:                "The AI provider returned an error. Try again later.",
	KindEmptyResponse:         "The AI provider returned an empty response.",
	KindCancelled:             "Request was canceled by the user.",
	KindTimeout:               "The request took too long. Please try again.",
	KindMalformedResponse:     "Failed to parse the model response.",
	KindAlreadyInProgress:     "A request is already in progress.",
	KindInvalidInput:          "Invalid input.",
	KindNoProblemContext:      "No problem has been extracted yet.",
	KindUnknown:               "Failed to generate response.",
}

// Error is the concrete error type carried across package boundaries.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates an error of the given kind with an explicit message.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf creates an error of the given kind with a formatted message.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a kind and message to an underlying cause.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// KindOf returns the kind of err, classifying foreign errors when err is
// not already an *Error.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return classify(err)
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}

func IsCancelled(err error) bool { return Is(err, KindCancelled) }
func IsTimeout(err error) bool   { return Is(err, KindTimeout) }

// HumanMessage renders a user-facing string for any error. Provider errors
// keep their remote message; everything unclassified falls back to the
// generic failure string.
func HumanMessage(err error) string {
	if err == nil {
		return ""
	}
	kind := KindOf(err)
	if msg, ok := HumanMessages[kind]; ok && kind != KindRemote {
		return msg
	}
	var ae *Error
	if errors.As(err, &ae) && ae.Message != "" {
		return ae.Error()
	}
	return HumanMessages[KindUnknown]
}

// Classify wraps a foreign error into an *Error with an inferred kind.
// Already-classified errors pass through unchanged.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return err
	}
	kind := classify(err)
	return Wrap(kind, HumanMessages[kind], err)
}

func classify(err error) Kind {
	if errors.Is(err, context.Canceled) {
		return KindCancelled
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.StatusCode == 401 || apiErr.StatusCode == 403:
			return KindAuth
		case apiErr.StatusCode == 408 || apiErr.StatusCode == 504:
			return KindTimeout
		case apiErr.StatusCode != 0:
			return KindRemote
		}
	}
	if ContainsAnyPattern(err, []string{
		"invalid api key",
		"invalid_api_key",
		"incorrect api key",
		"unauthorized",
		"forbidden",
		"access denied",
	}) {
		return KindAuth
	}
	if ContainsAnyPattern(err, []string{
		"gateway timeout",
		"deadline exceeded",
		"connection aborted",
		"request timed out",
		"timeout awaiting response",
	}) {
		return KindTimeout
	}
	if ContainsAnyPattern(err, []string{"context canceled", "operation was canceled"}) {
		return KindCancelled
	}
	return KindRemote
}

// ContainsAnyPattern reports whether the error message contains any of the
// given lowercase substrings.
func ContainsAnyPattern(err error, patterns []string) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, pattern := range patterns {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}
