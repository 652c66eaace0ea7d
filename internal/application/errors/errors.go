// Package apperrors defines application-level error types.
//
// Every type carries the HTTP status it is surfaced with and an Error()
// message that is safe to return to the caller as-is.
package apperrors

import (
	"fmt"
	"net/http"
)

// Caller-facing messages.
const (
	MsgMethodNotAllowed    = "Method Not Allowed"
	MsgURLRequired         = "URL is required."
	MsgInvalidRequestBody  = "Invalid request body."
	MsgInvalidURLFormat    = "Invalid URL format."
	MsgUnsupportedProtocol = "Only HTTP and HTTPS protocols are allowed."
	MsgInternalResource    = "Access to internal resources is forbidden."
)

// InputError indicates the caller sent something unusable: a wrong method,
// a missing or malformed URL. Never retried.
type InputError struct {
	Message string
	Status  int
}

func (e *InputError) Error() string {
	return e.Message
}

// StatusCode returns the HTTP status for the error.
func (e *InputError) StatusCode() int {
	return e.Status
}

// NewInputError creates a 400 input error.
func NewInputError(message string) *InputError {
	return &InputError{Message: message, Status: http.StatusBadRequest}
}

// NewMethodNotAllowedError creates a 405 input error.
func NewMethodNotAllowedError() *InputError {
	return &InputError{Message: MsgMethodNotAllowed, Status: http.StatusMethodNotAllowed}
}

// PolicyError indicates the guard rejected the target. This is intended
// behaviour, not a fault.
type PolicyError struct {
	Reason  string // guard reason, e.g. "internal resource"
	Message string
	Status  int
}

func (e *PolicyError) Error() string {
	return e.Message
}

// StatusCode returns the HTTP status for the error.
func (e *PolicyError) StatusCode() int {
	return e.Status
}

// NewPolicyError creates a new policy error.
func NewPolicyError(reason, message string, status int) *PolicyError {
	return &PolicyError{
		Reason:  reason,
		Message: message,
		Status:  status,
	}
}

// UpstreamError indicates the target answered with a non-2xx status. The
// target's own status code is surfaced.
type UpstreamError struct {
	Reason  string // reason phrase, e.g. "Not Found"
	Snippet string // truncated response body, may be empty
	Code    int
}

func (e *UpstreamError) Error() string {
	msg := fmt.Sprintf("Failed to fetch URL: %d %s", e.Code, e.Reason)
	if e.Snippet != "" {
		msg += " - " + e.Snippet + "..."
	}
	return msg
}

// StatusCode returns the target's status code.
func (e *UpstreamError) StatusCode() int {
	return e.Code
}

// NewUpstreamError creates a new upstream error.
func NewUpstreamError(code int, reason, snippet string) *UpstreamError {
	return &UpstreamError{
		Code:    code,
		Reason:  reason,
		Snippet: snippet,
	}
}

// TransportError indicates the request never produced a response: DNS
// failure, refused connection, timeout. Sub-causes are not distinguished.
type TransportError struct {
	Cause error
}

func (e *TransportError) Error() string {
	if e.Cause == nil {
		return "Network error"
	}
	return fmt.Sprintf("Network error: %v", e.Cause)
}

func (e *TransportError) Unwrap() error {
	return e.Cause
}

// StatusCode returns the HTTP status for the error.
func (e *TransportError) StatusCode() int {
	return http.StatusInternalServerError
}

// NewTransportError creates a new transport error.
func NewTransportError(cause error) *TransportError {
	return &TransportError{Cause: cause}
}

// ConfigurationError indicates system config or setup issue.
type ConfigurationError struct {
	Cause   error
	Aspect  string
	Message string
}

func (e *ConfigurationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("configuration error (%s): %s: %v", e.Aspect, e.Message, e.Cause)
	}
	return fmt.Sprintf("configuration error (%s): %s", e.Aspect, e.Message)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Cause
}

// NewConfigurationError creates a new configuration error.
func NewConfigurationError(aspect, message string, cause error) *ConfigurationError {
	return &ConfigurationError{
		Aspect:  aspect,
		Message: message,
		Cause:   cause,
	}
}
