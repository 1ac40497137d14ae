// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package errors defines the error taxonomy shared by both front-ends of the gateway.
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Error types
const (
	// ErrMissingCredential is returned when no API key could be resolved from any source
	ErrMissingCredential = "missing_credential"

	// ErrInvalidCredentialFormat is returned when a resolved API key fails syntactic validation
	ErrInvalidCredentialFormat = "invalid_credential_format"

	// ErrUnknownOperation is returned when a tool name is not in the registry
	ErrUnknownOperation = "unknown_operation"

	// ErrInvalidParameters is returned when tool parameters violate the tool's schema
	ErrInvalidParameters = "invalid_parameters"

	// ErrUpstreamAuthFailure is returned when the vendor token endpoint rejects the credentials
	ErrUpstreamAuthFailure = "upstream_auth_failure"

	// ErrUpstreamRequestFailure is returned when a vendor API call fails
	ErrUpstreamRequestFailure = "upstream_request_failure"

	// ErrTransportStartupFailure is returned when a front-end cannot start
	ErrTransportStartupFailure = "transport_startup_failure"

	// ErrInternal is returned when there is an internal error
	ErrInternal = "internal"
)

// Error represents an error in the application
type Error struct {
	// Type is the error type
	Type string

	// Message is the error message
	Message string

	// Cause is the underlying error
	Cause error
}

// Error returns the error message
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %s", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// NewError creates a new error
func NewError(errorType, message string, cause error) *Error {
	return &Error{
		Type:    errorType,
		Message: message,
		Cause:   cause,
	}
}

// UnknownOperationError carries the name that failed to resolve and the names that would have.
type UnknownOperationError struct {
	Name  string
	Known []string
}

func (e *UnknownOperationError) Error() string {
	return fmt.Sprintf("tool '%s' not found, available tools: %s", e.Name, strings.Join(e.Known, ", "))
}

// UpstreamRequestError describes a failed vendor API call. Status is 0 when no
// response was received (connection failure or timeout).
type UpstreamRequestError struct {
	Method string
	Path   string
	Status int
	Body   []byte
	Err    error
}

func (e *UpstreamRequestError) Error() string {
	if e.Status == 0 {
		if e.Err != nil {
			return fmt.Sprintf("%s %s: no response from upstream: %v", e.Method, e.Path, e.Err)
		}
		return fmt.Sprintf("%s %s: no response from upstream", e.Method, e.Path)
	}
	body := strings.TrimSpace(string(e.Body))
	if body == "" {
		return fmt.Sprintf("%s %s returned status %d", e.Method, e.Path, e.Status)
	}
	return fmt.Sprintf("%s %s returned status %d: %s", e.Method, e.Path, e.Status, body)
}

func (e *UpstreamRequestError) Unwrap() error {
	return e.Err
}

// NewMissingCredentialError creates a new missing credential error
func NewMissingCredentialError(message string) *Error {
	return NewError(ErrMissingCredential, message, nil)
}

// NewInvalidCredentialFormatError creates a new invalid credential format error
func NewInvalidCredentialFormatError(message string) *Error {
	return NewError(ErrInvalidCredentialFormat, message, nil)
}

// NewUnknownOperationError creates a new unknown operation error listing the valid names
func NewUnknownOperationError(name string, known []string) *Error {
	return NewError(ErrUnknownOperation, "unknown tool", &UnknownOperationError{Name: name, Known: known})
}

// NewInvalidParametersError creates a new invalid parameters error
func NewInvalidParametersError(message string, cause error) *Error {
	return NewError(ErrInvalidParameters, message, cause)
}

// NewUpstreamAuthError creates a new upstream authentication error
func NewUpstreamAuthError(message string, cause error) *Error {
	return NewError(ErrUpstreamAuthFailure, message, cause)
}

// NewUpstreamRequestError creates a new upstream request error
func NewUpstreamRequestError(method, path string, status int, body []byte, cause error) *Error {
	return NewError(ErrUpstreamRequestFailure, "upstream request failed",
		&UpstreamRequestError{Method: method, Path: path, Status: status, Body: body, Err: cause})
}

// NewTransportStartupError creates a new transport startup error
func NewTransportStartupError(message string, cause error) *Error {
	return NewError(ErrTransportStartupFailure, message, cause)
}

// NewInternalError creates a new internal error
func NewInternalError(message string, cause error) *Error {
	return NewError(ErrInternal, message, cause)
}

// TypeOf returns the taxonomy type of err, or ErrInternal when err carries none.
func TypeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Type
	}
	return ErrInternal
}

func isType(err error, errorType string) bool {
	var e *Error
	return errors.As(err, &e) && e.Type == errorType
}

// IsMissingCredential checks if the error is a missing credential error
func IsMissingCredential(err error) bool {
	return isType(err, ErrMissingCredential)
}

// IsInvalidCredentialFormat checks if the error is an invalid credential format error
func IsInvalidCredentialFormat(err error) bool {
	return isType(err, ErrInvalidCredentialFormat)
}

// IsUnknownOperation checks if the error is an unknown operation error
func IsUnknownOperation(err error) bool {
	return isType(err, ErrUnknownOperation)
}

// IsInvalidParameters checks if the error is an invalid parameters error
func IsInvalidParameters(err error) bool {
	return isType(err, ErrInvalidParameters)
}

// IsUpstreamAuthFailure checks if the error is an upstream authentication error
func IsUpstreamAuthFailure(err error) bool {
	return isType(err, ErrUpstreamAuthFailure)
}

// IsUpstreamRequestFailure checks if the error is an upstream request error
func IsUpstreamRequestFailure(err error) bool {
	return isType(err, ErrUpstreamRequestFailure)
}

// IsTransportStartupFailure checks if the error is a transport startup error
func IsTransportStartupFailure(err error) bool {
	return isType(err, ErrTransportStartupFailure)
}

// IsClientError reports whether err was caused by the caller's input rather than
// by the gateway or the upstream API.
func IsClientError(err error) bool {
	switch TypeOf(err) {
	case ErrMissingCredential, ErrInvalidCredentialFormat, ErrUnknownOperation, ErrInvalidParameters:
		return true
	default:
		return false
	}
}

// StatusCode maps err onto the HTTP status the REST front-end responds with.
func StatusCode(err error) int {
	switch TypeOf(err) {
	case ErrMissingCredential, ErrInvalidCredentialFormat, ErrInvalidParameters:
		return http.StatusBadRequest
	case ErrUnknownOperation:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// KnownOperations returns the valid tool names carried by an unknown operation error.
func KnownOperations(err error) []string {
	var e *UnknownOperationError
	if errors.As(err, &e) {
		return e.Known
	}
	return nil
}

// UpstreamStatus returns the vendor HTTP status carried by err, if any.
func UpstreamStatus(err error) (int, bool) {
	var e *UpstreamRequestError
	if errors.As(err, &e) {
		return e.Status, true
	}
	return 0, false
}
