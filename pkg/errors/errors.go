// Package errors provides custom error types for the hubsync system.
// These errors classify failures by the stage that produced them so the
// dispatchers can isolate per-job failures while configuration problems
// stay fatal.
package errors

import (
	"errors"
	"fmt"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Is and As are re-exported so callers need a single errors import.
var (
	Is = errors.Is
	As = errors.As
)

// Common sentinel errors for the hubsync system
var (
	// ErrConfig indicates a malformed or incomplete configuration
	ErrConfig = errors.New("configuration error")

	// ErrQuery indicates a failed catalog query (network, auth, timeout)
	ErrQuery = errors.New("query failed")

	// ErrWrite indicates a failed filesystem write
	ErrWrite = errors.New("write failed")

	// ErrReconcile indicates a failed comparison of two title files
	ErrReconcile = errors.New("reconcile failed")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthorized indicates the endpoint rejected the credentials
	ErrUnauthorized = errors.New("unauthorized")

	// ErrEndpointUnavailable indicates that an endpoint is temporarily unavailable
	ErrEndpointUnavailable = errors.New("endpoint unavailable")

	// ErrNotFound indicates that a requested resource was not found
	ErrNotFound = errors.New("not found")
)

// ConfigError represents a configuration error
type ConfigError struct {
	Component string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Message)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *ConfigError) Is(target error) bool {
	return target == ErrConfig
}

// NewConfigError creates a new ConfigError
func NewConfigError(component, message string, err error) *ConfigError {
	return &ConfigError{
		Component: component,
		Message:   message,
		Err:       err,
	}
}

// ValidationError represents a validation failure of a single field
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// Is implements errors.Is support
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field string, value any, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// APIError represents a non-success response from a catalog endpoint
type APIError struct {
	Endpoint   string
	StatusCode int
	Message    string
	Err        error
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("API error from %s (status %d): %s", e.Endpoint, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("API error from %s: %s", e.Endpoint, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *APIError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *APIError) Is(target error) bool {
	if e.StatusCode >= 500 || e.StatusCode == 429 {
		return target == ErrEndpointUnavailable
	}
	return false
}

// AuthenticationError represents rejected credentials
type AuthenticationError struct {
	Endpoint string
	Method   string
	Message  string
	Err      error
}

// Error implements the error interface
func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("authentication error for %s (%s): %s", e.Endpoint, e.Method, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *AuthenticationError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *AuthenticationError) Is(target error) bool {
	return target == ErrUnauthorized
}

// QueryError is a failed catalog query for one job.
type QueryError struct {
	Endpoint string
	Job      string
	Err      error
}

// Error implements the error interface
func (e *QueryError) Error() string {
	if e.Job != "" {
		return fmt.Sprintf("query %s against %s: %v", e.Job, e.Endpoint, e.Err)
	}
	return fmt.Sprintf("query against %s: %v", e.Endpoint, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *QueryError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *QueryError) Is(target error) bool {
	return target == ErrQuery
}

// NewQueryError creates a new QueryError
func NewQueryError(endpoint, job string, err error) *QueryError {
	return &QueryError{Endpoint: endpoint, Job: job, Err: err}
}

// WriteError is a failed title or diff file write.
type WriteError struct {
	Path string
	Err  error
}

// Error implements the error interface
func (e *WriteError) Error() string {
	return fmt.Sprintf("write %s: %v", e.Path, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *WriteError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *WriteError) Is(target error) bool {
	return target == ErrWrite
}

// NewWriteError creates a new WriteError
func NewWriteError(path string, err error) *WriteError {
	return &WriteError{Path: path, Err: err}
}

// ReconcileError is a failed comparison in one output directory.
type ReconcileError struct {
	Directory string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *ReconcileError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("reconcile %s: %s: %v", e.Directory, e.Message, e.Err)
	}
	return fmt.Sprintf("reconcile %s: %s", e.Directory, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ReconcileError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *ReconcileError) Is(target error) bool {
	return target == ErrReconcile
}

// NewReconcileError creates a new ReconcileError
func NewReconcileError(directory, message string, err error) *ReconcileError {
	return &ReconcileError{Directory: directory, Message: message, Err: err}
}

// ParseError represents an error when parsing data formats
type ParseError struct {
	Format  string // "json", "yaml", "geojson"
	File    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("parse error in %s file %s: %s", e.Format, e.File, e.Message)
	}
	return fmt.Sprintf("%s parse error: %s", e.Format, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError creates a new ParseError
func NewParseError(format, file string, message string, err error) *ParseError {
	return &ParseError{
		Format:  format,
		File:    file,
		Message: message,
		Err:     err,
	}
}

// IOError represents an error during I/O operations
type IOError struct {
	Operation string // "read", "write", "create", "remove", "walk"
	Path      string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("IO error during %s of %s: %s", e.Operation, e.Path, e.Message)
	}
	return fmt.Sprintf("IO error during %s: %s", e.Operation, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *IOError) Unwrap() error {
	return e.Err
}

// NewIOError creates a new IOError
func NewIOError(operation, path string, err error) *IOError {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &IOError{
		Operation: operation,
		Path:      path,
		Message:   message,
		Err:       err,
	}
}

// Helper functions for error checking

// IsConfig checks if an error is a configuration error
func IsConfig(err error) bool {
	return errors.Is(err, ErrConfig)
}

// IsQuery checks if an error is a query error
func IsQuery(err error) bool {
	return errors.Is(err, ErrQuery)
}

// IsWrite checks if an error is a write error
func IsWrite(err error) bool {
	return errors.Is(err, ErrWrite)
}

// IsReconcile checks if an error is a reconcile error
func IsReconcile(err error) bool {
	return errors.Is(err, ErrReconcile)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsUnauthorized checks if an error is an authentication error
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// IsEndpointUnavailable checks if an error indicates endpoint unavailability
func IsEndpointUnavailable(err error) bool {
	return errors.Is(err, ErrEndpointUnavailable)
}

// Helper wrapping functions for common patterns

// WrapIO wraps an error as an IOError
func WrapIO(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return NewIOError(operation, path, err)
}

// WrapParse wraps an error as a ParseError
func WrapParse(format, file string, err error) error {
	if err == nil {
		return nil
	}
	return NewParseError(format, file, err.Error(), err)
}

// WrapWrite wraps an error as a WriteError
func WrapWrite(path string, err error) error {
	if err == nil {
		return nil
	}
	return NewWriteError(path, err)
}
