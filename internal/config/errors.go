package config

import (
	"errors"
	"fmt"
)

// ErrorType represents the category of a document error
type ErrorType int

const (
	// ErrTypeMissing indicates a required group, array or value was not found
	ErrTypeMissing ErrorType = iota
	// ErrTypeMismatch indicates an entry exists but has the wrong shape or kind
	ErrTypeMismatch
	// ErrTypeAdapter indicates a format adapter failed to parse or serialize
	ErrTypeAdapter
	// ErrTypeScope indicates an unbalanced enter/end sequence on a cursor
	ErrTypeScope
	// ErrTypeIO indicates reading or stat-ing the source file failed
	ErrTypeIO
	// ErrTypeDocument carries the messages accumulated by a ReaderWriter
	ErrTypeDocument
)

// Sentinel errors for errors.Is checks
var (
	ErrNotFound = errors.New("not found")
	ErrMismatch = errors.New("type mismatch")
	ErrScope    = errors.New("scope violation")
)

// String returns a human-readable name for the error type
func (et ErrorType) String() string {
	switch et {
	case ErrTypeMissing:
		return "Missing"
	case ErrTypeMismatch:
		return "Type Mismatch"
	case ErrTypeAdapter:
		return "Adapter Error"
	case ErrTypeScope:
		return "Scope Error"
	case ErrTypeIO:
		return "I/O Error"
	case ErrTypeDocument:
		return "Document Error"
	default:
		return fmt.Sprintf("ErrorType(%d)", et)
	}
}

// ConfigError describes a failure on a document or one of its adapters
type ConfigError struct {
	Type    ErrorType // Category of error
	Message string    // Human-readable error message
	Path    string    // Node path inside the document (if known)
	Source  string    // Document source (file path or tag)
	Err     error     // Underlying error (if any)
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Type, e.Message)
	if e.Path != "" {
		msg += fmt.Sprintf(" (at %s)", e.Path)
	}
	if e.Source != "" {
		msg += fmt.Sprintf(" (source: %s)", e.Source)
	}
	if e.Err != nil {
		msg += fmt.Sprintf(" (caused by: %v)", e.Err)
	}
	return msg
}

// Unwrap returns the underlying error for error chain inspection
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Is maps error categories onto the package sentinels
func (e *ConfigError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.Type == ErrTypeMissing
	case ErrMismatch:
		return e.Type == ErrTypeMismatch
	case ErrScope:
		return e.Type == ErrTypeScope
	}
	return false
}

// NewMismatchError creates a shape or kind mismatch error
func NewMismatchError(message, path string) *ConfigError {
	return &ConfigError{Type: ErrTypeMismatch, Message: message, Path: path}
}

// NewMissingError creates a not-found error
func NewMissingError(message, path string) *ConfigError {
	return &ConfigError{Type: ErrTypeMissing, Message: message, Path: path}
}

// NewAdapterError wraps a format adapter failure
func NewAdapterError(message string, err error) *ConfigError {
	return &ConfigError{Type: ErrTypeAdapter, Message: message, Err: err}
}

// NewScopeError creates a scope discipline error
func NewScopeError(message string) *ConfigError {
	return &ConfigError{Type: ErrTypeScope, Message: message}
}

// IsMismatch reports whether err is a type or shape mismatch
func IsMismatch(err error) bool {
	return errors.Is(err, ErrMismatch)
}

// IsNotFound reports whether err is a missing-entry error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
