// Package util provides logging helpers and the common error types of the
// bond audit pipeline.
package util

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the fatal audit outcomes
var (
	ErrNoBonding        = errors.New("no bonding configured")
	ErrModeMismatch     = errors.New("bonding mode is not active-backup")
	ErrLinkDown         = errors.New("bond member link down")
	ErrParse            = errors.New("bond status parse error")
	ErrValidationFailed = errors.New("validation failed")
)

// ModeError reports a bond whose mode is not active-backup.
type ModeError struct {
	Bond string
	Mode string
}

func (e *ModeError) Error() string {
	mode := e.Mode
	if mode == "" {
		mode = "unknown"
	}
	return fmt.Sprintf("Bonding mode is not active-backup (%s: %s)", e.Bond, mode)
}

func (e *ModeError) Unwrap() error {
	return ErrModeMismatch
}

// NewModeError creates a mode mismatch error
func NewModeError(bond, mode string) *ModeError {
	return &ModeError{Bond: bond, Mode: mode}
}

// DownLink names a member interface reporting link-down.
type DownLink struct {
	Bond      string
	Interface string
	Status    string
}

func (l DownLink) String() string {
	return fmt.Sprintf("NIC %s of %s is %s", l.Interface, l.Bond, l.Status)
}

// LinkDownError collects every down member found across all bonds.
type LinkDownError struct {
	Links []DownLink
}

func (e *LinkDownError) Error() string {
	parts := make([]string, len(e.Links))
	for i, l := range e.Links {
		parts[i] = l.String()
	}
	return strings.Join(parts, "; ")
}

func (e *LinkDownError) Unwrap() error {
	return ErrLinkDown
}

// ParseError reports a bond status text that breaks the name/status line
// adjacency convention.
type ParseError struct {
	Bond   string
	Line   int
	Reason string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parsing status of %s at line %d: %s", e.Bond, e.Line, e.Reason)
	}
	return fmt.Sprintf("parsing status of %s: %s", e.Bond, e.Reason)
}

func (e *ParseError) Unwrap() error {
	return ErrParse
}

// NewParseError creates a parse error
func NewParseError(bond string, line int, reason string) *ParseError {
	return &ParseError{Bond: bond, Line: line, Reason: reason}
}

// ValidationError represents one or more validation failures
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return "validation failed: " + e.Errors[0]
	}
	return fmt.Sprintf("validation failed:\n  - %s", strings.Join(e.Errors, "\n  - "))
}

func (e *ValidationError) Unwrap() error {
	return ErrValidationFailed
}

// NewValidationError creates a validation error from messages
func NewValidationError(messages ...string) *ValidationError {
	return &ValidationError{Errors: messages}
}

// ValidationBuilder helps accumulate validation errors
type ValidationBuilder struct {
	errors []string
}

// Add adds an error message if condition is false
func (v *ValidationBuilder) Add(condition bool, message string) *ValidationBuilder {
	if !condition {
		v.errors = append(v.errors, message)
	}
	return v
}

// AddErrorf adds a formatted error message
func (v *ValidationBuilder) AddErrorf(format string, args ...interface{}) *ValidationBuilder {
	v.errors = append(v.errors, fmt.Sprintf(format, args...))
	return v
}

// Build returns the validation error or nil if no errors
func (v *ValidationBuilder) Build() error {
	if len(v.errors) == 0 {
		return nil
	}
	return NewValidationError(v.errors...)
}
