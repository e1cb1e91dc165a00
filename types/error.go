package types

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unified error code across the runtime.
type ErrorCode string

// Registry and routing error codes
const (
	ErrSkillNotFound   ErrorCode = "SKILL_NOT_FOUND"
	ErrTriggerNotFound ErrorCode = "TRIGGER_NOT_FOUND"
	ErrTypeMismatch    ErrorCode = "TYPE_MISMATCH"
	ErrFeatureBuild    ErrorCode = "FEATURE_BUILD"
	ErrInference       ErrorCode = "INFERENCE"
	ErrSessionMissing  ErrorCode = "SESSION_MISSING"
)

// Bootstrap and update error codes
const (
	ErrBadDefinition    ErrorCode = "BAD_DEFINITION"
	ErrBadManifest      ErrorCode = "BAD_MANIFEST"
	ErrSignatureInvalid ErrorCode = "SIGNATURE_INVALID"
	ErrBuilderUnknown   ErrorCode = "BUILDER_UNKNOWN"
)

// Error represents a structured error with code, message, and cause.
type Error struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	SkillID string    `json:"skill_id,omitempty"`
	Cause   error     `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// NewError creates a new Error with the given code and message.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WithCause adds a cause to the error.
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

// WithSkill tags the error with the skill it concerns.
func (e *Error) WithSkill(id string) *Error {
	e.SkillID = id
	return e
}

// GetErrorCode extracts the error code from an error, unwrapping as
// needed. Returns "" for non-runtime errors.
func GetErrorCode(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// IsCode reports whether err carries the given runtime error code.
func IsCode(err error, code ErrorCode) bool {
	return GetErrorCode(err) == code
}

// ErrorCategory derives a coarse telemetry category from an error.
// Unknown errors fall into "internal".
func ErrorCategory(err error) string {
	switch GetErrorCode(err) {
	case ErrSkillNotFound, ErrTriggerNotFound:
		return "not_found"
	case ErrTypeMismatch:
		return "type_mismatch"
	case ErrFeatureBuild:
		return "feature_build"
	case ErrInference, ErrSessionMissing:
		return "inference"
	case ErrBadDefinition, ErrBuilderUnknown:
		return "definition"
	case ErrBadManifest, ErrSignatureInvalid:
		return "manifest"
	default:
		return "internal"
	}
}
