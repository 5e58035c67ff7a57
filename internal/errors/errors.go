package errors

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// ErrorType classifies a SiteshipError.
type ErrorType int

const (
	// ErrTypeUnknown is the zero value.
	ErrTypeUnknown ErrorType = iota
	// ErrTypeValidation is a 4xx response carrying per-field messages.
	ErrTypeValidation
	// ErrTypeAuth means the command needs a session that does not exist.
	ErrTypeAuth
	// ErrTypeConfig covers reading or writing local files.
	ErrTypeConfig
	// ErrTypeNetwork covers transport failures.
	ErrTypeNetwork
	// ErrTypeArchive covers failures while building the upload archive.
	ErrTypeArchive
	// ErrTypeAPI is an unexpected response from the deployment API.
	ErrTypeAPI
	// ErrTypeFatal is anything else that aborts the command.
	ErrTypeFatal
)

func (t ErrorType) String() string {
	switch t {
	case ErrTypeValidation:
		return "validation"
	case ErrTypeAuth:
		return "auth"
	case ErrTypeConfig:
		return "config"
	case ErrTypeNetwork:
		return "network"
	case ErrTypeArchive:
		return "archive"
	case ErrTypeAPI:
		return "api"
	case ErrTypeFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// SiteshipError is the common error structure used across packages.
type SiteshipError struct {
	Type       ErrorType
	Message    string
	Cause      error
	Suggestion string
}

// Error implements the error interface.
func (e *SiteshipError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap supports errors.Is and errors.As.
func (e *SiteshipError) Unwrap() error {
	return e.Cause
}

// Is matches another SiteshipError of the same type and message, so the
// predefined errors below work as sentinels even after WithSuggestion copies.
func (e *SiteshipError) Is(target error) bool {
	t, ok := target.(*SiteshipError)
	if !ok {
		return false
	}
	return e.Type == t.Type && e.Message == t.Message
}

// WithSuggestion returns a copy of e carrying a hint for the user.
func (e *SiteshipError) WithSuggestion(suggestion string) *SiteshipError {
	c := *e
	c.Suggestion = suggestion
	return &c
}

// New creates a SiteshipError.
func New(errType ErrorType, message string) *SiteshipError {
	return &SiteshipError{
		Type:    errType,
		Message: message,
	}
}

// Wrap wraps an existing error.
func Wrap(errType ErrorType, message string, cause error) *SiteshipError {
	return &SiteshipError{
		Type:    errType,
		Message: message,
		Cause:   cause,
	}
}

// Predefined errors
var (
	ErrNotLoggedIn = New(ErrTypeAuth, "not logged in").WithSuggestion("Run 'siteship login' or 'siteship register' first")
	ErrNotFound    = New(ErrTypeConfig, "not found")
	ErrEmptyInput  = New(ErrTypeValidation, "input cannot be empty")
	ErrAborted     = New(ErrTypeFatal, "aborted")
)

// ValidationError is returned for 4xx responses. The API answers with a JSON
// object mapping each offending field to one message or a list of messages.
type ValidationError struct {
	StatusCode int
	Fields     FieldErrors
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed (status %d): %s", e.StatusCode, strings.Join(e.Lines(), ", "))
}

// Lines renders one line per field, sorted by field name.
func (e *ValidationError) Lines() []string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	lines := make([]string, 0, len(names))
	for _, name := range names {
		lines = append(lines, fmt.Sprintf("%s: %s", name, strings.Join(e.Fields[name], "; ")))
	}
	return lines
}

// StatusError is any response status the workflow does not know how to handle.
type StatusError struct {
	Operation  string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: unexpected API response: %d %s", e.Operation, e.StatusCode, http.StatusText(e.StatusCode))
}

// GetType returns the ErrorType of err.
func GetType(err error) ErrorType {
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return ErrTypeValidation
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return ErrTypeAPI
	}
	var siteshipErr *SiteshipError
	if errors.As(err, &siteshipErr) {
		return siteshipErr.Type
	}
	return ErrTypeUnknown
}

// GetSuggestion returns the suggestion attached to err, if any.
func GetSuggestion(err error) string {
	var siteshipErr *SiteshipError
	if errors.As(err, &siteshipErr) {
		return siteshipErr.Suggestion
	}
	return ""
}

// IsValidation reports whether err carries per-field validation messages.
func IsValidation(err error) bool {
	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}
