package errors

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// ErrorHandler turns errors into user facing output and exit codes.
type ErrorHandler struct{}

// NewErrorHandler creates a new ErrorHandler.
func NewErrorHandler() *ErrorHandler {
	return &ErrorHandler{}
}

// ExitCode maps an error returned by a command to the process exit code.
// Validation errors are an expected outcome and have already been shown to
// the user, so they exit with success.
func (h *ErrorHandler) ExitCode(err error) int {
	if err == nil {
		return ExitCodeSuccess
	}
	if IsValidation(err) {
		return ExitCodeSuccess
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ExitCodeTimeout
	}
	if errors.Is(err, context.Canceled) {
		return ExitCodeInterrupted
	}
	return ExitCodeGenericError
}

// FormatError formats err for the terminal.
func (h *ErrorHandler) FormatError(err error) string {
	var sb strings.Builder

	sb.WriteString(color.RedString("Error: %s\n", err.Error()))

	if suggestion := GetSuggestion(err); suggestion != "" {
		sb.WriteString("\n")
		sb.WriteString(suggestion)
		sb.WriteString("\n")
	}

	return sb.String()
}

// RenderValidation writes one line per field of a validation error.
func (h *ErrorHandler) RenderValidation(w io.Writer, err *ValidationError) {
	for _, line := range err.Lines() {
		fmt.Fprintln(w, color.YellowString("  %s", line))
	}
}
