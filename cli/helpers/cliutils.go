package helpers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/compozy/licensegen/engine/autoload"
	"github.com/compozy/licensegen/engine/license"
	"github.com/compozy/licensegen/pkg/config"
	"github.com/compozy/licensegen/pkg/render"
)

// Error codes reported by every command.
const (
	CodeCatalogInvalid      = "CATALOG_INVALID"
	CodeNoMatch             = "NO_MATCH"
	CodeInternalConsistency = "INTERNAL_CONSISTENCY"
	CodeDriftDetected       = "DRIFT_DETECTED"
	CodeConfigInvalid       = "CONFIG_INVALID"
	CodeOutputCollision     = "OUTPUT_COLLISION"
	CodeInvalidArgs         = "INVALID_ARGS"
	CodeInternal            = "INTERNAL_ERROR"
)

// CliError represents a CLI-specific error with enhanced context
type CliError struct {
	Code      string         `json:"code"`
	Message   string         `json:"message"`
	Details   string         `json:"details,omitempty"`
	Context   map[string]any `json:"context,omitempty"`
	Timestamp time.Time      `json:"timestamp"`

	cause error
}

func (e *CliError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *CliError) Unwrap() error {
	return e.cause
}

// NewCliError creates a new CLI error with context
func NewCliError(code, message string, details ...string) *CliError {
	err := &CliError{
		Code:      code,
		Message:   message,
		Timestamp: time.Now(),
		Context:   make(map[string]any),
	}
	if len(details) > 0 {
		err.Details = details[0]
	}
	return err
}

// WithContext adds context to the error
func (e *CliError) WithContext(key string, value any) *CliError {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// WithCause keeps err reachable through errors.Is and errors.As.
func (e *CliError) WithCause(err error) *CliError {
	e.cause = err
	return e
}

// ToCliError classifies err into a CliError. Existing CliErrors pass through.
func ToCliError(err error) *CliError {
	if err == nil {
		return nil
	}
	var cliErr *CliError
	if errors.As(err, &cliErr) {
		return cliErr
	}
	var (
		code    string
		message string
		fileErr *autoload.FileError
	)
	switch {
	case errors.Is(err, license.ErrInternalConsistency):
		code, message = CodeInternalConsistency, "resolution matched more than one catalog entry"
	case errors.Is(err, license.ErrValidation):
		code, message = CodeCatalogInvalid, "license catalog is invalid"
	case errors.As(err, &fileErr):
		code, message = CodeCatalogInvalid, "license catalog file is invalid"
	case errors.Is(err, license.ErrNoMatch):
		code, message = CodeNoMatch, "no catalog entry matches"
	case errors.Is(err, render.ErrDrift):
		code, message = CodeDriftDetected, "generated files are out of date"
	case errors.Is(err, render.ErrCollision):
		code, message = CodeOutputCollision, "generated output collides"
	case errors.Is(err, config.ErrInvalid):
		code, message = CodeConfigInvalid, "configuration is invalid"
	default:
		code, message = CodeInternal, "command failed"
	}
	return NewCliError(code, message, err.Error()).WithCause(err)
}

// ExitCode maps an error to the process exit status.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	switch ToCliError(err).Code {
	case CodeDriftDetected, CodeNoMatch:
		return 2
	default:
		return 1
	}
}

// FormatError renders err for the given output format.
func FormatError(err error, format OutputFormat) string {
	if err == nil {
		return ""
	}
	cliErr := ToCliError(err)
	if format == OutputFormatJSON {
		data, mErr := json.MarshalIndent(map[string]any{"error": cliErr}, "", "  ")
		if mErr != nil {
			return fmt.Sprintf(`{"error": {"code": %q}}`, cliErr.Code)
		}
		return string(data)
	}
	result := errorStyle.Render(fmt.Sprintf("%s: %s", cliErr.Code, cliErr.Message))
	if cliErr.Details != "" {
		result += "\n" + detailStyle.Render(cliErr.Details)
	}
	return result
}

// OutputError writes err to w in the given format.
func OutputError(w io.Writer, err error, format OutputFormat) {
	if err == nil {
		return
	}
	fmt.Fprintln(w, FormatError(err, format))
}

var (
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true)
	detailStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888")).Italic(true)
)
