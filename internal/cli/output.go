package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"ntf/internal/client"
	"ntf/internal/domain"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // The API answered with a domain error (not found, payload error)
	ExitCommandError = 2 // Bad arguments or the API could not be reached
)

// Error codes reported in the output.
const (
	ErrCodeNotFound        = "NOT_FOUND"
	ErrCodePayload         = "PAYLOAD_ERROR"
	ErrCodeRequest         = "REQUEST_ERROR"
	ErrCodeResponse        = "RESPONSE_ERROR"
	ErrCodeInvalidArgument = "INVALID_ARGUMENT"
)

// ExitError carries the exit code of a failed command whose error has
// already been written by the formatter.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// GetExitCode extracts the exit code from an error. Errors that are not an
// ExitError come from argument parsing and map to ExitCommandError.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitCommandError
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format string
	Writer io.Writer
}

// CLIResponse is the JSON envelope of every command.
type CLIResponse struct {
	Status string    `json:"status"`
	Data   any       `json:"data,omitempty"`
	Error  *CLIError `json:"error,omitempty"`
}

type CLIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// Success writes data, prefixed by label in text mode.
func (f *OutputFormatter) Success(label string, data any) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{Status: "ok", Data: data})
	}
	if label == "" {
		_, err := fmt.Fprintf(f.Writer, "%+v\n", data)
		return err
	}
	_, err := fmt.Fprintf(f.Writer, "%s%+v\n", label, data)
	return err
}

func (f *OutputFormatter) Error(code, message string, details any) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "error",
			Error:  &CLIError{Code: code, Message: message, Details: details},
		})
	}
	_, err := fmt.Fprintf(f.Writer, "Error [%s]: %s\n", code, message)
	return err
}

// Fail reports err through the formatter and returns the matching
// ExitError.
func (f *OutputFormatter) Fail(err error) error {
	code, exit, details := classify(err)
	if writeErr := f.Error(code, err.Error(), details); writeErr != nil {
		return &ExitError{Code: ExitCommandError, Message: "write output", Err: writeErr}
	}
	return &ExitError{Code: exit, Message: code, Err: err}
}

func classify(err error) (string, int, any) {
	var notFound *domain.NotFoundError
	var payloadErr *client.PayloadError
	switch {
	case errors.As(err, &notFound):
		return ErrCodeNotFound, ExitFailure, map[string]uint64{"id": notFound.ID}
	case errors.As(err, &payloadErr):
		return ErrCodePayload, ExitFailure, map[string]string{"detail": payloadErr.Detail}
	case errors.Is(err, client.ErrRequest):
		return ErrCodeRequest, ExitCommandError, nil
	case errors.Is(err, client.ErrResponse):
		return ErrCodeResponse, ExitCommandError, nil
	default:
		return ErrCodeInvalidArgument, ExitCommandError, nil
	}
}
