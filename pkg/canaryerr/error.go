package canaryerr

import (
	"errors"
	"fmt"
)

const (
	// CodeConfig marks errors caused by configuration, such as an account name
	// that does not resolve to known credentials.
	CodeConfig = "config_error"
	// CodeBackend marks failures of the call to the remote monitoring backend.
	CodeBackend = "backend_error"
	// CodeParse marks malformed data returned by the backend.
	CodeParse = "parse_error"
	// CodeNotFound marks lookups of stored objects that do not exist.
	CodeNotFound = "not_found"
)

// Error is a typed error carrying a stable code that callers can branch on
// without inspecting backend-specific error values.
type Error struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
}

// Unwrap exposes the underlying error for errors.Is/As.
func (e *Error) Unwrap() error {
	return e.Err
}

// New constructs a new typed Error.
func New(code, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

func Config(format string, args ...any) *Error {
	return New(CodeConfig, fmt.Sprintf(format, args...), nil)
}

func Backend(err error, format string, args ...any) *Error {
	return New(CodeBackend, fmt.Sprintf(format, args...), err)
}

func Parse(err error, format string, args ...any) *Error {
	return New(CodeParse, fmt.Sprintf(format, args...), err)
}

func NotFound(format string, args ...any) *Error {
	return New(CodeNotFound, fmt.Sprintf(format, args...), nil)
}

// CodeOf returns the code of the first *Error in err's chain, or "" if there is none.
func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// Is reports whether err carries the given code.
func Is(err error, code string) bool {
	return err != nil && CodeOf(err) == code
}
