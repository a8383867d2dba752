package ui

import "fmt"

// ErrorType defines the category of error for proper handling
type ErrorType int

const (
	ErrorTypeUserCancelled ErrorType = iota // Ctrl+C, esc - silent exit
	ErrorTypeInput                          // Malformed volume or file counts
	ErrorTypeValidation                     // Bad flags or flag combinations
	ErrorTypeFileSystem                     // Measuring files for --from
	ErrorTypeConfiguration                  // Config file problems
	ErrorTypeInternal                       // Unexpected
)

// UIError carries an error from a Bubbletea model back to Cobra together with
// how it should be presented.
type UIError struct {
	Err           error
	Type          ErrorType
	SuppressUsage bool // Don't show Cobra usage message
	SilentExit    bool // Don't print the message again (already rendered, or intentionally quiet)
}

func (e *UIError) Error() string {
	return e.Err.Error()
}

func (e *UIError) Unwrap() error {
	return e.Err
}

func NewUserCancelledError() *UIError {
	return &UIError{
		Err:           fmt.Errorf("cancelled by user"),
		Type:          ErrorTypeUserCancelled,
		SuppressUsage: true,
		SilentExit:    true,
	}
}

// NewInputError wraps a fatal parse error. The message shown to the user is
// always msg; err is kept for errors.Is and logging.
func NewInputError(msg string, err error) *UIError {
	return &UIError{
		Err:           &inputError{msg: msg, err: err},
		Type:          ErrorTypeInput,
		SuppressUsage: true,
	}
}

func NewValidationError(err error) *UIError {
	return &UIError{
		Err:           err,
		Type:          ErrorTypeValidation,
		SuppressUsage: true,
	}
}

func NewFileSystemError(err error) *UIError {
	return &UIError{
		Err:           err,
		Type:          ErrorTypeFileSystem,
		SuppressUsage: true,
	}
}

func NewConfigurationError(err error) *UIError {
	return &UIError{
		Err:           err,
		Type:          ErrorTypeConfiguration,
		SuppressUsage: true,
	}
}

func NewInternalError(err error) *UIError {
	return &UIError{
		Err:           err,
		Type:          ErrorTypeInternal,
		SuppressUsage: true,
	}
}

type inputError struct {
	msg string
	err error
}

func (e *inputError) Error() string { return e.msg }
func (e *inputError) Unwrap() error { return e.err }
