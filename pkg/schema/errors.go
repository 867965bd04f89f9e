package schema

import "fmt"

// Error codes for structured error reporting.
const (
	ErrCodeGuard              = "GUARD_FAILURE"
	ErrCodeCancelled          = "CONFIRMATION_CANCELLED"
	ErrCodeValidation         = "VALIDATION_ERROR"
	ErrCodeInvalidURL         = "INVALID_URL"
	ErrCodeHandlerUnavailable = "HANDLER_NOT_REGISTERED"
	ErrCodeHTTP               = "HTTP_ERROR"
	ErrCodeNetwork            = "NETWORK_ERROR"
	ErrCodeExecution          = "EXECUTION_ERROR"
)

// EngineError is the structured error type for all engine operations.
// It never crosses the Execute boundary as a Go error: every layer converts
// it to a failure ActionResult via Result() before returning.
type EngineError struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
	Cause   error          `json:"-"`
}

func (e *EngineError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *EngineError) Unwrap() error {
	return e.Cause
}

// NewError creates a new EngineError.
func NewError(code, message string) *EngineError {
	return &EngineError{Code: code, Message: message}
}

// NewErrorf creates a new EngineError with a formatted message.
func NewErrorf(code, format string, args ...any) *EngineError {
	return &EngineError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// WithCause attaches an underlying cause.
func (e *EngineError) WithCause(err error) *EngineError {
	e.Cause = err
	return e
}

// WithDetails attaches key-value details.
func (e *EngineError) WithDetails(details map[string]any) *EngineError {
	e.Details = details
	return e
}

// Result converts the error into a failure ActionResult. Only the bare
// message is surfaced; the code and details stay internal.
func (e *EngineError) Result() *ActionResult {
	return &ActionResult{Success: false, Error: e.Message}
}

// Message extracts the bare message from an error, unwrapping EngineError
// so user-facing results never carry the "[CODE]" prefix.
func Message(err error) string {
	if err == nil {
		return ""
	}
	if ee, ok := err.(*EngineError); ok {
		return ee.Message
	}
	return err.Error()
}
