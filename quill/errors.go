package quill

import "fmt"

// FormatError is the single error kind produced by the converter. It covers
// shape mismatches, unrecognized enum names, unsupported map key types, and
// internal value-shape violations during printing. Cause is set when an
// underlying decode error (e.g. base64) triggered the failure.
type FormatError struct {
	Msg   string
	Cause error
}

func (e *FormatError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("quill: %s: %v", e.Msg, e.Cause)
	}
	return "quill: " + e.Msg
}

func (e *FormatError) Unwrap() error {
	return e.Cause
}

// formatErrorf builds a FormatError from a format string.
func formatErrorf(format string, args ...any) *FormatError {
	return &FormatError{Msg: fmt.Sprintf(format, args...)}
}

// wrapFormatError builds a FormatError that carries an underlying cause.
func wrapFormatError(cause error, format string, args ...any) *FormatError {
	return &FormatError{Msg: fmt.Sprintf(format, args...), Cause: cause}
}
