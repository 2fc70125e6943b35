package cbs

import "fmt"

// Severity is the importance of a ParseError.
type Severity int

const (
	// SeverityError marks a structural problem.
	SeverityError Severity = iota
	// SeverityWarning is reserved for lint-style checks.
	SeverityWarning
)

// String returns "error" or "warning".
func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "error"
}

// MarshalText implements encoding.TextMarshaler.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// ErrorKind identifies the structural problem a ParseError describes.
type ErrorKind string

const (
	ErrUnclosedBlockOpen  ErrorKind = "unclosed-block-open"
	ErrUnclosedBlockClose ErrorKind = "unclosed-block-close"
	ErrUnclosedMath       ErrorKind = "unclosed-math"
	ErrUnclosedFunction   ErrorKind = "unclosed-function"
	ErrUnexpectedClose    ErrorKind = "unexpected-close"
	ErrBlockMismatch      ErrorKind = "block-mismatch"
	ErrUnclosedBlock      ErrorKind = "unclosed-block"
)

// ParseError is a recoverable structural problem found while parsing.
// Parsing never stops on a ParseError.
type ParseError struct {
	Kind     ErrorKind `json:"kind"`
	Message  string    `json:"message"`
	Span     Span      `json:"span"`
	Line     int       `json:"line"`
	Column   int       `json:"column"`
	Severity Severity  `json:"severity"`
}

// Error implements the error interface so a ParseError can be wrapped by
// callers that want to surface it as a Go error.
func (e ParseError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line+1, e.Column+1, e.Message)
}

func newParseError(kind ErrorKind, span Span, pos Position, format string, args ...any) ParseError {
	return ParseError{
		Kind:     kind,
		Message:  fmt.Sprintf(format, args...),
		Span:     span,
		Line:     pos.Line,
		Column:   pos.Column,
		Severity: SeverityError,
	}
}
