package saf

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies parse failures.
type ErrorKind string

const (
	KindMalformedDescription       ErrorKind = "MalformedDescription"
	KindMalformedStatistics        ErrorKind = "MalformedStatistics"
	KindMalformedData              ErrorKind = "MalformedData"
	KindOutOfOrderSection          ErrorKind = "OutOfOrderSection"
	KindUnexpectedStructuralMarker ErrorKind = "UnexpectedStructuralMarker"
	KindInputUnavailable           ErrorKind = "InputUnavailable"
)

// ParseError is returned for every failed parse.
type ParseError struct {
	Kind ErrorKind
	// Line is the 1-based input line, 0 if the failure is not tied to a line.
	Line int
	// RecordID is the histogram being assembled, 0 outside any histogram.
	RecordID int
	Msg      string
	Err      error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Kind))
	if e.Line > 0 {
		fmt.Fprintf(&b, " at line %d", e.Line)
	}
	if e.RecordID > 0 {
		fmt.Fprintf(&b, " (histogram %d)", e.RecordID)
	}
	if e.Msg != "" {
		b.WriteString(": ")
		b.WriteString(e.Msg)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap allows errors.Is and errors.As to reach the cause
func (e *ParseError) Unwrap() error {
	return e.Err
}

// KindOf returns the ErrorKind of err, or "" if err is not a *ParseError.
func KindOf(err error) ErrorKind {
	var perr *ParseError
	if errors.As(err, &perr) {
		return perr.Kind
	}
	return ""
}

// IsKind reports whether err is a *ParseError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	return KindOf(err) == kind
}

func newParseError(kind ErrorKind, line, recordID int, format string, args ...any) *ParseError {
	return &ParseError{
		Kind:     kind,
		Line:     line,
		RecordID: recordID,
		Msg:      fmt.Sprintf(format, args...),
	}
}

// malformedKind maps the block an extractor ran in to the kind of its failures.
func malformedKind(b Block) ErrorKind {
	switch b {
	case BlockDescription:
		return KindMalformedDescription
	case BlockStatistics:
		return KindMalformedStatistics
	default:
		return KindMalformedData
	}
}
