package parser

import (
	"errors"
	"fmt"
)

// ErrParse is matched by every error kind this package returns for bad input.
var ErrParse = errors.New("parse error")

// FormatError reports a line or field that does not have the expected shape.
// It aborts the parse of the whole file.
type FormatError struct {
	Source string
	Line   int // 1-based line for lineLog files, entry index for structuredLog
	Value  string
	Reason string
}

func (e *FormatError) Error() string {
	loc := e.Source
	if e.Line > 0 {
		loc = fmt.Sprintf("%s:%d", e.Source, e.Line)
	}
	if loc == "" {
		return fmt.Sprintf("%s: %q", e.Reason, e.Value)
	}
	return fmt.Sprintf("%s: %s: %q", loc, e.Reason, e.Value)
}

func (e *FormatError) Unwrap() error {
	return ErrParse
}

// MissingFieldError reports a structuredLog entry that has a text body but
// lacks another field needed to build a message. Parsers skip such entries.
type MissingFieldError struct {
	Source string
	Entry  int
	Field  string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s: entry %d: missing field %q", e.Source, e.Entry, e.Field)
}

func (e *MissingFieldError) Unwrap() error {
	return ErrParse
}
