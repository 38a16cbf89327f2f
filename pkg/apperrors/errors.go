package apperrors

import "fmt"

// ParseError reports a malformed input file. It is file-level: the file
// yields no records at all, and the driver decides whether the run
// continues with the next file.
type ParseError struct {
	Path string // file that failed to parse
	Line int    // 1-based line number of the first bad line, 0 if unknown
	Err  error  // underlying decode error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse %s:%d: %v", e.Path, e.Line, e.Err)
	}
	return fmt.Sprintf("parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// SchemaError reports a record missing a required field or carrying a
// value of the wrong type. It is record-level: the record is dropped and
// the rest of the batch continues.
type SchemaError struct {
	Field  string
	Reason string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("record field %q: %s", e.Field, e.Reason)
}

// NewSchemaError builds a SchemaError for a single record field.
func NewSchemaError(field, reason string) *SchemaError {
	return &SchemaError{Field: field, Reason: reason}
}

// WriteError reports a row the store rejected for a reason other than an
// expected duplicate-key upsert collision. It identifies the offending
// row so no failure is ever swallowed without a trace.
type WriteError struct {
	Table string
	Key   string
	Err   error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write %s (key %s): %v", e.Table, e.Key, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}
