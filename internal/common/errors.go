// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Input errors.
	ErrSchema      = errors.New("schema error")
	ErrFormat      = errors.New("format error")
	ErrMappingFile = errors.New("malformed category mapping file")

	// Report errors.
	ErrEmptyData = errors.New("empty data")
	ErrIO        = errors.New("output error")

	// Configuration errors.
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// SchemaError reports a required column missing from an input table.
type SchemaError struct {
	Column string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%v: required column %q is missing", ErrSchema, e.Column)
}

// Is lets errors.Is match ErrSchema.
func (e *SchemaError) Is(target error) bool {
	return target == ErrSchema
}

// FormatError reports a cell that could not be parsed.
// Row is 1-based and counts data rows only.
type FormatError struct {
	Err    error
	Column string
	Value  string
	Row    int
}

func (e *FormatError) Error() string {
	msg := fmt.Sprintf("%v: row %d column %q: cannot parse %q", ErrFormat, e.Row, e.Column, e.Value)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Is lets errors.Is match ErrFormat.
func (e *FormatError) Is(target error) bool {
	return target == ErrFormat
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// EmptyDataError reports an aggregation over an empty subset.
// Year is zero when the subset spans all years.
type EmptyDataError struct {
	Subset string
	Year   int
}

func (e *EmptyDataError) Error() string {
	if e.Year == 0 {
		return fmt.Sprintf("%v: %s subset is empty", ErrEmptyData, e.Subset)
	}
	return fmt.Sprintf("%v: %s subset is empty for %d", ErrEmptyData, e.Subset, e.Year)
}

// Is lets errors.Is match ErrEmptyData.
func (e *EmptyDataError) Is(target error) bool {
	return target == ErrEmptyData
}

// MappingFileError reports a malformed line in a category mapping file.
type MappingFileError struct {
	Path string
	Text string
	Line int
}

func (e *MappingFileError) Error() string {
	return fmt.Sprintf("%v: %s:%d: expected \"category: overall category\", got %q", ErrMappingFile, e.Path, e.Line, e.Text)
}

// Is lets errors.Is match ErrMappingFile.
func (e *MappingFileError) Is(target error) bool {
	return target == ErrMappingFile
}

// IOError reports an output path that could not be written.
type IOError struct {
	Err  error
	Op   string
	Path string
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%v: %s %s: %v", ErrIO, e.Op, e.Path, e.Err)
}

// Is lets errors.Is match ErrIO.
func (e *IOError) Is(target error) bool {
	return target == ErrIO
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}
