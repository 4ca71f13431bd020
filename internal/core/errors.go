package core

// errors.go defines the error taxonomy returned by the Mutation API and the CSV codec.
//
// Every failure leaves the prior TableState intact. Callers match with errors.As
// for the struct types and errors.Is for the sentinels; MapError turns any of them
// into a user-facing message with a support code.

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmptyData is returned when an import contains no data rows.
	ErrEmptyData = errors.New("no data found in CSV file")

	// ErrNoData is returned when exporting an empty row store.
	ErrNoData = errors.New("no data to export")
)

// DuplicateFieldError is returned when adding a column whose field already exists.
type DuplicateFieldError struct {
	Field string
}

func (e DuplicateFieldError) Error() string {
	return fmt.Sprintf("field %q already exists", e.Field)
}

// ProtectedColumnError is returned when deleting a column the policy protects.
type ProtectedColumnError struct {
	Field string
}

func (e ProtectedColumnError) Error() string {
	return fmt.Sprintf("column %q is protected and cannot be deleted", e.Field)
}

// ColumnNotFoundError is returned when an intent names a column that does not exist.
type ColumnNotFoundError struct {
	Field string
}

func (e ColumnNotFoundError) Error() string {
	return fmt.Sprintf("column %q not found", e.Field)
}

// ReadOnlyColumnError is returned when editing a cell of a non-editable column.
type ReadOnlyColumnError struct {
	Field string
}

func (e ReadOnlyColumnError) Error() string {
	return fmt.Sprintf("column %q is not editable", e.Field)
}

// RowNotFoundError is returned when an intent targets a row that is not in the store.
type RowNotFoundError struct {
	ID    RowID
	Index int
}

func (e RowNotFoundError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("row %q not found", e.ID)
	}
	return fmt.Sprintf("row index %d out of range", e.Index)
}

// RangeError is returned when a positional argument falls outside its list.
type RangeError struct {
	Op    string
	Index int
	Len   int
}

func (e RangeError) Error() string {
	return fmt.Sprintf("%s: index %d out of range [0,%d)", e.Op, e.Index, e.Len)
}

// ValidationError represents a rejected value for a single field.
type ValidationError struct {
	Field   string // Field id, empty for intent-level problems
	Value   string // The rejected value
	Message string // Human-readable reason
}

func (e ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

// MissingColumnsError is returned when an import lacks required headers.
type MissingColumnsError struct {
	Fields []string
}

func (e MissingColumnsError) Error() string {
	return fmt.Sprintf("missing required columns: %s", strings.Join(e.Fields, ", "))
}

// ExtraColumnsError is returned when an import carries headers that are not
// registered columns and the extra-field policy rejects them.
type ExtraColumnsError struct {
	Fields []string
}

func (e ExtraColumnsError) Error() string {
	return fmt.Sprintf("unknown columns: %s", strings.Join(e.Fields, ", "))
}

// ParseError aggregates the underlying CSV parser errors.
type ParseError struct {
	Errs []error
}

func (e ParseError) Error() string {
	msgs := make([]string, len(e.Errs))
	for i, err := range e.Errs {
		msgs[i] = err.Error()
	}
	return "CSV parsing errors: " + strings.Join(msgs, ", ")
}

// Unwrap exposes the individual parser errors to errors.Is and errors.As.
func (e ParseError) Unwrap() []error {
	return e.Errs
}

// LabelCollisionError is returned when two visible columns share a label,
// which would make a label-keyed export ambiguous.
type LabelCollisionError struct {
	Label  string
	Fields []string
}

func (e LabelCollisionError) Error() string {
	return fmt.Sprintf("label %q is used by columns %s", e.Label, strings.Join(e.Fields, ", "))
}

// FileTooLargeError is returned when an import exceeds the configured size.
type FileTooLargeError struct {
	Limit int64
}

func (e FileTooLargeError) Error() string {
	return fmt.Sprintf("file too large: limit is %d bytes", e.Limit)
}
