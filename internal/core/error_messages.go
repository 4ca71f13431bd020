package core

// error_messages.go maps engine errors to user-friendly messages with codes
// for support reference.
//
// # Schema Errors (COL001-COL099)
//
//	COL001 - Duplicate field: A column with this field id already exists
//	COL002 - Protected column: Core columns cannot be deleted
//	COL003 - Column not found: The column does not exist
//	COL004 - Read-only column: Cells in this column cannot be edited
//	COL005 - Position out of range: Column position is not in the table
//
// # Row Errors (ROW001-ROW099)
//
//	ROW001 - Row not found: The row was removed or never existed
//	ROW002 - Page out of range: The requested page does not exist
//
// # Validation Errors (VAL001-VAL099)
//
//	VAL001 - Invalid number: Value must be a non-negative number
//	VAL002 - Invalid field id: Field ids start with a letter
//	VAL003 - Invalid value: Generic rejected value
//
// # CSV Errors (CSV001-CSV099)
//
//	CSV001 - Parse error: The file is not a valid CSV
//	CSV002 - Empty file: The file has no data rows
//	CSV003 - Missing columns: Required headers are missing
//	CSV004 - Unknown columns: Headers do not match any column
//	CSV005 - No data: Nothing to export
//	CSV006 - Duplicate labels: Two visible columns share a header
//
// # File Errors (FILE001-FILE099)
//
//	FILE001 - File too large: File exceeds the import size limit
//	FILE002 - No file: No file was provided
//
// # Request Errors (REQ001-REQ099)
//
//	REQ001 - Request cancelled
//	REQ002 - Request timeout
//	REQ003 - Rate limited
//
// # Default Error (ERR000)
//
// Typed errors are matched first with errors.As and errors.Is. Anything else
// falls back to case-insensitive substring patterns, first match wins.

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string `json:"message"` // What happened (user-friendly)
	Action  string `json:"action"`  // What to do about it
	Code    string `json:"code"`    // Error code for support reference
}

var (
	msgDuplicateField = UserMessage{"A column with this field id already exists", "Choose a different field id", "COL001"}
	msgProtected      = UserMessage{"This column is protected and cannot be deleted", "Hide the column instead", "COL002"}
	msgColumnNotFound = UserMessage{"Column not found", "Refresh the table and try again", "COL003"}
	msgReadOnly       = UserMessage{"This column is read-only", "Edit a different column", "COL004"}
	msgColumnRange    = UserMessage{"Column position is out of range", "Choose a position within the column list", "COL005"}

	msgRowNotFound = UserMessage{"Row not found", "The row may have been deleted. Refresh the table", "ROW001"}
	msgPageRange   = UserMessage{"Page does not exist", "Go back to the first page", "ROW002"}

	msgInvalidNumber  = UserMessage{"Invalid number", "Enter a non-negative number without symbols", "VAL001"}
	msgInvalidFieldID = UserMessage{"Invalid field id", "Start with a letter and use only letters, digits and underscores", "VAL002"}
	msgInvalidValue   = UserMessage{"Invalid value", "Check the value and try again", "VAL003"}

	msgParse          = UserMessage{"File is not a valid CSV", "Ensure every row has the same number of fields", "CSV001"}
	msgEmptyData      = UserMessage{"No data found in CSV file", "Upload a CSV file with a header and data rows", "CSV002"}
	msgMissingColumns = UserMessage{"Required columns are missing from the CSV", "Add the missing headers and upload again", "CSV003"}
	msgExtraColumns   = UserMessage{"The CSV has columns the table does not know", "Add the columns first or remove them from the file", "CSV004"}
	msgNoData         = UserMessage{"No data to export", "Add rows or import a CSV first", "CSV005"}
	msgLabelCollision = UserMessage{"Two visible columns share the same label", "Rename one of the columns before exporting", "CSV006"}

	msgFileTooLarge = UserMessage{"File exceeds maximum size limit", "Split the file into smaller chunks", "FILE001"}
	msgNoFile       = UserMessage{"No file was selected", "Please select a CSV file to import", "FILE002"}

	msgCancelled   = UserMessage{"Request was cancelled", "Please try again", "REQ001"}
	msgTimeout     = UserMessage{"Request timed out", "Try a smaller file or try again later", "REQ002"}
	msgRateLimited = UserMessage{"Too many requests", "Please wait a moment before trying again", "REQ003"}
	msgBusy        = UserMessage{"Another import is in progress", "Wait for it to finish and try again", "REQ004"}
)

// errorPattern defines a substring to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns catch errors that arrive without a type, for example after
// crossing a process boundary as text.
var errorPatterns = []errorPattern{
	{"no file provided", msgNoFile},
	{"file too large", msgFileTooLarge},
	{"body too large", msgFileTooLarge},
	{"csv parsing errors", msgParse},
	{"no data found", msgEmptyData},
	{"missing required columns", msgMissingColumns},
	{"no data to export", msgNoData},
	{"rate limit", msgRateLimited},
	{"too many concurrent imports", msgBusy},
	{"context canceled", msgCancelled},
	{"context deadline exceeded", msgTimeout},
}

// defaultMessage is returned when nothing matches (ERR000). Support staff
// should check the logs for the original error when users report ERR000.
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts an engine error to a user-friendly message.
//
// Example:
//
//	err := core.ProtectedColumnError{Field: "name"}
//	msg := core.MapError(err)
//	// msg.Code == "COL002"
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}
	if msg, ok := mapTyped(err); ok {
		return msg
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}
	return defaultMessage
}

func mapTyped(err error) (UserMessage, bool) {
	var (
		dup      DuplicateFieldError
		prot     ProtectedColumnError
		notFound ColumnNotFoundError
		readOnly ReadOnlyColumnError
		rowNF    RowNotFoundError
		rng      RangeError
		val      ValidationError
		parse    ParseError
		missing  MissingColumnsError
		extra    ExtraColumnsError
		labels   LabelCollisionError
		tooLarge FileTooLargeError
	)

	switch {
	case errors.As(err, &dup):
		return msgDuplicateField, true
	case errors.As(err, &prot):
		return msgProtected, true
	case errors.As(err, &notFound):
		return msgColumnNotFound, true
	case errors.As(err, &readOnly):
		return msgReadOnly, true
	case errors.As(err, &rowNF):
		return msgRowNotFound, true
	case errors.As(err, &rng):
		if rng.Op == "setPage" {
			return msgPageRange, true
		}
		return msgColumnRange, true
	case errors.As(err, &parse):
		return msgParse, true
	case errors.As(err, &missing):
		return msgMissingColumns, true
	case errors.As(err, &extra):
		return msgExtraColumns, true
	case errors.As(err, &labels):
		return msgLabelCollision, true
	case errors.As(err, &tooLarge):
		return msgFileTooLarge, true
	case errors.Is(err, ErrEmptyData):
		return msgEmptyData, true
	case errors.Is(err, ErrNoData):
		return msgNoData, true
	case errors.Is(err, context.Canceled):
		return msgCancelled, true
	case errors.Is(err, context.DeadlineExceeded):
		return msgTimeout, true
	case errors.As(err, &val):
		switch {
		case strings.Contains(val.Message, "must start with a letter"):
			return msgInvalidFieldID, true
		case strings.Contains(val.Message, "non-negative number"):
			return msgInvalidNumber, true
		default:
			return msgInvalidValue, true
		}
	}
	return UserMessage{}, false
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action", without the action when the
// message has none. Returns "" for a nil error.
func FormatUserError(err error) string {
	if err == nil {
		return ""
	}
	msg := MapError(err)
	out := fmt.Sprintf("%s (Code: %s)", msg.Message, msg.Code)
	if msg.Action != "" {
		out += ". " + msg.Action
	}
	return out
}

// IsUserFacing reports whether err maps to a specific message rather than
// the ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}

// UserError wraps a technical error with a user-friendly message.
// The original error is preserved for logging.
type UserError struct {
	Technical error       // Original technical error for logging
	User      UserMessage // User-friendly message for display
}

func (e *UserError) Error() string {
	return e.User.Message
}

func (e *UserError) Unwrap() error {
	return e.Technical
}

// NewUserError maps err to a UserError. Returns nil if err is nil.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{
		Technical: err,
		User:      MapError(err),
	}
}
