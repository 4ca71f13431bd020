package core

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"testing"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantCode    string
		wantMessage string
	}{
		{
			name:        "nil error returns empty",
			err:         nil,
			wantCode:    "",
			wantMessage: "",
		},
		{
			name:        "duplicate field",
			err:         DuplicateFieldError{Field: "name"},
			wantCode:    "COL001",
			wantMessage: "A column with this field id already exists",
		},
		{
			name:        "protected column",
			err:         ProtectedColumnError{Field: "email"},
			wantCode:    "COL002",
			wantMessage: "This column is protected and cannot be deleted",
		},
		{
			name:        "wrapped column not found",
			err:         fmt.Errorf("dispatch: %w", ColumnNotFoundError{Field: "x"}),
			wantCode:    "COL003",
			wantMessage: "Column not found",
		},
		{
			name:     "read-only column",
			err:      ReadOnlyColumnError{Field: "id"},
			wantCode: "COL004",
		},
		{
			name:     "reorder out of range",
			err:      RangeError{Op: "reorderColumns source", Index: 9, Len: 4},
			wantCode: "COL005",
		},
		{
			name:     "row not found",
			err:      RowNotFoundError{ID: "abc"},
			wantCode: "ROW001",
		},
		{
			name:     "negative page",
			err:      RangeError{Op: "setPage", Index: -1, Len: 1},
			wantCode: "ROW002",
		},
		{
			name:        "invalid number",
			err:         ValidationError{Field: "age", Message: "Age must be a non-negative number"},
			wantCode:    "VAL001",
			wantMessage: "Invalid number",
		},
		{
			name:     "invalid field id",
			err:      ValidationError{Field: "1x", Message: "field must start with a letter and contain only letters, numbers, and underscores"},
			wantCode: "VAL002",
		},
		{
			name:     "other validation error",
			err:      ValidationError{Field: "theme", Message: "theme must be light or dark"},
			wantCode: "VAL003",
		},
		{
			name:     "csv parse error",
			err:      ParseError{Errs: []error{&csv.ParseError{Line: 2, Err: csv.ErrFieldCount}}},
			wantCode: "CSV001",
		},
		{
			name:        "empty import",
			err:         ErrEmptyData,
			wantCode:    "CSV002",
			wantMessage: "No data found in CSV file",
		},
		{
			name:     "missing columns",
			err:      MissingColumnsError{Fields: []string{"email"}},
			wantCode: "CSV003",
		},
		{
			name:     "extra columns",
			err:      ExtraColumnsError{Fields: []string{"zip"}},
			wantCode: "CSV004",
		},
		{
			name:     "nothing to export",
			err:      ErrNoData,
			wantCode: "CSV005",
		},
		{
			name:     "label collision",
			err:      LabelCollisionError{Label: "Name", Fields: []string{"name", "alias"}},
			wantCode: "CSV006",
		},
		{
			name:     "file too large",
			err:      FileTooLargeError{Limit: 1024},
			wantCode: "FILE001",
		},
		{
			name:     "context canceled",
			err:      context.Canceled,
			wantCode: "REQ001",
		},
		{
			name:     "deadline exceeded",
			err:      fmt.Errorf("import: %w", context.DeadlineExceeded),
			wantCode: "REQ002",
		},
		{
			name:        "untyped rate limit text",
			err:         errors.New("Rate limit exceeded"),
			wantCode:    "REQ003",
			wantMessage: "Too many requests",
		},
		{
			name:     "import slots exhausted",
			err:      errors.New("too many concurrent imports, please try again later"),
			wantCode: "REQ004",
		},
		{
			name:        "untyped missing columns text",
			err:         errors.New("missing required columns: email"),
			wantCode:    "CSV003",
			wantMessage: "Required columns are missing from the CSV",
		},
		{
			name:        "unknown error returns default",
			err:         errors.New("some random internal error"),
			wantCode:    "ERR000",
			wantMessage: "An unexpected error occurred",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			if got.Code != tt.wantCode {
				t.Errorf("MapError() code = %q, want %q", got.Code, tt.wantCode)
			}
			if tt.wantMessage != "" && got.Message != tt.wantMessage {
				t.Errorf("MapError() message = %q, want %q", got.Message, tt.wantMessage)
			}
		})
	}
}

func TestFormatUserError(t *testing.T) {
	result := FormatUserError(ProtectedColumnError{Field: "name"})

	expected := "This column is protected and cannot be deleted (Code: COL002). Hide the column instead"
	if result != expected {
		t.Errorf("FormatUserError() = %q, want %q", result, expected)
	}

	if got := FormatUserError(nil); got != "" {
		t.Errorf("FormatUserError(nil) = %q, want empty", got)
	}
}

func TestIsUserFacing(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "nil error is not user facing",
			err:  nil,
			want: false,
		},
		{
			name: "typed error is user facing",
			err:  ColumnNotFoundError{Field: "x"},
			want: true,
		},
		{
			name: "unknown error is not user facing",
			err:  errors.New("random internal error xyz"),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsUserFacing(tt.err)
			if got != tt.want {
				t.Errorf("IsUserFacing() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewUserError(t *testing.T) {
	t.Run("nil error returns nil", func(t *testing.T) {
		if got := NewUserError(nil); got != nil {
			t.Errorf("NewUserError(nil) = %v, want nil", got)
		}
	})

	t.Run("wraps technical error with user message", func(t *testing.T) {
		techErr := RowNotFoundError{ID: "r1"}
		userErr := NewUserError(techErr)

		if userErr.Error() != "Row not found" {
			t.Errorf("Error() = %q, want user message", userErr.Error())
		}

		var target RowNotFoundError
		if !errors.As(userErr, &target) || target.ID != "r1" {
			t.Error("Unwrap() should return original error")
		}
	})
}
