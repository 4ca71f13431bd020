package core

// validation.go checks user-entered values before they reach the row store.
//
// Validation happens at two levels:
//  1. Column definitions: field id pattern, non-empty label, known type
//  2. Cell values: number columns accept only non-negative finite numbers
//
// Bulk replacement (import, sample data) coerces instead of validating; inline
// edits, added rows and replaced rows are validated strictly.

import (
	"regexp"
	"strings"
)

// fieldIDRegex is the allowed shape of a column field id.
var fieldIDRegex = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_]*$`)

// ValidateColumn checks a new column definition.
func ValidateColumn(col Column) error {
	if col.Field == "" {
		return ValidationError{Message: "field name is required"}
	}
	if !fieldIDRegex.MatchString(col.Field) {
		return ValidationError{
			Field:   col.Field,
			Value:   col.Field,
			Message: "field must start with a letter and contain only letters, numbers, and underscores",
		}
	}
	if strings.TrimSpace(col.Label) == "" {
		return ValidationError{Field: col.Field, Message: "display label is required"}
	}
	if !col.Type.Valid() {
		return ValidationError{
			Field:   col.Field,
			Value:   string(col.Type),
			Message: "type must be string or number",
		}
	}
	return nil
}

// ValidateCell validates raw edit text for col and returns the value to store.
// Empty text clears the cell (present=false).
func ValidateCell(raw string, col Column) (value any, present bool, err error) {
	if raw == "" {
		return nil, false, nil
	}
	if col.Type != ColumnNumber {
		return raw, true, nil
	}

	f, ok := ParseNumber(raw)
	if !ok || f < 0 {
		return nil, false, ValidationError{
			Field:   col.Field,
			Value:   raw,
			Message: col.Label + " must be a non-negative number",
		}
	}
	return f, true, nil
}

// ValidateFields normalizes a full set of row values against the columns in
// state. Fields that are not registered columns are kept as ad hoc values.
func ValidateFields(fields map[string]any, state TableState) (map[string]any, error) {
	out := make(map[string]any, len(fields))
	for field, raw := range fields {
		v, present, err := NormalizeValue(raw)
		if err != nil {
			return nil, ValidationError{Field: field, Value: Stringify(raw), Message: err.Error()}
		}
		if !present {
			continue
		}

		col, ok := state.Column(field)
		if ok && col.Type == ColumnNumber {
			v, present, err = ValidateCell(Stringify(v), col)
			if err != nil {
				return nil, err
			}
			if !present {
				continue
			}
		}
		out[field] = v
	}
	return out, nil
}

// coerceFields normalizes bulk-loaded values without rejecting them.
// Values that cannot be represented are dropped.
func coerceFields(fields map[string]any, state TableState) map[string]any {
	out := make(map[string]any, len(fields))
	for field, raw := range fields {
		v, present, err := NormalizeValue(raw)
		if err != nil || !present {
			continue
		}
		if s, ok := v.(string); ok {
			if col, ok := state.Column(field); ok {
				v, present = CoerceForColumn(s, col)
				if !present {
					continue
				}
			}
		}
		out[field] = v
	}
	return out
}
