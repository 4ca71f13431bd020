package core

// rows.go holds the Row Store intents.
//
// Rows are addressed by their stable RowID. A RowRef without an id falls back
// to the row's current position, which callers must not cache across a delete.

import (
	"slices"
)

// RowRef identifies a row by id, or by position when ID is empty.
type RowRef struct {
	ID    RowID `json:"id,omitempty"`
	Index int   `json:"index,omitempty"`
}

// resolve returns the current position of the referenced row.
func (r RowRef) resolve(s TableState) (int, error) {
	if r.ID != "" {
		if idx := s.RowIndex(r.ID); idx >= 0 {
			return idx, nil
		}
		return -1, RowNotFoundError{ID: r.ID}
	}
	if r.Index < 0 || r.Index >= len(s.Rows) {
		return -1, RowNotFoundError{Index: r.Index}
	}
	return r.Index, nil
}

// SetRows replaces the whole row store. Values are coerced to the column
// types rather than validated. Every row must carry a unique id.
type SetRows struct {
	Rows []Row `json:"rows"`
}

func (SetRows) Kind() IntentKind { return KindSetRows }

func (i SetRows) apply(s TableState, _ Policy) (TableState, error) {
	rows, err := bulkRows(i.Rows, s)
	if err != nil {
		return s, err
	}
	s.Rows = rows
	return s, nil
}

// ReplaceData registers Columns and then replaces the row store with Rows in
// one step. It is what CSV import and sample loading produce. Columns whose
// field is already registered are left as they are. The page cursor is reset.
type ReplaceData struct {
	Rows    []Row    `json:"rows"`
	Columns []Column `json:"columns,omitempty"`
}

func (ReplaceData) Kind() IntentKind { return KindReplaceData }

func (i ReplaceData) apply(s TableState, p Policy) (TableState, error) {
	var err error
	for _, col := range i.Columns {
		if s.HasColumn(col.Field) {
			continue
		}
		if s, err = (AddColumn{Column: col}).apply(s, p); err != nil {
			return s, err
		}
	}

	rows, err := bulkRows(i.Rows, s)
	if err != nil {
		return s, err
	}
	s.Rows = rows
	s.Page = 0
	return s, nil
}

// AddRow appends a row. Number columns must hold non-negative numbers.
type AddRow struct {
	Row Row `json:"row"`
}

func (AddRow) Kind() IntentKind { return KindAddRow }

func (i AddRow) apply(s TableState, _ Policy) (TableState, error) {
	if i.Row.ID == "" {
		return s, ValidationError{Message: "row id is required"}
	}
	if s.RowIndex(i.Row.ID) >= 0 {
		return s, ValidationError{Value: string(i.Row.ID), Message: "duplicate row id"}
	}

	fields, err := ValidateFields(i.Row.Fields, s)
	if err != nil {
		return s, err
	}
	s.Rows = append(s.Rows, Row{ID: i.Row.ID, Fields: fields})
	return s, nil
}

// UpdateRow replaces the fields of an existing row, keeping its id.
type UpdateRow struct {
	RowRef
	Fields map[string]any `json:"fields"`
}

func (UpdateRow) Kind() IntentKind { return KindUpdateRow }

func (i UpdateRow) apply(s TableState, _ Policy) (TableState, error) {
	idx, err := i.resolve(s)
	if err != nil {
		return s, err
	}

	fields, err := ValidateFields(i.Fields, s)
	if err != nil {
		return s, err
	}
	s.Rows[idx].Fields = fields
	return s, nil
}

// DeleteRow removes a row. Rows after it shift down one position.
type DeleteRow struct {
	RowRef
}

func (DeleteRow) Kind() IntentKind { return KindDeleteRow }

func (i DeleteRow) apply(s TableState, _ Policy) (TableState, error) {
	idx, err := i.resolve(s)
	if err != nil {
		return s, err
	}
	s.Rows = slices.Delete(s.Rows, idx, idx+1)
	return s, nil
}

// EditCell sets a single cell from raw text entered by the user.
// Empty text clears the cell.
type EditCell struct {
	RowRef
	Field string `json:"field"`
	Value string `json:"value"`
}

func (EditCell) Kind() IntentKind { return KindEditCell }

func (i EditCell) apply(s TableState, _ Policy) (TableState, error) {
	idx, err := i.resolve(s)
	if err != nil {
		return s, err
	}
	col, ok := s.Column(i.Field)
	if !ok {
		return s, ColumnNotFoundError{Field: i.Field}
	}
	if !col.Editable {
		return s, ReadOnlyColumnError{Field: i.Field}
	}

	v, present, err := ValidateCell(i.Value, col)
	if err != nil {
		return s, err
	}
	if present {
		s.Rows[idx].Fields[i.Field] = v
	} else {
		delete(s.Rows[idx].Fields, i.Field)
	}
	return s, nil
}

// bulkRows checks ids and coerces values for a wholesale replacement.
func bulkRows(in []Row, s TableState) ([]Row, error) {
	seen := make(map[RowID]struct{}, len(in))
	rows := make([]Row, 0, len(in))
	for _, r := range in {
		if r.ID == "" {
			return nil, ValidationError{Message: "row id is required"}
		}
		if _, dup := seen[r.ID]; dup {
			return nil, ValidationError{Value: string(r.ID), Message: "duplicate row id"}
		}
		seen[r.ID] = struct{}{}
		rows = append(rows, Row{ID: r.ID, Fields: coerceFields(r.Fields, s)})
	}
	return rows, nil
}
