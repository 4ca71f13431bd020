package core

// schema.go holds the Schema Registry intents: column definitions, the order
// list and the visibility set.
//
// The order list is always a permutation of the registered fields and the
// visibility set is always a subset of them. Deleting a column cascades to
// both lists and strips the field from every row.

import (
	"slices"
)

// AddColumn registers a new column and appends it to the order list and the
// visibility set. Existing rows are not given the field.
type AddColumn struct {
	Column
}

func (AddColumn) Kind() IntentKind { return KindAddColumn }

func (i AddColumn) apply(s TableState, _ Policy) (TableState, error) {
	if err := ValidateColumn(i.Column); err != nil {
		return s, err
	}
	if s.HasColumn(i.Field) {
		return s, DuplicateFieldError{Field: i.Field}
	}

	s.Columns = append(s.Columns, i.Column)
	s.VisibleColumns = append(s.VisibleColumns, i.Field)
	s.ColumnOrder = append(s.ColumnOrder, i.Field)
	return s, nil
}

// DeleteColumn removes a column, its order and visibility entries, and the
// field's value from every row. The row data is not recoverable.
type DeleteColumn struct {
	Field string `json:"field"`
}

func (DeleteColumn) Kind() IntentKind { return KindDeleteColumn }

func (i DeleteColumn) apply(s TableState, p Policy) (TableState, error) {
	if p.IsProtected(i.Field) {
		return s, ProtectedColumnError{Field: i.Field}
	}
	if !s.HasColumn(i.Field) {
		return s, ColumnNotFoundError{Field: i.Field}
	}

	s.Columns = slices.DeleteFunc(s.Columns, func(c Column) bool { return c.Field == i.Field })
	s.VisibleColumns = removeField(s.VisibleColumns, i.Field)
	s.ColumnOrder = removeField(s.ColumnOrder, i.Field)
	for _, r := range s.Rows {
		delete(r.Fields, i.Field)
	}
	return s, nil
}

// RenameColumn changes a column's display label.
type RenameColumn struct {
	Field string `json:"field"`
	Label string `json:"label"`
}

func (RenameColumn) Kind() IntentKind { return KindRenameColumn }

func (i RenameColumn) apply(s TableState, _ Policy) (TableState, error) {
	idx := slices.IndexFunc(s.Columns, func(c Column) bool { return c.Field == i.Field })
	if idx < 0 {
		return s, ColumnNotFoundError{Field: i.Field}
	}
	if i.Label == "" {
		return s, ValidationError{Field: i.Field, Message: "display label is required"}
	}
	s.Columns[idx].Label = i.Label
	return s, nil
}

// SetVisibleColumns replaces the visibility set. Unknown fields and
// duplicates are dropped; the given order is kept.
type SetVisibleColumns struct {
	Fields []string `json:"fields"`
}

func (SetVisibleColumns) Kind() IntentKind { return KindSetVisibleColumns }

func (i SetVisibleColumns) apply(s TableState, _ Policy) (TableState, error) {
	visible := make([]string, 0, len(i.Fields))
	for _, f := range i.Fields {
		if s.HasColumn(f) && !slices.Contains(visible, f) {
			visible = append(visible, f)
		}
	}
	s.VisibleColumns = visible
	return s, nil
}

// ReorderColumns moves the order list entry at SourceIndex to
// DestinationIndex (splice, not swap). Both indices must be in range.
type ReorderColumns struct {
	SourceIndex      int `json:"sourceIndex"`
	DestinationIndex int `json:"destinationIndex"`
}

func (ReorderColumns) Kind() IntentKind { return KindReorderColumns }

func (i ReorderColumns) apply(s TableState, _ Policy) (TableState, error) {
	n := len(s.ColumnOrder)
	if i.SourceIndex < 0 || i.SourceIndex >= n {
		return s, RangeError{Op: "reorderColumns source", Index: i.SourceIndex, Len: n}
	}
	if i.DestinationIndex < 0 || i.DestinationIndex >= n {
		return s, RangeError{Op: "reorderColumns destination", Index: i.DestinationIndex, Len: n}
	}

	field := s.ColumnOrder[i.SourceIndex]
	order := slices.Delete(s.ColumnOrder, i.SourceIndex, i.SourceIndex+1)
	s.ColumnOrder = slices.Insert(order, i.DestinationIndex, field)
	return s, nil
}

// OrderedColumns resolves the order list to column definitions, skipping
// entries that do not name a registered column.
func (s TableState) OrderedColumns() []Column {
	cols := make([]Column, 0, len(s.ColumnOrder))
	for _, f := range s.ColumnOrder {
		if c, ok := s.Column(f); ok {
			cols = append(cols, c)
		}
	}
	return cols
}

// DisplayColumns returns the visible columns in order list order.
func (s TableState) DisplayColumns() []Column {
	cols := make([]Column, 0, len(s.VisibleColumns))
	for _, c := range s.OrderedColumns() {
		if s.IsVisible(c.Field) {
			cols = append(cols, c)
		}
	}
	return cols
}

func removeField(fields []string, field string) []string {
	return slices.DeleteFunc(fields, func(f string) bool { return f == field })
}
