package core

import (
	"slices"
)

// ColumnType is the value type of a column, fixed at creation.
type ColumnType string

const (
	ColumnString ColumnType = "string"
	ColumnNumber ColumnType = "number"
)

// Valid reports whether t is a known column type.
func (t ColumnType) Valid() bool {
	return t == ColumnString || t == ColumnNumber
}

// Column defines a single table column.
type Column struct {
	Field    string     `json:"field"`    // Unique, immutable identifier used as the row key
	Label    string     `json:"label"`    // Display name, the only mutable attribute
	Type     ColumnType `json:"type"`     // string or number
	Editable bool       `json:"editable"` // Whether cells may be edited inline
}

// RowID is the stable synthetic identity of a row. It is assigned when the
// row enters the store and never derived from the row's position.
type RowID string

// Row is a single record. Field values are string or float64; a field that
// is absent from Fields reads as empty.
type Row struct {
	ID     RowID          `json:"id"`
	Fields map[string]any `json:"fields"`
}

// Get returns the value stored under field and whether it is present.
func (r Row) Get(field string) (any, bool) {
	v, ok := r.Fields[field]
	return v, ok
}

// Clone returns a copy of the row that shares no map with r.
func (r Row) Clone() Row {
	fields := make(map[string]any, len(r.Fields))
	for k, v := range r.Fields {
		fields[k] = v
	}
	return Row{ID: r.ID, Fields: fields}
}

// SortDirection is the direction of the active sort.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// SortSpec names the sort field and direction.
// Field should reference an existing column but is not enforced.
type SortSpec struct {
	Field     string        `json:"field"`
	Direction SortDirection `json:"direction"`
}

// Theme is the UI color scheme persisted alongside the table.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// DefaultRowsPerPage is the page size used when none is configured.
const DefaultRowsPerPage = 10

// TableState is the atomic snapshot of everything the engine owns.
// It is never mutated in place: every intent produces a new TableState.
type TableState struct {
	Rows           []Row    `json:"rows"`
	Columns        []Column `json:"columns"`
	VisibleColumns []string `json:"visibleColumns"`
	ColumnOrder    []string `json:"columnOrder"`
	Search         string   `json:"search"`
	Sort           SortSpec `json:"sort"`
	Page           int      `json:"page"`
	RowsPerPage    int      `json:"rowsPerPage"`
	Theme          Theme    `json:"theme"`
}

// Clone returns a deep copy of the state.
func (s TableState) Clone() TableState {
	out := s
	out.Rows = make([]Row, len(s.Rows))
	for i, r := range s.Rows {
		out.Rows[i] = r.Clone()
	}
	out.Columns = slices.Clone(s.Columns)
	out.VisibleColumns = slices.Clone(s.VisibleColumns)
	out.ColumnOrder = slices.Clone(s.ColumnOrder)
	return out
}

// Column returns the column definition for field.
func (s TableState) Column(field string) (Column, bool) {
	for _, c := range s.Columns {
		if c.Field == field {
			return c, true
		}
	}
	return Column{}, false
}

// HasColumn reports whether field is a registered column.
func (s TableState) HasColumn(field string) bool {
	_, ok := s.Column(field)
	return ok
}

// IsVisible reports whether field is in the visibility set.
func (s TableState) IsVisible(field string) bool {
	return slices.Contains(s.VisibleColumns, field)
}

// RowIndex returns the current position of the row with the given id, or -1.
func (s TableState) RowIndex(id RowID) int {
	for i, r := range s.Rows {
		if r.ID == id {
			return i
		}
	}
	return -1
}

// Policy holds the caller-configured rules the reducer enforces.
type Policy struct {
	// ProtectedColumns may never be deleted.
	ProtectedColumns []string
}

// DefaultPolicy protects the four core columns.
func DefaultPolicy() Policy {
	return Policy{ProtectedColumns: []string{"name", "email", "age", "role"}}
}

// IsProtected reports whether field may not be deleted.
func (p Policy) IsProtected(field string) bool {
	return slices.Contains(p.ProtectedColumns, field)
}
