package core

import (
	"encoding/json"
	"fmt"
	"slices"
)

// MarshalState encodes a snapshot for persistence.
func MarshalState(s TableState) ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshal table state: %w", err)
	}
	return data, nil
}

// UnmarshalState decodes a persisted snapshot and repairs it with Normalize.
// Rows persisted without an id are given one from newID.
func UnmarshalState(data []byte, newID func() RowID) (TableState, error) {
	var s TableState
	if err := json.Unmarshal(data, &s); err != nil {
		return TableState{}, fmt.Errorf("unmarshal table state: %w", err)
	}
	return Normalize(s, newID), nil
}

// Normalize restores the snapshot invariants on state loaded from outside
// the reducer:
//   - the order list becomes a permutation of the registered fields
//   - the visibility set becomes a subset of them, without duplicates
//   - every row has a fields map, a unique id and normalized values
//   - page size, page and theme take defaults when unset or invalid
func Normalize(s TableState, newID func() RowID) TableState {
	s = s.Clone()

	cols := make([]Column, 0, len(s.Columns))
	for _, c := range s.Columns {
		if c.Field == "" || slices.ContainsFunc(cols, func(o Column) bool { return o.Field == c.Field }) {
			continue
		}
		if !c.Type.Valid() {
			c.Type = ColumnString
		}
		if c.Label == "" {
			c.Label = c.Field
		}
		cols = append(cols, c)
	}
	s.Columns = cols

	order := make([]string, 0, len(cols))
	for _, f := range s.ColumnOrder {
		if s.HasColumn(f) && !slices.Contains(order, f) {
			order = append(order, f)
		}
	}
	for _, c := range cols {
		if !slices.Contains(order, c.Field) {
			order = append(order, c.Field)
		}
	}
	s.ColumnOrder = order

	visible := make([]string, 0, len(s.VisibleColumns))
	for _, f := range s.VisibleColumns {
		if s.HasColumn(f) && !slices.Contains(visible, f) {
			visible = append(visible, f)
		}
	}
	s.VisibleColumns = visible

	seen := make(map[RowID]struct{}, len(s.Rows))
	for i := range s.Rows {
		r := &s.Rows[i]
		if _, dup := seen[r.ID]; r.ID == "" || dup {
			r.ID = newID()
		}
		seen[r.ID] = struct{}{}

		fields := make(map[string]any, len(r.Fields))
		for k, v := range r.Fields {
			if nv, present, err := NormalizeValue(v); err == nil && present {
				fields[k] = nv
			}
		}
		r.Fields = fields
	}

	if s.RowsPerPage <= 0 {
		s.RowsPerPage = DefaultRowsPerPage
	}
	if s.Page < 0 {
		s.Page = 0
	}
	if s.Theme != ThemeLight && s.Theme != ThemeDark {
		s.Theme = ThemeLight
	}
	if s.Sort.Direction != SortAsc && s.Sort.Direction != SortDesc {
		s.Sort.Direction = SortAsc
	}
	return s
}
