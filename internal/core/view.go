package core

// view.go derives the rendered slice of a TableState.
//
// The pipeline runs in four steps and is a pure function of the snapshot:
//  1. Filter: keep rows where any field, stringified, contains the search text
//     under case folding. Hidden fields are searched too.
//  2. Sort: stable sort by the sort field, numeric for number columns.
//  3. Project: visible columns in order list order.
//  4. Paginate: [page*size, (page+1)*size).

import (
	"cmp"
	"slices"
	"strings"

	"golang.org/x/text/cases"
)

// ViewRow is a row selected for display together with its current position
// in the row store. Index is valid only for this view.
type ViewRow struct {
	Index int `json:"index"`
	Row   Row `json:"row"`
}

// View is the derived output the view layer renders.
type View struct {
	Columns            []Column  `json:"columns"`
	Rows               []ViewRow `json:"rows"`
	TotalCount         int       `json:"totalCount"` // Rows matching the search
	TotalRows          int       `json:"totalRows"`  // Rows in the store
	VisibleColumnCount int       `json:"visibleColumnCount"`
	Page               int       `json:"page"`
	PageSize           int       `json:"pageSize"`
	PageCount          int       `json:"pageCount"`
	Search             string    `json:"search"`
	Sort               SortSpec  `json:"sort"`
	Theme              Theme     `json:"theme"`
}

// Cells returns the row's values for the view's columns as text.
func (v View) Cells(r ViewRow) []string {
	cells := make([]string, len(v.Columns))
	for i, c := range v.Columns {
		cells[i] = Stringify(r.Row.Fields[c.Field])
	}
	return cells
}

// Derive computes the view for a snapshot.
func Derive(s TableState) View {
	matched := filterRows(s.Rows, s.Search)
	sortRows(matched, s)

	cols := s.DisplayColumns()
	total := len(matched)

	return View{
		Columns:            cols,
		Rows:               paginate(matched, s.Page, s.RowsPerPage),
		TotalCount:         total,
		TotalRows:          len(s.Rows),
		VisibleColumnCount: len(cols),
		Page:               s.Page,
		PageSize:           s.RowsPerPage,
		PageCount:          pageCount(total, s.RowsPerPage),
		Search:             s.Search,
		Sort:               s.Sort,
		Theme:              s.Theme,
	}
}

// filterRows keeps rows where any value contains search, ignoring case.
func filterRows(rows []Row, search string) []ViewRow {
	out := make([]ViewRow, 0, len(rows))
	if search == "" {
		for i, r := range rows {
			out = append(out, ViewRow{Index: i, Row: r})
		}
		return out
	}

	fold := cases.Fold()
	needle := fold.String(search)
	for i, r := range rows {
		for _, v := range r.Fields {
			if strings.Contains(fold.String(Stringify(v)), needle) {
				out = append(out, ViewRow{Index: i, Row: r})
				break
			}
		}
	}
	return out
}

// sortRows orders rows by the snapshot's sort spec. Ties keep store order.
func sortRows(rows []ViewRow, s TableState) {
	if s.Sort.Field == "" {
		return
	}
	col, ok := s.Column(s.Sort.Field)
	if !ok {
		col = Column{Field: s.Sort.Field, Type: ColumnString}
	}

	slices.SortStableFunc(rows, func(a, b ViewRow) int {
		c := compareValues(a.Row.Fields[col.Field], b.Row.Fields[col.Field], col.Type)
		if s.Sort.Direction == SortDesc {
			return -c
		}
		return c
	})
}

// compareValues orders absent values first, then, for number columns,
// non-numeric text before numbers.
func compareValues(a, b any, typ ColumnType) int {
	ra, rb := valueRank(a, typ), valueRank(b, typ)
	if ra != rb {
		return cmp.Compare(ra, rb)
	}
	switch ra {
	case rankAbsent:
		return 0
	case rankNumber:
		fa, _ := numberOf(a)
		fb, _ := numberOf(b)
		return cmp.Compare(fa, fb)
	default:
		return strings.Compare(Stringify(a), Stringify(b))
	}
}

const (
	rankAbsent = iota
	rankText
	rankNumber
)

func valueRank(v any, typ ColumnType) int {
	if v == nil {
		return rankAbsent
	}
	if typ == ColumnNumber {
		if _, ok := numberOf(v); ok {
			return rankNumber
		}
	}
	return rankText
}

func numberOf(v any) (float64, bool) {
	switch v := v.(type) {
	case float64:
		return v, true
	case string:
		return ParseNumber(v)
	default:
		return 0, false
	}
}

func paginate(rows []ViewRow, page, size int) []ViewRow {
	if size <= 0 {
		return rows
	}
	// Compare page numbers before multiplying so huge pages cannot overflow.
	if page < 0 || len(rows) == 0 || page > (len(rows)-1)/size {
		return []ViewRow{}
	}
	start := page * size
	end := start + min(size, len(rows)-start)
	return rows[start:end]
}

func pageCount(total, size int) int {
	if size <= 0 || total == 0 {
		return 1
	}
	n := total / size
	if total%size != 0 {
		n++
	}
	return n
}
