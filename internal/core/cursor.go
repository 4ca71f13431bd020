package core

// SetSearch sets the global search text and resets the page to 0.
type SetSearch struct {
	Text string `json:"text"`
}

func (SetSearch) Kind() IntentKind { return KindSetSearch }

func (i SetSearch) apply(s TableState, _ Policy) (TableState, error) {
	s.Search = i.Text
	s.Page = 0
	return s, nil
}

// SetSort sets the sort field and direction.
type SetSort struct {
	SortSpec
}

func (SetSort) Kind() IntentKind { return KindSetSort }

func (i SetSort) apply(s TableState, _ Policy) (TableState, error) {
	if i.Direction != SortAsc && i.Direction != SortDesc {
		return s, ValidationError{
			Field:   "direction",
			Value:   string(i.Direction),
			Message: "sort direction must be asc or desc",
		}
	}
	s.Sort = i.SortSpec
	return s, nil
}

// SetPage moves the page cursor. Pages past the end render empty.
type SetPage struct {
	Page int `json:"page"`
}

func (SetPage) Kind() IntentKind { return KindSetPage }

func (i SetPage) apply(s TableState, _ Policy) (TableState, error) {
	if i.Page < 0 {
		return s, RangeError{Op: "setPage", Index: i.Page, Len: pageCount(len(s.Rows), s.RowsPerPage)}
	}
	s.Page = i.Page
	return s, nil
}

// SetPageSize changes the number of rows per page and resets the page to 0.
type SetPageSize struct {
	Size int `json:"size"`
}

func (SetPageSize) Kind() IntentKind { return KindSetPageSize }

func (i SetPageSize) apply(s TableState, _ Policy) (TableState, error) {
	if i.Size <= 0 {
		return s, ValidationError{Field: "rowsPerPage", Message: "rows per page must be positive"}
	}
	s.RowsPerPage = i.Size
	s.Page = 0
	return s, nil
}

// SetTheme switches between the light and dark color scheme.
type SetTheme struct {
	Theme Theme `json:"theme"`
}

func (SetTheme) Kind() IntentKind { return KindSetTheme }

func (i SetTheme) apply(s TableState, _ Policy) (TableState, error) {
	if i.Theme != ThemeLight && i.Theme != ThemeDark {
		return s, ValidationError{Field: "theme", Value: string(i.Theme), Message: "theme must be light or dark"}
	}
	s.Theme = i.Theme
	return s, nil
}
