package core

// DefaultColumns returns the four core columns every new table starts with.
func DefaultColumns() []Column {
	return []Column{
		{Field: "name", Label: "Name", Type: ColumnString, Editable: true},
		{Field: "email", Label: "Email", Type: ColumnString, Editable: true},
		{Field: "age", Label: "Age", Type: ColumnNumber, Editable: true},
		{Field: "role", Label: "Role", Type: ColumnString, Editable: true},
	}
}

// DefaultState is the state of a table that has never been persisted:
// the core columns, five seed rows sorted by name, light theme.
func DefaultState(newID func() RowID) TableState {
	cols := DefaultColumns()
	fields := make([]string, len(cols))
	for i, c := range cols {
		fields[i] = c.Field
	}

	seed := []map[string]any{
		person("John Doe", "john@example.com", 28, "Developer"),
		person("Jane Smith", "jane@example.com", 32, "Designer"),
		person("Bob Johnson", "bob@example.com", 45, "Manager"),
		person("Alice Brown", "alice@example.com", 29, "Developer"),
		person("Charlie Wilson", "charlie@example.com", 35, "Analyst"),
	}
	rows := make([]Row, len(seed))
	for i, f := range seed {
		rows[i] = Row{ID: newID(), Fields: f}
	}

	return TableState{
		Rows:           rows,
		Columns:        cols,
		VisibleColumns: fields,
		ColumnOrder:    append([]string(nil), fields...),
		Sort:           SortSpec{Field: "name", Direction: SortAsc},
		RowsPerPage:    DefaultRowsPerPage,
		Theme:          ThemeLight,
	}
}

// SampleData returns the ReplaceData intent behind "load sample data": eight
// people with department and location columns. Row ids are left empty for
// the Store to assign.
func SampleData() ReplaceData {
	type sample struct {
		name, email string
		age         float64
		role, dept  string
		location    string
	}
	people := []sample{
		{"John Doe", "john@example.com", 28, "Developer", "Engineering", "New York"},
		{"Jane Smith", "jane@example.com", 32, "Designer", "Design", "San Francisco"},
		{"Bob Johnson", "bob@example.com", 45, "Manager", "Operations", "Chicago"},
		{"Alice Brown", "alice@example.com", 29, "Developer", "Engineering", "Austin"},
		{"Charlie Wilson", "charlie@example.com", 35, "Analyst", "Finance", "Boston"},
		{"Diana Prince", "diana@example.com", 31, "Designer", "Design", "Los Angeles"},
		{"Frank Miller", "frank@example.com", 38, "Developer", "Engineering", "Seattle"},
		{"Grace Lee", "grace@example.com", 27, "Marketing", "Marketing", "Miami"},
	}

	rows := make([]Row, len(people))
	for i, p := range people {
		f := person(p.name, p.email, p.age, p.role)
		f["department"] = p.dept
		f["location"] = p.location
		rows[i] = Row{Fields: f}
	}
	return ReplaceData{
		Rows: rows,
		Columns: []Column{
			{Field: "department", Label: "Department", Type: ColumnString, Editable: true},
			{Field: "location", Label: "Location", Type: ColumnString, Editable: true},
		},
	}
}

func person(name, email string, age float64, role string) map[string]any {
	return map[string]any{"name": name, "email": email, "age": age, "role": role}
}
