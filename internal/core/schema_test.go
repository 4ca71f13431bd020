package core

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seqIDs returns a deterministic row id generator.
func seqIDs() func() RowID {
	n := 0
	return func() RowID {
		n++
		return RowID("r" + strconv.Itoa(n))
	}
}

func defaultState(t *testing.T) TableState {
	t.Helper()
	return DefaultState(seqIDs())
}

func TestAddColumn(t *testing.T) {
	s := defaultState(t)

	next, err := Reduce(s, AddColumn{Column{Field: "city", Label: "City", Type: ColumnString, Editable: true}}, DefaultPolicy())
	require.NoError(t, err)

	assert.True(t, next.HasColumn("city"))
	assert.Equal(t, "city", next.ColumnOrder[len(next.ColumnOrder)-1])
	assert.True(t, next.IsVisible("city"))
	for _, r := range next.Rows {
		_, ok := r.Get("city")
		assert.False(t, ok, "existing rows must not gain the field")
	}
	assert.False(t, s.HasColumn("city"), "input state must not change")
}

func TestAddColumn_Rejects(t *testing.T) {
	tests := []struct {
		name string
		col  Column
		want any
	}{
		{
			name: "duplicate field",
			col:  Column{Field: "name", Label: "Other", Type: ColumnString},
			want: DuplicateFieldError{},
		},
		{
			name: "field starts with digit",
			col:  Column{Field: "1st", Label: "First", Type: ColumnString},
			want: ValidationError{},
		},
		{
			name: "field with space",
			col:  Column{Field: "first name", Label: "First", Type: ColumnString},
			want: ValidationError{},
		},
		{
			name: "blank label",
			col:  Column{Field: "city", Label: "  ", Type: ColumnString},
			want: ValidationError{},
		},
		{
			name: "unknown type",
			col:  Column{Field: "city", Label: "City", Type: "date"},
			want: ValidationError{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := defaultState(t)
			next, err := Reduce(s, AddColumn{tt.col}, DefaultPolicy())
			require.Error(t, err)
			assert.IsType(t, tt.want, err)
			assert.Equal(t, s, next)
		})
	}
}

func TestDeleteColumn(t *testing.T) {
	s := defaultState(t)
	s, err := Reduce(s, AddColumn{Column{Field: "city", Label: "City", Type: ColumnString}}, DefaultPolicy())
	require.NoError(t, err)
	s, err = Reduce(s, EditCell{RowRef: RowRef{Index: 0}, Field: "city", Value: "Oslo"}, DefaultPolicy())
	require.Error(t, err, "city is not editable")

	s.Rows[0].Fields["city"] = "Oslo"
	next, err := Reduce(s, DeleteColumn{Field: "city"}, DefaultPolicy())
	require.NoError(t, err)

	assert.False(t, next.HasColumn("city"))
	assert.NotContains(t, next.ColumnOrder, "city")
	assert.NotContains(t, next.VisibleColumns, "city")
	_, ok := next.Rows[0].Get("city")
	assert.False(t, ok)
}

func TestAddThenDeleteColumn_LeavesNoResidue(t *testing.T) {
	before := defaultState(t)

	s, err := Reduce(before, AddColumn{Column{Field: "city", Label: "City", Type: ColumnString, Editable: true}}, DefaultPolicy())
	require.NoError(t, err)
	s, err = Reduce(s, EditCell{RowRef: RowRef{Index: 1}, Field: "city", Value: "Oslo"}, DefaultPolicy())
	require.NoError(t, err)

	after, err := Reduce(s, DeleteColumn{Field: "city"}, DefaultPolicy())
	require.NoError(t, err)

	assert.Equal(t, before.Columns, after.Columns)
	assert.Equal(t, before.ColumnOrder, after.ColumnOrder)
	assert.Equal(t, before.VisibleColumns, after.VisibleColumns)
	assert.Equal(t, before.Rows, after.Rows)
}

func TestDeleteColumn_Protected(t *testing.T) {
	s := defaultState(t)

	for _, f := range []string{"name", "email", "age", "role"} {
		_, err := Reduce(s, DeleteColumn{Field: f}, DefaultPolicy())
		var pe ProtectedColumnError
		require.ErrorAs(t, err, &pe)
		assert.Equal(t, f, pe.Field)
	}

	_, err := Reduce(s, DeleteColumn{Field: "role"}, Policy{})
	assert.NoError(t, err, "policy decides what is protected")
}

func TestDeleteColumn_NotFound(t *testing.T) {
	_, err := Reduce(defaultState(t), DeleteColumn{Field: "missing"}, DefaultPolicy())
	assert.ErrorAs(t, err, new(ColumnNotFoundError))
}

func TestRenameColumn(t *testing.T) {
	s := defaultState(t)

	next, err := Reduce(s, RenameColumn{Field: "email", Label: "E-mail"}, DefaultPolicy())
	require.NoError(t, err)
	col, _ := next.Column("email")
	assert.Equal(t, "E-mail", col.Label)

	_, err = Reduce(s, RenameColumn{Field: "email", Label: ""}, DefaultPolicy())
	assert.ErrorAs(t, err, new(ValidationError))

	_, err = Reduce(s, RenameColumn{Field: "nope", Label: "X"}, DefaultPolicy())
	assert.ErrorAs(t, err, new(ColumnNotFoundError))
}

func TestSetVisibleColumns(t *testing.T) {
	s := defaultState(t)

	next, err := Reduce(s, SetVisibleColumns{Fields: []string{"role", "ghost", "name", "role"}}, DefaultPolicy())
	require.NoError(t, err)
	assert.Equal(t, []string{"role", "name"}, next.VisibleColumns)

	// Display order follows the order list, not the visibility set.
	fields := []string{}
	for _, c := range next.DisplayColumns() {
		fields = append(fields, c.Field)
	}
	assert.Equal(t, []string{"name", "role"}, fields)
}

func TestReorderColumns(t *testing.T) {
	tests := []struct {
		name     string
		src, dst int
		want     []string
	}{
		{name: "move first to last", src: 0, dst: 3, want: []string{"email", "age", "role", "name"}},
		{name: "move last to first", src: 3, dst: 0, want: []string{"role", "name", "email", "age"}},
		{name: "splice not swap", src: 0, dst: 2, want: []string{"email", "age", "name", "role"}},
		{name: "same position", src: 1, dst: 1, want: []string{"name", "email", "age", "role"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := defaultState(t)
			next, err := Reduce(s, ReorderColumns{SourceIndex: tt.src, DestinationIndex: tt.dst}, DefaultPolicy())
			require.NoError(t, err)
			assert.Equal(t, tt.want, next.ColumnOrder)
			assert.ElementsMatch(t, s.ColumnOrder, next.ColumnOrder, "order list stays a permutation")
			assert.Equal(t, []string{"name", "email", "age", "role"}, s.ColumnOrder)
		})
	}
}

func TestReorderColumns_OutOfRange(t *testing.T) {
	s := defaultState(t)

	for _, in := range []ReorderColumns{
		{SourceIndex: -1, DestinationIndex: 0},
		{SourceIndex: 0, DestinationIndex: 4},
		{SourceIndex: 9, DestinationIndex: 9},
	} {
		next, err := Reduce(s, in, DefaultPolicy())
		var re RangeError
		require.ErrorAs(t, err, &re)
		assert.Equal(t, 4, re.Len)
		assert.Equal(t, s.ColumnOrder, next.ColumnOrder)
	}
}
