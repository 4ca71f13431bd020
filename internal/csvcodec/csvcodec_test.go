package csvcodec

import (
	"bytes"
	"context"
	"encoding/csv"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/datatable/internal/core"
)

func newState() core.TableState {
	n := 0
	return core.DefaultState(func() core.RowID {
		n++
		return core.RowID("r" + strconv.Itoa(n))
	})
}

func TestImport(t *testing.T) {
	in := "name,email,age,role\n" +
		"Ann,ann@example.com,30,Dev\n" +
		"\n" +
		",,,\n" +
		"Ben,ben@example.com,,QA\n"

	res, err := Import(strings.NewReader(in), newState(), DefaultOptions())
	require.NoError(t, err)

	require.Len(t, res.Rows, 2)
	assert.Equal(t, map[string]any{"name": "Ann", "email": "ann@example.com", "age": "30", "role": "Dev"}, res.Rows[0].Fields)
	_, hasAge := res.Rows[1].Fields["age"]
	assert.False(t, hasAge, "empty cells are absent")
	assert.Empty(t, res.Columns)
	assert.Equal(t, 1, res.Skipped)
}

func TestImport_DispatchReplacesRows(t *testing.T) {
	st := core.NewStore(newState())
	in := "name,email,age,role\nAnn,ann@example.com,30,Dev\n"

	res, err := Import(strings.NewReader(in), st.State(), DefaultOptions())
	require.NoError(t, err)

	next, err := st.Dispatch(context.Background(), res.Intent())
	require.NoError(t, err)
	require.Len(t, next.Rows, 1, "import replaces, never merges")
	assert.Equal(t, 30.0, next.Rows[0].Fields["age"])
	assert.NotEmpty(t, next.Rows[0].ID)
}

func TestImport_BOMAndInvalidUTF8(t *testing.T) {
	in := "\xEF\xBB\xBFname,email,age,role\nJos\xE9,j@example.com,1,Dev\n"

	res, err := Import(strings.NewReader(in), newState(), DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, "name", res.Headers[0])
	assert.Equal(t, "Jos\uFFFD", res.Rows[0].Fields["name"])
}

func TestImport_MissingColumns(t *testing.T) {
	in := "name,email,role\nAnn,ann@example.com,Dev\n"

	_, err := Import(strings.NewReader(in), newState(), DefaultOptions())
	var mc core.MissingColumnsError
	require.ErrorAs(t, err, &mc)
	assert.Equal(t, []string{"age"}, mc.Fields)
}

func TestImport_HeaderMatchIsCaseSensitive(t *testing.T) {
	in := "NAME,email,age,role\nAnn,a@x.com,1,Dev\n"

	_, err := Import(strings.NewReader(in), newState(), DefaultOptions())
	var mc core.MissingColumnsError
	require.ErrorAs(t, err, &mc)
	assert.Equal(t, []string{"name"}, mc.Fields)
}

func TestImport_LabelHeaders(t *testing.T) {
	in := "Name,Email,Age,Role\nAnn,a@x.com,1,Dev\n"

	res, err := Import(strings.NewReader(in), newState(), DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "email", "age", "role"}, res.Fields)

	opts := DefaultOptions()
	opts.MatchLabels = false
	_, err = Import(strings.NewReader(in), newState(), opts)
	assert.ErrorAs(t, err, new(core.MissingColumnsError))
}

func TestImport_EmptyData(t *testing.T) {
	for name, in := range map[string]string{
		"empty file":  "",
		"header only": "name,email,age,role\n",
		"blank lines": "name,email,age,role\n\n , , , \n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Import(strings.NewReader(in), newState(), DefaultOptions())
			assert.ErrorIs(t, err, core.ErrEmptyData)
		})
	}
}

func TestImport_FieldCountErrorsAggregated(t *testing.T) {
	in := "name,email,age,role\n" +
		"Ann,a@x.com,1\n" +
		"Ben,b@x.com,2,QA\n" +
		"Cy,c@x.com,3,QA,extra\n"

	_, err := Import(strings.NewReader(in), newState(), DefaultOptions())
	var pe core.ParseError
	require.ErrorAs(t, err, &pe)
	require.Len(t, pe.Errs, 2)
	assert.ErrorIs(t, err, csv.ErrFieldCount)
	assert.True(t, strings.HasPrefix(err.Error(), "CSV parsing errors: "))
}

func TestImport_ExtraFields(t *testing.T) {
	in := "name,email,age,role,Zip Code,department\nAnn,a@x.com,1,Dev,02134,Eng\n"

	res, err := Import(strings.NewReader(in), newState(), DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, []core.Column{
		{Field: "zip_code", Label: "Zip Code", Type: core.ColumnString, Editable: true},
		{Field: "department", Label: "department", Type: core.ColumnString, Editable: true},
	}, res.Columns)
	assert.Equal(t, "02134", res.Rows[0].Fields["zip_code"])

	opts := DefaultOptions()
	opts.ExtraFields = ExtraReject
	_, err = Import(strings.NewReader(in), newState(), opts)
	var ec core.ExtraColumnsError
	require.ErrorAs(t, err, &ec)
	assert.Equal(t, []string{"Zip Code", "department"}, ec.Fields)
}

func TestImport_ConfigurableRequiredFields(t *testing.T) {
	opts := DefaultOptions()
	opts.RequiredFields = []string{"name"}

	res, err := Import(strings.NewReader("name\nAnn\n"), newState(), opts)
	require.NoError(t, err)
	assert.Len(t, res.Rows, 1)
}

func TestImport_TooLarge(t *testing.T) {
	opts := DefaultOptions()
	opts.MaxBytes = 16

	_, err := Import(strings.NewReader("name,email,age,role\nAnn,a@x.com,1,Dev\n"), newState(), opts)
	var fe core.FileTooLargeError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, int64(16), fe.Limit)
}

func TestFieldID(t *testing.T) {
	tests := map[string]string{
		"Zip Code":   "zip_code",
		"  trimmed ": "trimmed",
		"2nd place":  "col_2nd_place",
		"!!!":        "column",
		"already_ok": "already_ok",
	}
	for in, want := range tests {
		assert.Equal(t, want, fieldID(in), in)
	}
}

func TestExport(t *testing.T) {
	s := newState()
	s.Rows[1].Fields = map[string]any{"name": "Jane, Jr.", "age": 32.0}
	s.VisibleColumns = []string{"age", "name"}
	s.Search = "nobody matches this"
	s.RowsPerPage = 1

	var buf bytes.Buffer
	res, err := Export(&buf, s)
	require.NoError(t, err)

	assert.Equal(t, []string{"Name", "Age"}, res.Headers)
	assert.Equal(t, 5, res.Rows)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 6)
	assert.Equal(t, "Name,Age", lines[0])
	assert.Equal(t, "John Doe,28", lines[1])
	assert.Equal(t, `"Jane, Jr.",32`, lines[2])
}

func TestExport_AbsentValues(t *testing.T) {
	s := newState()
	delete(s.Rows[0].Fields, "email")

	var buf bytes.Buffer
	_, err := Export(&buf, s)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "John Doe,,28,Developer\n")
}

func TestExport_NoData(t *testing.T) {
	s := newState()
	s.Rows = nil

	_, err := Export(&bytes.Buffer{}, s)
	assert.ErrorIs(t, err, core.ErrNoData)
}

func TestExport_LabelCollision(t *testing.T) {
	s := newState()
	s, err := core.Reduce(s, core.AddColumn{Column: core.Column{Field: "alias", Label: "Name", Type: core.ColumnString}}, core.DefaultPolicy())
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = Export(&buf, s)
	var lc core.LabelCollisionError
	require.ErrorAs(t, err, &lc)
	assert.Equal(t, []string{"name", "alias"}, lc.Fields)
	assert.Zero(t, buf.Len(), "nothing is written on failure")
}

func TestRoundTrip(t *testing.T) {
	st := core.NewStore(newState())
	ctx := context.Background()
	_, err := st.Dispatch(ctx, core.SampleData())
	require.NoError(t, err)
	before := st.State()

	var buf bytes.Buffer
	_, err = Export(&buf, before)
	require.NoError(t, err)

	res, err := Import(&buf, before, DefaultOptions())
	require.NoError(t, err)
	assert.Empty(t, res.Columns, "labels resolve to the registered columns")

	after, err := st.Dispatch(ctx, res.Intent())
	require.NoError(t, err)
	require.Len(t, after.Rows, len(before.Rows))
	for i := range before.Rows {
		assert.Equal(t, before.Rows[i].Fields, after.Rows[i].Fields)
	}
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "table_export_2024-03-09.csv", Filename(time.Date(2024, 3, 9, 23, 0, 0, 0, time.UTC)))
}
