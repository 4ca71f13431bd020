package core

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeIntent(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    Intent
		wantErr string
	}{
		{
			name: "edit cell by id",
			raw:  `{"kind":"editCell","payload":{"id":"r1","field":"age","value":"30"}}`,
			want: EditCell{RowRef: RowRef{ID: "r1"}, Field: "age", Value: "30"},
		},
		{
			name: "add column flattens the definition",
			raw:  `{"kind":"addColumn","payload":{"field":"city","label":"City","type":"string","editable":true}}`,
			want: AddColumn{Column{Field: "city", Label: "City", Type: ColumnString, Editable: true}},
		},
		{
			name: "sort",
			raw:  `{"kind":"setSort","payload":{"field":"age","direction":"desc"}}`,
			want: SetSort{SortSpec{Field: "age", Direction: SortDesc}},
		},
		{
			name: "reorder",
			raw:  `{"kind":"reorderColumns","payload":{"sourceIndex":2,"destinationIndex":0}}`,
			want: ReorderColumns{SourceIndex: 2, DestinationIndex: 0},
		},
		{
			name: "missing payload gives zero intent",
			raw:  `{"kind":"setSearch"}`,
			want: SetSearch{},
		},
		{
			name:    "unknown kind",
			raw:     `{"kind":"dropTable","payload":{}}`,
			wantErr: "kind: unknown intent kind",
		},
		{
			name:    "malformed payload",
			raw:     `{"kind":"setPage","payload":{"page":"two"}}`,
			wantErr: "payload: invalid setPage payload",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var env Envelope
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &env))

			got, err := DecodeIntent(env)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEncodeIntent(t *testing.T) {
	env, err := EncodeIntent(DeleteRow{RowRef{ID: "r9"}})
	require.NoError(t, err)

	assert.Equal(t, KindDeleteRow, env.Kind)
	assert.JSONEq(t, `{"id":"r9"}`, string(env.Payload))

	back, err := DecodeIntent(env)
	require.NoError(t, err)
	assert.Equal(t, DeleteRow{RowRef{ID: "r9"}}, back)
}

func TestReduce_NilIntent(t *testing.T) {
	s := defaultState(t)
	next, err := Reduce(s, nil, DefaultPolicy())
	assert.Error(t, err)
	assert.Equal(t, s, next)
}

func TestCursorIntents(t *testing.T) {
	s := defaultState(t)
	s.Page = 2

	next, err := Reduce(s, SetSearch{Text: "dev"}, DefaultPolicy())
	require.NoError(t, err)
	assert.Equal(t, "dev", next.Search)
	assert.Equal(t, 0, next.Page, "search resets the page")

	next, err = Reduce(next, SetPage{Page: 4}, DefaultPolicy())
	require.NoError(t, err)
	assert.Equal(t, 4, next.Page)

	_, err = Reduce(next, SetPage{Page: -1}, DefaultPolicy())
	assert.ErrorAs(t, err, new(RangeError))

	next, err = Reduce(next, SetPageSize{Size: 25}, DefaultPolicy())
	require.NoError(t, err)
	assert.Equal(t, 25, next.RowsPerPage)
	assert.Equal(t, 0, next.Page)

	_, err = Reduce(next, SetPageSize{Size: 0}, DefaultPolicy())
	assert.ErrorAs(t, err, new(ValidationError))

	_, err = Reduce(next, SetSort{SortSpec{Field: "age", Direction: "up"}}, DefaultPolicy())
	assert.ErrorAs(t, err, new(ValidationError))

	next, err = Reduce(next, SetTheme{Theme: ThemeDark}, DefaultPolicy())
	require.NoError(t, err)
	assert.Equal(t, ThemeDark, next.Theme)

	_, err = Reduce(next, SetTheme{Theme: "blue"}, DefaultPolicy())
	assert.ErrorAs(t, err, new(ValidationError))
}
