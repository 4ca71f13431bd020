package core

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	ids := seqIDs()
	opts = append([]Option{WithIDFunc(ids)}, opts...)
	return NewStore(DefaultState(ids), opts...)
}

func TestStore_DispatchAssignsRowIDs(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	rows := []Row{{Fields: map[string]any{"name": "A"}}, {ID: "keep", Fields: map[string]any{"name": "B"}}}
	next, err := st.Dispatch(ctx, SetRows{Rows: rows})
	require.NoError(t, err)

	require.Len(t, next.Rows, 2)
	assert.NotEmpty(t, next.Rows[0].ID)
	assert.Equal(t, RowID("keep"), next.Rows[1].ID)
	assert.Empty(t, rows[0].ID, "caller rows are not modified")

	next, err = st.Dispatch(ctx, AddRow{Row: Row{Fields: map[string]any{"name": "C"}}})
	require.NoError(t, err)
	assert.NotEmpty(t, next.Rows[2].ID)
}

func TestStore_FailedDispatchKeepsState(t *testing.T) {
	st := newTestStore(t)
	before := st.State()

	got, err := st.Dispatch(context.Background(), DeleteColumn{Field: "name"})
	require.ErrorAs(t, err, new(ProtectedColumnError))
	assert.Equal(t, before, got)
	assert.Equal(t, before, st.State())

	history := st.History()
	require.Len(t, history, 1)
	assert.True(t, history[0].Failed())
	assert.Equal(t, SeverityHigh, history[0].Severity)
}

func TestStore_StateIsACopy(t *testing.T) {
	st := newTestStore(t)

	s := st.State()
	s.Rows[0].Fields["name"] = "Mallory"
	s.Columns[0].Label = "Hacked"

	again := st.State()
	assert.Equal(t, "John Doe", again.Rows[0].Fields["name"])
	assert.Equal(t, "Name", again.Columns[0].Label)
}

func TestStore_CancelledContext(t *testing.T) {
	st := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := st.Dispatch(ctx, SetSearch{Text: "x"})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, "", st.State().Search)
}

func TestStore_Subscribe(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	var got []string
	unsubscribe := st.Subscribe(func(s TableState) { got = append(got, s.Search) })

	_, err := st.Dispatch(ctx, SetSearch{Text: "a"})
	require.NoError(t, err)
	_, err = st.Dispatch(ctx, SetPage{Page: -1})
	require.Error(t, err)
	_, err = st.Dispatch(ctx, SetSearch{Text: "b"})
	require.NoError(t, err)

	unsubscribe()
	_, err = st.Dispatch(ctx, SetSearch{Text: "c"})
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b"}, got, "only accepted snapshots are delivered")
}

func TestStore_ConcurrentDispatch(t *testing.T) {
	st := newTestStore(t, WithIDFunc(NewRowID))
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := st.Dispatch(ctx, AddRow{Row: Row{Fields: map[string]any{"name": "x"}}})
			assert.NoError(t, err)
			_ = st.View()
		}()
	}
	wg.Wait()

	assert.Len(t, st.State().Rows, 55)
	assert.Len(t, st.History(), 50)
}

func TestStore_ReplaceNormalizes(t *testing.T) {
	st := newTestStore(t)

	got := st.Replace(TableState{
		Columns:     DefaultColumns(),
		ColumnOrder: []string{"age", "ghost"},
		Rows:        []Row{{Fields: map[string]any{"name": "Solo"}}},
	})

	assert.Equal(t, []string{"age", "name", "email", "role"}, got.ColumnOrder)
	assert.Empty(t, got.VisibleColumns)
	assert.NotEmpty(t, got.Rows[0].ID)
	assert.Equal(t, DefaultRowsPerPage, got.RowsPerPage)
}

func TestStore_Policy(t *testing.T) {
	st := newTestStore(t, WithPolicy(Policy{ProtectedColumns: []string{"email"}}))

	_, err := st.Dispatch(context.Background(), DeleteColumn{Field: "name"})
	require.NoError(t, err)
	_, err = st.Dispatch(context.Background(), DeleteColumn{Field: "email"})
	assert.ErrorAs(t, err, new(ProtectedColumnError))
}
