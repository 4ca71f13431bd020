package core

import (
	"context"
	"fmt"
	"testing"
)

// ============================================================================
// Conversion Benchmarks
// ============================================================================

// BenchmarkParseNumber benchmarks numeric cell parsing.
// This is a hot path during CSV import for number columns.
func BenchmarkParseNumber(b *testing.B) {
	testCases := []string{
		"123",
		"456.78",
		"  999.99  ", // Whitespace
		".5",
		"12abc", // Rejected
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, tc := range testCases {
			ParseNumber(tc)
		}
	}
}

// BenchmarkParseNumber_Simple benchmarks the most common case: plain integers.
func BenchmarkParseNumber_Simple(b *testing.B) {
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ParseNumber("12345")
	}
}

func BenchmarkValidateCell(b *testing.B) {
	col := Column{Field: "age", Label: "Age", Type: ColumnNumber, Editable: true}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _, _ = ValidateCell("42", col)
	}
}

// ============================================================================
// View Benchmarks
// ============================================================================

// BenchmarkDerive benchmarks view derivation over the default table.
func BenchmarkDerive(b *testing.B) {
	s := DefaultState(seqIDs())

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Derive(s)
	}
}

// BenchmarkDerive_Large benchmarks search, sort and pagination over a
// table the size of a large import.
func BenchmarkDerive_Large(b *testing.B) {
	s := generateState(10000)
	s.Search = "developer"
	s.Sort = SortSpec{Field: "age", Direction: SortDesc}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Derive(s)
	}
}

// ============================================================================
// Reducer Benchmarks
// ============================================================================

func BenchmarkReduce_EditCell(b *testing.B) {
	s := generateState(1000)
	intent := EditCell{RowRef: RowRef{ID: s.Rows[500].ID}, Field: "age", Value: "41"}
	policy := DefaultPolicy()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Reduce(s, intent, policy); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkReduce_DeleteColumn(b *testing.B) {
	s := generateState(1000)
	s, _ = Reduce(s, AddColumn{Column: Column{Field: "team", Label: "Team", Type: ColumnString}}, DefaultPolicy())

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Reduce(s, DeleteColumn{Field: "team"}, DefaultPolicy()); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkStoreDispatchParallel measures Dispatch under contention from
// concurrent readers and writers.
func BenchmarkStoreDispatchParallel(b *testing.B) {
	store := NewStore(generateState(100))
	ctx := context.Background()

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		n := 0
		for pb.Next() {
			n++
			if n%4 == 0 {
				_, _ = store.Dispatch(ctx, SetSearch{Text: "a"})
				continue
			}
			store.View()
		}
	})
}

// ============================================================================
// Helpers
// ============================================================================

// generateState returns the default schema with rows generated rows.
func generateState(rows int) TableState {
	roles := []string{"Developer", "Designer", "Manager", "Analyst"}
	s := DefaultState(seqIDs())
	s.Rows = make([]Row, rows)
	for i := range s.Rows {
		s.Rows[i] = Row{
			ID: RowID(fmt.Sprintf("g%d", i)),
			Fields: map[string]any{
				"name":  fmt.Sprintf("Person %d", i),
				"email": fmt.Sprintf("person%d@example.com", i),
				"age":   float64(20 + i%50),
				"role":  roles[i%len(roles)],
			},
		}
	}
	return s
}
