// Package core provides the table state engine.
//
// This package is the heart of the data table, containing all domain logic
// independent of any UI, transport or storage layer. It can be used by web
// handlers, CLI tools, or tests without modification, and it never logs.
//
// # Architecture
//
// The package is organized around a few key concepts:
//
//   - TableState: an immutable snapshot holding the schema registry (columns,
//     order list, visibility set), the row store and the view cursor (search,
//     sort, page, page size, theme).
//   - Intents: the closed set of named state transitions. [Reduce] applies one
//     intent to a snapshot under a [Policy].
//   - Store: the single owner of the current snapshot. [Store.Dispatch]
//     serializes intents, assigns row ids and notifies subscribers.
//   - View: [Derive] filters, sorts, projects and paginates a snapshot.
//
// # Intents
//
// Intents are plain values and can cross process boundaries as an [Envelope]:
//
//	env := core.Envelope{Kind: core.KindEditCell, Payload: raw}
//	intent, err := core.DecodeIntent(env)
//	if err != nil {
//	    return err
//	}
//	next, err := store.Dispatch(ctx, intent)
//
// A failed intent returns a typed error and leaves the snapshot untouched.
//
// # Error Handling
//
// Technical errors are mapped to user-friendly messages using [MapError].
// Each error category has a unique code for support reference:
//
//   - COL001-COL005: Schema errors (duplicates, protected, not found)
//   - ROW001-ROW002: Row store errors (unknown row, bad position)
//   - VAL001-VAL003: Validation errors (numbers, field ids, labels)
//   - CSV001-CSV004: Import and export errors (parse, empty, headers)
//   - FILE001: File errors (size)
//   - REQ001-REQ004: Request errors (cancelled, timeout, rate limited, busy)
//
// # Journal
//
// Every applied intent is recorded in a bounded in-memory [Journal] with a
// severity level:
//
//   - Low: View cursor changes (search, sort, page, theme)
//   - Medium: Cell edits, column renames, visibility and order changes
//   - High: Row and column deletions, bulk replacements
package core
