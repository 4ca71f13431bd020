package core

// intents.go defines the Mutation API.
//
// Every change to a TableState is a named intent. Reduce applies one intent to
// a snapshot and returns the next snapshot, or the unchanged snapshot and an
// error. Intents travel across process boundaries as an Envelope.

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// IntentKind names an intent on the wire.
type IntentKind string

const (
	KindSetRows           IntentKind = "setRows"
	KindReplaceData       IntentKind = "replaceData"
	KindAddRow            IntentKind = "addRow"
	KindUpdateRow         IntentKind = "updateRow"
	KindDeleteRow         IntentKind = "deleteRow"
	KindEditCell          IntentKind = "editCell"
	KindAddColumn         IntentKind = "addColumn"
	KindDeleteColumn      IntentKind = "deleteColumn"
	KindRenameColumn      IntentKind = "renameColumn"
	KindSetVisibleColumns IntentKind = "setVisibleColumns"
	KindReorderColumns    IntentKind = "reorderColumns"
	KindSetSearch         IntentKind = "setSearch"
	KindSetSort           IntentKind = "setSort"
	KindSetPage           IntentKind = "setPage"
	KindSetPageSize       IntentKind = "setPageSize"
	KindSetTheme          IntentKind = "setTheme"
)

// Intent is a single state transition. The set of intents is closed.
type Intent interface {
	Kind() IntentKind
	apply(s TableState, p Policy) (TableState, error)
}

// Reduce applies intent to state. The input snapshot is never modified; on
// error the returned snapshot is state itself.
func Reduce(state TableState, intent Intent, policy Policy) (TableState, error) {
	if intent == nil {
		return state, ValidationError{Message: "intent is required"}
	}
	next, err := intent.apply(state.Clone(), policy)
	if err != nil {
		return state, err
	}
	return next, nil
}

// Envelope is the serialized form of an intent.
type Envelope struct {
	Kind    IntentKind      `json:"kind"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// newIntent returns a pointer to a zero intent of the given kind.
func newIntent(kind IntentKind) (Intent, bool) {
	switch kind {
	case KindSetRows:
		return &SetRows{}, true
	case KindReplaceData:
		return &ReplaceData{}, true
	case KindAddRow:
		return &AddRow{}, true
	case KindUpdateRow:
		return &UpdateRow{}, true
	case KindDeleteRow:
		return &DeleteRow{}, true
	case KindEditCell:
		return &EditCell{}, true
	case KindAddColumn:
		return &AddColumn{}, true
	case KindDeleteColumn:
		return &DeleteColumn{}, true
	case KindRenameColumn:
		return &RenameColumn{}, true
	case KindSetVisibleColumns:
		return &SetVisibleColumns{}, true
	case KindReorderColumns:
		return &ReorderColumns{}, true
	case KindSetSearch:
		return &SetSearch{}, true
	case KindSetSort:
		return &SetSort{}, true
	case KindSetPage:
		return &SetPage{}, true
	case KindSetPageSize:
		return &SetPageSize{}, true
	case KindSetTheme:
		return &SetTheme{}, true
	default:
		return nil, false
	}
}

// DecodeIntent turns an envelope into a typed intent.
func DecodeIntent(env Envelope) (Intent, error) {
	ptr, ok := newIntent(env.Kind)
	if !ok {
		return nil, ValidationError{Field: "kind", Value: string(env.Kind), Message: "unknown intent kind"}
	}

	payload := bytes.TrimSpace(env.Payload)
	if len(payload) > 0 && !bytes.Equal(payload, []byte("null")) {
		if err := json.Unmarshal(payload, ptr); err != nil {
			return nil, ValidationError{
				Field:   "payload",
				Message: fmt.Sprintf("invalid %s payload: %v", env.Kind, err),
			}
		}
	}
	return deref(ptr), nil
}

// EncodeIntent serializes an intent into an envelope.
func EncodeIntent(intent Intent) (Envelope, error) {
	payload, err := json.Marshal(intent)
	if err != nil {
		return Envelope{}, fmt.Errorf("encode %s: %w", intent.Kind(), err)
	}
	return Envelope{Kind: intent.Kind(), Payload: payload}, nil
}

// deref converts the pointer returned by newIntent back into a value intent
// so that callers can type-switch on value types only.
func deref(i Intent) Intent {
	switch v := i.(type) {
	case *SetRows:
		return *v
	case *ReplaceData:
		return *v
	case *AddRow:
		return *v
	case *UpdateRow:
		return *v
	case *DeleteRow:
		return *v
	case *EditCell:
		return *v
	case *AddColumn:
		return *v
	case *DeleteColumn:
		return *v
	case *RenameColumn:
		return *v
	case *SetVisibleColumns:
		return *v
	case *ReorderColumns:
		return *v
	case *SetSearch:
		return *v
	case *SetSort:
		return *v
	case *SetPage:
		return *v
	case *SetPageSize:
		return *v
	case *SetTheme:
		return *v
	default:
		return i
	}
}
