// Package docstore persists records as JSON documents with a small set of
// indexed fields. Entity modules share one storage contract instead of each
// owning a bespoke repository.
package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"pragati/pkg/domain"
)

// Meta carries the surrogate identity and timestamps every stored record has.
// Models embed it to satisfy Document.
type Meta struct {
	ID        domain.RecordID `json:"id,omitzero"`
	CreatedAt time.Time       `json:"createdAt,omitzero"`
	UpdatedAt time.Time       `json:"updatedAt,omitzero"`
}

// DocMeta returns the embedded metadata. Embedding Meta gives models this
// method for free.
func (m *Meta) DocMeta() *Meta {
	return m
}

// Document is anything a Collection can persist. Ref returns the
// human-readable reference number, which must be unique within a collection
// once assigned. An empty ref is allowed before allocation.
type Document interface {
	DocMeta() *Meta
	Ref() string
}

// Query narrows List, GroupCount and Sum. Equals keys are JSON field names;
// a single dotted level such as "sla.status" reaches into nested objects.
// From and To bound DateField when set.
type Query struct {
	Equals    map[string]string
	DateField string
	From      time.Time
	To        time.Time
	Page      int
	Limit     int
}

// Page is one page of results with the total match count before paging.
type Page[T any] struct {
	Items []T
	Total int
}

// Collection is the storage contract over documents of one type. All
// implementations return coded errors from pkg/domain-errors so handlers can
// map them to HTTP statuses without inspecting the backend.
type Collection[T Document] interface {
	Insert(ctx context.Context, doc T) error
	Get(ctx context.Context, id domain.RecordID) (T, error)
	GetByRef(ctx context.Context, ref string) (T, error)
	Update(ctx context.Context, doc T) error
	Delete(ctx context.Context, id domain.RecordID) error
	List(ctx context.Context, q Query) (Page[T], error)
	GroupCount(ctx context.Context, field string, q Query) (map[string]int, error)
	Sum(ctx context.Context, field string, q Query) (decimal.Decimal, error)
}

// Project flattens a document to its JSON object form. Generic filtering and
// aggregation work on this projection so both backends agree on field names.
func Project(doc any) (map[string]any, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("project document: %w", err)
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("project document: %w", err)
	}
	return m, nil
}

// Lookup resolves a field path in a projection. One dotted level is
// supported, matching the query contract.
func Lookup(m map[string]any, path string) (any, bool) {
	if head, rest, ok := strings.Cut(path, "."); ok {
		nested, isObj := m[head].(map[string]any)
		if !isObj {
			return nil, false
		}
		v, found := nested[rest]
		return v, found
	}
	v, found := m[path]
	return v, found
}

// FieldString renders a projected value for equality comparison. Numbers
// compare by their shortest decimal form so "3" matches a stored 3.
func FieldString(v any) (string, bool) {
	switch t := v.(type) {
	case nil:
		return "", false
	case string:
		return t, true
	case bool:
		if t {
			return "true", true
		}
		return "false", true
	case float64:
		return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%f", t), "0"), "."), true
	default:
		return "", false
	}
}

// FieldDecimal parses a projected value as a decimal amount. Amounts are
// serialized as numeric strings, but plain JSON numbers are accepted too.
func FieldDecimal(v any) (decimal.Decimal, bool) {
	switch t := v.(type) {
	case string:
		d, err := decimal.NewFromString(t)
		if err != nil {
			return decimal.Zero, false
		}
		return d, true
	case float64:
		return decimal.NewFromFloat(t), true
	default:
		return decimal.Zero, false
	}
}

// FieldTime parses a projected value as an RFC 3339 timestamp.
func FieldTime(v any) (time.Time, bool) {
	s, ok := v.(string)
	if !ok {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
