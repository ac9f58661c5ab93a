package docstore

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	dErrors "pragati/pkg/domain-errors"
	"pragati/pkg/domain"
)

// Ptr constrains the pointer form of a stored model.
type Ptr[T any] interface {
	*T
	Document
}

// Memory is an in-process Collection used in development and tests. Records
// are held in their JSON form so filtering and aggregation behave exactly as
// they do against the database backend.
type Memory[T any, PT Ptr[T]] struct {
	mu   sync.RWMutex
	docs map[domain.RecordID][]byte
	refs map[string]domain.RecordID
}

// NewMemory creates an empty in-memory collection.
func NewMemory[T any, PT Ptr[T]]() *Memory[T, PT] {
	return &Memory[T, PT]{
		docs: make(map[domain.RecordID][]byte),
		refs: make(map[string]domain.RecordID),
	}
}

func (s *Memory[T, PT]) Insert(_ context.Context, doc PT) error {
	id := doc.DocMeta().ID
	if id.IsZero() {
		return dErrors.New(dErrors.CodeInternal, "document has no id")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.docs[id]; exists {
		return dErrors.New(dErrors.CodeConflict, "record already exists")
	}
	if ref := doc.Ref(); ref != "" {
		if _, taken := s.refs[ref]; taken {
			return dErrors.New(dErrors.CodeConflict, "reference number already in use")
		}
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "encode record")
	}
	s.docs[id] = raw
	if ref := doc.Ref(); ref != "" {
		s.refs[ref] = id
	}
	return nil
}

func (s *Memory[T, PT]) Get(_ context.Context, id domain.RecordID) (PT, error) {
	s.mu.RLock()
	raw, ok := s.docs[id]
	s.mu.RUnlock()
	if !ok {
		return nil, dErrors.New(dErrors.CodeNotFound, "record not found")
	}
	return s.decode(raw)
}

func (s *Memory[T, PT]) GetByRef(_ context.Context, ref string) (PT, error) {
	s.mu.RLock()
	id, ok := s.refs[ref]
	var raw []byte
	if ok {
		raw = s.docs[id]
	}
	s.mu.RUnlock()
	if !ok {
		return nil, dErrors.New(dErrors.CodeNotFound, "record not found")
	}
	return s.decode(raw)
}

func (s *Memory[T, PT]) Update(_ context.Context, doc PT) error {
	id := doc.DocMeta().ID

	s.mu.Lock()
	defer s.mu.Unlock()

	prev, ok := s.docs[id]
	if !ok {
		return dErrors.New(dErrors.CodeNotFound, "record not found")
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "encode record")
	}

	// Reindex when an update assigns or changes the reference number.
	var prevDoc T
	if err := json.Unmarshal(prev, PT(&prevDoc)); err == nil {
		if oldRef := PT(&prevDoc).Ref(); oldRef != "" && oldRef != doc.Ref() {
			delete(s.refs, oldRef)
		}
	}
	if ref := doc.Ref(); ref != "" {
		if other, taken := s.refs[ref]; taken && other != id {
			return dErrors.New(dErrors.CodeConflict, "reference number already in use")
		}
		s.refs[ref] = id
	}
	s.docs[id] = raw
	return nil
}

func (s *Memory[T, PT]) Delete(_ context.Context, id domain.RecordID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, ok := s.docs[id]
	if !ok {
		return dErrors.New(dErrors.CodeNotFound, "record not found")
	}
	var doc T
	if err := json.Unmarshal(raw, PT(&doc)); err == nil {
		if ref := PT(&doc).Ref(); ref != "" {
			delete(s.refs, ref)
		}
	}
	delete(s.docs, id)
	return nil
}

func (s *Memory[T, PT]) List(_ context.Context, q Query) (Page[PT], error) {
	matched, err := s.match(q)
	if err != nil {
		return Page[PT]{}, err
	}

	total := len(matched)
	if q.Limit > 0 {
		page := q.Page
		if page < 1 {
			page = 1
		}
		start := (page - 1) * q.Limit
		if start > total {
			start = total
		}
		end := start + q.Limit
		if end > total {
			end = total
		}
		matched = matched[start:end]
	}

	items := make([]PT, 0, len(matched))
	for _, m := range matched {
		doc, err := s.decode(m.raw)
		if err != nil {
			return Page[PT]{}, err
		}
		items = append(items, doc)
	}
	return Page[PT]{Items: items, Total: total}, nil
}

func (s *Memory[T, PT]) GroupCount(_ context.Context, field string, q Query) (map[string]int, error) {
	matched, err := s.match(q)
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int)
	for _, m := range matched {
		v, ok := Lookup(m.proj, field)
		if !ok {
			continue
		}
		if key, ok := FieldString(v); ok {
			counts[key]++
		}
	}
	return counts, nil
}

func (s *Memory[T, PT]) Sum(_ context.Context, field string, q Query) (decimal.Decimal, error) {
	matched, err := s.match(q)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, m := range matched {
		v, ok := Lookup(m.proj, field)
		if !ok {
			continue
		}
		if d, ok := FieldDecimal(v); ok {
			total = total.Add(d)
		}
	}
	return total, nil
}

type memoryMatch struct {
	raw     []byte
	proj    map[string]any
	created time.Time
}

// match snapshots matching records sorted newest first.
func (s *Memory[T, PT]) match(q Query) ([]memoryMatch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]memoryMatch, 0, len(s.docs))
	for _, raw := range s.docs {
		var proj map[string]any
		if err := json.Unmarshal(raw, &proj); err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "decode record")
		}
		if !matches(proj, q) {
			continue
		}
		created, _ := FieldTime(proj["createdAt"])
		matched = append(matched, memoryMatch{raw: raw, proj: proj, created: created})
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].created.After(matched[j].created)
	})
	return matched, nil
}

func matches(proj map[string]any, q Query) bool {
	for field, want := range q.Equals {
		v, ok := Lookup(proj, field)
		if !ok {
			return false
		}
		got, ok := FieldString(v)
		if !ok || got != want {
			return false
		}
	}
	if q.DateField != "" && (!q.From.IsZero() || !q.To.IsZero()) {
		v, ok := Lookup(proj, q.DateField)
		if !ok {
			return false
		}
		t, ok := FieldTime(v)
		if !ok {
			return false
		}
		if !q.From.IsZero() && t.Before(q.From) {
			return false
		}
		if !q.To.IsZero() && t.After(q.To) {
			return false
		}
	}
	return true
}

func (s *Memory[T, PT]) decode(raw []byte) (PT, error) {
	var doc T
	if err := json.Unmarshal(raw, PT(&doc)); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "decode record")
	}
	return PT(&doc), nil
}
