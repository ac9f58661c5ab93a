package workflow

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"pragati/internal/docstore"
	"pragati/internal/platform/metrics"
	"pragati/internal/workflow/sequence"
	dErrors "pragati/pkg/domain-errors"
	"pragati/pkg/domain"
	"pragati/pkg/requestcontext"
)

// Service implements the shared record lifecycle over a Spec: create with
// reference allocation, dual-form lookup, merge updates, audited status
// transitions, assignment, comments, delete and aggregate stats.
type Service[T any, PT Ptr[T]] struct {
	spec    Spec[PT]
	store   docstore.Collection[PT]
	seq     sequence.Generator
	log     *slog.Logger
	metrics *metrics.Metrics
}

// NewService wires a service for one entity module.
func NewService[T any, PT Ptr[T]](spec Spec[PT], store docstore.Collection[PT], seq sequence.Generator, log *slog.Logger, m *metrics.Metrics) *Service[T, PT] {
	return &Service[T, PT]{
		spec:    spec,
		store:   store,
		seq:     seq,
		log:     log.With("module", spec.Name),
		metrics: m,
	}
}

// Create persists a new record. The audit trail is reset to the opening
// entry regardless of what the payload carried, and the reference number is
// allocated from the sequence backend after validation so rejected requests
// never burn a counter value.
func (s *Service[T, PT]) Create(ctx context.Context, doc PT) (PT, error) {
	now := requestcontext.Now(ctx).UTC()
	actor := requestcontext.UserID(ctx)

	meta := doc.DocMeta()
	meta.ID = domain.NewRecordID()
	meta.CreatedAt = now
	meta.UpdatedAt = now

	if s.spec.Defaults != nil {
		s.spec.Defaults(doc, now)
	}

	status := doc.AuditTrail().Status
	if status == "" {
		status = s.spec.Statuses.Default
	}
	if !s.spec.Statuses.Valid(status) {
		return nil, dErrors.Newf(dErrors.CodeValidation, "invalid status %q", status)
	}
	*doc.AuditTrail() = Trail{}
	doc.AuditTrail().Transition(status, actor, now, s.spec.Label+" created")

	if s.spec.Validate != nil {
		if err := s.spec.Validate(doc); err != nil {
			return nil, err
		}
	}

	key := s.spec.SequenceKey(doc, now)
	n, err := s.seq.Next(ctx, key)
	if err != nil {
		s.metrics.IncrementSequenceFailure(s.spec.Name)
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "allocate reference number")
	}
	s.spec.SetRef(doc, s.spec.FormatRef(key, n, now))

	if err := s.store.Insert(ctx, doc); err != nil {
		return nil, err
	}
	s.metrics.IncrementRecordCreated(s.spec.Name)
	s.log.InfoContext(ctx, "record created", "id", meta.ID, "ref", doc.Ref())
	return doc, nil
}

// Get resolves a record by surrogate ID or reference number. UUID-shaped
// input looks up by ID, everything else by reference.
func (s *Service[T, PT]) Get(ctx context.Context, idOrRef string) (PT, error) {
	if id, err := domain.ParseRecordID(idOrRef); err == nil {
		return s.store.Get(ctx, id)
	}
	return s.store.GetByRef(ctx, idOrRef)
}

// List returns a page of records matching the query.
func (s *Service[T, PT]) List(ctx context.Context, q docstore.Query) (docstore.Page[PT], error) {
	return s.store.List(ctx, q)
}

// Update merges a partial payload into the record. Identity, timestamps, the
// reference number and the audit trail cannot be written through the payload.
// A status in the payload goes through the audited transition path.
func (s *Service[T, PT]) Update(ctx context.Context, idOrRef string, patch map[string]any) (PT, error) {
	doc, err := s.Get(ctx, idOrRef)
	if err != nil {
		return nil, err
	}
	now := requestcontext.Now(ctx).UTC()
	actor := requestcontext.UserID(ctx)

	for _, field := range []string{"id", "createdAt", "updatedAt", "statusHistory", "comments", "createdBy", s.spec.RefField} {
		delete(patch, field)
	}

	if raw, ok := patch["status"]; ok {
		status, _ := raw.(string)
		if !s.spec.Statuses.Valid(status) {
			return nil, dErrors.Newf(dErrors.CodeValidation, "invalid status %q", status)
		}
		if doc.AuditTrail().Transition(status, actor, now, "") {
			s.metrics.IncrementStatusChange(s.spec.Name, status)
		}
		delete(patch, "status")
	}

	if len(patch) > 0 {
		doc, err = mergePatch[T, PT](doc, patch)
		if err != nil {
			return nil, err
		}
	}
	doc.DocMeta().UpdatedAt = now

	if s.spec.Validate != nil {
		if err := s.spec.Validate(doc); err != nil {
			return nil, err
		}
	}
	if err := s.store.Update(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// UpdateStatus moves the record to a new status with an optional note.
// Re-applying the current status succeeds without touching the history.
func (s *Service[T, PT]) UpdateStatus(ctx context.Context, idOrRef, status, note string) (PT, error) {
	if !s.spec.Statuses.Valid(status) {
		return nil, dErrors.Newf(dErrors.CodeValidation, "invalid status %q", status)
	}
	doc, err := s.Get(ctx, idOrRef)
	if err != nil {
		return nil, err
	}
	now := requestcontext.Now(ctx).UTC()
	actor := requestcontext.UserID(ctx)

	if !doc.AuditTrail().Transition(status, actor, now, note) {
		return doc, nil
	}
	doc.DocMeta().UpdatedAt = now
	if err := s.store.Update(ctx, doc); err != nil {
		return nil, err
	}
	s.metrics.IncrementStatusChange(s.spec.Name, status)
	s.log.InfoContext(ctx, "status changed", "id", doc.DocMeta().ID, "status", status)
	return doc, nil
}

// Assign routes the record to a user.
func (s *Service[T, PT]) Assign(ctx context.Context, idOrRef string, userID domain.UserID) (PT, error) {
	doc, err := s.Get(ctx, idOrRef)
	if err != nil {
		return nil, err
	}
	target, ok := any(doc).(Assignee)
	if !ok {
		return nil, dErrors.Newf(dErrors.CodeBadRequest, "%s records cannot be assigned", s.spec.Name)
	}
	target.SetAssignee(userID)
	doc.DocMeta().UpdatedAt = requestcontext.Now(ctx).UTC()
	if err := s.store.Update(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// AddComment appends a note attributed to the requesting user.
func (s *Service[T, PT]) AddComment(ctx context.Context, idOrRef, text string) (PT, Comment, error) {
	doc, err := s.Get(ctx, idOrRef)
	if err != nil {
		return nil, Comment{}, err
	}
	now := requestcontext.Now(ctx).UTC()
	c := doc.AuditTrail().AddComment(requestcontext.UserID(ctx), text, now)
	doc.DocMeta().UpdatedAt = now
	if err := s.store.Update(ctx, doc); err != nil {
		return nil, Comment{}, err
	}
	s.metrics.IncrementCommentAdded(s.spec.Name)
	return doc, c, nil
}

// Delete removes the record, or flips it to the terminal status when the
// module declares one. Returns true when the record was retained.
func (s *Service[T, PT]) Delete(ctx context.Context, idOrRef string) (bool, error) {
	doc, err := s.Get(ctx, idOrRef)
	if err != nil {
		return false, err
	}
	terminal := s.spec.Statuses.DeleteStatus
	if terminal == "" {
		if err := s.store.Delete(ctx, doc.DocMeta().ID); err != nil {
			return false, err
		}
		s.log.InfoContext(ctx, "record deleted", "id", doc.DocMeta().ID)
		return false, nil
	}

	now := requestcontext.Now(ctx).UTC()
	if doc.AuditTrail().Transition(terminal, requestcontext.UserID(ctx), now, s.spec.Label+" deleted") {
		doc.DocMeta().UpdatedAt = now
		if err := s.store.Update(ctx, doc); err != nil {
			return false, err
		}
		s.metrics.IncrementStatusChange(s.spec.Name, terminal)
	}
	return true, nil
}

// Mutate loads a record, applies a typed edit and persists it. Module
// endpoints that grow sub-collections such as milestones or hearings use
// this instead of the map-based update path.
func (s *Service[T, PT]) Mutate(ctx context.Context, idOrRef string, fn func(doc PT) error) (PT, error) {
	doc, err := s.Get(ctx, idOrRef)
	if err != nil {
		return nil, err
	}
	if err := fn(doc); err != nil {
		return nil, err
	}
	doc.DocMeta().UpdatedAt = requestcontext.Now(ctx).UTC()
	if s.spec.Validate != nil {
		if err := s.spec.Validate(doc); err != nil {
			return nil, err
		}
	}
	if err := s.store.Update(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// Stats aggregates totals, group counts and sums over the filtered set. The
// backend queries run concurrently.
func (s *Service[T, PT]) Stats(ctx context.Context, q docstore.Query) (map[string]any, error) {
	if s.spec.Stats != nil {
		return s.spec.Stats(ctx, s.store, q)
	}

	g, ctx := errgroup.WithContext(ctx)

	var total int
	g.Go(func() error {
		countQ := q
		countQ.Limit = 1
		countQ.Page = 1
		page, err := s.store.List(ctx, countQ)
		if err != nil {
			return err
		}
		total = page.Total
		return nil
	})

	groups := make([]map[string]int, len(s.spec.GroupFields))
	for i, field := range s.spec.GroupFields {
		g.Go(func() error {
			counts, err := s.store.GroupCount(ctx, field, q)
			if err != nil {
				return err
			}
			groups[i] = counts
			return nil
		})
	}

	sums := make([]float64, len(s.spec.SumFields))
	for i, field := range s.spec.SumFields {
		g.Go(func() error {
			sum, err := s.store.Sum(ctx, field, q)
			if err != nil {
				return err
			}
			sums[i] = sum.InexactFloat64()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := map[string]any{"total": total}
	for i, field := range s.spec.GroupFields {
		out[statKey("by", field)] = groups[i]
	}
	for i, field := range s.spec.SumFields {
		out[statKey("total", field)] = sums[i]
	}
	return out, nil
}

func mergePatch[T any, PT Ptr[T]](doc PT, patch map[string]any) (PT, error) {
	proj, err := docstore.Project(doc)
	if err != nil {
		return nil, err
	}
	for k, v := range patch {
		proj[k] = v
	}
	raw, err := json.Marshal(proj)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "merge update")
	}
	var merged T
	if err := json.Unmarshal(raw, PT(&merged)); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeBadRequest, "payload does not match record shape")
	}
	return PT(&merged), nil
}

// statKey builds response keys like byStatus, bySlaStatus, totalAmount.
func statKey(prefix, field string) string {
	var b strings.Builder
	b.WriteString(prefix)
	for _, part := range strings.Split(field, ".") {
		if part == "" {
			continue
		}
		b.WriteString(strings.ToUpper(part[:1]))
		b.WriteString(part[1:])
	}
	return b.String()
}
