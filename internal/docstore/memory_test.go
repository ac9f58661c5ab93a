package docstore

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "pragati/pkg/domain-errors"
	"pragati/pkg/domain"
)

type grant struct {
	Meta
	RefNo    string          `json:"refNo,omitempty"`
	Status   string          `json:"status,omitempty"`
	District string          `json:"district,omitempty"`
	Amount   decimal.Decimal `json:"amount"`
	Sla      grantSla        `json:"sla,omitzero"`
}

type grantSla struct {
	Status string `json:"status,omitempty"`
}

func (g *grant) Ref() string { return g.RefNo }

func newGrant(ref, status, district string, amount int64, created time.Time) *grant {
	return &grant{
		Meta:     Meta{ID: domain.NewRecordID(), CreatedAt: created, UpdatedAt: created},
		RefNo:    ref,
		Status:   status,
		District: district,
		Amount:   decimal.NewFromInt(amount),
	}
}

func TestMemoryInsertAndGet(t *testing.T) {
	store := NewMemory[grant]()
	ctx := context.Background()

	g := newGrant("CMRF-GUN-2026-000001", "REQUESTED", "Guntur", 50000, time.Now().UTC())
	require.NoError(t, store.Insert(ctx, g))

	byID, err := store.Get(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, g.RefNo, byID.RefNo)
	assert.True(t, g.Amount.Equal(byID.Amount))

	byRef, err := store.GetByRef(ctx, g.RefNo)
	require.NoError(t, err)
	assert.Equal(t, g.ID, byRef.ID)
}

func TestMemoryGetNotFound(t *testing.T) {
	store := NewMemory[grant]()

	_, err := store.Get(context.Background(), domain.NewRecordID())
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))

	_, err = store.GetByRef(context.Background(), "CMRF-GUN-2026-999999")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}

func TestMemoryDuplicateRefConflict(t *testing.T) {
	store := NewMemory[grant]()
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, store.Insert(ctx, newGrant("CMRF-GUN-2026-000001", "REQUESTED", "Guntur", 1, now)))

	err := store.Insert(ctx, newGrant("CMRF-GUN-2026-000001", "REQUESTED", "Guntur", 2, now))
	assert.True(t, dErrors.HasCode(err, dErrors.CodeConflict))
}

func TestMemoryUpdate(t *testing.T) {
	store := NewMemory[grant]()
	ctx := context.Background()

	g := newGrant("CMRF-GUN-2026-000001", "REQUESTED", "Guntur", 1, time.Now().UTC())
	require.NoError(t, store.Insert(ctx, g))

	g.Status = "APPROVED"
	require.NoError(t, store.Update(ctx, g))

	got, err := store.Get(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, "APPROVED", got.Status)

	missing := newGrant("CMRF-GUN-2026-000002", "REQUESTED", "Guntur", 1, time.Now().UTC())
	err = store.Update(ctx, missing)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}

func TestMemoryDeleteRemovesRefIndex(t *testing.T) {
	store := NewMemory[grant]()
	ctx := context.Background()

	g := newGrant("CMRF-GUN-2026-000001", "REQUESTED", "Guntur", 1, time.Now().UTC())
	require.NoError(t, store.Insert(ctx, g))
	require.NoError(t, store.Delete(ctx, g.ID))

	_, err := store.GetByRef(ctx, g.RefNo)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))

	err = store.Delete(ctx, g.ID)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}

func TestMemoryListFiltersAndSorts(t *testing.T) {
	store := NewMemory[grant]()
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		status := "REQUESTED"
		if i%2 == 1 {
			status = "APPROVED"
		}
		g := newGrant(fmt.Sprintf("CMRF-GUN-2026-%06d", i+1), status, "Guntur", 10, base.Add(time.Duration(i)*time.Hour))
		require.NoError(t, store.Insert(ctx, g))
	}
	require.NoError(t, store.Insert(ctx, newGrant("CMRF-KRI-2026-000001", "REQUESTED", "Krishna", 10, base)))

	page, err := store.List(ctx, Query{Equals: map[string]string{"status": "REQUESTED", "district": "Guntur"}})
	require.NoError(t, err)
	assert.Equal(t, 3, page.Total)
	require.Len(t, page.Items, 3)
	// Newest first.
	assert.Equal(t, "CMRF-GUN-2026-000005", page.Items[0].RefNo)
	assert.Equal(t, "CMRF-GUN-2026-000001", page.Items[2].RefNo)
}

func TestMemoryListPagination(t *testing.T) {
	store := NewMemory[grant]()
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	for i := 0; i < 7; i++ {
		g := newGrant(fmt.Sprintf("CMRF-GUN-2026-%06d", i+1), "REQUESTED", "Guntur", 10, base.Add(time.Duration(i)*time.Minute))
		require.NoError(t, store.Insert(ctx, g))
	}

	page, err := store.List(ctx, Query{Limit: 3, Page: 2})
	require.NoError(t, err)
	assert.Equal(t, 7, page.Total)
	require.Len(t, page.Items, 3)
	assert.Equal(t, "CMRF-GUN-2026-000004", page.Items[0].RefNo)

	last, err := store.List(ctx, Query{Limit: 3, Page: 3})
	require.NoError(t, err)
	assert.Len(t, last.Items, 1)
}

func TestMemoryListDateRange(t *testing.T) {
	store := NewMemory[grant]()
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 4; i++ {
		g := newGrant(fmt.Sprintf("CMRF-GUN-2026-%06d", i+1), "REQUESTED", "Guntur", 10, base.AddDate(0, 0, i))
		require.NoError(t, store.Insert(ctx, g))
	}

	page, err := store.List(ctx, Query{
		DateField: "createdAt",
		From:      base.AddDate(0, 0, 1),
		To:        base.AddDate(0, 0, 2),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)
}

func TestMemoryNestedFieldFilter(t *testing.T) {
	store := NewMemory[grant]()
	ctx := context.Background()
	now := time.Now().UTC()

	breached := newGrant("CASE-2026-000001", "pending", "Guntur", 0, now)
	breached.Sla = grantSla{Status: "breached"}
	require.NoError(t, store.Insert(ctx, breached))
	require.NoError(t, store.Insert(ctx, newGrant("CASE-2026-000002", "pending", "Guntur", 0, now)))

	page, err := store.List(ctx, Query{Equals: map[string]string{"sla.status": "breached"}})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)
	assert.Equal(t, "CASE-2026-000001", page.Items[0].RefNo)
}

func TestMemoryGroupCountAndSum(t *testing.T) {
	store := NewMemory[grant]()
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, store.Insert(ctx, newGrant("CMRF-GUN-2026-000001", "REQUESTED", "Guntur", 100, now)))
	require.NoError(t, store.Insert(ctx, newGrant("CMRF-GUN-2026-000002", "APPROVED", "Guntur", 250, now)))
	require.NoError(t, store.Insert(ctx, newGrant("CMRF-KRI-2026-000001", "APPROVED", "Krishna", 400, now)))

	counts, err := store.GroupCount(ctx, "status", Query{})
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"REQUESTED": 1, "APPROVED": 2}, counts)

	sum, err := store.Sum(ctx, "amount", Query{Equals: map[string]string{"status": "APPROVED"}})
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(650).Equal(sum))
}
