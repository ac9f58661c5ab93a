package cases

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pragati/internal/docstore"
	"pragati/internal/workflow"
	"pragati/internal/workflow/sequence"
	"pragati/pkg/domain"
	"pragati/pkg/requestcontext"
)

func newService(t *testing.T) *workflow.Service[Case, *Case] {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := New(docstore.NewMemory[Case](), sequence.NewMemory(), log, nil)
	return h.Service()
}

func testCtx(at time.Time) context.Context {
	ctx := requestcontext.WithUserID(context.Background(), domain.NewUserID())
	return requestcontext.WithTime(ctx, at)
}

func newCase(caseType string) *Case {
	return &Case{
		CaseType:    caseType,
		CitizenName: "P. Lakshmi",
		Subject:     "Pending assistance",
		Description: "Awaiting departmental action",
		Department:  "Revenue",
		District:    "Guntur",
	}
}

func TestCreateArmsSLAFromPriority(t *testing.T) {
	svc := newService(t)
	at := time.Date(2026, 5, 10, 10, 0, 0, 0, time.UTC)

	created, err := svc.Create(testCtx(at), newCase("grievance"))
	require.NoError(t, err)

	assert.Equal(t, "CASE-2026-000001", created.CaseNumber)
	assert.Equal(t, "P3", created.Priority)
	assert.Equal(t, "168h", created.SLA.Duration)
	assert.Equal(t, workflow.SLAWithin, created.SLA.Status)
	assert.Equal(t, at.Add(7*24*time.Hour), created.SLA.DueDate)
}

func TestCreateKeepsExplicitPriorityWindow(t *testing.T) {
	svc := newService(t)
	at := time.Date(2026, 5, 10, 10, 0, 0, 0, time.UTC)

	c := newCase("dispute")
	c.Priority = "P1"
	created, err := svc.Create(testCtx(at), c)
	require.NoError(t, err)

	assert.Equal(t, "24h", created.SLA.Duration)
	assert.Equal(t, at.Add(24*time.Hour), created.SLA.DueDate)
}

func TestDashboardStats(t *testing.T) {
	svc := newService(t)
	ctx := testCtx(time.Date(2026, 5, 10, 10, 0, 0, 0, time.UTC))

	var ids []domain.RecordID
	for range 4 {
		created, err := svc.Create(ctx, newCase("grievance"))
		require.NoError(t, err)
		ids = append(ids, created.ID)
	}

	_, err := svc.UpdateStatus(ctx, ids[1].String(), "in-progress", "")
	require.NoError(t, err)
	_, err = svc.UpdateStatus(ctx, ids[2].String(), "completed", "")
	require.NoError(t, err)

	// One case blows its deadline.
	_, err = svc.Mutate(ctx, ids[3].String(), func(c *Case) error {
		c.SLA.MarkBreached(time.Now().UTC())
		return nil
	})
	require.NoError(t, err)

	stats, err := svc.Stats(ctx, docstore.Query{})
	require.NoError(t, err)

	assert.Equal(t, 4, stats["totalCases"])
	assert.Equal(t, 2, stats["pendingCases"])
	assert.Equal(t, 1, stats["inProgressCases"])
	assert.Equal(t, 1, stats["completedCases"])
	assert.Equal(t, 1, stats["breachedSLA"])
	assert.Equal(t, 75.0, stats["slaCompliance"])
}

func TestDashboardStatsEmptyRegistry(t *testing.T) {
	svc := newService(t)
	stats, err := svc.Stats(context.Background(), docstore.Query{})
	require.NoError(t, err)
	assert.Equal(t, 0, stats["totalCases"])
	assert.Equal(t, 100.0, stats["slaCompliance"])
}

func TestDeleteClosesCase(t *testing.T) {
	svc := newService(t)
	ctx := testCtx(time.Now().UTC())

	created, err := svc.Create(ctx, newCase("temple"))
	require.NoError(t, err)

	retained, err := svc.Delete(ctx, created.ID.String())
	require.NoError(t, err)
	assert.True(t, retained)

	got, err := svc.Get(ctx, created.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "closed", got.Status)
}
