package temples

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

func newService(t *testing.T) *workflow.Service[Request, *Request] {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(docstore.NewMemory[Request](), sequence.NewMemory(), log, nil).Service()
}

func newRequest() *Request {
	return &Request{
		ApplicantName: "D. Subbarao",
		Mobile:        "9876501234",
		District:      "Tirupati",
		TempleName:    "Sri Venkateswara Swamy Temple",
		DarshanType:   "VIP",
		PreferredDate: time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC),
	}
}

func TestApproveThenRepeatIsSuppressed(t *testing.T) {
	svc := newService(t)
	ctx := requestcontext.WithUserID(context.Background(), domain.NewUserID())

	created, err := svc.Create(ctx, newRequest())
	require.NoError(t, err)
	assert.Equal(t, "REQUESTED", created.Status)
	assert.Regexp(t, `^TDL-TIR-\d{4}-000001$`, created.TempleRequestID)

	approved, err := svc.UpdateStatus(ctx, created.ID.String(), "APPROVED", "")
	require.NoError(t, err)
	assert.Equal(t, "APPROVED", approved.Status)
	require.Len(t, approved.StatusHistory, 2)
	assert.Equal(t, "APPROVED", approved.StatusHistory[1].Status)

	// Re-submitting the current status must not grow the history.
	repeat, err := svc.UpdateStatus(ctx, created.ID.String(), "APPROVED", "")
	require.NoError(t, err)
	assert.Len(t, repeat.StatusHistory, 2)
}
