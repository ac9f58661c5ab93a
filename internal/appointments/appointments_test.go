package appointments

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pragati/internal/docstore"
	"pragati/internal/workflow/sequence"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := New(docstore.NewMemory[Appointment](), sequence.NewMemory(), log, nil)
	srv := httptest.NewServer(h.Routes())
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url string, body any) (int, json.RawMessage, string) {
	t.Helper()
	var buf io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		buf = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, url, buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env struct {
		Data  json.RawMessage `json:"data"`
		Error string          `json:"error"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env.Data, env.Error
}

func createAppointment(t *testing.T, srv *httptest.Server) Appointment {
	t.Helper()
	status, data, errMsg := doJSON(t, http.MethodPost, srv.URL+"/", map[string]any{
		"applicantName": "B. Srinivas",
		"mobile":        "9000012345",
		"purpose":       "Land records grievance",
		"preferredDate": "2026-06-15T00:00:00Z",
		"preferredTime": "10:00",
	})
	require.Equal(t, http.StatusCreated, status, errMsg)

	var doc Appointment
	require.NoError(t, json.Unmarshal(data, &doc))
	return doc
}

func TestConfirmBooksSlot(t *testing.T) {
	srv := newTestServer(t)
	created := createAppointment(t, srv)
	assert.Equal(t, "REQUESTED", created.Status)
	assert.Equal(t, "GENERAL_MEETING", created.Category)

	status, data, errMsg := doJSON(t, http.MethodPatch, srv.URL+"/"+created.ID.String()+"/confirm", map[string]any{
		"confirmedDate": "2026-06-16T00:00:00Z",
		"confirmedTime": "11:30",
		"meetingPlace":  "Camp Office",
	})
	require.Equal(t, http.StatusOK, status, errMsg)

	var doc Appointment
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "CONFIRMED", doc.Status)
	assert.True(t, doc.ConfirmationSent)
	assert.Equal(t, time.Date(2026, 6, 16, 11, 30, 0, 0, time.UTC), doc.ConfirmedSlot)
	require.Len(t, doc.StatusHistory, 2)
	assert.Equal(t, "Appointment confirmed", doc.StatusHistory[1].Comments)
}

func TestCheckInStampsArrival(t *testing.T) {
	srv := newTestServer(t)
	created := createAppointment(t, srv)

	status, data, errMsg := doJSON(t, http.MethodPatch, srv.URL+"/"+created.ID.String()+"/checkin", nil)
	require.Equal(t, http.StatusOK, status, errMsg)

	var doc Appointment
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "CHECKED_IN", doc.Status)
	assert.False(t, doc.CheckInTime.IsZero())
}

func TestCombineSlotRejectsMalformedTime(t *testing.T) {
	_, err := combineSlot(time.Date(2026, 6, 16, 0, 0, 0, 0, time.UTC), "noon")
	assert.Error(t, err)

	slot, err := combineSlot(time.Date(2026, 6, 16, 0, 0, 0, 0, time.UTC), "9:05")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 6, 16, 9, 5, 0, 0, time.UTC), slot)
}
