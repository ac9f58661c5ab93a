package emergencies

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pragati/internal/docstore"
	"pragati/internal/workflow/sequence"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := New(docstore.NewMemory[Emergency](), sequence.NewMemory(), log, nil)
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

func logEmergency(t *testing.T, srv *httptest.Server) Emergency {
	t.Helper()
	status, data, errMsg := doJSON(t, http.MethodPost, srv.URL+"/", map[string]any{
		"emergencyType": "MEDICAL",
		"description":   "Road accident, two injured",
		"location":      "NH-16 near Kavali toll gate",
		"district":      "Nellore",
		"callerMobile":  "9123456780",
	})
	require.Equal(t, http.StatusCreated, status, errMsg)

	var doc Emergency
	require.NoError(t, json.Unmarshal(data, &doc))
	return doc
}

func TestLogDefaultsToHighUrgency(t *testing.T) {
	srv := newTestServer(t)
	doc := logEmergency(t, srv)
	assert.Equal(t, "LOGGED", doc.Status)
	assert.Equal(t, "HIGH", doc.Urgency)
	assert.Regexp(t, `^EMR-\d{4}-000001$`, doc.EmergencyID)
}

func TestEscalateRaisesPriorityAndAudits(t *testing.T) {
	srv := newTestServer(t)
	created := logEmergency(t, srv)

	status, data, errMsg := doJSON(t, http.MethodPatch, srv.URL+"/"+created.ID.String()+"/escalate", map[string]any{
		"escalatedTo":      "District Collector",
		"escalationReason": "No ambulance dispatched within 15 minutes",
	})
	require.Equal(t, http.StatusOK, status, errMsg)

	var doc Emergency
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.True(t, doc.Escalated)
	assert.Equal(t, "District Collector", doc.EscalatedTo)
	assert.Equal(t, "CRITICAL", doc.Priority)
	assert.False(t, doc.EscalationDate.IsZero())
	assert.Equal(t, "LOGGED", doc.Status)
	require.Len(t, doc.StatusHistory, 2)
	assert.Equal(t, "Emergency escalated to District Collector", doc.StatusHistory[1].Comments)
}

func TestEscalateRequiresTarget(t *testing.T) {
	srv := newTestServer(t)
	created := logEmergency(t, srv)

	status, _, _ := doJSON(t, http.MethodPatch, srv.URL+"/"+created.ID.String()+"/escalate",
		map[string]any{"escalationReason": "unreachable"})
	assert.Equal(t, http.StatusBadRequest, status)
}
