package relief

import (
	"bytes"
	"encoding/json"
	"fmt"
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
	h := New(docstore.NewMemory[Request](), sequence.NewMemory(), log, nil)
	srv := httptest.NewServer(h.Routes())
	t.Cleanup(srv.Close)
	return srv
}

type envelope struct {
	Success    bool              `json:"success"`
	Data       json.RawMessage   `json:"data"`
	Message    string            `json:"message"`
	Error      string            `json:"error"`
	Fields     map[string]string `json:"fields"`
	Pagination *struct {
		Total int `json:"total"`
		Page  int `json:"page"`
		Limit int `json:"limit"`
		Pages int `json:"pages"`
	} `json:"pagination"`
}

func doJSON(t *testing.T, method, url string, body any) (int, envelope) {
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

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func createRequest(t *testing.T, srv *httptest.Server, district string) Request {
	t.Helper()
	status, env := doJSON(t, http.MethodPost, srv.URL+"/", map[string]any{
		"applicantName":   "K. Ramana",
		"mobile":          "9876543210",
		"district":        district,
		"reliefType":      "MEDICAL",
		"requestedAmount": "50000",
		"purpose":         "surgery expenses",
	})
	require.Equal(t, http.StatusCreated, status, env.Error)

	var doc Request
	require.NoError(t, json.Unmarshal(env.Data, &doc))
	return doc
}

func TestCreateAllocatesDistrictScopedIDs(t *testing.T) {
	srv := newTestServer(t)
	year := time.Now().UTC().Year()

	first := createRequest(t, srv, "Guntur")
	assert.Equal(t, fmt.Sprintf("CMRF-GUN-%d-000001", year), first.CMRFID)
	assert.Equal(t, "REQUESTED", first.Status)
	assert.Equal(t, "MEDIUM", first.Urgency)
	assert.Equal(t, "PENDING", first.VerificationStatus)
	require.Len(t, first.StatusHistory, 1)

	second := createRequest(t, srv, "Guntur")
	assert.Equal(t, fmt.Sprintf("CMRF-GUN-%d-000002", year), second.CMRFID)

	other := createRequest(t, srv, "Krishna")
	assert.Equal(t, fmt.Sprintf("CMRF-KRI-%d-000001", year), other.CMRFID)
}

func TestCreateRejectsMissingFields(t *testing.T) {
	srv := newTestServer(t)

	status, env := doJSON(t, http.MethodPost, srv.URL+"/", map[string]any{
		"applicantName": "K. Ramana",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.False(t, env.Success)
	assert.Contains(t, env.Fields, "mobile")
	assert.Contains(t, env.Fields, "reliefType")
}

func TestListFiltersByDistrict(t *testing.T) {
	srv := newTestServer(t)
	createRequest(t, srv, "Guntur")
	createRequest(t, srv, "Guntur")
	createRequest(t, srv, "Krishna")

	status, env := doJSON(t, http.MethodGet, srv.URL+"/?district=Guntur", nil)
	require.Equal(t, http.StatusOK, status)
	require.NotNil(t, env.Pagination)
	assert.Equal(t, 2, env.Pagination.Total)
	assert.Equal(t, 1, env.Pagination.Page)
	assert.Equal(t, 50, env.Pagination.Limit)
	assert.Equal(t, 1, env.Pagination.Pages)
}

func TestGetByReferenceNumber(t *testing.T) {
	srv := newTestServer(t)
	created := createRequest(t, srv, "Guntur")

	status, env := doJSON(t, http.MethodGet, srv.URL+"/"+created.CMRFID, nil)
	require.Equal(t, http.StatusOK, status)

	var doc Request
	require.NoError(t, json.Unmarshal(env.Data, &doc))
	assert.Equal(t, created.ID, doc.ID)

	status, _ = doJSON(t, http.MethodGet, srv.URL+"/CMRF-XXX-2020-999999", nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestStatusTransitionIsAudited(t *testing.T) {
	srv := newTestServer(t)
	created := createRequest(t, srv, "Guntur")

	status, env := doJSON(t, http.MethodPatch, srv.URL+"/"+created.ID.String()+"/status", map[string]any{
		"status":   "UNDER_REVIEW",
		"comments": "Forwarded to tahsildar",
	})
	require.Equal(t, http.StatusOK, status, env.Error)

	var doc Request
	require.NoError(t, json.Unmarshal(env.Data, &doc))
	assert.Equal(t, "UNDER_REVIEW", doc.Status)
	require.Len(t, doc.StatusHistory, 2)
	assert.Equal(t, "Forwarded to tahsildar", doc.StatusHistory[1].Comments)

	status, env = doJSON(t, http.MethodPatch, srv.URL+"/"+created.ID.String()+"/status", map[string]any{
		"status": "TELEPORTED",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.False(t, env.Success)
}

func TestAddComment(t *testing.T) {
	srv := newTestServer(t)
	created := createRequest(t, srv, "Guntur")

	status, env := doJSON(t, http.MethodPost, srv.URL+"/"+created.ID.String()+"/comments", map[string]any{
		"text": "Documents verified at mandal office",
	})
	require.Equal(t, http.StatusCreated, status, env.Error)

	var doc Request
	require.NoError(t, json.Unmarshal(env.Data, &doc))
	require.Len(t, doc.Comments, 1)
	assert.Equal(t, "Documents verified at mandal office", doc.Comments[0].Text)
}

func TestDeleteCancelsInsteadOfRemoving(t *testing.T) {
	srv := newTestServer(t)
	created := createRequest(t, srv, "Guntur")

	status, env := doJSON(t, http.MethodDelete, srv.URL+"/"+created.ID.String(), nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, env.Message, "closed")

	status, env = doJSON(t, http.MethodGet, srv.URL+"/"+created.ID.String(), nil)
	require.Equal(t, http.StatusOK, status)

	var doc Request
	require.NoError(t, json.Unmarshal(env.Data, &doc))
	assert.Equal(t, "CANCELLED", doc.Status)
}

func TestStatsSummary(t *testing.T) {
	srv := newTestServer(t)
	createRequest(t, srv, "Guntur")
	createRequest(t, srv, "Krishna")

	status, env := doJSON(t, http.MethodGet, srv.URL+"/stats/summary", nil)
	require.Equal(t, http.StatusOK, status)

	var stats map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &stats))
	assert.EqualValues(t, 2, stats["total"])
	byStatus, ok := stats["byStatus"].(map[string]any)
	require.True(t, ok)
	assert.EqualValues(t, 2, byStatus["REQUESTED"])
	assert.EqualValues(t, 100000, stats["totalRequestedAmount"])
}
