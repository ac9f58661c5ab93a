package programs

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
	h := New(docstore.NewMemory[Program](), sequence.NewMemory(), log, nil)
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

func createProgram(t *testing.T, srv *httptest.Server) Program {
	t.Helper()
	status, data, errMsg := doJSON(t, http.MethodPost, srv.URL+"/", map[string]any{
		"eventName": "District Job Mela",
		"eventType": "JOB_MELA",
		"venue":     "NTR Stadium, Nellore",
		"district":  "Nellore",
	})
	require.Equal(t, http.StatusCreated, status, errMsg)

	var doc Program
	require.NoError(t, json.Unmarshal(data, &doc))
	return doc
}

func TestCreateAllocatesProgramID(t *testing.T) {
	srv := newTestServer(t)
	doc := createProgram(t, srv)
	assert.Equal(t, "PLANNED", doc.Status)
	assert.Regexp(t, `^PRG-AP-NLR-\d{4}-000001$`, doc.ProgramID)
}

func TestAddTeamMember(t *testing.T) {
	srv := newTestServer(t)
	created := createProgram(t, srv)

	status, data, errMsg := doJSON(t, http.MethodPost, srv.URL+"/"+created.ID.String()+"/team-members", map[string]any{
		"name":             "G. Prasad",
		"role":             "Registration desk lead",
		"responsibilities": "Candidate intake and badge issue",
	})
	require.Equal(t, http.StatusCreated, status, errMsg)

	var doc Program
	require.NoError(t, json.Unmarshal(data, &doc))
	require.Len(t, doc.TeamMembers, 1)
	assert.Equal(t, "G. Prasad", doc.TeamMembers[0].Name)
	assert.False(t, doc.TeamMembers[0].AddedAt.IsZero())
}

func TestAddTeamMemberRequiresIdentity(t *testing.T) {
	srv := newTestServer(t)
	created := createProgram(t, srv)

	status, _, _ := doJSON(t, http.MethodPost, srv.URL+"/"+created.ID.String()+"/team-members",
		map[string]any{"role": "volunteer"})
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestFeedbackRecomputesRating(t *testing.T) {
	srv := newTestServer(t)
	created := createProgram(t, srv)
	url := srv.URL + "/" + created.ID.String() + "/feedback"

	status, _, errMsg := doJSON(t, http.MethodPost, url, map[string]any{
		"participantName": "S. Devi", "rating": 5, "comments": "Got two interview calls",
	})
	require.Equal(t, http.StatusCreated, status, errMsg)

	status, data, errMsg := doJSON(t, http.MethodPost, url, map[string]any{
		"participantName": "M. Raju", "rating": 4,
	})
	require.Equal(t, http.StatusCreated, status, errMsg)

	var doc Program
	require.NoError(t, json.Unmarshal(data, &doc))
	require.Len(t, doc.Feedback, 2)
	assert.Equal(t, 2, doc.Statistics.FeedbackCount)
	assert.InDelta(t, 4.5, doc.Statistics.FeedbackRating, 0.001)
}

func TestFeedbackRejectsOutOfRangeRating(t *testing.T) {
	srv := newTestServer(t)
	created := createProgram(t, srv)

	status, _, _ := doJSON(t, http.MethodPost, srv.URL+"/"+created.ID.String()+"/feedback",
		map[string]any{"participantName": "X", "rating": 9})
	assert.Equal(t, http.StatusBadRequest, status)
}
