package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jonathan/candidate-screener/internal/convai"
	"github.com/jonathan/candidate-screener/internal/screening"
	"github.com/jonathan/candidate-screener/internal/server/ratelimit"
	"github.com/jonathan/candidate-screener/internal/store"
	"github.com/jonathan/candidate-screener/internal/types"
)

const testPassword = "screener-admin"

type stubJudge struct {
	response string
}

func (s *stubJudge) GenerateJSON(_ context.Context, _ string) (string, error) {
	return s.response, nil
}

func (s *stubJudge) Close() error { return nil }

type stubAgents struct{}

func (stubAgents) CreateAgent(_ context.Context, _ convai.AgentSpec) (string, error) {
	return "agent-1", nil
}

func (stubAgents) ConnectionToken(_ context.Context, _ string) (string, error) {
	return "tok-1", nil
}

func (stubAgents) FetchTranscript(_ context.Context, _ string) ([]types.TranscriptEntry, error) {
	return []types.TranscriptEntry{
		{Speaker: "agent", Text: "Tell me about a hard bug."},
		{Speaker: "candidate", Text: "A race in our job queue."},
	}, nil
}

func testScorecardJSON(overall int) string {
	return fmt.Sprintf(`{
		"overallRecommendation": "yes",
		"seniorityEstimate": "senior",
		"technicalScore": %d,
		"communicationScore": 70,
		"problemSolvingScore": 70,
		"experienceScore": 70,
		"cultureFitScore": 70,
		"overallScore": %d,
		"strengths": ["debugging depth"],
		"concerns": [],
		"followUpQuestions": [],
		"summary": "Capable engineer."
	}`, overall, overall)
}

func newTestServer(t *testing.T) (*httptest.Server, string) {
	t.Helper()

	kv := store.NewFileKV(filepath.Join(t.TempDir(), "records.json"))
	svc := screening.NewService(store.New(kv), &stubJudge{response: testScorecardJSON(95)}, stubAgents{}, screening.Options{
		Website: func(_ context.Context, _ string, _ bool) string { return "" },
	})

	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)

	s := newServer(svc, NewJWTService("test-secret", 1), string(hash), ratelimit.NewLimiter(&ratelimit.Config{Enabled: false}))
	ts := httptest.NewServer(s.httpServer.Handler)
	t.Cleanup(ts.Close)

	token := loginToken(t, ts)
	return ts, token
}

func loginToken(t *testing.T, ts *httptest.Server) string {
	t.Helper()
	resp := doJSON(t, ts, http.MethodPost, "/admin/login", "", map[string]string{"password": testPassword})
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.NotEmpty(t, body.Token)
	return body.Token
}

func doJSON(t *testing.T, ts *httptest.Server, method, path, token string, payload any) *http.Response {
	t.Helper()
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, ts.URL+path, body)
	require.NoError(t, err)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func createTestRole(t *testing.T, ts *httptest.Server, token string) types.RoleTemplate {
	t.Helper()
	resp := doJSON(t, ts, http.MethodPost, "/roles", token, map[string]any{
		"roleTitle":       "Backend Engineer",
		"targetSeniority": "senior",
		"durationMinutes": 30,
		"focusAreas":      "Go, distributed systems",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return decode[types.RoleTemplate](t, resp)
}

func submitTestCandidate(t *testing.T, ts *httptest.Server, roleID string) types.CandidateSession {
	t.Helper()
	resp := doJSON(t, ts, http.MethodPost, "/roles/"+roleID+"/sessions", "", map[string]string{
		"name": "Ada Lovelace",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return decode[types.CandidateSession](t, resp)
}

func TestHealth(t *testing.T) {
	ts, _ := newTestServer(t)
	resp, err := ts.Client().Get(ts.URL + "/health")
	require.NoError(t, err)
	body := decode[map[string]string](t, resp)
	assert.Equal(t, "ok", body["status"])
}

func TestAdminLogin_WrongPassword(t *testing.T) {
	ts, _ := newTestServer(t)
	resp := doJSON(t, ts, http.MethodPost, "/admin/login", "", map[string]string{"password": "wrong"})
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAdminRoutes_RequireToken(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := doJSON(t, ts, http.MethodGet, "/roles", "", nil)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = doJSON(t, ts, http.MethodGet, "/roles", "not-a-jwt", nil)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestCreateRole_FieldErrorShape(t *testing.T) {
	ts, token := newTestServer(t)

	resp := doJSON(t, ts, http.MethodPost, "/roles", token, map[string]any{
		"roleTitle":        "AI",
		"targetSeniority":  "senior",
		"durationMinutes":  30,
		"focusAreas":       "x",
		"rejectThreshold":  80,
		"advanceThreshold": 50,
	})
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	body := decode[map[string]map[string]string](t, resp)
	require.Contains(t, body, "errors")
	assert.Len(t, body["errors"], 1)
	assert.Equal(t, "must be lower than advance threshold", body["errors"]["rejectThreshold"])
}

func TestGetRole_PublicAndNotFound(t *testing.T) {
	ts, token := newTestServer(t)
	role := createTestRole(t, ts, token)

	// No token needed for the candidate apply page.
	resp := doJSON(t, ts, http.MethodGet, "/roles/"+role.ID, "", nil)
	got := decode[types.RoleTemplate](t, resp)
	assert.Equal(t, role.ID, got.ID)

	resp = doJSON(t, ts, http.MethodGet, "/roles/does-not-exist", "", nil)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRoleStatusAndDelete(t *testing.T) {
	ts, token := newTestServer(t)
	role := createTestRole(t, ts, token)

	resp := doJSON(t, ts, http.MethodPatch, "/roles/"+role.ID+"/status", token, map[string]string{"status": "archived"})
	updated := decode[types.RoleTemplate](t, resp)
	assert.Equal(t, types.RoleArchived, updated.Status)

	resp = doJSON(t, ts, http.MethodDelete, "/roles/"+role.ID, token, nil)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, ts, http.MethodGet, "/roles/"+role.ID, "", nil)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCandidateFlow_EndToEnd(t *testing.T) {
	ts, token := newTestServer(t)
	role := createTestRole(t, ts, token)
	session := submitTestCandidate(t, ts, role.ID)
	assert.Equal(t, types.StatusProfileSubmitted, session.Status)

	resp := doJSON(t, ts, http.MethodPost, "/sessions/"+session.ID+"/agent", "", nil)
	withAgent := decode[types.CandidateSession](t, resp)
	assert.Equal(t, types.StatusAgentReady, withAgent.Status)

	resp = doJSON(t, ts, http.MethodGet, "/sessions/"+session.ID+"/token", "", nil)
	tokenBody := decode[map[string]string](t, resp)
	assert.Equal(t, "tok-1", tokenBody["token"])

	resp = doJSON(t, ts, http.MethodPost, "/sessions/"+session.ID+"/start", "", nil)
	started := decode[types.CandidateSession](t, resp)
	assert.Equal(t, types.StatusInProgress, started.Status)

	resp = doJSON(t, ts, http.MethodPost, "/sessions/"+session.ID+"/sync", "", map[string]any{
		"conversationId": "conv-1",
	})
	synced := decode[types.CandidateSession](t, resp)
	assert.Equal(t, "conv-1", synced.ConversationID)

	resp = doJSON(t, ts, http.MethodPost, "/sessions/"+session.ID+"/complete", "", map[string]any{
		"conversationId": "conv-1",
	})
	done := decode[types.CandidateSession](t, resp)
	assert.Equal(t, types.StatusScored, done.Status)
	require.NotNil(t, done.Scorecard)
	assert.Equal(t, 95, done.Scorecard.OverallScore)
	assert.Len(t, done.Transcript, 2)

	// A 95 stays scored until the admin decides.
	resp = doJSON(t, ts, http.MethodPatch, "/sessions/"+session.ID+"/status", token, map[string]string{"status": "next_round"})
	decided := decode[types.CandidateSession](t, resp)
	assert.Equal(t, types.StatusNextRound, decided.Status)

	resp = doJSON(t, ts, http.MethodPost, "/sessions/"+session.ID+"/feedback", "", map[string]any{
		"rating":  5,
		"comment": "fun interview",
	})
	withFeedback := decode[types.CandidateSession](t, resp)
	require.NotNil(t, withFeedback.Feedback)
	assert.Equal(t, 5, withFeedback.Feedback.Rating)
}

func TestDecide_InvalidTarget(t *testing.T) {
	ts, token := newTestServer(t)

	resp := doJSON(t, ts, http.MethodPatch, "/sessions/any/status", token, map[string]string{"status": "completed"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body := decode[map[string]string](t, resp)
	assert.Contains(t, body["error"], "rejected")
	assert.Contains(t, body["error"], "under_review")
	assert.Contains(t, body["error"], "next_round")
}

func TestSync_EmptyPayload(t *testing.T) {
	ts, token := newTestServer(t)
	role := createTestRole(t, ts, token)
	session := submitTestCandidate(t, ts, role.ID)

	resp := doJSON(t, ts, http.MethodPost, "/sessions/"+session.ID+"/sync", "", map[string]any{})
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	body := decode[map[string]map[string]string](t, resp)
	assert.Contains(t, body["errors"], "payload")
}

func TestComplete_UnknownSession(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := doJSON(t, ts, http.MethodPost, "/sessions/missing/complete", "", map[string]any{
		"conversationId": "conv-1",
	})
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestBulkDecide(t *testing.T) {
	ts, token := newTestServer(t)
	role := createTestRole(t, ts, token)

	var ids []string
	for i := 0; i < 2; i++ {
		session := submitTestCandidate(t, ts, role.ID)
		doJSON(t, ts, http.MethodPost, "/sessions/"+session.ID+"/agent", "", nil).Body.Close()
		doJSON(t, ts, http.MethodPost, "/sessions/"+session.ID+"/start", "", nil).Body.Close()
		doJSON(t, ts, http.MethodPost, "/sessions/"+session.ID+"/complete", "", map[string]any{
			"conversationId": "conv-1",
		}).Body.Close()
		ids = append(ids, session.ID)
	}

	resp := doJSON(t, ts, http.MethodPost, "/sessions/status", token, map[string]any{
		"sessionIds": append(ids, "missing"),
		"status":     "under_review",
	})
	result := decode[screening.BulkResult](t, resp)
	assert.Equal(t, 2, result.Succeeded)
	assert.Equal(t, 1, result.Failed)
}

func TestListSessions_ScopedByRole(t *testing.T) {
	ts, token := newTestServer(t)
	roleA := createTestRole(t, ts, token)
	roleB := createTestRole(t, ts, token)
	submitTestCandidate(t, ts, roleA.ID)
	submitTestCandidate(t, ts, roleB.ID)

	resp := doJSON(t, ts, http.MethodGet, "/sessions?roleId="+roleA.ID, token, nil)
	body := decode[struct {
		Sessions []types.CandidateSession `json:"sessions"`
		Count    int                      `json:"count"`
	}](t, resp)
	assert.Equal(t, 1, body.Count)
	require.Len(t, body.Sessions, 1)
	assert.Equal(t, roleA.ID, body.Sessions[0].RoleID)
}

func TestExtract_MissingFile(t *testing.T) {
	ts, token := newTestServer(t)

	req, err := http.NewRequest(http.MethodPost, ts.URL+"/extract", bytes.NewReader(nil))
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "multipart/form-data; boundary=xxx")

	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAutofill_RequiresJDText(t *testing.T) {
	ts, token := newTestServer(t)

	resp := doJSON(t, ts, http.MethodPost, "/roles/autofill", token, map[string]string{"jdText": ""})
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	body := decode[map[string]map[string]string](t, resp)
	assert.Contains(t, body["errors"], "jdText")
}
