package convai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAgent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/agents", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var spec AgentSpec
		require.NoError(t, json.NewDecoder(r.Body).Decode(&spec))
		assert.Equal(t, "Backend Engineer screen", spec.Name)
		assert.Equal(t, 30, spec.DurationMinutes)

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"agentId": "agent-123"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "test-key")
	agentID, err := client.CreateAgent(context.Background(), AgentSpec{
		Name:            "Backend Engineer screen",
		Instructions:    "Ask about Go.",
		DurationMinutes: 30,
	})
	require.NoError(t, err)
	assert.Equal(t, "agent-123", agentID)
}

func TestCreateAgent_EmptyAgentID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "test-key")
	_, err := client.CreateAgent(context.Background(), AgentSpec{Name: "x"})
	require.Error(t, err)

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Contains(t, apiErr.Message, "empty agent id")
}

func TestConnectionToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/agents/agent-123/token", r.URL.Path)
		_, _ = w.Write([]byte(`{"token": "tok-xyz"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "test-key")
	token, err := client.ConnectionToken(context.Background(), "agent-123")
	require.NoError(t, err)
	assert.Equal(t, "tok-xyz", token)
}

func TestFetchTranscript_Normalizes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/conversations/conv-1/transcript", r.URL.Path)
		_, _ = w.Write([]byte(`{"entries": [
			{"speaker": "agent", "text": "Tell me about yourself.", "timeOffset": 0.5},
			{"role": "candidate", "text": "I build backends.", "timeOffset": 4.2},
			{"speaker": "agent", "text": "", "timeOffset": 9.0}
		]}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "test-key")
	entries, err := client.FetchTranscript(context.Background(), "conv-1")
	require.NoError(t, err)

	// Empty-text entries are dropped; role falls back when speaker missing.
	require.Len(t, entries, 2)
	assert.Equal(t, "agent", entries[0].Speaker)
	assert.Equal(t, "Tell me about yourself.", entries[0].Text)
	assert.Equal(t, "candidate", entries[1].Speaker)
	assert.InDelta(t, 4.2, entries[1].TimeOffset, 0.001)
}

func TestDoJSON_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error": "overloaded"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "test-key")
	_, err := client.FetchTranscript(context.Background(), "conv-1")
	require.Error(t, err)

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusServiceUnavailable, apiErr.StatusCode)
}
