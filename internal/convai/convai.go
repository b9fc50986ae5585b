// Package convai talks to the external conversational-agent provider that
// conducts live voice interviews. The rest of the system only sees the narrow
// Provider interface: create an agent, mint a connection token, fetch a
// normalized transcript.
package convai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jonathan/candidate-screener/internal/types"
)

// DefaultTimeout bounds every provider HTTP call.
const DefaultTimeout = 30 * time.Second

// AgentSpec describes the interview agent to provision for a session.
type AgentSpec struct {
	Name            string `json:"name"`
	Instructions    string `json:"instructions"`
	DurationMinutes int    `json:"durationMinutes"`
}

// Provider is the narrow contract the screening service consumes.
type Provider interface {
	// CreateAgent provisions a remote interview agent and returns its id.
	CreateAgent(ctx context.Context, spec AgentSpec) (string, error)
	// ConnectionToken issues a short-lived token the candidate's browser
	// uses to join the voice session.
	ConnectionToken(ctx context.Context, agentID string) (string, error)
	// FetchTranscript returns the normalized transcript for a conversation.
	FetchTranscript(ctx context.Context, conversationID string) ([]types.TranscriptEntry, error)
}

// Error represents a provider API failure.
type Error struct {
	Op         string
	StatusCode int
	Message    string
	Cause      error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("convai %s failed: %s: %v", e.Op, e.Message, e.Cause)
	}
	return fmt.Sprintf("convai %s failed: %s", e.Op, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Client is the HTTP implementation of Provider.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient builds a Provider backed by the provider's HTTP API.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
}

func (c *Client) CreateAgent(ctx context.Context, spec AgentSpec) (string, error) {
	var resp struct {
		AgentID string `json:"agentId"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/v1/agents", spec, &resp); err != nil {
		return "", err
	}
	if resp.AgentID == "" {
		return "", &Error{Op: "create agent", Message: "provider returned an empty agent id"}
	}
	return resp.AgentID, nil
}

func (c *Client) ConnectionToken(ctx context.Context, agentID string) (string, error) {
	var resp struct {
		Token string `json:"token"`
	}
	path := fmt.Sprintf("/v1/agents/%s/token", agentID)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return "", err
	}
	if resp.Token == "" {
		return "", &Error{Op: "connection token", Message: "provider returned an empty token"}
	}
	return resp.Token, nil
}

func (c *Client) FetchTranscript(ctx context.Context, conversationID string) ([]types.TranscriptEntry, error) {
	var resp struct {
		Entries []struct {
			Speaker    string  `json:"speaker"`
			Role       string  `json:"role"`
			Text       string  `json:"text"`
			TimeOffset float64 `json:"timeOffset"`
		} `json:"entries"`
	}
	path := fmt.Sprintf("/v1/conversations/%s/transcript", conversationID)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}

	entries := make([]types.TranscriptEntry, 0, len(resp.Entries))
	for _, e := range resp.Entries {
		speaker := e.Speaker
		if speaker == "" {
			speaker = e.Role
		}
		if e.Text == "" {
			continue
		}
		entries = append(entries, types.TranscriptEntry{
			Speaker:    speaker,
			Text:       e.Text,
			TimeOffset: e.TimeOffset,
		})
	}
	return entries, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	op := fmt.Sprintf("%s %s", method, path)

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return &Error{Op: op, Message: "failed to encode request", Cause: err}
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return &Error{Op: op, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &Error{Op: op, Message: "request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Op: op, StatusCode: resp.StatusCode, Message: "failed to read response", Cause: err}
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return &Error{
			Op:         op,
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("HTTP status %d: %s", resp.StatusCode, truncate(string(data), 200)),
		}
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return &Error{Op: op, StatusCode: resp.StatusCode, Message: "failed to decode response", Cause: err}
		}
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
