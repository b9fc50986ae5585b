// Package enrichment gathers optional public context about a candidate at
// submission time. Every operation here is best-effort: failures degrade to
// empty results and never block the submission.
package enrichment

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/jonathan/candidate-screener/internal/types"
	"github.com/jonathan/candidate-screener/internal/validation"
)

// MaxRepos limits how many repositories are kept per candidate.
const MaxRepos = 10

// GitHubTimeout bounds the repository listing call.
const GitHubTimeout = 10 * time.Second

// GitHubClient fetches public repository summaries for a candidate.
type GitHubClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewGitHubClient builds a client for the public GitHub REST API. The token
// is optional; without one the unauthenticated rate limit applies.
func NewGitHubClient(token string) *GitHubClient {
	return &GitHubClient{
		baseURL:    "https://api.github.com",
		token:      token,
		httpClient: &http.Client{Timeout: GitHubTimeout},
	}
}

// NewGitHubClientWithBaseURL is used by tests to point at a fake server.
func NewGitHubClientWithBaseURL(baseURL, token string) *GitHubClient {
	client := NewGitHubClient(token)
	client.baseURL = baseURL
	return client
}

// Repos returns recent public repositories for the profile URL. Any failure
// (bad URL, rate limit, network) returns an empty list.
func (c *GitHubClient) Repos(ctx context.Context, profileURL string) []types.RepoSummary {
	username := validation.GithubUsername(profileURL)
	if username == "" {
		return []types.RepoSummary{}
	}

	url := fmt.Sprintf("%s/users/%s/repos?sort=updated&per_page=%d", c.baseURL, username, MaxRepos)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return []types.RepoSummary{}
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Printf("github enrichment failed for %s: %v", username, err)
		return []types.RepoSummary{}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		log.Printf("github enrichment for %s returned status %d", username, resp.StatusCode)
		return []types.RepoSummary{}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return []types.RepoSummary{}
	}

	var raw []struct {
		Name        string    `json:"name"`
		Description string    `json:"description"`
		Language    string    `json:"language"`
		Stars       int       `json:"stargazers_count"`
		Forks       int       `json:"forks_count"`
		UpdatedAt   time.Time `json:"updated_at"`
		HTMLURL     string    `json:"html_url"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		log.Printf("github enrichment for %s returned unparseable body: %v", username, err)
		return []types.RepoSummary{}
	}

	repos := make([]types.RepoSummary, 0, len(raw))
	for _, r := range raw {
		repos = append(repos, types.RepoSummary{
			Name:        r.Name,
			Description: r.Description,
			Language:    r.Language,
			Stars:       r.Stars,
			Forks:       r.Forks,
			UpdatedAt:   r.UpdatedAt,
			URL:         r.HTMLURL,
		})
	}
	return repos
}
