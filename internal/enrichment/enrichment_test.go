package enrichment

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepos_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/octocat/repos", r.URL.Path)
		assert.Equal(t, "updated", r.URL.Query().Get("sort"))
		_, _ = w.Write([]byte(`[
			{"name": "hello", "description": "demo", "language": "Go",
			 "stargazers_count": 42, "forks_count": 3,
			 "updated_at": "2026-01-15T10:00:00Z",
			 "html_url": "https://github.com/octocat/hello"}
		]`))
	}))
	defer srv.Close()

	client := NewGitHubClientWithBaseURL(srv.URL, "")
	repos := client.Repos(context.Background(), "https://github.com/octocat")
	require.Len(t, repos, 1)
	assert.Equal(t, "hello", repos[0].Name)
	assert.Equal(t, "Go", repos[0].Language)
	assert.Equal(t, 42, repos[0].Stars)
	assert.Equal(t, "https://github.com/octocat/hello", repos[0].URL)
}

func TestRepos_SendsTokenWhenSet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer gh-token", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	client := NewGitHubClientWithBaseURL(srv.URL, "gh-token")
	repos := client.Repos(context.Background(), "https://github.com/octocat")
	assert.Empty(t, repos)
}

func TestRepos_DegradesSilently(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "rate limited",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusForbidden)
			},
		},
		{
			name: "not found",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusNotFound)
			},
		},
		{
			name: "garbage body",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte("not json"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			client := NewGitHubClientWithBaseURL(srv.URL, "")
			repos := client.Repos(context.Background(), "https://github.com/octocat")
			assert.NotNil(t, repos)
			assert.Empty(t, repos)
		})
	}
}

func TestRepos_InvalidProfileURL(t *testing.T) {
	client := NewGitHubClient("")
	repos := client.Repos(context.Background(), "https://gitlab.com/octocat")
	assert.NotNil(t, repos)
	assert.Empty(t, repos)
}

func TestWebsiteText_ExtractsMainContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html><body>
			<nav>menu</nav>
			<main>I am a backend engineer who likes distributed systems.</main>
		</body></html>`))
	}))
	defer srv.Close()

	text := WebsiteText(context.Background(), srv.URL, false)
	assert.Contains(t, text, "backend engineer")
	assert.NotContains(t, text, "menu")
}

func TestWebsiteText_FailureReturnsEmpty(t *testing.T) {
	assert.Empty(t, WebsiteText(context.Background(), "", false))
	assert.Empty(t, WebsiteText(context.Background(), "http://127.0.0.1:1", false))
}
