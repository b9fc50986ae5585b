package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCandidateSubmission_Success(t *testing.T) {
	profile, errs := ValidateCandidateSubmission(CandidateSubmissionInput{
		Name:      "Ada Lovelace",
		Email:     "ada@example.com",
		GithubURL: "https://github.com/ada",
		CVText:    "Analyst and programmer.",
	})
	require.Empty(t, errs)
	require.NotNil(t, profile)
	assert.Equal(t, "Ada Lovelace", profile.Name)
	assert.Equal(t, "https://github.com/ada", profile.GithubURL)
}

func TestValidateCandidateSubmission_OptionalFieldsEmpty(t *testing.T) {
	profile, errs := ValidateCandidateSubmission(CandidateSubmissionInput{Name: "Jo"})
	require.Empty(t, errs)
	assert.Empty(t, profile.Email)
	assert.Empty(t, profile.GithubURL)
}

func TestValidateCandidateSubmission_FieldFailures(t *testing.T) {
	tests := []struct {
		name      string
		input     CandidateSubmissionInput
		wantField string
	}{
		{"short name", CandidateSubmissionInput{Name: "J"}, "name"},
		{"bad email", CandidateSubmissionInput{Name: "Jo", Email: "not-an-email"}, "email"},
		{"github repo url", CandidateSubmissionInput{Name: "Jo", GithubURL: "https://github.com/octocat/repo"}, "githubUrl"},
		{"website without scheme", CandidateSubmissionInput{Name: "Jo", WebsiteURL: "example.com"}, "websiteUrl"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile, errs := ValidateCandidateSubmission(tt.input)
			assert.Nil(t, profile)
			require.Len(t, errs, 1)
			assert.Contains(t, errs, tt.wantField)
		})
	}
}

func TestIsValidGithubProfileURL(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"https://github.com/octocat", true},
		{"https://www.github.com/octocat", true},
		{"https://github.com/octocat/", true},
		{"https://github.com/octocat/repo", false},
		{"https://gitlab.com/octocat", false},
		{"http://github.com/octocat", false},
		{"https://github.com/", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidGithubProfileURL(tt.url))
		})
	}
}

func TestGithubUsername(t *testing.T) {
	assert.Equal(t, "octocat", GithubUsername("https://github.com/octocat"))
	assert.Equal(t, "", GithubUsername("https://github.com/octocat/repo"))
}
