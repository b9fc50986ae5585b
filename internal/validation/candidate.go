package validation

import (
	"strings"

	"github.com/jonathan/candidate-screener/internal/types"
)

// CandidateSubmissionInput is the untyped payload a candidate submits when
// applying against a role.
type CandidateSubmissionInput struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	GithubURL       string `json:"githubUrl"`
	WebsiteURL      string `json:"websiteUrl"`
	CVText          string `json:"cvText"`
	CoverLetterText string `json:"coverLetterText"`
}

// ValidateCandidateSubmission validates a candidate application payload and
// returns the typed profile, or per-field errors.
func ValidateCandidateSubmission(in CandidateSubmissionInput) (*types.CandidateProfile, FieldErrors) {
	errs := FieldErrors{}

	name := strings.TrimSpace(in.Name)
	if len(name) < 2 {
		errs["name"] = "must be at least 2 characters"
	}

	email := strings.TrimSpace(in.Email)
	if email != "" && !isValidEmail(email) {
		errs["email"] = "must be a valid email address"
	}

	githubURL := strings.TrimSpace(in.GithubURL)
	if githubURL != "" && !IsValidGithubProfileURL(githubURL) {
		errs["githubUrl"] = "must be a GitHub profile URL like https://github.com/username"
	}

	websiteURL := strings.TrimSpace(in.WebsiteURL)
	if websiteURL != "" && !isHTTPURL(websiteURL) {
		errs["websiteUrl"] = "must be an http or https URL"
	}

	if errs.HasErrors() {
		return nil, errs
	}

	return &types.CandidateProfile{
		Name:            name,
		Email:           email,
		GithubURL:       githubURL,
		WebsiteURL:      websiteURL,
		CVText:          in.CVText,
		CoverLetterText: in.CoverLetterText,
	}, errs
}
