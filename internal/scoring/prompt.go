package scoring

import (
	"fmt"
	"strings"

	"github.com/jonathan/candidate-screener/internal/prompts"
	"github.com/jonathan/candidate-screener/internal/types"
)

// ClipLimit is the hard character cap applied to CV and cover-letter text
// before it is embedded in the judge prompt. Clipping is by characters, not
// tokens.
const ClipLimit = 6000

// ClipText truncates s to ClipLimit characters, appending an ellipsis marker
// when anything was dropped.
func ClipText(s string) string {
	if len(s) <= ClipLimit {
		return s
	}
	return s[:ClipLimit] + "\n...[truncated]"
}

// BuildJudgePrompt deterministically serializes the role snapshot, candidate
// profile and transcript into the grounding prompt for the judge.
func BuildJudgePrompt(snapshot types.RoleSnapshot, profile types.CandidateProfile, transcript []types.TranscriptEntry) string {
	template := prompts.MustGet("scoring.json", "judge-scorecard")
	return prompts.Format(template, map[string]string{
		"Role":       formatRole(snapshot),
		"Candidate":  formatCandidate(profile),
		"Transcript": FormatTranscript(transcript),
	})
}

// BuildPrepPrompt serializes role and candidate into the interview-prep
// strategy prompt for the agent.
func BuildPrepPrompt(snapshot types.RoleSnapshot, profile types.CandidateProfile) string {
	template := prompts.MustGet("scoring.json", "interview-prep")
	return prompts.Format(template, map[string]string{
		"Role":      formatRole(snapshot),
		"Candidate": formatCandidate(profile),
	})
}

func formatRole(snapshot types.RoleSnapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Title: %s\n", orNotSpecified(snapshot.RoleTitle))
	fmt.Fprintf(&b, "Company: %s\n", orNotSpecified(snapshot.CompanyName))
	fmt.Fprintf(&b, "Target seniority: %s\n", orNotSpecified(string(snapshot.TargetSeniority)))
	fmt.Fprintf(&b, "Interview duration: %d minutes\n", snapshot.DurationMinutes)
	fmt.Fprintf(&b, "Focus areas: %s\n", orNotSpecified(strings.Join(snapshot.FocusAreas, ", ")))
	if snapshot.JDText != "" {
		fmt.Fprintf(&b, "Job description:\n%s\n", ClipText(snapshot.JDText))
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatCandidate(profile types.CandidateProfile) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Name: %s\n", orNotSpecified(profile.Name))
	if profile.GithubURL != "" {
		fmt.Fprintf(&b, "GitHub: %s\n", profile.GithubURL)
	}
	if profile.WebsiteURL != "" {
		fmt.Fprintf(&b, "Website: %s\n", profile.WebsiteURL)
	}
	if len(profile.Repos) > 0 {
		b.WriteString("Public repositories:\n")
		for _, repo := range profile.Repos {
			fmt.Fprintf(&b, "  - %s (%s, %d stars): %s\n", repo.Name, orNotSpecified(repo.Language), repo.Stars, repo.Description)
		}
	}
	if profile.CVText != "" {
		fmt.Fprintf(&b, "CV:\n%s\n", ClipText(profile.CVText))
	}
	if profile.CoverLetterText != "" {
		fmt.Fprintf(&b, "Cover letter:\n%s\n", ClipText(profile.CoverLetterText))
	}
	if profile.WebsiteText != "" {
		fmt.Fprintf(&b, "Personal website excerpt:\n%s\n", ClipText(profile.WebsiteText))
	}
	return strings.TrimRight(b.String(), "\n")
}

// FormatTranscript renders a transcript as a numbered, speaker-labeled list.
func FormatTranscript(transcript []types.TranscriptEntry) string {
	if len(transcript) == 0 {
		return "(no transcript)"
	}
	lines := make([]string, 0, len(transcript))
	for i, entry := range transcript {
		lines = append(lines, fmt.Sprintf("%d. [%s] %s", i+1, entry.Speaker, entry.Text))
	}
	return strings.Join(lines, "\n")
}

func orNotSpecified(s string) string {
	if strings.TrimSpace(s) == "" {
		return "Not specified"
	}
	return s
}
