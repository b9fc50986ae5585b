package types

import "time"

// SessionStatus represents where a candidate session is in its lifecycle.
type SessionStatus string

// Session lifecycle statuses. See internal/lifecycle for the transition rules.
const (
	StatusProfileSubmitted SessionStatus = "profile_submitted"
	StatusAgentReady       SessionStatus = "agent_ready"
	StatusInProgress       SessionStatus = "in_progress"
	StatusCompleted        SessionStatus = "completed"
	StatusScored           SessionStatus = "scored"
	StatusRejected         SessionStatus = "rejected"
	StatusUnderReview      SessionStatus = "under_review"
	StatusNextRound        SessionStatus = "next_round"
	StatusFailed           SessionStatus = "failed"
)

// TranscriptEntry is a single utterance in an interview transcript.
type TranscriptEntry struct {
	Speaker    string  `json:"speaker"`
	Text       string  `json:"text"`
	TimeOffset float64 `json:"timeOffset,omitempty"`
}

// RepoSummary is a GitHub repository summary attached as candidate enrichment.
type RepoSummary struct {
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Language    string    `json:"language,omitempty"`
	Stars       int       `json:"stars"`
	Forks       int       `json:"forks"`
	UpdatedAt   time.Time `json:"updatedAt"`
	URL         string    `json:"url"`
}

// CandidateProfile holds everything the candidate submitted when applying.
type CandidateProfile struct {
	Name            string        `json:"name"`
	Email           string        `json:"email,omitempty"`
	GithubURL       string        `json:"githubUrl,omitempty"`
	WebsiteURL      string        `json:"websiteUrl,omitempty"`
	CVText          string        `json:"cvText,omitempty"`
	CoverLetterText string        `json:"coverLetterText,omitempty"`
	Repos           []RepoSummary `json:"repos,omitempty"`
	WebsiteText     string        `json:"websiteText,omitempty"`
}

// Feedback is the candidate's one-time experience rating for a session.
type Feedback struct {
	Rating      int       `json:"rating"`
	Comment     string    `json:"comment,omitempty"`
	SubmittedAt time.Time `json:"submittedAt"`
}

// CandidateSession is one candidate's end-to-end screening attempt against
// one role template. The central aggregate of the platform.
type CandidateSession struct {
	ID             string            `json:"id"`
	RoleID         string            `json:"roleId"`
	CreatedAt      time.Time         `json:"createdAt"`
	Status         SessionStatus     `json:"status"`
	RoleSnapshot   RoleSnapshot      `json:"roleSnapshot"`
	Profile        CandidateProfile  `json:"profile"`
	AgentID        string            `json:"agentId,omitempty"`
	ConversationID string            `json:"conversationId,omitempty"`
	Transcript     []TranscriptEntry `json:"transcript,omitempty"`
	Scorecard      *Scorecard        `json:"scorecard,omitempty"`
	PrepStrategy   string            `json:"prepStrategy,omitempty"`
	LastError      string            `json:"lastError,omitempty"`
	StartedAt      *time.Time        `json:"startedAt,omitempty"`
	EndedAt        *time.Time        `json:"endedAt,omitempty"`
	Feedback       *Feedback         `json:"feedback,omitempty"`
}
