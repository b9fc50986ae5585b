package validation

import (
	"time"

	"github.com/jonathan/candidate-screener/internal/types"
)

// SyncInput is the payload a candidate's browser sends to keep a session's
// live interview state up to date.
type SyncInput struct {
	ConversationID string                  `json:"conversationId"`
	StartedAt      *time.Time              `json:"startedAt"`
	Transcript     []types.TranscriptEntry `json:"transcript"`
}

// ValidateSync checks that a sync payload carries at least one of a
// conversation id, a session-start timestamp, or a non-empty transcript.
func ValidateSync(in SyncInput) FieldErrors {
	errs := FieldErrors{}
	if in.ConversationID == "" && in.StartedAt == nil && len(in.Transcript) == 0 {
		errs["payload"] = "requires at least one of conversationId, startedAt or transcript"
	}
	return errs
}

// CompletionInput is the payload that finalizes an interview.
type CompletionInput struct {
	ConversationID string                  `json:"conversationId"`
	Transcript     []types.TranscriptEntry `json:"transcript"`
}

// ValidateCompletion checks that a completion payload carries a conversation
// id or a non-empty transcript. At least one is required; both are allowed.
func ValidateCompletion(in CompletionInput) FieldErrors {
	errs := FieldErrors{}
	if in.ConversationID == "" && len(in.Transcript) == 0 {
		errs["payload"] = "requires a conversationId or a non-empty transcript"
	}
	return errs
}

// FeedbackInput is the candidate's one-time experience feedback payload.
type FeedbackInput struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// ValidateFeedback validates a feedback payload. SubmittedAt is left for the
// caller to stamp.
func ValidateFeedback(in FeedbackInput) (*types.Feedback, FieldErrors) {
	errs := FieldErrors{}
	if in.Rating < 1 || in.Rating > 5 {
		errs["rating"] = "must be an integer between 1 and 5"
	}
	if errs.HasErrors() {
		return nil, errs
	}
	return &types.Feedback{Rating: in.Rating, Comment: in.Comment}, errs
}
