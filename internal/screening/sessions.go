package screening

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/candidate-screener/internal/convai"
	"github.com/jonathan/candidate-screener/internal/lifecycle"
	"github.com/jonathan/candidate-screener/internal/llm"
	"github.com/jonathan/candidate-screener/internal/scoring"
	"github.com/jonathan/candidate-screener/internal/store"
	"github.com/jonathan/candidate-screener/internal/types"
	"github.com/jonathan/candidate-screener/internal/validation"
)

// MaxBulkDecisions caps a single bulk status request.
const MaxBulkDecisions = 50

// bulkConcurrency bounds parallel store writes during a bulk decision.
const bulkConcurrency = 8

// SubmitCandidate validates a candidate application against an active role,
// runs best-effort enrichment, and creates the session with a frozen role
// snapshot.
func (s *Service) SubmitCandidate(ctx context.Context, roleID string, in validation.CandidateSubmissionInput) (*types.CandidateSession, error) {
	role, err := s.GetRole(ctx, roleID)
	if err != nil {
		return nil, err
	}
	if role.Status != types.RoleActive {
		return nil, &StateError{Message: fmt.Sprintf("role %s is archived and no longer accepts applications", roleID)}
	}

	profile, errs := validation.ValidateCandidateSubmission(in)
	if errs.HasErrors() {
		return nil, &InvalidInputError{Fields: errs}
	}

	s.enrichProfile(ctx, profile)

	session := &types.CandidateSession{
		ID:           s.newID(),
		RoleID:       roleID,
		CreatedAt:    s.now().UTC(),
		Status:       types.StatusProfileSubmitted,
		RoleSnapshot: role.Snapshot(),
		Profile:      *profile,
	}

	if err := store.Put(ctx, s.store, store.KindSession, session.ID, *session, true, store.RoleScope(roleID)); err != nil {
		return nil, err
	}
	logEnrichmentSummary(session)
	return session, nil
}

// GetSession fetches a session by id.
func (s *Service) GetSession(ctx context.Context, id string) (*types.CandidateSession, error) {
	session, err := store.Get[types.CandidateSession](ctx, s.store, store.KindSession, id)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, &NotFoundError{Kind: "session", ID: id}
	}
	return session, nil
}

// ListSessions returns the most recently created sessions, optionally scoped
// to one role.
func (s *Service) ListSessions(ctx context.Context, limit int, roleID string) ([]types.CandidateSession, error) {
	if limit <= 0 || limit > DefaultListLimit {
		limit = DefaultListLimit
	}
	scope := ""
	if roleID != "" {
		scope = store.RoleScope(roleID)
	}
	return store.ListRecent[types.CandidateSession](ctx, s.store, store.KindSession, limit, scope)
}

// ProvisionAgent creates the remote interview agent for a submitted session.
// The prep strategy is generated best-effort first; agent creation itself is
// blocking and records the failure on the session.
func (s *Service) ProvisionAgent(ctx context.Context, sessionID string) (*types.CandidateSession, error) {
	session, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status != types.StatusProfileSubmitted {
		return nil, &StateError{Message: fmt.Sprintf("session %s is %s; an agent can only be provisioned after profile submission", sessionID, session.Status)}
	}
	if s.agents == nil {
		return nil, &CollaboratorError{Op: "agent provisioning", Cause: fmt.Errorf("no agent provider configured")}
	}

	prep := s.generatePrepStrategy(ctx, session)

	spec := convai.AgentSpec{
		Name:            fmt.Sprintf("%s screen: %s", session.RoleSnapshot.RoleTitle, session.Profile.Name),
		Instructions:    agentInstructions(session, prep),
		DurationMinutes: session.RoleSnapshot.DurationMinutes,
	}
	agentID, err := s.agents.CreateAgent(ctx, spec)
	if err != nil {
		if _, uerr := store.Update(ctx, s.store, store.KindSession, sessionID, func(sess *types.CandidateSession) {
			sess.LastError = fmt.Sprintf("agent provisioning failed: %v", err)
		}); uerr != nil {
			log.Printf("failed to record agent error on session %s: %v", sessionID, uerr)
		}
		return nil, &CollaboratorError{Op: "agent provisioning", Cause: err}
	}

	updated, err := store.Update(ctx, s.store, store.KindSession, sessionID, func(sess *types.CandidateSession) {
		sess.AgentID = agentID
		sess.PrepStrategy = prep
		sess.Status = types.StatusAgentReady
		sess.LastError = ""
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// ConnectionToken mints a short-lived token the candidate's browser uses to
// join the voice session.
func (s *Service) ConnectionToken(ctx context.Context, sessionID string) (string, error) {
	session, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return "", err
	}
	if session.AgentID == "" {
		return "", &StateError{Message: fmt.Sprintf("session %s has no provisioned agent", sessionID)}
	}
	if s.agents == nil {
		return "", &CollaboratorError{Op: "connection token", Cause: fmt.Errorf("no agent provider configured")}
	}
	token, err := s.agents.ConnectionToken(ctx, session.AgentID)
	if err != nil {
		return "", &CollaboratorError{Op: "connection token", Cause: err}
	}
	return token, nil
}

// StartSession moves an agent-ready session into the live interview. Starting
// a terminal or already-running session is a no-op, not an error, so a
// reconnecting client never corrupts settled state.
func (s *Service) StartSession(ctx context.Context, sessionID string) (*types.CandidateSession, error) {
	session, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if lifecycle.IsTerminal(session.Status) || session.Status == types.StatusInProgress {
		return session, nil
	}
	if session.Status != types.StatusAgentReady {
		return nil, &StateError{Message: fmt.Sprintf("session %s is %s; provision an agent before starting", sessionID, session.Status)}
	}

	startedAt := s.now().UTC()
	return store.Update(ctx, s.store, store.KindSession, sessionID, func(sess *types.CandidateSession) {
		sess.Status = types.StatusInProgress
		if sess.StartedAt == nil {
			sess.StartedAt = &startedAt
		}
	})
}

// SyncSession merges live interview state pushed by the candidate's browser.
// Transcript merging is monotone (a shorter incoming transcript never
// replaces a longer saved one) and still applies to terminal sessions;
// lifecycle fields are only touched while the session is in flight.
func (s *Service) SyncSession(ctx context.Context, sessionID string, in validation.SyncInput) (*types.CandidateSession, error) {
	if errs := validation.ValidateSync(in); errs.HasErrors() {
		return nil, &InvalidInputError{Fields: errs}
	}
	session, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	terminal := lifecycle.IsTerminal(session.Status)
	return store.Update(ctx, s.store, store.KindSession, sessionID, func(sess *types.CandidateSession) {
		if len(in.Transcript) > 0 {
			sess.Transcript = store.PreferSavedTranscript(sess.Transcript, in.Transcript)
		}
		if terminal {
			return
		}
		if in.ConversationID != "" {
			sess.ConversationID = in.ConversationID
		}
		if in.StartedAt != nil && sess.StartedAt == nil {
			sess.StartedAt = in.StartedAt
		}
		if sess.Status == types.StatusAgentReady {
			sess.Status = types.StatusInProgress
		}
	})
}

// CompleteSession finalizes the interview and runs judge scoring. The
// transcript is captured first and the session marked completed, so a judge
// failure leaves a recoverable failed session with the transcript intact.
func (s *Service) CompleteSession(ctx context.Context, sessionID string, in validation.CompletionInput) (*types.CandidateSession, error) {
	if errs := validation.ValidateCompletion(in); errs.HasErrors() {
		return nil, &InvalidInputError{Fields: errs}
	}
	session, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if lifecycle.IsTerminal(session.Status) && session.Status != types.StatusFailed {
		return session, nil
	}

	transcript := store.PreferSavedTranscript(session.Transcript, in.Transcript)
	if in.ConversationID != "" && s.agents != nil {
		fetched, err := s.agents.FetchTranscript(ctx, in.ConversationID)
		if err != nil {
			log.Printf("transcript fetch failed for session %s: %v", sessionID, err)
		} else {
			transcript = store.PreferSavedTranscript(transcript, fetched)
		}
	}

	endedAt := s.now().UTC()
	session, err = store.Update(ctx, s.store, store.KindSession, sessionID, func(sess *types.CandidateSession) {
		if in.ConversationID != "" {
			sess.ConversationID = in.ConversationID
		}
		sess.Transcript = transcript
		sess.Status = types.StatusCompleted
		sess.EndedAt = &endedAt
		sess.LastError = ""
	})
	if err != nil {
		return nil, err
	}

	return s.scoreAndPersist(ctx, session)
}

// scoreAndPersist runs the judge over a completed session. Scoring always
// lands on scored; threshold resolution is advisory and left to the admin.
func (s *Service) scoreAndPersist(ctx context.Context, session *types.CandidateSession) (*types.CandidateSession, error) {
	if s.judge == nil {
		return s.recordScoringFailure(ctx, session.ID, fmt.Errorf("no judge model configured"))
	}

	card, err := scoring.ScoreSession(ctx, s.judge, session)
	if err != nil {
		return s.recordScoringFailure(ctx, session.ID, err)
	}

	suggested := lifecycle.ResolvePostScoringStatus(card.OverallScore,
		session.RoleSnapshot.RejectThreshold, session.RoleSnapshot.AdvanceThreshold)
	log.Printf("session %s scored %d (suggested outcome: %s)", session.ID, card.OverallScore, suggested)

	return store.Update(ctx, s.store, store.KindSession, session.ID, func(sess *types.CandidateSession) {
		sess.Scorecard = card
		sess.Status = types.StatusScored
		sess.LastError = ""
	})
}

func (s *Service) recordScoringFailure(ctx context.Context, sessionID string, cause error) (*types.CandidateSession, error) {
	if _, err := store.Update(ctx, s.store, store.KindSession, sessionID, func(sess *types.CandidateSession) {
		sess.Status = types.StatusFailed
		sess.LastError = cause.Error()
	}); err != nil {
		log.Printf("failed to record scoring failure on session %s: %v", sessionID, err)
	}
	return nil, &CollaboratorError{Op: "judge scoring", Cause: cause}
}

// Decide applies an admin decision to a session. The target is checked
// before any store access.
func (s *Service) Decide(ctx context.Context, sessionID string, target types.SessionStatus) (*types.CandidateSession, error) {
	if !lifecycle.IsAllowedDecision(target) {
		return nil, &DecisionError{Target: target, Allowed: lifecycle.AllowedDecisionValues()}
	}
	session, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !lifecycle.IsDecidable(session.Status) {
		return nil, &StateError{Message: fmt.Sprintf("session %s is %s and cannot be decided", sessionID, session.Status)}
	}
	return store.Update(ctx, s.store, store.KindSession, sessionID, func(sess *types.CandidateSession) {
		sess.Status = target
	})
}

// BulkResult summarizes a bulk decision.
type BulkResult struct {
	Succeeded int               `json:"succeeded"`
	Failed    int               `json:"failed"`
	Errors    map[string]string `json:"errors,omitempty"`
}

// BulkDecide applies one decision to up to MaxBulkDecisions sessions.
// Per-session failures are collected rather than aborting the batch.
func (s *Service) BulkDecide(ctx context.Context, sessionIDs []string, target types.SessionStatus) (*BulkResult, error) {
	if len(sessionIDs) == 0 {
		return nil, &InvalidInputError{Fields: validation.FieldErrors{"sessionIds": "at least one session id is required"}}
	}
	if len(sessionIDs) > MaxBulkDecisions {
		return nil, &InvalidInputError{Fields: validation.FieldErrors{
			"sessionIds": fmt.Sprintf("at most %d sessions per request", MaxBulkDecisions),
		}}
	}
	if !lifecycle.IsAllowedDecision(target) {
		return nil, &DecisionError{Target: target, Allowed: lifecycle.AllowedDecisionValues()}
	}

	var mu sync.Mutex
	result := &BulkResult{Errors: map[string]string{}}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(bulkConcurrency)
	for _, id := range sessionIDs {
		g.Go(func() error {
			_, err := s.Decide(gctx, id, target)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Failed++
				result.Errors[id] = err.Error()
			} else {
				result.Succeeded++
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if len(result.Errors) == 0 {
		result.Errors = nil
	}
	return result, nil
}

// SubmitFeedback records the candidate's one-time experience feedback.
func (s *Service) SubmitFeedback(ctx context.Context, sessionID string, in validation.FeedbackInput) (*types.CandidateSession, error) {
	feedback, errs := validation.ValidateFeedback(in)
	if errs.HasErrors() {
		return nil, &InvalidInputError{Fields: errs}
	}
	session, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !lifecycle.AcceptsFeedback(session.Status) {
		return nil, &StateError{Message: fmt.Sprintf("session %s is %s; feedback is accepted once the interview has finished", sessionID, session.Status)}
	}
	if session.Feedback != nil {
		return nil, &StateError{Message: fmt.Sprintf("feedback for session %s was already submitted", sessionID)}
	}

	feedback.SubmittedAt = s.now().UTC()
	return store.Update(ctx, s.store, store.KindSession, sessionID, func(sess *types.CandidateSession) {
		sess.Feedback = feedback
	})
}

// generatePrepStrategy asks the judge model for an interviewing strategy.
// Best-effort: a failure logs and returns empty.
func (s *Service) generatePrepStrategy(ctx context.Context, session *types.CandidateSession) string {
	if s.judge == nil {
		return ""
	}
	prompt := scoring.BuildPrepPrompt(session.RoleSnapshot, session.Profile)
	resp, err := s.judge.GenerateJSON(ctx, prompt)
	if err != nil {
		log.Printf("prep strategy generation failed for session %s: %v", session.ID, err)
		return ""
	}
	var parsed struct {
		Strategy string `json:"strategy"`
	}
	if err := json.Unmarshal([]byte(llm.CleanJSONBlock(resp)), &parsed); err != nil {
		log.Printf("prep strategy for session %s was not valid JSON: %v", session.ID, err)
		return ""
	}
	return parsed.Strategy
}

func agentInstructions(session *types.CandidateSession, prep string) string {
	base := fmt.Sprintf(
		"You are conducting a %d-minute screening interview for the role %q with candidate %s. Focus areas: %s.",
		session.RoleSnapshot.DurationMinutes,
		session.RoleSnapshot.RoleTitle,
		session.Profile.Name,
		joinOrNone(session.RoleSnapshot.FocusAreas),
	)
	if prep != "" {
		base += "\n\nInterviewing strategy:\n" + prep
	}
	return base
}

func joinOrNone(areas []string) string {
	if len(areas) == 0 {
		return "none specified"
	}
	return strings.Join(areas, ", ")
}
