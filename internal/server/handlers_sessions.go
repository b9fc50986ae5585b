package server

import (
	"encoding/json"
	"net/http"

	"github.com/jonathan/candidate-screener/internal/types"
	"github.com/jonathan/candidate-screener/internal/validation"
)

// handleSubmitCandidate creates a session from a candidate application.
func (s *Server) handleSubmitCandidate(w http.ResponseWriter, r *http.Request) {
	var in validation.CandidateSubmissionInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	session, err := s.svc.SubmitCandidate(r.Context(), r.PathValue("id"), in)
	if err != nil {
		s.serviceError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, session)
}

// handleGetSession retrieves a session by id.
func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	session, err := s.svc.GetSession(r.Context(), r.PathValue("id"))
	if err != nil {
		s.serviceError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, session)
}

// handleListSessions lists recent sessions, optionally scoped to one role via
// the roleId query parameter.
func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	limit := parseQueryInt(r, "limit", 25, 25)
	roleID := r.URL.Query().Get("roleId")

	sessions, err := s.svc.ListSessions(r.Context(), limit, roleID)
	if err != nil {
		s.serviceError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"sessions": sessions,
		"count":    len(sessions),
	})
}

// handleProvisionAgent creates the interview agent for a session.
func (s *Server) handleProvisionAgent(w http.ResponseWriter, r *http.Request) {
	session, err := s.svc.ProvisionAgent(r.Context(), r.PathValue("id"))
	if err != nil {
		s.serviceError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, session)
}

// handleConnectionToken mints a short-lived voice-connection token.
func (s *Server) handleConnectionToken(w http.ResponseWriter, r *http.Request) {
	token, err := s.svc.ConnectionToken(r.Context(), r.PathValue("id"))
	if err != nil {
		s.serviceError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"token": token})
}

// handleStartSession moves an agent-ready session into the live interview.
func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	session, err := s.svc.StartSession(r.Context(), r.PathValue("id"))
	if err != nil {
		s.serviceError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, session)
}

// handleSyncSession merges live interview state from the candidate's browser.
func (s *Server) handleSyncSession(w http.ResponseWriter, r *http.Request) {
	var in validation.SyncInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	session, err := s.svc.SyncSession(r.Context(), r.PathValue("id"), in)
	if err != nil {
		s.serviceError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, session)
}

// handleCompleteSession finalizes the interview and triggers scoring.
func (s *Server) handleCompleteSession(w http.ResponseWriter, r *http.Request) {
	var in validation.CompletionInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	session, err := s.svc.CompleteSession(r.Context(), r.PathValue("id"), in)
	if err != nil {
		s.serviceError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, session)
}

// handleDecide applies an admin decision to one session.
func (s *Server) handleDecide(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	session, err := s.svc.Decide(r.Context(), r.PathValue("id"), types.SessionStatus(req.Status))
	if err != nil {
		s.serviceError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, session)
}

// handleBulkDecide applies one decision to a batch of sessions.
func (s *Server) handleBulkDecide(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SessionIDs []string `json:"sessionIds"`
		Status     string   `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := s.svc.BulkDecide(r.Context(), req.SessionIDs, types.SessionStatus(req.Status))
	if err != nil {
		s.serviceError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, result)
}

// handleSubmitFeedback records the candidate's one-time experience feedback.
func (s *Server) handleSubmitFeedback(w http.ResponseWriter, r *http.Request) {
	var in validation.FeedbackInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	session, err := s.svc.SubmitFeedback(r.Context(), r.PathValue("id"), in)
	if err != nil {
		s.serviceError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, session)
}
