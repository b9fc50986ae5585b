package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/jonathan/candidate-screener/internal/extraction"
	"github.com/jonathan/candidate-screener/internal/types"
	"github.com/jonathan/candidate-screener/internal/validation"
)

// parseQueryInt parses an integer query parameter with default and max values.
func parseQueryInt(r *http.Request, key string, defaultValue, maxValue int) int {
	valStr := r.URL.Query().Get(key)
	if valStr == "" {
		return defaultValue
	}
	val, err := strconv.Atoi(valStr)
	if err != nil || val < 0 {
		return defaultValue
	}
	if maxValue > 0 && val > maxValue {
		return maxValue
	}
	return val
}

// handleCreateRole creates a role template from an admin payload.
func (s *Server) handleCreateRole(w http.ResponseWriter, r *http.Request) {
	var in validation.RoleTemplateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	role, err := s.svc.CreateRole(r.Context(), in)
	if err != nil {
		s.serviceError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, role)
}

// handleGetRole retrieves a role template by id.
func (s *Server) handleGetRole(w http.ResponseWriter, r *http.Request) {
	role, err := s.svc.GetRole(r.Context(), r.PathValue("id"))
	if err != nil {
		s.serviceError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, role)
}

// handleListRoles lists the most recently created role templates.
func (s *Server) handleListRoles(w http.ResponseWriter, r *http.Request) {
	limit := parseQueryInt(r, "limit", 25, 25)

	roles, err := s.svc.ListRoles(r.Context(), limit)
	if err != nil {
		s.serviceError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"roles": roles,
		"count": len(roles),
	})
}

// handleSetRoleStatus archives or reactivates a role template.
func (s *Server) handleSetRoleStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	role, err := s.svc.SetRoleStatus(r.Context(), r.PathValue("id"), types.RoleStatus(req.Status))
	if err != nil {
		s.serviceError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, role)
}

// handleDeleteRole removes a role template.
func (s *Server) handleDeleteRole(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.DeleteRole(r.Context(), r.PathValue("id")); err != nil {
		s.serviceError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// handleAutofillRole extracts structured fields from job-description text.
func (s *Server) handleAutofillRole(w http.ResponseWriter, r *http.Request) {
	var req struct {
		JDText string `json:"jdText"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.JDText == "" {
		s.jsonResponse(w, http.StatusUnprocessableEntity, map[string]any{
			"errors": validation.FieldErrors{"jdText": "job description text is required"},
		})
		return
	}

	result, err := s.svc.AutofillRole(r.Context(), req.JDText)
	if err != nil {
		s.serviceError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, result)
}

// handleExtract accepts a multipart PDF upload and returns its text. The form
// field "label" names the upload in error messages; defaults to "file".
func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(extraction.MaxPDFSize); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Missing file upload")
		return
	}
	defer func() { _ = file.Close() }()

	label := r.FormValue("label")
	if label == "" {
		label = "file"
	}

	data, err := io.ReadAll(io.LimitReader(file, extraction.MaxPDFSize+1))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Failed to read upload")
		return
	}

	doc, err := extraction.PDFText(data, header.Filename, label)
	if err != nil {
		s.jsonResponse(w, http.StatusUnprocessableEntity, map[string]any{
			"errors": validation.FieldErrors{"file": err.Error()},
		})
		return
	}
	s.jsonResponse(w, http.StatusOK, doc)
}
