// Package screening orchestrates the candidate screening workflow: role
// templates, candidate sessions, agent provisioning, transcript capture,
// judge scoring and admin decisioning. It owns all persistence and lifecycle
// bookkeeping; collaborators are consumed through narrow interfaces.
package screening

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/candidate-screener/internal/convai"
	"github.com/jonathan/candidate-screener/internal/enrichment"
	"github.com/jonathan/candidate-screener/internal/extraction"
	"github.com/jonathan/candidate-screener/internal/llm"
	"github.com/jonathan/candidate-screener/internal/store"
	"github.com/jonathan/candidate-screener/internal/types"
	"github.com/jonathan/candidate-screener/internal/validation"
)

// DefaultListLimit is the default page size for recency listings.
const DefaultListLimit = store.IndexCap

// GitHubEnricher fetches repo summaries for a candidate profile URL.
type GitHubEnricher interface {
	Repos(ctx context.Context, profileURL string) []types.RepoSummary
}

// WebsiteEnricher fetches main text from a candidate's personal site.
type WebsiteEnricher func(ctx context.Context, url string, useBrowser bool) string

// Service implements the screening operations over a record store, a judge
// model and the conversational-agent provider.
type Service struct {
	store      *store.Store
	judge      llm.Client
	agents     convai.Provider
	github     GitHubEnricher
	website    WebsiteEnricher
	useBrowser bool

	now   func() time.Time
	newID func() string
}

// Options carries the optional Service collaborators and knobs.
type Options struct {
	GitHub     GitHubEnricher
	Website    WebsiteEnricher
	UseBrowser bool
}

// NewService wires a Service. judge and agents may be nil for deployments
// that only serve role CRUD (tooling, tests); operations that need them
// return a collaborator error instead of panicking.
func NewService(s *store.Store, judge llm.Client, agents convai.Provider, opts Options) *Service {
	website := opts.Website
	if website == nil {
		website = enrichment.WebsiteText
	}
	return &Service{
		store:      s,
		judge:      judge,
		agents:     agents,
		github:     opts.GitHub,
		website:    website,
		useBrowser: opts.UseBrowser,
		now:        time.Now,
		newID:      uuid.NewString,
	}
}

// CreateRole validates and persists a new role template.
func (s *Service) CreateRole(ctx context.Context, in validation.RoleTemplateInput) (*types.RoleTemplate, error) {
	role, errs := validation.ValidateRoleTemplate(in)
	if errs.HasErrors() {
		return nil, &InvalidInputError{Fields: errs}
	}

	role.ID = s.newID()
	role.CreatedAt = s.now().UTC()
	role.ApplyURL = "/apply/" + role.ID

	if err := store.Put(ctx, s.store, store.KindRole, role.ID, *role, true); err != nil {
		return nil, err
	}
	return role, nil
}

// GetRole fetches a role template by id.
func (s *Service) GetRole(ctx context.Context, id string) (*types.RoleTemplate, error) {
	role, err := store.Get[types.RoleTemplate](ctx, s.store, store.KindRole, id)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, &NotFoundError{Kind: "role", ID: id}
	}
	return role, nil
}

// ListRoles returns the most recently created role templates.
func (s *Service) ListRoles(ctx context.Context, limit int) ([]types.RoleTemplate, error) {
	if limit <= 0 || limit > DefaultListLimit {
		limit = DefaultListLimit
	}
	return store.ListRecent[types.RoleTemplate](ctx, s.store, store.KindRole, limit, "")
}

// SetRoleStatus archives or reactivates a role template.
func (s *Service) SetRoleStatus(ctx context.Context, id string, status types.RoleStatus) (*types.RoleTemplate, error) {
	if status != types.RoleActive && status != types.RoleArchived {
		return nil, &InvalidInputError{Fields: validation.FieldErrors{
			"status": fmt.Sprintf("must be %q or %q", types.RoleActive, types.RoleArchived),
		}}
	}
	role, err := store.Update(ctx, s.store, store.KindRole, id, func(r *types.RoleTemplate) {
		r.Status = status
	})
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, &NotFoundError{Kind: "role", ID: id}
	}
	return role, nil
}

// DeleteRole removes a role template. Existing sessions keep their frozen
// snapshot and remain evaluable.
func (s *Service) DeleteRole(ctx context.Context, id string) error {
	role, err := store.Get[types.RoleTemplate](ctx, s.store, store.KindRole, id)
	if err != nil {
		return err
	}
	if role == nil {
		return &NotFoundError{Kind: "role", ID: id}
	}
	return s.store.Delete(ctx, store.KindRole, id)
}

// AutofillRole extracts best-effort structured role fields from raw
// job-description text. Failures surface to the caller; role creation never
// depends on this call succeeding.
func (s *Service) AutofillRole(ctx context.Context, jobDescription string) (*extraction.AutofillResult, error) {
	if s.judge == nil {
		return nil, &CollaboratorError{Op: "job-description autofill", Cause: fmt.Errorf("no model configured")}
	}
	result, err := extraction.AutofillRole(ctx, s.judge, jobDescription)
	if err != nil {
		return nil, &CollaboratorError{Op: "job-description autofill", Cause: err}
	}
	return result, nil
}

// enrichProfile attaches optional public context to a validated profile.
// Strictly best-effort; failures degrade to empty fields.
func (s *Service) enrichProfile(ctx context.Context, profile *types.CandidateProfile) {
	if s.github != nil && profile.GithubURL != "" {
		profile.Repos = s.github.Repos(ctx, profile.GithubURL)
	}
	if profile.WebsiteURL != "" {
		profile.WebsiteText = s.website(ctx, profile.WebsiteURL, s.useBrowser)
	}
	if profile.Repos == nil {
		profile.Repos = []types.RepoSummary{}
	}
}

func logEnrichmentSummary(session *types.CandidateSession) {
	log.Printf("session %s submitted for role %s (repos=%d, websiteText=%d chars)",
		session.ID, session.RoleID, len(session.Profile.Repos), len(session.Profile.WebsiteText))
}
