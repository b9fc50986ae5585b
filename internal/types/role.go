// Package types defines the domain model shared across the screening platform.
package types

import "time"

// Seniority represents the target seniority level for a role.
type Seniority string

// Seniority levels supported by role templates and scorecards.
const (
	SeniorityJunior Seniority = "junior"
	SeniorityMid    Seniority = "mid"
	SenioritySenior Seniority = "senior"
	SeniorityStaff  Seniority = "staff+"
)

// Seniorities lists all valid seniority values in ascending order.
var Seniorities = []Seniority{SeniorityJunior, SeniorityMid, SenioritySenior, SeniorityStaff}

// IsValidSeniority reports whether s is a recognized seniority level.
func IsValidSeniority(s Seniority) bool {
	for _, v := range Seniorities {
		if v == s {
			return true
		}
	}
	return false
}

// RoleStatus represents the lifecycle status of a role template.
type RoleStatus string

// Role template statuses.
const (
	RoleActive   RoleStatus = "active"
	RoleArchived RoleStatus = "archived"
)

// Default score thresholds applied when a role template does not specify them.
const (
	DefaultRejectThreshold  = 40
	DefaultAdvanceThreshold = 90
)

// MaxFocusAreas caps the number of focus areas a role template may carry.
const MaxFocusAreas = 8

// RoleTemplate is an admin-authored hiring requirement that candidates apply
// against. Immutable after creation except Status and soft fields.
type RoleTemplate struct {
	ID               string     `json:"id"`
	RoleTitle        string     `json:"roleTitle"`
	TargetSeniority  Seniority  `json:"targetSeniority"`
	DurationMinutes  int        `json:"durationMinutes"`
	FocusAreas       []string   `json:"focusAreas"`
	CompanyName      string     `json:"companyName,omitempty"`
	AdminNotes       string     `json:"adminNotes,omitempty"`
	RejectThreshold  int        `json:"rejectThreshold"`
	AdvanceThreshold int        `json:"advanceThreshold"`
	CreatedAt        time.Time  `json:"createdAt"`
	Status           RoleStatus `json:"status"`
	JDFileName       string     `json:"jdFileName,omitempty"`
	JDText           string     `json:"jdText,omitempty"`
	ApplyURL         string     `json:"applyUrl,omitempty"`
}

// RoleSnapshot is the frozen copy of a role template's evaluation-relevant
// fields captured at session creation. Sessions keep this snapshot so later
// role edits or deletions cannot change historical evaluation context.
type RoleSnapshot struct {
	RoleID           string    `json:"roleId"`
	RoleTitle        string    `json:"roleTitle"`
	TargetSeniority  Seniority `json:"targetSeniority"`
	DurationMinutes  int       `json:"durationMinutes"`
	FocusAreas       []string  `json:"focusAreas"`
	CompanyName      string    `json:"companyName,omitempty"`
	RejectThreshold  int       `json:"rejectThreshold"`
	AdvanceThreshold int       `json:"advanceThreshold"`
	JDText           string    `json:"jdText,omitempty"`
}

// Snapshot freezes the evaluation-relevant fields of a role template.
func (r *RoleTemplate) Snapshot() RoleSnapshot {
	areas := make([]string, len(r.FocusAreas))
	copy(areas, r.FocusAreas)
	return RoleSnapshot{
		RoleID:           r.ID,
		RoleTitle:        r.RoleTitle,
		TargetSeniority:  r.TargetSeniority,
		DurationMinutes:  r.DurationMinutes,
		FocusAreas:       areas,
		CompanyName:      r.CompanyName,
		RejectThreshold:  r.RejectThreshold,
		AdvanceThreshold: r.AdvanceThreshold,
		JDText:           r.JDText,
	}
}
