package validation

import (
	"strings"

	"github.com/jonathan/candidate-screener/internal/types"
)

// RoleTemplateInput is the untyped payload for creating a role template.
// FocusAreas arrives as raw text, comma- or newline-delimited.
type RoleTemplateInput struct {
	RoleTitle        string `json:"roleTitle"`
	TargetSeniority  string `json:"targetSeniority"`
	DurationMinutes  int    `json:"durationMinutes"`
	FocusAreas       string `json:"focusAreas"`
	CompanyName      string `json:"companyName"`
	AdminNotes       string `json:"adminNotes"`
	RejectThreshold  *int   `json:"rejectThreshold"`
	AdvanceThreshold *int   `json:"advanceThreshold"`
	JDFileName       string `json:"jdFileName"`
	JDText           string `json:"jdText"`
}

// SplitFocusAreas splits raw comma- or newline-delimited focus areas into a
// trimmed, de-empty list capped at types.MaxFocusAreas entries. Idempotent on
// already-clean input.
func SplitFocusAreas(raw string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == '\n' || r == '\r'
	})
	areas := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		areas = append(areas, f)
		if len(areas) == types.MaxFocusAreas {
			break
		}
	}
	return areas
}

// ValidateRoleTemplate validates a role template payload. On success the
// returned template has threshold defaults applied and Status set to active;
// ID, CreatedAt and ApplyURL are left for the caller to fill.
func ValidateRoleTemplate(in RoleTemplateInput) (*types.RoleTemplate, FieldErrors) {
	errs := FieldErrors{}

	title := strings.TrimSpace(in.RoleTitle)
	if len(title) < 2 {
		errs["roleTitle"] = "must be at least 2 characters"
	}

	seniority := types.Seniority(strings.TrimSpace(in.TargetSeniority))
	if !types.IsValidSeniority(seniority) {
		errs["targetSeniority"] = "must be one of junior, mid, senior, staff+"
	}

	areas := SplitFocusAreas(in.FocusAreas)
	if len(areas) == 0 {
		errs["focusAreas"] = "at least one focus area is required"
	}

	if in.DurationMinutes < 1 || in.DurationMinutes > 90 {
		errs["durationMinutes"] = "must be between 1 and 90 minutes"
	}

	if in.RejectThreshold != nil && (*in.RejectThreshold < 0 || *in.RejectThreshold > 100) {
		errs["rejectThreshold"] = "must be between 0 and 100"
	}
	if in.AdvanceThreshold != nil && (*in.AdvanceThreshold < 0 || *in.AdvanceThreshold > 100) {
		errs["advanceThreshold"] = "must be between 0 and 100"
	}
	if in.RejectThreshold != nil && in.AdvanceThreshold != nil &&
		errs["rejectThreshold"] == "" && errs["advanceThreshold"] == "" &&
		*in.RejectThreshold >= *in.AdvanceThreshold {
		errs["rejectThreshold"] = "must be lower than advance threshold"
	}

	if errs.HasErrors() {
		return nil, errs
	}

	// Defaults are applied only once the payload is known to be valid.
	reject := types.DefaultRejectThreshold
	if in.RejectThreshold != nil {
		reject = *in.RejectThreshold
	}
	advance := types.DefaultAdvanceThreshold
	if in.AdvanceThreshold != nil {
		advance = *in.AdvanceThreshold
	}

	return &types.RoleTemplate{
		RoleTitle:        title,
		TargetSeniority:  seniority,
		DurationMinutes:  in.DurationMinutes,
		FocusAreas:       areas,
		CompanyName:      strings.TrimSpace(in.CompanyName),
		AdminNotes:       strings.TrimSpace(in.AdminNotes),
		RejectThreshold:  reject,
		AdvanceThreshold: advance,
		Status:           types.RoleActive,
		JDFileName:       strings.TrimSpace(in.JDFileName),
		JDText:           in.JDText,
	}, errs
}
