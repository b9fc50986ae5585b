package extraction

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jonathan/candidate-screener/internal/llm"
	"github.com/jonathan/candidate-screener/internal/prompts"
	"github.com/jonathan/candidate-screener/internal/types"
)

// AutofillResult holds best-effort structured fields extracted from a job
// description. Every field may be absent; callers must never block role
// creation on a missing value.
type AutofillResult struct {
	RoleTitle       string   `json:"roleTitle"`
	CompanyName     string   `json:"companyName"`
	TargetSeniority string   `json:"targetSeniority"`
	FocusAreas      []string `json:"focusAreas"`
	Warnings        []string `json:"warnings"`
}

// AutofillRole asks the model to extract structured hiring fields from raw
// job-description text. The result is advisory; the admin reviews and edits
// before the role is created.
func AutofillRole(ctx context.Context, client llm.Client, jobDescription string) (*AutofillResult, error) {
	template := prompts.MustGet("extraction.json", "jd-autofill")
	prompt := prompts.Format(template, map[string]string{
		"JobDescription": jobDescription,
	})

	resp, err := client.GenerateJSON(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("autofill call failed: %w", err)
	}

	var raw struct {
		RoleTitle       *string  `json:"roleTitle"`
		CompanyName     *string  `json:"companyName"`
		TargetSeniority *string  `json:"targetSeniority"`
		FocusAreas      []string `json:"focusAreas"`
		Warnings        []string `json:"warnings"`
	}
	if err := json.Unmarshal([]byte(llm.CleanJSONBlock(resp)), &raw); err != nil {
		return nil, fmt.Errorf("autofill response is not a JSON object: %w", err)
	}

	result := &AutofillResult{
		FocusAreas: []string{},
		Warnings:   []string{},
	}
	if raw.RoleTitle != nil {
		result.RoleTitle = *raw.RoleTitle
	}
	if raw.CompanyName != nil {
		result.CompanyName = *raw.CompanyName
	}
	if raw.TargetSeniority != nil && types.IsValidSeniority(types.Seniority(*raw.TargetSeniority)) {
		result.TargetSeniority = *raw.TargetSeniority
	}
	if len(raw.FocusAreas) > types.MaxFocusAreas {
		raw.FocusAreas = raw.FocusAreas[:types.MaxFocusAreas]
	}
	if raw.FocusAreas != nil {
		result.FocusAreas = raw.FocusAreas
	}
	if raw.Warnings != nil {
		result.Warnings = raw.Warnings
	}

	return result, nil
}
