// Package scoring builds the grounding prompt for the language-model judge
// and normalizes its response into the fixed scorecard shape.
package scoring

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/jonathan/candidate-screener/internal/types"
)

// FallbackSummary is used when the judge returns no usable summary.
const FallbackSummary = "The judge did not provide a summary for this interview."

// NormalizeScorecard coerces arbitrary judge output into a fully-populated
// scorecard. It is total: any object input, including an empty one, yields a
// scorecard with every field in range. Out-of-range, missing and wrong-typed
// fields fall back to safe defaults.
func NormalizeScorecard(raw map[string]any) types.Scorecard {
	rec := types.Recommendation(coerceString(raw["overallRecommendation"]))
	if !types.IsValidRecommendation(rec) {
		rec = types.RecMixed
	}

	seniority := types.Seniority(coerceString(raw["seniorityEstimate"]))
	if !types.IsValidSeniority(seniority) {
		seniority = types.SeniorityMid
	}

	summary := strings.TrimSpace(coerceString(raw["summary"]))
	if summary == "" {
		summary = FallbackSummary
	}

	return types.Scorecard{
		OverallRecommendation: rec,
		SeniorityEstimate:     seniority,
		TechnicalScore:        coerceScore(raw["technicalScore"]),
		CommunicationScore:    coerceScore(raw["communicationScore"]),
		ProblemSolvingScore:   coerceScore(raw["problemSolvingScore"]),
		ExperienceScore:       coerceScore(raw["experienceScore"]),
		CultureFitScore:       coerceScore(raw["cultureFitScore"]),
		OverallScore:          coerceScore(raw["overallScore"]),
		Strengths:             coerceStringList(raw["strengths"], types.MaxStrengths),
		Concerns:              coerceStringList(raw["concerns"], types.MaxConcerns),
		FollowUpQuestions:     coerceStringList(raw["followUpQuestions"], types.MaxFollowUpQuestions),
		Summary:               summary,
	}
}

// coerceScore converts any value to an integer clamped to [0,100]. Non-finite
// and non-numeric values become 0.
func coerceScore(v any) int {
	f := coerceNumber(v)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		f = 0
	}
	f = math.Round(f)
	if f < 0 {
		return 0
	}
	if f > 100 {
		return 100
	}
	return int(f)
}

func coerceNumber(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0
		}
		return f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

func coerceString(v any) string {
	s, _ := v.(string)
	return s
}

// coerceStringList keeps only non-empty trimmed strings, truncated to max.
func coerceStringList(v any, max int) []string {
	items, ok := v.([]any)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, max)
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			continue
		}
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		out = append(out, s)
		if len(out) == max {
			break
		}
	}
	return out
}
