package schemas_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/candidate-screener/internal/schemas"
	"github.com/jonathan/candidate-screener/internal/scoring"
)

func TestValidateScorecard_NormalizedOutputConforms(t *testing.T) {
	// Every normalized scorecard must satisfy the schema, even from an
	// empty judge response.
	inputs := []map[string]any{
		{},
		{"overallScore": float64(150), "strengths": "not-an-array"},
		{"overallRecommendation": "strong_yes", "overallScore": float64(95), "summary": "Great."},
	}
	for _, raw := range inputs {
		card := scoring.NormalizeScorecard(raw)
		data, err := json.Marshal(card)
		require.NoError(t, err)
		assert.NoError(t, schemas.ValidateScorecard(string(data)))
	}
}

func TestValidateScorecard_RejectsOutOfRange(t *testing.T) {
	doc := `{
		"overallRecommendation": "yes",
		"seniorityEstimate": "mid",
		"technicalScore": 120,
		"communicationScore": 0,
		"problemSolvingScore": 0,
		"experienceScore": 0,
		"cultureFitScore": 0,
		"overallScore": 0,
		"strengths": [],
		"concerns": [],
		"followUpQuestions": [],
		"summary": "x"
	}`
	err := schemas.ValidateScorecard(doc)
	require.Error(t, err)

	var ve *schemas.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.NotEmpty(t, ve.Errors)
}

func TestValidateScorecard_RejectsUnknownEnum(t *testing.T) {
	doc := `{
		"overallRecommendation": "definitely",
		"seniorityEstimate": "mid",
		"technicalScore": 1,
		"communicationScore": 0,
		"problemSolvingScore": 0,
		"experienceScore": 0,
		"cultureFitScore": 0,
		"overallScore": 0,
		"strengths": [],
		"concerns": [],
		"followUpQuestions": [],
		"summary": "x"
	}`
	assert.Error(t, schemas.ValidateScorecard(doc))
}
