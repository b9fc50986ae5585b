package extraction

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/candidate-screener/internal/types"
)

func TestPDFText_RejectsOversizedPayload(t *testing.T) {
	data := bytes.Repeat([]byte("a"), MaxPDFSize+1)
	_, err := PDFText(data, "jd.pdf", "job description")
	require.Error(t, err)
	assert.Equal(t, "job description must be ≤10MB", err.Error())
}

func TestPDFText_RejectsNonPDF(t *testing.T) {
	_, err := PDFText([]byte("hello world, not a pdf"), "jd.txt", "job description")
	require.Error(t, err)
	assert.Equal(t, "job description must be a PDF", err.Error())
}

func TestPDFText_LabelAppearsInErrors(t *testing.T) {
	_, err := PDFText([]byte("nope"), "cv.doc", "CV")
	require.Error(t, err)
	assert.Equal(t, "CV must be a PDF", err.Error())
}

func TestPDFText_UnparseablePDF(t *testing.T) {
	// Correct magic bytes but garbage content.
	data := []byte("%PDF-1.7 this is not a real document body")
	_, err := PDFText(data, "jd.pdf", "job description")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "job description")
}

type fakeLLM struct {
	response string
	err      error
}

func (f *fakeLLM) GenerateJSON(_ context.Context, _ string) (string, error) {
	return f.response, f.err
}

func (f *fakeLLM) Close() error { return nil }

func TestAutofillRole_ParsesStructuredFields(t *testing.T) {
	client := &fakeLLM{response: `{
		"roleTitle": "Backend Engineer",
		"companyName": "Acme",
		"targetSeniority": "senior",
		"focusAreas": ["Go", "PostgreSQL"],
		"warnings": ["no salary range found"]
	}`}

	result, err := AutofillRole(context.Background(), client, "some JD text")
	require.NoError(t, err)
	assert.Equal(t, "Backend Engineer", result.RoleTitle)
	assert.Equal(t, "Acme", result.CompanyName)
	assert.Equal(t, "senior", result.TargetSeniority)
	assert.Equal(t, []string{"Go", "PostgreSQL"}, result.FocusAreas)
	assert.Equal(t, []string{"no salary range found"}, result.Warnings)
}

func TestAutofillRole_AllFieldsOptional(t *testing.T) {
	client := &fakeLLM{response: `{}`}

	result, err := AutofillRole(context.Background(), client, "vague text")
	require.NoError(t, err)
	assert.Empty(t, result.RoleTitle)
	assert.Empty(t, result.CompanyName)
	assert.Empty(t, result.TargetSeniority)
	assert.NotNil(t, result.FocusAreas)
	assert.Empty(t, result.FocusAreas)
	assert.NotNil(t, result.Warnings)
}

func TestAutofillRole_DropsUnknownSeniority(t *testing.T) {
	client := &fakeLLM{response: `{"targetSeniority": "rockstar"}`}

	result, err := AutofillRole(context.Background(), client, "text")
	require.NoError(t, err)
	assert.Empty(t, result.TargetSeniority)
}

func TestAutofillRole_KeepsEverySupportedSeniority(t *testing.T) {
	for _, level := range types.Seniorities {
		client := &fakeLLM{response: fmt.Sprintf(`{"targetSeniority": %q}`, level)}

		result, err := AutofillRole(context.Background(), client, "text")
		require.NoError(t, err, "seniority %s", level)
		assert.Equal(t, string(level), result.TargetSeniority)
	}
}

func TestAutofillRole_CapsFocusAreas(t *testing.T) {
	client := &fakeLLM{response: `{"focusAreas": ["1","2","3","4","5","6","7","8","9","10"]}`}

	result, err := AutofillRole(context.Background(), client, "text")
	require.NoError(t, err)
	assert.Len(t, result.FocusAreas, 8)
}

func TestAutofillRole_HandlesMarkdownFences(t *testing.T) {
	client := &fakeLLM{response: "```json\n{\"roleTitle\": \"SRE\"}\n```"}

	result, err := AutofillRole(context.Background(), client, "text")
	require.NoError(t, err)
	assert.Equal(t, "SRE", result.RoleTitle)
}

func TestAutofillRole_CallFailure(t *testing.T) {
	client := &fakeLLM{err: errors.New("rate limited")}

	_, err := AutofillRole(context.Background(), client, "text")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "autofill call failed")
}
