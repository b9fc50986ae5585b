package scoring

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/jonathan/candidate-screener/internal/llm"
	"github.com/jonathan/candidate-screener/internal/schemas"
	"github.com/jonathan/candidate-screener/internal/types"
)

// ScoreSession asks the judge to evaluate a completed interview and returns
// the normalized scorecard. It performs exactly one judge call, does not
// retry, and does not persist anything; the caller owns persistence and
// failure bookkeeping. The only hard error beyond the call itself is a
// response whose top level is not a JSON object.
func ScoreSession(ctx context.Context, client llm.Client, session *types.CandidateSession) (*types.Scorecard, error) {
	prompt := BuildJudgePrompt(session.RoleSnapshot, session.Profile, session.Transcript)

	resp, err := client.GenerateJSON(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("judge call failed: %w", err)
	}

	var raw map[string]any
	if err := json.Unmarshal([]byte(llm.CleanJSONBlock(resp)), &raw); err != nil {
		return nil, fmt.Errorf("judge response is not a JSON object: %w", err)
	}

	card := NormalizeScorecard(raw)

	// Normalization is expected to always produce a conforming scorecard;
	// a schema failure here indicates a normalization bug, not bad judge
	// output, so it is logged rather than surfaced.
	if data, err := json.Marshal(card); err == nil {
		if verr := schemas.ValidateScorecard(string(data)); verr != nil {
			log.Printf("normalized scorecard failed schema check for session %s: %v", session.ID, verr)
		}
	}

	return &card, nil
}
