// Package lifecycle defines the candidate session status machine: which
// statuses are terminal, which decisions an admin may apply, and the advisory
// post-scoring resolution derived from role thresholds.
package lifecycle

import "github.com/jonathan/candidate-screener/internal/types"

// terminalStatuses is the single canonical terminal set, applied identically
// by start and sync. Once a session is here, ordinary start/sync calls no
// longer mutate lifecycle fields (transcript merging still happens).
var terminalStatuses = map[types.SessionStatus]bool{
	types.StatusCompleted:   true,
	types.StatusScored:      true,
	types.StatusRejected:    true,
	types.StatusUnderReview: true,
	types.StatusNextRound:   true,
	types.StatusFailed:      true,
}

// IsTerminal reports whether status is in the terminal set.
func IsTerminal(status types.SessionStatus) bool {
	return terminalStatuses[status]
}

// allowedDecisions are the statuses an admin decision may set.
var allowedDecisions = map[types.SessionStatus]bool{
	types.StatusRejected:    true,
	types.StatusUnderReview: true,
	types.StatusNextRound:   true,
}

// AllowedDecisionValues lists the valid decision targets, for error messages.
func AllowedDecisionValues() []types.SessionStatus {
	return []types.SessionStatus{types.StatusRejected, types.StatusUnderReview, types.StatusNextRound}
}

// IsAllowedDecision reports whether target is a valid admin decision status.
func IsAllowedDecision(target types.SessionStatus) bool {
	return allowedDecisions[target]
}

// decidableStatuses are the statuses a session must currently be in for an
// admin decision to apply.
var decidableStatuses = map[types.SessionStatus]bool{
	types.StatusScored:      true,
	types.StatusUnderReview: true,
	types.StatusNextRound:   true,
	types.StatusRejected:    true,
}

// IsDecidable reports whether a session in the given status accepts an admin
// decision.
func IsDecidable(status types.SessionStatus) bool {
	return decidableStatuses[status]
}

// feedbackStatuses are the statuses in which a candidate may leave feedback.
var feedbackStatuses = map[types.SessionStatus]bool{
	types.StatusCompleted:   true,
	types.StatusScored:      true,
	types.StatusRejected:    true,
	types.StatusUnderReview: true,
	types.StatusNextRound:   true,
	types.StatusFailed:      true,
}

// AcceptsFeedback reports whether a session in the given status may receive
// candidate experience feedback.
func AcceptsFeedback(status types.SessionStatus) bool {
	return feedbackStatuses[status]
}

// ResolvePostScoringStatus maps an overall score onto the role's thresholds:
// below reject means rejected, at or above advance means next_round, anything
// between is under_review. The result is advisory; scoring itself only ever
// sets the scored status, and the admin decision is authoritative.
func ResolvePostScoringStatus(score, rejectThreshold, advanceThreshold int) types.SessionStatus {
	// A zero reject threshold is a real configuration (no advisory
	// rejections), so only negative values fall back. A zero advance
	// threshold cannot be configured (it must exceed the reject threshold)
	// and therefore means unset.
	if rejectThreshold < 0 {
		rejectThreshold = types.DefaultRejectThreshold
	}
	if advanceThreshold <= 0 {
		advanceThreshold = types.DefaultAdvanceThreshold
	}
	switch {
	case score < rejectThreshold:
		return types.StatusRejected
	case score >= advanceThreshold:
		return types.StatusNextRound
	default:
		return types.StatusUnderReview
	}
}
