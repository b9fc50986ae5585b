package types

// Recommendation is the judge's overall hiring recommendation.
type Recommendation string

// Recommendation values, worst to best.
const (
	RecStrongNo  Recommendation = "strong_no"
	RecNo        Recommendation = "no"
	RecMixed     Recommendation = "mixed"
	RecYes       Recommendation = "yes"
	RecStrongYes Recommendation = "strong_yes"
)

// Recommendations lists all valid recommendation values.
var Recommendations = []Recommendation{RecStrongNo, RecNo, RecMixed, RecYes, RecStrongYes}

// IsValidRecommendation reports whether r is a recognized recommendation.
func IsValidRecommendation(r Recommendation) bool {
	for _, v := range Recommendations {
		if v == r {
			return true
		}
	}
	return false
}

// Caps on the list fields of a scorecard.
const (
	MaxStrengths         = 4
	MaxConcerns          = 4
	MaxFollowUpQuestions = 5
)

// Scorecard is the normalized, judge-produced evaluation of a completed
// interview. All scores are integers in [0,100]. Owned by its session;
// a re-scoring pass replaces it wholesale.
type Scorecard struct {
	OverallRecommendation Recommendation `json:"overallRecommendation"`
	SeniorityEstimate     Seniority      `json:"seniorityEstimate"`
	TechnicalScore        int            `json:"technicalScore"`
	CommunicationScore    int            `json:"communicationScore"`
	ProblemSolvingScore   int            `json:"problemSolvingScore"`
	ExperienceScore       int            `json:"experienceScore"`
	CultureFitScore       int            `json:"cultureFitScore"`
	OverallScore          int            `json:"overallScore"`
	Strengths             []string       `json:"strengths"`
	Concerns              []string       `json:"concerns"`
	FollowUpQuestions     []string       `json:"followUpQuestions"`
	Summary               string         `json:"summary"`
}
