// internal/models/match.go
package models

// MatchResult is computed per job and user and never stored.
type MatchResult struct {
	Score     int                `json:"score"`
	Factors   []string           `json:"factors"`
	Breakdown map[string]float64 `json:"breakdown"`
}

// ScoredJob pairs a job with its optional match against the requesting user.
type ScoredJob struct {
	Job
	KeywordScore int          `json:"keywordScore,omitempty"`
	Match        *MatchResult `json:"match,omitempty"`
}
