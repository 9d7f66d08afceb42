// internal/workers/matching/calculate-match-score/models.go
package calculatematchscore

import "jobmatch-workers/internal/models"

type Input struct {
	User *models.UserProfile `json:"user"`
	Job  *models.Job         `json:"job"`
}

type Output struct {
	JobID  string             `json:"jobId"`
	Result models.MatchResult `json:"result"`
}
