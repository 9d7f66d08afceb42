// internal/workers/feed/parse-feed/models.go
package parsefeed

import "jobmatch-workers/internal/models"

type Input struct {
	Payload []byte `json:"payload"`
}

type Output struct {
	Jobs     []models.Job `json:"jobs"`
	Failures []Failure   `json:"failures,omitempty"`
	Dialect  string      `json:"dialect"`
}

// Failure records one job element that was dropped from the batch.
type Failure struct {
	Index int    `json:"index"`
	Ref   string `json:"ref,omitempty"`
	Error string `json:"error"`
}
