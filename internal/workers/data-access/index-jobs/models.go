// internal/workers/data-access/index-jobs/models.go
package indexjobs

import (
	"time"

	"jobmatch-workers/internal/models"
)

type Input struct {
	Jobs        []models.Job `json:"jobs"`
	RefreshedAt time.Time    `json:"refreshedAt"`
}

type Output struct {
	models.SyncResult
	Failed int   `json:"failed"`
	Took   int64 `json:"took"`
}

// document is the indexed form of a job.
type document struct {
	models.Job
	RefreshedAt time.Time `json:"refreshedAt"`
}

type bulkResponse struct {
	Errors bool `json:"errors"`
	Items  []map[string]struct {
		ID     string `json:"_id"`
		Result string `json:"result"`
		Status int    `json:"status"`
		Error  *struct {
			Type   string `json:"type"`
			Reason string `json:"reason"`
		} `json:"error,omitempty"`
	} `json:"items"`
}

type updateByQueryResponse struct {
	Updated int `json:"updated"`
}
