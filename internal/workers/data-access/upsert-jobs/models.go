// internal/workers/data-access/upsert-jobs/models.go
package upsertjobs

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
	QueryExecutionTime int64 `json:"queryExecutionTime"`
}
