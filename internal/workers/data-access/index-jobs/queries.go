// internal/workers/data-access/index-jobs/queries.go
package indexjobs

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"jobmatch-workers/internal/models"
)

// buildBulkBody renders one NDJSON index action per job, keyed by
// external id so a re-index overwrites instead of duplicating.
func buildBulkBody(jobs []models.Job, refreshedAt time.Time) (*bytes.Buffer, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, job := range jobs {
		meta := map[string]map[string]string{"index": {"_id": job.ExternalID}}
		if err := enc.Encode(meta); err != nil {
			return nil, fmt.Errorf("encode action for %s: %w", job.ExternalID, err)
		}
		doc := document{Job: job, RefreshedAt: refreshedAt}
		doc.IsActive = true
		if err := enc.Encode(doc); err != nil {
			return nil, fmt.Errorf("encode document %s: %w", job.ExternalID, err)
		}
	}
	return &buf, nil
}

// buildDeactivateQuery marks active documents missing from ids and last
// refreshed before cutoff as inactive.
func buildDeactivateQuery(ids []string, cutoff time.Time) (*bytes.Buffer, error) {
	if ids == nil {
		ids = []string{}
	}
	query := map[string]interface{}{
		"script": map[string]interface{}{
			"source": "ctx._source.isActive = false",
			"lang":   "painless",
		},
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"filter": []interface{}{
					map[string]interface{}{"term": map[string]interface{}{"isActive": true}},
					map[string]interface{}{"range": map[string]interface{}{
						"refreshedAt": map[string]interface{}{"lt": cutoff.Format(time.RFC3339)},
					}},
				},
				"must_not": []interface{}{
					map[string]interface{}{"ids": map[string]interface{}{"values": ids}},
				},
			},
		},
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(query); err != nil {
		return nil, err
	}
	return &buf, nil
}
