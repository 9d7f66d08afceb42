// internal/workers/data-access/index-jobs/handler_test.go
package indexjobs

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	apperrors "jobmatch-workers/internal/common/errors"
	"jobmatch-workers/internal/common/logger"
	"jobmatch-workers/internal/models"
)

// fakeCluster answers the bulk and update-by-query endpoints.
type fakeCluster struct {
	mu          sync.Mutex
	bulkCalls   int
	bulkLines   []string
	ubqBody     map[string]interface{}
	rejectID    string
	bulkStatus  int
	existingIDs map[string]bool
}

func (f *fakeCluster) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	w.Header().Set("X-Elastic-Product", "Elasticsearch")
	w.Header().Set("Content-Type", "application/json")

	switch {
	case strings.HasSuffix(r.URL.Path, "/_bulk"):
		f.bulkCalls++
		if f.bulkStatus != 0 {
			w.WriteHeader(f.bulkStatus)
			_, _ = io.WriteString(w, `{"error":"boom"}`)
			return
		}
		var items []map[string]interface{}
		scanner := bufio.NewScanner(r.Body)
		for scanner.Scan() {
			line := scanner.Text()
			f.bulkLines = append(f.bulkLines, line)
			var action map[string]map[string]string
			if err := json.Unmarshal([]byte(line), &action); err != nil || action["index"] == nil {
				continue
			}
			id := action["index"]["_id"]
			result := map[string]interface{}{"_id": id, "status": 201, "result": "created"}
			if f.existingIDs[id] {
				result["status"], result["result"] = 200, "updated"
			}
			if id == f.rejectID {
				result = map[string]interface{}{"_id": id, "status": 400,
					"error": map[string]string{"type": "mapper_parsing_exception", "reason": "bad coordinates"}}
			}
			items = append(items, map[string]interface{}{"index": result})
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"errors": f.rejectID != "", "items": items})
	case strings.HasSuffix(r.URL.Path, "/_update_by_query"):
		_ = json.NewDecoder(r.Body).Decode(&f.ubqBody)
		_, _ = io.WriteString(w, `{"updated": 2}`)
	default:
		_, _ = io.WriteString(w, `{"version":{"number":"8.11.0"}}`)
	}
}

func newTestHandler(t *testing.T, cluster *fakeCluster, batch int) *Handler {
	t.Helper()
	srv := httptest.NewServer(cluster)
	t.Cleanup(srv.Close)

	client, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)

	cfg := LoadConfig()
	cfg.BatchSize = batch
	return NewHandler(cfg, client, logger.NewZapAdapter(zaptest.NewLogger(t)))
}

func testJobs() []models.Job {
	return []models.Job{
		{ID: "1001", ExternalID: "1001", Title: "Software Engineer"},
		{ID: "1002", ExternalID: "1002", Title: "Data Analyst"},
		{ID: "1003", ExternalID: "1003", Title: "Warehouse Associate"},
	}
}

func TestHandler_Execute_BulkIndexes(t *testing.T) {
	cluster := &fakeCluster{existingIDs: map[string]bool{"1002": true}}
	h := newTestHandler(t, cluster, 2)
	refreshedAt := time.Date(2024, 4, 1, 8, 0, 0, 0, time.UTC)

	out, err := h.Execute(context.Background(), &Input{Jobs: testJobs(), RefreshedAt: refreshedAt})
	require.NoError(t, err)

	assert.Equal(t, models.SyncResult{Created: 2, Updated: 1, Deactivated: 2}, out.SyncResult)
	assert.Equal(t, 2, cluster.bulkCalls)
	require.Len(t, cluster.bulkLines, 6)

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(cluster.bulkLines[1]), &doc))
	assert.Equal(t, "Software Engineer", doc["title"])
	assert.Equal(t, true, doc["isActive"])
	assert.Equal(t, "2024-04-01T08:00:00Z", doc["refreshedAt"])

	query, _ := json.Marshal(cluster.ubqBody)
	assert.Contains(t, string(query), `"values":["1001","1002","1003"]`)
	assert.Contains(t, string(query), `"lt":"2024-03-02T08:00:00Z"`)
}

func TestHandler_Execute_RejectedDocument(t *testing.T) {
	h := newTestHandler(t, &fakeCluster{rejectID: "1002"}, 500)

	_, err := h.Execute(context.Background(), &Input{Jobs: testJobs()})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrBulkIndexFailed))

	stdErr, ok := apperrors.AsStandardError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeIndexWriteFailed, stdErr.Code)
	assert.Contains(t, stdErr.Details, "1 documents rejected")
}

func TestHandler_Sync_ClusterError(t *testing.T) {
	h := newTestHandler(t, &fakeCluster{bulkStatus: http.StatusServiceUnavailable}, 500)

	_, err := h.Sync(context.Background(), testJobs(), time.Now())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrBulkIndexFailed))
	assert.Equal(t, SinkName, h.Name())
}
