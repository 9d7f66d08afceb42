// internal/workers/matching/parse-search-filters/models.go
package parsesearchfilters

import "jobmatch-workers/internal/models"

// Input carries filters as they arrive from a query string or JSON body.
// Values may be strings, booleans or numbers.
type Input struct {
	RawFilters map[string]interface{} `json:"rawFilters"`
}

type Output struct {
	Query    models.SearchQuery `json:"query"`
	Page     int                `json:"page"`
	PageSize int                `json:"pageSize"`
}
