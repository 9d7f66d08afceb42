// internal/models/query_types.go
package models

// SearchQuery carries the structured filters of a job search.
type SearchQuery struct {
	Keywords      string `json:"keywords,omitempty"`
	JobType       string `json:"jobType,omitempty"`
	Remote        bool   `json:"remote,omitempty"`
	UseMySkills   bool   `json:"useMySkills,omitempty"`
	MinSkillMatch int    `json:"minSkillMatch,omitempty"`
}

// JobTypeAll disables the job type filter.
const JobTypeAll = "All"

type Pagination struct {
	CurrentPage     int  `json:"currentPage"`
	PageSize        int  `json:"pageSize"`
	TotalPages      int  `json:"totalPages"`
	TotalJobs       int  `json:"totalJobs"`
	HasNextPage     bool `json:"hasNextPage"`
	HasPreviousPage bool `json:"hasPreviousPage"`
}
