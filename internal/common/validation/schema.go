package validation

import (
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	"jobmatch-workers/internal/models"
)

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// Summary joins every error into one line, "field: message; ...".
func (r *ValidationResult) Summary() string {
	parts := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		parts = append(parts, fmt.Sprintf("%s: %s", e.Field, e.Message))
	}
	return strings.Join(parts, "; ")
}

// Validator holds a compiled JSON schema.
type Validator struct {
	schema *gojsonschema.Schema
}

// NewValidator compiles a JSON schema document.
func NewValidator(schema string) (*Validator, error) {
	compiled, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(schema))
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return &Validator{schema: compiled}, nil
}

// Validate checks doc, a Go value that marshals to JSON, against the schema.
func (v *Validator) Validate(doc interface{}) (*ValidationResult, error) {
	res, err := v.schema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return nil, fmt.Errorf("validate: %w", err)
	}

	out := &ValidationResult{Valid: res.Valid()}
	for _, e := range res.Errors() {
		field := e.Field()
		if field == "(root)" {
			if p, ok := e.Details()["property"].(string); ok {
				field = p
			}
		}
		out.Errors = append(out.Errors, ValidationError{
			Field:   field,
			Message: e.Description(),
			Code:    strings.ToUpper(e.Type()),
		})
	}
	return out, nil
}

// SearchFiltersSchema constrains a coerced search request.
const SearchFiltersSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "keywords":      {"type": "string", "maxLength": 200},
    "jobType":       {"type": "string", "enum": ["", "All", "Full-time", "Part-time", "Contract", "Contract-to-hire"]},
    "remote":        {"type": "boolean"},
    "useMySkills":   {"type": "boolean"},
    "minSkillMatch": {"type": "integer", "minimum": 0},
    "page":          {"type": "integer", "minimum": 1},
    "pageSize":      {"type": "integer", "minimum": 1, "maximum": 100}
  },
  "required": ["page", "pageSize"]
}`

var (
	searchOnce      sync.Once
	searchValidator *Validator
	searchErr       error
)

// SearchFilters returns the shared validator for SearchFiltersSchema.
func SearchFilters() (*Validator, error) {
	searchOnce.Do(func() {
		searchValidator, searchErr = NewValidator(SearchFiltersSchema)
	})
	return searchValidator, searchErr
}

// ValidateSearch checks a search query and its paging against
// SearchFiltersSchema.
func ValidateSearch(q models.SearchQuery, page, pageSize int) (*ValidationResult, error) {
	v, err := SearchFilters()
	if err != nil {
		return nil, err
	}
	return v.Validate(map[string]interface{}{
		"keywords":      q.Keywords,
		"jobType":       q.JobType,
		"remote":        q.Remote,
		"useMySkills":   q.UseMySkills,
		"minSkillMatch": q.MinSkillMatch,
		"page":          page,
		"pageSize":      pageSize,
	})
}
