// internal/workers/matching/parse-search-filters/handler.go
package parsesearchfilters

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	apperrors "jobmatch-workers/internal/common/errors"
	"jobmatch-workers/internal/common/logger"
	"jobmatch-workers/internal/common/validation"
)

const TaskType = "parse-search-filters"

var (
	ErrInvalidFilterFormat = errors.New("INVALID_FILTER_FORMAT")
)

type Handler struct {
	config *Config
	logger logger.Logger
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

// Execute coerces raw filters into a search query and validates it. Paging
// outside page >= 1 and 1 <= pageSize <= 100 is rejected, not clamped.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}

func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	raw := input.RawFilters
	if raw == nil {
		raw = map[string]interface{}{}
	}

	out := &Output{Page: 1, PageSize: h.config.DefaultPageSize}
	if out.PageSize <= 0 {
		out.PageSize = 20
	}
	out.Query.MinSkillMatch = h.config.DefaultMinSkillMatch
	if out.Query.MinSkillMatch <= 0 {
		out.Query.MinSkillMatch = 1
	}

	if v, ok := raw["keywords"]; ok {
		out.Query.Keywords = strings.TrimSpace(toString(v))
	}
	if v, ok := raw["jobType"]; ok {
		out.Query.JobType = strings.TrimSpace(toString(v))
	}
	out.Query.Remote = parseFlag(raw["remote"])
	out.Query.UseMySkills = parseFlag(raw["useMySkills"])

	ints := []struct {
		key string
		dst *int
	}{
		{"minSkillMatch", &out.Query.MinSkillMatch},
		{"page", &out.Page},
		{"pageSize", &out.PageSize},
	}
	for _, f := range ints {
		v, ok := raw[f.key]
		if !ok || isBlank(v) {
			continue
		}
		n, err := parseInt(v)
		if err != nil {
			return nil, apperrors.NewInvalidQueryParamsError(fmt.Sprintf("%s: %v", f.key, err)).
				WithCause(fmt.Errorf("%w: %s", ErrInvalidFilterFormat, f.key))
		}
		*f.dst = n
	}

	res, err := validation.ValidateSearch(out.Query, out.Page, out.PageSize)
	if err != nil {
		return nil, err
	}
	if !res.Valid {
		h.logger.Warn("invalid search filters", map[string]interface{}{
			"errors": res.Summary(),
		})
		return nil, apperrors.NewInvalidQueryParamsError(res.Summary()).
			WithCause(ErrInvalidFilterFormat).
			WithMetadata("errors", res.Errors)
	}

	h.logger.Debug("filters parsed", map[string]interface{}{
		"keywords":    out.Query.Keywords,
		"jobType":     out.Query.JobType,
		"remote":      out.Query.Remote,
		"useMySkills": out.Query.UseMySkills,
		"page":        out.Page,
		"pageSize":    out.PageSize,
	})

	return out, nil
}

// ParseQueryValues flattens url.Values-like input, keeping the first value
// of each key.
func ParseQueryValues(values map[string][]string) map[string]interface{} {
	out := make(map[string]interface{}, len(values))
	for k, v := range values {
		if len(v) > 0 {
			out[k] = v[0]
		}
	}
	return out
}

// parseFlag accepts only true or "true"; anything else leaves the filter off.
func parseFlag(raw interface{}) bool {
	switch v := raw.(type) {
	case bool:
		return v
	case string:
		return strings.EqualFold(strings.TrimSpace(v), "true")
	default:
		return false
	}
}

func parseInt(raw interface{}) (int, error) {
	switch v := raw.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		if v != math.Trunc(v) {
			return 0, errors.New("not an integer")
		}
		return int(v), nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, errors.New("not an integer")
		}
		return n, nil
	default:
		return 0, errors.New("not a number")
	}
}

func toString(raw interface{}) string {
	switch v := raw.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

func isBlank(raw interface{}) bool {
	if raw == nil {
		return true
	}
	s, ok := raw.(string)
	return ok && strings.TrimSpace(s) == ""
}
