// internal/workers/matching/parse-search-filters/config.go
package parsesearchfilters

type Config struct {
	DefaultPageSize      int
	// DefaultMinSkillMatch applies when minSkillMatch is absent or blank.
	DefaultMinSkillMatch int
}

func LoadConfig() *Config {
	return &Config{
		DefaultPageSize:      20,
		DefaultMinSkillMatch: 1,
	}
}
