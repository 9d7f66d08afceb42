// internal/workers/matching/search-jobs/config.go
package searchjobs

type Config struct {
	MinKeywordScore int
	FuzzyDistance   int
}

func LoadConfig() *Config {
	return &Config{
		MinKeywordScore: 2,
		FuzzyDistance:   2,
	}
}
