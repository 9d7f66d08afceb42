// internal/workers/matching/recommend-jobs/config.go
package recommendjobs

type Config struct {
	MinScore         int
	MaxResults       int
	DefaultMaxRadius float64
}

func LoadConfig() *Config {
	return &Config{
		MinScore:         20,
		MaxResults:       50,
		DefaultMaxRadius: 25,
	}
}
