// internal/workers/data-access/index-jobs/config.go
package indexjobs

import "time"

type Config struct {
	Index         string
	BatchSize     int
	StalenessDays int
	Timeout       time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Index:         "jobs",
		BatchSize:     500,
		StalenessDays: 30,
		Timeout:       30 * time.Second,
	}
}
