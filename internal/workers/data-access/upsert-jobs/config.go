// internal/workers/data-access/upsert-jobs/config.go
package upsertjobs

import "time"

type Config struct {
	Timeout       time.Duration
	StalenessDays int
}

func LoadConfig() *Config {
	return &Config{
		Timeout:       30 * time.Second,
		StalenessDays: 30,
	}
}
