// internal/workers/feed/refresh-feed/config.go
package refreshfeed

import "time"

type Config struct {
	FeedURL      string
	FetchTimeout time.Duration
	// RunTimeout bounds a whole shared refresh (fetch, parse, cache and
	// sinks). It is detached from any single caller's context.
	RunTimeout   time.Duration
	JobsTTL      time.Duration
	TimestampTTL time.Duration
}

func LoadConfig() *Config {
	return &Config{
		FetchTimeout: 30 * time.Second,
		RunTimeout:   2 * time.Minute,
		JobsTTL:      time.Hour,
		TimestampTTL: 24 * time.Hour,
	}
}

func (c *Config) runTimeout() time.Duration {
	if c.RunTimeout > 0 {
		return c.RunTimeout
	}
	if c.FetchTimeout > 0 {
		return 4 * c.FetchTimeout
	}
	return 2 * time.Minute
}
