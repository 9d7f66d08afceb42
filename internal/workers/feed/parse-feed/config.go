// internal/workers/feed/parse-feed/config.go
package parsefeed

type Config struct {
	SourceName   string
	IDPrefix     string
	ImageBaseURL string
}

func LoadConfig() *Config {
	return &Config{
		SourceName:   "Kelly Services",
		IDPrefix:     "kelly",
		ImageBaseURL: "https://www.mykelly.com",
	}
}
