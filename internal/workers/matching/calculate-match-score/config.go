// internal/workers/matching/calculate-match-score/config.go
package calculatematchscore

type Config struct {
	Preset           string
	Weights          map[string]float64
	DefaultMaxRadius float64
}

func LoadConfig() *Config {
	return &Config{
		Preset:           PresetRoleFirst,
		DefaultMaxRadius: 25,
	}
}
