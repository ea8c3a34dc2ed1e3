package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultSampleRateHz = 10.0
	DefaultDuration     = 10.0
	DefaultSessionTTL   = 30 * time.Minute
	DefaultSweep        = time.Minute
)

type Config struct {
	SampleRateHz      float64       `yaml:"sample_rate_hz"`
	DroneSampleRateHz float64       `yaml:"drone_sample_rate_hz"`
	Duration          float64       `yaml:"duration"`
	Seed              int64         `yaml:"seed"`
	SessionTTL        time.Duration `yaml:"session_ttl"`
	SweepInterval     time.Duration `yaml:"sweep_interval"`
	DataDir           string        `yaml:"data_dir"`
	MinDelayMS        int           `yaml:"min_delay_ms"`
	MaxDelayMS        int           `yaml:"max_delay_ms"`
}

func DefaultConfig() *Config {
	return &Config{
		SampleRateHz:      DefaultSampleRateHz,
		DroneSampleRateHz: DefaultSampleRateHz,
		Duration:          DefaultDuration,
		SessionTTL:        DefaultSessionTTL,
		SweepInterval:     DefaultSweep,
		DataDir:           ".hexsim",
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
