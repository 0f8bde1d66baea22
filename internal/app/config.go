package app

import "errors"

// Config holds everything an App instance needs to run.
type Config struct {
	// GridPath points at a single .hcl file or a directory of them.
	GridPath string

	LogFormat       string
	LogLevel        string
	HealthcheckPort int
	WorkerCount     int
}

// NewConfig validates a Config.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.GridPath == "" {
		return nil, errors.New("GridPath is a required configuration field and cannot be empty")
	}
	if cfg.WorkerCount < 0 {
		return nil, errors.New("WorkerCount cannot be negative")
	}
	return &cfg, nil
}
