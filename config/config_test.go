package config

import (
	"testing"
)

func validConfig() *Config {
	return &Config{
		Algoritmika: AlgoritmikaConfig{
			BaseURL:        "https://learn.algoritmika.org",
			Login:          "student",
			Password:       "secret",
			TimeoutSeconds: 30,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:   "valid config",
			mutate: func(cfg *Config) {},
		},
		{
			name:    "missing base url",
			mutate:  func(cfg *Config) { cfg.Algoritmika.BaseURL = "" },
			wantErr: true,
		},
		{
			name:    "missing login",
			mutate:  func(cfg *Config) { cfg.Algoritmika.Login = "" },
			wantErr: true,
		},
		{
			name:    "missing password",
			mutate:  func(cfg *Config) { cfg.Algoritmika.Password = "" },
			wantErr: true,
		},
		{
			name:    "placeholder password",
			mutate:  func(cfg *Config) { cfg.Algoritmika.Password = "your-password-here" },
			wantErr: true,
		},
		{
			name:    "negative timeout",
			mutate:  func(cfg *Config) { cfg.Algoritmika.TimeoutSeconds = -1 },
			wantErr: true,
		},
		{
			name:    "zero timeout",
			mutate:  func(cfg *Config) { cfg.Algoritmika.TimeoutSeconds = 0 },
			wantErr: true,
		},
		{
			name:    "invalid logging level",
			mutate:  func(cfg *Config) { cfg.Logging.Level = "verbose" },
			wantErr: true,
		},
		{
			name:    "invalid logging format",
			mutate:  func(cfg *Config) { cfg.Logging.Format = "xml" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := validate(cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
