package config

// Config represents the complete configuration structure
type Config struct {
	Algoritmika AlgoritmikaConfig `mapstructure:"algoritmika"`
	Filter      FilterConfig      `mapstructure:"filter"`
	Safety      SafetyConfig      `mapstructure:"safety"`
	Logging     LoggingConfig     `mapstructure:"logging"`
}

// AlgoritmikaConfig holds platform credentials and connection details
type AlgoritmikaConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	Login          string `mapstructure:"login"`
	Password       string `mapstructure:"password"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// FilterConfig contains named filter preset expressions
type FilterConfig map[string]string

// SafetyConfig contains safety-related settings
type SafetyConfig struct {
	ConfirmDelete bool `mapstructure:"confirm_delete"`
	ShowDetails   bool `mapstructure:"show_details"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}
