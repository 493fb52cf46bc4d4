package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ErrMissingAPIKey is returned by Validate when no Gemini key is configured
// outside test mode.
var ErrMissingAPIKey = errors.New("GEMINI_API_KEY not set")

// Config holds everything the statement processor reads from files or the
// environment.
type Config struct {
	GeminiAPIKey string `mapstructure:"gemini_api_key"`
	Model        string `mapstructure:"model"`
	APIVersion   string `mapstructure:"api_version"`

	// GeminiBaseURL overrides the API endpoint, e.g. for a proxy.
	GeminiBaseURL string `mapstructure:"gemini_base_url"`

	ExtractionPromptPath string `mapstructure:"extraction_prompt_path"`
	InsightsPromptPath   string `mapstructure:"insights_prompt_path"`

	ExtractionTimeout time.Duration `mapstructure:"extraction_timeout"`
	InsightsTimeout   time.Duration `mapstructure:"insights_timeout"`
	StorageTimeout    time.Duration `mapstructure:"storage_timeout"`

	Temperature           float32 `mapstructure:"temperature"`
	TopK                  float32 `mapstructure:"top_k"`
	TopP                  float32 `mapstructure:"top_p"`
	MaxOutputTokens       int32   `mapstructure:"max_output_tokens"`
	TokenWarningThreshold int32   `mapstructure:"token_warning_threshold"`

	// GCP settings used by the GCS and BigQuery sinks.
	GCPProject      string `mapstructure:"gcp_project"`
	BigQueryDataset string `mapstructure:"bigquery_dataset"`
	CredentialsFile string `mapstructure:"credentials_file"`

	LogLevel string `mapstructure:"log_level"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("gemini_api_key", "")
	v.SetDefault("model", "gemini-2.5-flash")
	v.SetDefault("api_version", "v1beta")
	v.SetDefault("gemini_base_url", "")
	v.SetDefault("extraction_prompt_path", "prompt_extraction.txt")
	v.SetDefault("insights_prompt_path", "prompt_insights.txt")
	v.SetDefault("extraction_timeout", 180*time.Second)
	v.SetDefault("insights_timeout", 180*time.Second)
	v.SetDefault("storage_timeout", 2*time.Minute)
	v.SetDefault("temperature", 0.2)
	v.SetDefault("top_k", 40)
	v.SetDefault("top_p", 0.95)
	v.SetDefault("max_output_tokens", 8192)
	v.SetDefault("token_warning_threshold", 4000)
	v.SetDefault("gcp_project", "")
	v.SetDefault("bigquery_dataset", "finance")
	v.SetDefault("credentials_file", "")
	v.SetDefault("log_level", "info")
}

// Load reads configuration from an optional file and the environment.
// Environment variables use the STATEMENT_ prefix (STATEMENT_MODEL,
// STATEMENT_LOG_LEVEL, ...); the API key is also read from GEMINI_API_KEY
// or GOOGLE_API_KEY, and the project from GOOGLE_CLOUD_PROJECT.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("STATEMENT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.BindEnv("gemini_api_key", "STATEMENT_GEMINI_API_KEY", "GEMINI_API_KEY", "GOOGLE_API_KEY"); err != nil {
		return nil, fmt.Errorf("config.Load: binding api key env: %w", err)
	}
	if err := v.BindEnv("gcp_project", "STATEMENT_GCP_PROJECT", "GOOGLE_CLOUD_PROJECT"); err != nil {
		return nil, fmt.Errorf("config.Load: binding project env: %w", err)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config.Load: failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config.Load: failed to parse config: %w", err)
	}
	cfg.GeminiAPIKey = strings.TrimSpace(cfg.GeminiAPIKey)

	return &cfg, nil
}

// Validate checks that the settings needed for a live run are present.
// Test mode never talks to Gemini, so it needs no key.
func (c *Config) Validate(testMode bool) error {
	if testMode {
		return nil
	}
	if c.GeminiAPIKey == "" {
		return ErrMissingAPIKey
	}
	if c.Model == "" {
		return fmt.Errorf("config: model must not be empty")
	}
	if c.ExtractionTimeout <= 0 || c.InsightsTimeout <= 0 {
		return fmt.Errorf("config: timeouts must be positive")
	}
	return nil
}
