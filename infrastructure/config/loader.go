package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the complete application configuration
type Config struct {
	Google     GoogleConfig     `yaml:"google"`
	Generation GenerationConfig `yaml:"generation"`
}

// GoogleConfig contains Google Drive settings and credential selection
type GoogleConfig struct {
	// AuthMode selects the credential variant: "oauth" or "service_account"
	AuthMode      string `yaml:"auth_mode"`
	DriveFolderID string `yaml:"drive_folder_id"`

	OAuth OAuthConfig `yaml:"oauth"`

	// ServiceAccountFile points at the service-account key JSON
	ServiceAccountFile string `yaml:"service_account_file"`
}

// OAuthConfig is the stored OAuth triple
type OAuthConfig struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	RefreshToken string `yaml:"refresh_token"`
}

// GenerationConfig contains AI backend settings
type GenerationConfig struct {
	Endpoint       string `yaml:"endpoint"`
	APIKey         string `yaml:"api_key"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Load reads the YAML configuration and applies environment overrides.
// A .env file next to the process is honored so secrets can stay out of
// the config file.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyEnvOverrides(&cfg)
	return &cfg, nil
}

// Save writes the configuration to the specified YAML file
func Save(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("DRIVE_FOLDER_ID"); v != "" {
		cfg.Google.DriveFolderID = v
	}
	if v := os.Getenv("DRIVE_AUTH_MODE"); v != "" {
		cfg.Google.AuthMode = v
	}
	if v := os.Getenv("DRIVE_OAUTH_CLIENT_ID"); v != "" {
		cfg.Google.OAuth.ClientID = v
	}
	if v := os.Getenv("DRIVE_OAUTH_CLIENT_SECRET"); v != "" {
		cfg.Google.OAuth.ClientSecret = v
	}
	if v := os.Getenv("DRIVE_OAUTH_REFRESH_TOKEN"); v != "" {
		cfg.Google.OAuth.RefreshToken = v
	}
	if v := os.Getenv("DRIVE_SERVICE_ACCOUNT_FILE"); v != "" {
		cfg.Google.ServiceAccountFile = v
	}
	if v := os.Getenv("GENERATION_ENDPOINT"); v != "" {
		cfg.Generation.Endpoint = v
	}
	if v := os.Getenv("GENERATION_API_KEY"); v != "" {
		cfg.Generation.APIKey = v
	}
	if v := os.Getenv("GENERATION_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Generation.TimeoutSeconds = n
		}
	}
}
