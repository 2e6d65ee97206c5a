package config

import (
	"errors"
	"fmt"
	"os"

	"product-media-pipeline/domain/distribution"
)

// ErrConfig marks fatal configuration problems found at startup.
// The process cannot proceed when credential resolution fails.
var ErrConfig = errors.New("configuration error")

// ResolveCredentials validates the Google section and builds the
// credential union. Called once at startup; the result is read-only for
// the process lifetime.
func ResolveCredentials(cfg *Config) (*distribution.Credentials, error) {
	if cfg.Google.DriveFolderID == "" {
		return nil, fmt.Errorf("%w: google.drive_folder_id is required", ErrConfig)
	}

	switch distribution.AuthMode(cfg.Google.AuthMode) {
	case distribution.AuthModeOAuth:
		o := cfg.Google.OAuth
		if o.ClientID == "" || o.ClientSecret == "" || o.RefreshToken == "" {
			return nil, fmt.Errorf("%w: oauth requires client_id, client_secret and refresh_token", ErrConfig)
		}
		return &distribution.Credentials{
			Mode: distribution.AuthModeOAuth,
			OAuth: &distribution.OAuthCredential{
				ClientID:     o.ClientID,
				ClientSecret: o.ClientSecret,
				RefreshToken: o.RefreshToken,
			},
		}, nil

	case distribution.AuthModeServiceAccount:
		if cfg.Google.ServiceAccountFile == "" {
			return nil, fmt.Errorf("%w: service_account requires service_account_file", ErrConfig)
		}
		key, err := os.ReadFile(cfg.Google.ServiceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("%w: unable to read service account key: %v", ErrConfig, err)
		}
		return &distribution.Credentials{
			Mode:           distribution.AuthModeServiceAccount,
			ServiceAccount: &distribution.ServiceAccountCredential{KeyJSON: key},
		}, nil

	default:
		return nil, fmt.Errorf("%w: google.auth_mode must be %q or %q, got %q",
			ErrConfig, distribution.AuthModeOAuth, distribution.AuthModeServiceAccount, cfg.Google.AuthMode)
	}
}

// ValidateGeneration checks the AI backend section.
func ValidateGeneration(cfg *Config) error {
	if cfg.Generation.Endpoint == "" {
		return fmt.Errorf("%w: generation.endpoint is required", ErrConfig)
	}
	return nil
}
