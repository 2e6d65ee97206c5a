package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"product-media-pipeline/domain/distribution"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

const oauthConfig = `
google:
  auth_mode: oauth
  drive_folder_id: root-folder
  oauth:
    client_id: cid
    client_secret: secret
    refresh_token: rtok
generation:
  endpoint: https://gen.example.com/v1/generate
  api_key: gk
  timeout_seconds: 90
`

func TestLoad(t *testing.T) {
	path := writeConfig(t, oauthConfig)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Google.AuthMode != "oauth" {
		t.Errorf("AuthMode = %q", cfg.Google.AuthMode)
	}
	if cfg.Google.OAuth.RefreshToken != "rtok" {
		t.Errorf("RefreshToken = %q", cfg.Google.OAuth.RefreshToken)
	}
	if cfg.Generation.TimeoutSeconds != 90 {
		t.Errorf("TimeoutSeconds = %d", cfg.Generation.TimeoutSeconds)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, oauthConfig)

	t.Setenv("GENERATION_API_KEY", "env-key")
	t.Setenv("DRIVE_FOLDER_ID", "env-folder")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Generation.APIKey != "env-key" {
		t.Errorf("APIKey = %q, want env override", cfg.Generation.APIKey)
	}
	if cfg.Google.DriveFolderID != "env-folder" {
		t.Errorf("DriveFolderID = %q, want env override", cfg.Google.DriveFolderID)
	}
}

func TestResolveCredentials(t *testing.T) {
	saKey := filepath.Join(t.TempDir(), "sa.json")
	if err := os.WriteFile(saKey, []byte(`{"type":"service_account"}`), 0600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		cfg      Config
		wantMode distribution.AuthMode
		wantErr  bool
	}{
		{
			name: "oauth variant",
			cfg: Config{Google: GoogleConfig{
				AuthMode:      "oauth",
				DriveFolderID: "root",
				OAuth:         OAuthConfig{ClientID: "c", ClientSecret: "s", RefreshToken: "r"},
			}},
			wantMode: distribution.AuthModeOAuth,
		},
		{
			name: "service account variant",
			cfg: Config{Google: GoogleConfig{
				AuthMode:           "service_account",
				DriveFolderID:      "root",
				ServiceAccountFile: saKey,
			}},
			wantMode: distribution.AuthModeServiceAccount,
		},
		{
			name: "missing folder id",
			cfg: Config{Google: GoogleConfig{
				AuthMode: "oauth",
				OAuth:    OAuthConfig{ClientID: "c", ClientSecret: "s", RefreshToken: "r"},
			}},
			wantErr: true,
		},
		{
			name: "incomplete oauth triple",
			cfg: Config{Google: GoogleConfig{
				AuthMode:      "oauth",
				DriveFolderID: "root",
				OAuth:         OAuthConfig{ClientID: "c"},
			}},
			wantErr: true,
		},
		{
			name: "unknown auth mode",
			cfg: Config{Google: GoogleConfig{
				AuthMode:      "kerberos",
				DriveFolderID: "root",
			}},
			wantErr: true,
		},
		{
			name: "unreadable service account key",
			cfg: Config{Google: GoogleConfig{
				AuthMode:           "service_account",
				DriveFolderID:      "root",
				ServiceAccountFile: filepath.Join(t.TempDir(), "missing.json"),
			}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			creds, err := ResolveCredentials(&tt.cfg)
			if tt.wantErr {
				if !errors.Is(err, ErrConfig) {
					t.Fatalf("expected ErrConfig, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if creds.Mode != tt.wantMode {
				t.Errorf("Mode = %q, want %q", creds.Mode, tt.wantMode)
			}
		})
	}
}

func TestValidateGeneration(t *testing.T) {
	cfg := &Config{}
	if err := ValidateGeneration(cfg); !errors.Is(err, ErrConfig) {
		t.Errorf("expected ErrConfig for missing endpoint, got %v", err)
	}

	cfg.Generation.Endpoint = "https://gen.example.com"
	if err := ValidateGeneration(cfg); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
