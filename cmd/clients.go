package cmd

import (
	"context"
	"fmt"
	"time"

	"product-media-pipeline/infrastructure/config"
	"product-media-pipeline/infrastructure/drive"
	"product-media-pipeline/infrastructure/genai"
)

// outputsFolderName is the subfolder under the configured root that
// holds all per-product folders.
const outputsFolderName = "outputs"

// buildDriveClient resolves credentials and creates the remote store
// client. Credential problems are fatal configuration errors.
func buildDriveClient(ctx context.Context, cfg *config.Config) (*drive.Client, error) {
	creds, err := config.ResolveCredentials(cfg)
	if err != nil {
		return nil, err
	}

	client, err := drive.NewClient(ctx, creds)
	if err != nil {
		return nil, fmt.Errorf("failed to create Google Drive client: %w", err)
	}
	return client, nil
}

// ensureOutputsFolder bootstraps the outputs subfolder under the
// configured root folder and returns its id.
func ensureOutputsFolder(ctx context.Context, client *drive.Client, cfg *config.Config) (string, error) {
	id, err := client.EnsureFolder(ctx, cfg.Google.DriveFolderID, outputsFolderName)
	if err != nil {
		return "", fmt.Errorf("failed to prepare outputs folder: %w", err)
	}
	return id, nil
}

// buildGenerator creates the AI backend client from config.
func buildGenerator(cfg *config.Config) (*genai.Client, error) {
	if err := config.ValidateGeneration(cfg); err != nil {
		return nil, err
	}

	opts := []genai.Option{}
	if cfg.Generation.TimeoutSeconds > 0 {
		opts = append(opts, genai.WithTimeout(time.Duration(cfg.Generation.TimeoutSeconds)*time.Second))
	}
	return genai.NewClient(cfg.Generation.Endpoint, cfg.Generation.APIKey, opts...), nil
}
