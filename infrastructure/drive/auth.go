package drive

import (
	"context"
	"fmt"

	"product-media-pipeline/domain/distribution"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

// NewClient creates a Drive-backed remote store from either credential
// variant. Both variants produce the same session capability; callers
// never learn which was used.
func NewClient(ctx context.Context, creds *distribution.Credentials, opts ...ClientOption) (*Client, error) {
	c := &Client{retryDelay: defaultRetryDelay}

	for _, opt := range opts {
		opt(c)
	}

	// If no custom drive service was provided, create a real one
	if c.driveService == nil {
		svc, err := newDriveService(ctx, creds)
		if err != nil {
			return nil, err
		}
		c.driveService = svc
	}

	return c, nil
}

func newDriveService(ctx context.Context, creds *distribution.Credentials) (*GoogleDriveService, error) {
	if creds == nil {
		return nil, fmt.Errorf("no credentials provided")
	}

	switch creds.Mode {
	case distribution.AuthModeOAuth:
		return newOAuthDriveService(ctx, creds.OAuth)
	case distribution.AuthModeServiceAccount:
		return newServiceAccountDriveService(ctx, creds.ServiceAccount)
	default:
		return nil, fmt.Errorf("unknown auth mode %q", creds.Mode)
	}
}

// newOAuthDriveService builds a Drive service from a stored refresh
// token. The token source exchanges the refresh token for access tokens
// and refreshes transparently on expiry; oauth2.ReuseTokenSource
// serializes concurrent refreshes.
func newOAuthDriveService(ctx context.Context, cred *distribution.OAuthCredential) (*GoogleDriveService, error) {
	if cred == nil {
		return nil, fmt.Errorf("oauth credential missing")
	}

	config := &oauth2.Config{
		ClientID:     cred.ClientID,
		ClientSecret: cred.ClientSecret,
		Endpoint:     google.Endpoint,
		Scopes:       []string{drive.DriveScope},
	}
	token := &oauth2.Token{RefreshToken: cred.RefreshToken}

	client := oauth2.NewClient(ctx, config.TokenSource(ctx, token))
	srv, err := drive.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("unable to create drive service: %w", err)
	}

	return &GoogleDriveService{service: srv}, nil
}

// newServiceAccountDriveService mints short-lived tokens from the
// service-account key material.
func newServiceAccountDriveService(ctx context.Context, cred *distribution.ServiceAccountCredential) (*GoogleDriveService, error) {
	if cred == nil {
		return nil, fmt.Errorf("service account credential missing")
	}

	scopes := cred.Scopes
	if len(scopes) == 0 {
		scopes = []string{drive.DriveScope}
	}

	config, err := google.JWTConfigFromJSON(cred.KeyJSON, scopes...)
	if err != nil {
		return nil, fmt.Errorf("unable to parse service account key: %w", err)
	}

	client := config.Client(ctx)
	srv, err := drive.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("unable to create drive service: %w", err)
	}

	return &GoogleDriveService{service: srv}, nil
}
