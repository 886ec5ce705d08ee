package drive

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

// NewService creates a Drive API service using the provided TokenSource.
func NewService(ctx context.Context, ts oauth2.TokenSource) (*drive.Service, error) {
	return drive.NewService(ctx, option.WithTokenSource(ts))
}

// NewServiceFromCredentialsFile creates a Drive API service from a
// Google credentials JSON file (service account or authorized user),
// scoped to read-only Drive access.
func NewServiceFromCredentialsFile(ctx context.Context, path string) (*drive.Service, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read credentials file: %w", err)
	}

	creds, err := google.CredentialsFromJSON(ctx, data, drive.DriveReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("parse credentials: %w", err)
	}

	return drive.NewService(ctx, option.WithTokenSource(creds.TokenSource))
}
