package client

import (
	"context"

	"github.com/dmitrijs2005/fsbackup/internal/client/models"
)

// Client is the contract of the remote backup service.
type Client interface {
	// ListCollections enumerates the collections reachable with cred, in
	// the order the service reports them.
	ListCollections(ctx context.Context, cred models.Credential) ([]string, error)
	// GenerateBackup requests a backup artifact of the named collections.
	// The caller owns the returned Artifact.Body.
	GenerateBackup(ctx context.Context, cred models.Credential, collections []string) (*models.Artifact, error)
	Close() error
}
