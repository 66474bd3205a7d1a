// Package history persists a short log of saved backups so the operator can
// find them later. Records carry file names, locations and sizes only.
package history

import (
	"context"

	"github.com/dmitrijs2005/fsbackup/internal/client/models"
)

type Repository interface {
	Add(ctx context.Context, rec models.SaveRecord) error
	Latest(ctx context.Context, limit int) ([]models.SaveRecord, error)
	Count(ctx context.Context) (int, error)
}
