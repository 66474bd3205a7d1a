package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dmitrijs2005/fsbackup/internal/client/models"
	"github.com/dmitrijs2005/fsbackup/internal/dbx"
	"github.com/google/uuid"
)

// DefaultKeep is how many records survive pruning.
const DefaultKeep = 100

type SQLiteRepository struct {
	db   *sql.DB
	keep int
}

// NewSQLiteRepository returns a repository that keeps the newest keep
// records; keep <= 0 disables pruning.
func NewSQLiteRepository(db *sql.DB, keep int) *SQLiteRepository {
	return &SQLiteRepository{db: db, keep: keep}
}

// Add stores rec, assigning an ID when it has none, and prunes old records
// in the same transaction.
func (r *SQLiteRepository) Add(ctx context.Context, rec models.SaveRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.SavedAt.IsZero() {
		rec.SavedAt = time.Now().UTC()
	}

	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO saves (id, file_name, location, size_bytes, collections, saved_at)
			VALUES (?, ?, ?, ?, ?, ?)
		`, rec.ID, rec.FileName, rec.Location, rec.SizeBytes, rec.Collections, rec.SavedAt.UnixNano())
		if err != nil {
			return fmt.Errorf("failed to insert save record: %w", err)
		}

		if r.keep <= 0 {
			return nil
		}
		_, err = tx.ExecContext(ctx, `
			DELETE FROM saves WHERE id NOT IN (
				SELECT id FROM saves ORDER BY saved_at DESC, id DESC LIMIT ?
			)
		`, r.keep)
		if err != nil {
			return fmt.Errorf("failed to prune save records: %w", err)
		}
		return nil
	})
}

// Latest returns up to limit records, newest first.
func (r *SQLiteRepository) Latest(ctx context.Context, limit int) ([]models.SaveRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, file_name, location, size_bytes, collections, saved_at
		FROM saves ORDER BY saved_at DESC, id DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list save records: %w", err)
	}
	defer rows.Close()

	result := make([]models.SaveRecord, 0, limit)
	for rows.Next() {
		var (
			rec     models.SaveRecord
			savedAt int64
		)
		if err := rows.Scan(&rec.ID, &rec.FileName, &rec.Location, &rec.SizeBytes, &rec.Collections, &savedAt); err != nil {
			return nil, fmt.Errorf("failed to scan save record: %w", err)
		}
		rec.SavedAt = time.Unix(0, savedAt).UTC()
		result = append(result, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate save records: %w", err)
	}
	return result, nil
}

func (r *SQLiteRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM saves`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count save records: %w", err)
	}
	return n, nil
}
