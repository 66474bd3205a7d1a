package models

import (
	"io"
	"time"
)

// Artifact is a successful generate-backup response. Body must be closed by
// whoever consumes it.
type Artifact struct {
	Body        io.ReadCloser
	Disposition string
	ContentType string
}

// SaveRecord describes one backup that was saved locally. It deliberately
// holds no credential material and no collection names.
type SaveRecord struct {
	ID          string
	FileName    string
	Location    string
	SizeBytes   int64
	Collections int
	SavedAt     time.Time
}
