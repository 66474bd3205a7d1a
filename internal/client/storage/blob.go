// Package storage materialises downloaded backup artifacts and saves them.
//
// A Blob is the transient local copy of a response body (a temp file). It is
// handed to a Saver and must be released afterwards; Release is idempotent so
// it can be deferred on every path.
package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// ErrReleased is returned when a released Blob is read.
var ErrReleased = errors.New("blob already released")

type Blob struct {
	f           *os.File
	size        int64
	contentType string
}

// Spool copies r into a new temp file in dir ("" means os.TempDir) and
// returns it as a Blob. On error nothing is left behind.
func Spool(r io.Reader, dir, contentType string) (*Blob, error) {
	f, err := os.CreateTemp(dir, "fsbackup-*.part")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}

	n, err := io.Copy(f, r)
	if err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return nil, fmt.Errorf("spool artifact: %w", err)
	}

	return &Blob{f: f, size: n, contentType: contentType}, nil
}

// Size is the number of bytes spooled.
func (b *Blob) Size() int64 { return b.size }

// ContentType is the media type reported by the service, possibly empty.
func (b *Blob) ContentType() string { return b.contentType }

// Path of the backing temp file; empty once released.
func (b *Blob) Path() string {
	if b.f == nil {
		return ""
	}
	return b.f.Name()
}

// Reader returns an independent reader over the whole content.
func (b *Blob) Reader() (io.ReadSeeker, error) {
	if b.f == nil {
		return nil, ErrReleased
	}
	return io.NewSectionReader(b.f, 0, b.size), nil
}

// Release closes and deletes the temp file.
func (b *Blob) Release() error {
	if b.f == nil {
		return nil
	}
	name := b.f.Name()
	closeErr := b.f.Close()
	b.f = nil
	if err := os.Remove(name); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", name, err)
	}
	return closeErr
}
