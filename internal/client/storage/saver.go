package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dmitrijs2005/fsbackup/internal/filex"
	"github.com/dmitrijs2005/fsbackup/internal/logging"
)

// Saver persists a blob under a suggested file name and returns where it went.
type Saver interface {
	Save(ctx context.Context, name string, blob *Blob) (string, error)
}

// fallbackName replaces server-suggested names that cannot be used safely.
const fallbackName = "firestore_backup.json"

// DirSaver writes artifacts into a local directory, never overwriting an
// existing file.
type DirSaver struct {
	dir string
}

func NewDirSaver(dir string) *DirSaver {
	return &DirSaver{dir: dir}
}

func (s *DirSaver) Save(ctx context.Context, name string, blob *Blob) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	dir, err := filex.EnsureDir(s.dir)
	if err != nil {
		return "", err
	}

	base := filex.SafeBaseName(name)
	if base == "" {
		base = fallbackName
	}

	path, err := filex.UniquePath(dir, base)
	if err != nil {
		return "", err
	}

	r, err := blob.Reader()
	if err != nil {
		return "", err
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}

	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("close %s: %w", path, err)
	}

	return path, nil
}

// MirrorSaver saves with a primary saver and then copies to mirrors. Only the
// primary decides success; mirror failures are logged.
type MirrorSaver struct {
	primary Saver
	mirrors []Saver
	logger  logging.Logger
}

func NewMirrorSaver(logger logging.Logger, primary Saver, mirrors ...Saver) *MirrorSaver {
	return &MirrorSaver{primary: primary, mirrors: mirrors, logger: logger}
}

func (s *MirrorSaver) Save(ctx context.Context, name string, blob *Blob) (string, error) {
	location, err := s.primary.Save(ctx, name, blob)
	if err != nil {
		return "", err
	}

	var extra []string
	var errs []error
	for _, m := range s.mirrors {
		loc, err := m.Save(ctx, name, blob)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		extra = append(extra, loc)
	}

	if err := errors.Join(errs...); err != nil {
		s.logger.Warn(ctx, "mirror upload failed", "file", name, "error", err)
	}
	if len(extra) > 0 {
		s.logger.Info(ctx, "backup mirrored", "file", name, "locations", strings.Join(extra, ", "))
	}
	return location, nil
}
