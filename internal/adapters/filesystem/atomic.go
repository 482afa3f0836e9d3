package filesystem

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/viant/afs"
)

// writeAtomic writes data to a temp file next to path and moves it into
// place, so readers see either the old file or the new one.
func writeAtomic(ctx context.Context, fs afs.Service, path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if ok, _ := fs.Exists(ctx, dir); !ok {
		if err := fs.Create(ctx, dir, 0o755, true); err != nil {
			return fmt.Errorf("failed to ensure dir for %s: %w", path, err)
		}
	}

	// afs.Move treats a destination whose extension differs from the
	// source as a directory, so the temp file keeps the target's extension.
	tmp := fmt.Sprintf("%s.%d%s", path, time.Now().UnixNano(), filepath.Ext(path))
	if err := fs.Upload(ctx, tmp, perm, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write temp file %s: %w", tmp, err)
	}
	if err := fs.Move(ctx, tmp, path); err != nil {
		_ = fs.Delete(ctx, tmp)
		return fmt.Errorf("failed to move temp file to %s: %w", path, err)
	}
	return nil
}

// readFile reads a whole file. A missing file yields an error wrapping
// fs.ErrNotExist.
func readFile(ctx context.Context, fs afs.Service, path string) ([]byte, error) {
	ok, err := fs.Exists(ctx, path)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%s: %w", path, os.ErrNotExist)
	}
	return fs.DownloadWithURL(ctx, path)
}
