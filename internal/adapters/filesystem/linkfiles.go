package filesystem

import (
	"context"
	"sync"

	"github.com/minio/highwayhash"
	"github.com/viant/afs"

	"codemindmap/internal/ports"
)

var digestKey = []byte("codemindmap-link-store-digest-k1")

// LinkFiles implements ports.LinkFiles. Writes of content identical to what
// was last read or written at the same path are skipped when the file on
// disk still holds that content.
type LinkFiles struct {
	fs afs.Service

	mu      sync.Mutex
	digests map[string]uint64
}

// Ensure LinkFiles implements ports.LinkFiles
var _ ports.LinkFiles = (*LinkFiles)(nil)

// NewLinkFiles creates link store file access on the local filesystem
func NewLinkFiles() *LinkFiles {
	return &LinkFiles{
		fs:      afs.New(),
		digests: map[string]uint64{},
	}
}

// Read returns the full content of a link store
func (l *LinkFiles) Read(ctx context.Context, path string) ([]byte, error) {
	data, err := readFile(ctx, l.fs, path)
	if err != nil {
		return nil, err
	}
	if sum, err := digest(data); err == nil {
		l.remember(path, sum)
	}
	return data, nil
}

// Write replaces a link store atomically
func (l *LinkFiles) Write(ctx context.Context, path string, data []byte) error {
	sum, digestErr := digest(data)
	if digestErr == nil && l.unchanged(ctx, path, sum) {
		return nil
	}

	if err := writeAtomic(ctx, l.fs, path, data, 0o644); err != nil {
		return err
	}
	if digestErr == nil {
		l.remember(path, sum)
	}
	return nil
}

// Exists reports whether a link store file is present
func (l *LinkFiles) Exists(ctx context.Context, path string) (bool, error) {
	return l.fs.Exists(ctx, path)
}

func (l *LinkFiles) unchanged(ctx context.Context, path string, sum uint64) bool {
	l.mu.Lock()
	prev, ok := l.digests[path]
	l.mu.Unlock()
	if !ok || prev != sum {
		return false
	}
	onDisk, err := readFile(ctx, l.fs, path)
	if err != nil {
		return false
	}
	cur, err := digest(onDisk)
	return err == nil && cur == sum
}

func (l *LinkFiles) remember(path string, sum uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.digests[path] = sum
}

func digest(data []byte) (uint64, error) {
	hash, err := highwayhash.New64(digestKey)
	if err != nil {
		return 0, err
	}
	_, err = hash.Write(data)
	return hash.Sum64(), err
}
