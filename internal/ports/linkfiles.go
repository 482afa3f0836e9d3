package ports

import "context"

// LinkFiles reads and writes link store files. Writes are all-or-nothing:
// a failed write never leaves a partially written file behind.
type LinkFiles interface {
	Read(ctx context.Context, path string) ([]byte, error)
	Write(ctx context.Context, path string, data []byte) error
	Exists(ctx context.Context, path string) (bool, error)
}
