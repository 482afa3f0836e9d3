package ports

import "context"

// SettingsStore is a per-user key/value store of string blobs, grouped in
// collections. Set overwrites the whole value.
type SettingsStore interface {
	Get(ctx context.Context, collection, property string) (value string, found bool, err error)
	Set(ctx context.Context, collection, property, value string) error
	Close() error
}
