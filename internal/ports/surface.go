package ports

import (
	"context"

	"codemindmap/internal/protocol"
)

// Surface is the channel to the sandboxed mind-map surface. Posting is
// fire-and-forget; replies arrive later as protocol.HostMessage values.
type Surface interface {
	Post(ctx context.Context, msg protocol.SurfaceMessage) error
}
