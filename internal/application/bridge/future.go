package bridge

import (
	"context"
	"sync"
)

// Future is the pending result of a request sent to the surface. It is
// resolved exactly once, when the matching response arrives, when a newer
// request supersedes it or when it times out.
type Future struct {
	id   string
	done chan struct{}
	once sync.Once
	err  error
}

func newFuture(id string) *Future {
	return &Future{id: id, done: make(chan struct{})}
}

// ID returns the correlation id carried by the request and its response
func (f *Future) ID() string {
	return f.id
}

// Done is closed once the future is resolved
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Wait blocks until the future is resolved or ctx ends
func (f *Future) Wait(ctx context.Context) error {
	select {
	case <-f.done:
		return f.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (f *Future) resolve(err error) {
	f.once.Do(func() {
		f.err = err
		close(f.done)
	})
}
