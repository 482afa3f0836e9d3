// Package surface carries protocol messages between the host and a mind-map
// surface process over a byte stream.
package surface

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"codemindmap/internal/ports"
	"codemindmap/internal/protocol"
)

// Handler receives decoded surface-to-host messages
type Handler interface {
	HandleMessage(ctx context.Context, msg protocol.HostMessage) error
}

// Stream is a surface reached through Content-Length framed JSON
type Stream struct {
	r      *bufio.Reader
	w      io.Writer
	logger *slog.Logger

	wmu sync.Mutex
}

// Ensure Stream implements ports.Surface
var _ ports.Surface = (*Stream)(nil)

// NewStream creates a stream reading from r and writing to w
func NewStream(r io.Reader, w io.Writer, logger *slog.Logger) *Stream {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Stream{
		r:      bufio.NewReader(r),
		w:      w,
		logger: logger,
	}
}

// Post sends one message to the surface
func (s *Stream) Post(ctx context.Context, msg protocol.SurfaceMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	body, err := protocol.EncodeSurface(msg)
	if err != nil {
		return err
	}

	s.wmu.Lock()
	defer s.wmu.Unlock()
	if err := protocol.WriteFrame(s.w, body); err != nil {
		return fmt.Errorf("write %s: %w", msg.Action(), err)
	}
	return nil
}

// Serve reads messages and hands them to h one at a time, in arrival order.
// It returns nil when the surface closes the stream, and ctx.Err() when ctx
// is done first. Messages that fail to decode are logged and skipped; a
// broken frame ends the stream.
func (s *Stream) Serve(ctx context.Context, h Handler) error {
	frames := make(chan []byte)
	readErr := make(chan error, 1)

	go func() {
		defer close(frames)
		for {
			body, err := protocol.ReadFrame(s.r)
			if err != nil {
				if !errors.Is(err, io.EOF) {
					readErr <- err
				}
				return
			}
			select {
			case frames <- body:
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case body, ok := <-frames:
			if !ok {
				select {
				case err := <-readErr:
					return fmt.Errorf("surface stream: %w", err)
				default:
					return nil
				}
			}
			s.handle(ctx, h, body)
		}
	}
}

func (s *Stream) handle(ctx context.Context, h Handler, body []byte) {
	msg, err := protocol.DecodeHost(body)
	if err != nil {
		var unknown *protocol.UnknownActionError
		if errors.As(err, &unknown) {
			s.logger.Debug("ignored unknown action", "action", unknown.Action)
			return
		}
		s.logger.Warn("malformed message", "error", err)
		return
	}
	// the handler reports its own failures
	_ = h.HandleMessage(ctx, msg)
}
