// Package control lets a second process act on the open panel: the `open`
// process serves a unix socket and `link` sends it one request per call.
package control

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"codemindmap/internal/ports"
	"codemindmap/internal/protocol"
)

// SocketFileName is the socket created under the app-data root
const SocketFileName = "session.sock"

// CommandLinkSelection links the sender's editor selection into the tree
const CommandLinkSelection = "linkSelection"

// requestReadTimeout bounds how long a client may take to send its request
const requestReadTimeout = 5 * time.Second

// NotRunningMessage is shown when a command finds no panel to act on
const NotRunningMessage = "Code Mind Map panel is not open"

// ErrNotRunning means no panel is listening
var ErrNotRunning = errors.New("panel is not running")

// Request is one command sent to the panel
type Request struct {
	Command   string          `json:"command"`
	Selection ports.Selection `json:"selection"`
}

// Reply is the panel's answer
type Reply struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

// LinkFunc performs a linkSelection request
type LinkFunc func(ctx context.Context, sel ports.Selection) (string, error)

// SocketPath returns the socket location under appDataRoot
func SocketPath(appDataRoot string) string {
	return filepath.Join(appDataRoot, SocketFileName)
}

// Server answers requests on a unix socket
type Server struct {
	path   string
	link   LinkFunc
	logger *slog.Logger

	ln          net.Listener
	readTimeout time.Duration
	wg          sync.WaitGroup
	once        sync.Once
}

// Listen creates the socket at path, replacing one left by a dead process.
// It fails when another panel is already listening there.
func Listen(path string, link LinkFunc, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create socket directory: %w", err)
	}

	if conn, err := net.DialTimeout("unix", path, time.Second); err == nil {
		conn.Close()
		return nil, fmt.Errorf("a panel is already listening on %s", path)
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("remove stale socket: %w", err)
	}

	ln, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", path, err)
	}
	return &Server{path: path, link: link, logger: logger, ln: ln, readTimeout: requestReadTimeout}, nil
}

// Path returns the socket path
func (s *Server) Path() string {
	return s.path
}

// Serve accepts connections until ctx is done or Close is called
func (s *Server) Serve(ctx context.Context) error {
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			s.Close()
		case <-stop:
		}
	}()

	for {
		conn, err := s.ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				s.wg.Wait()
				return nil
			}
			return fmt.Errorf("accept: %w", err)
		}
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.handle(ctx, conn)
		}()
	}
}

// Close stops listening; the listener unlinks the socket file
func (s *Server) Close() error {
	var err error
	s.once.Do(func() {
		err = s.ln.Close()
	})
	return err
}

func (s *Server) handle(ctx context.Context, conn net.Conn) {
	defer conn.Close()

	if err := conn.SetReadDeadline(time.Now().Add(s.readTimeout)); err != nil {
		s.logger.Warn("set control read deadline", "error", err)
		return
	}
	body, err := protocol.ReadFrame(bufio.NewReader(conn))
	if err != nil {
		s.logger.Warn("control request unreadable", "error", err)
		return
	}
	conn.SetReadDeadline(time.Time{})

	var req Request
	reply := Reply{}
	if err := json.Unmarshal(body, &req); err != nil {
		reply.Message = fmt.Sprintf("invalid request: %v", err)
	} else {
		s.logger.Debug("control request", "command", req.Command)
		reply = s.dispatch(ctx, req)
	}

	out, err := json.Marshal(reply)
	if err != nil {
		s.logger.Warn("encode control reply", "error", err)
		return
	}
	if err := protocol.WriteFrame(conn, out); err != nil {
		s.logger.Warn("write control reply", "error", err)
	}
}

func (s *Server) dispatch(ctx context.Context, req Request) Reply {
	switch req.Command {
	case CommandLinkSelection:
		msg, err := s.link(ctx, req.Selection)
		if err != nil {
			return Reply{Message: err.Error()}
		}
		return Reply{OK: true, Message: msg}
	default:
		return Reply{Message: fmt.Sprintf("unknown command %q", req.Command)}
	}
}

// LinkSelection asks the panel listening on path to link sel
func LinkSelection(ctx context.Context, path string, sel ports.Selection) (Reply, error) {
	return send(ctx, path, Request{Command: CommandLinkSelection, Selection: sel})
}

func send(ctx context.Context, path string, req Request) (Reply, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "unix", path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) || errors.Is(err, syscall.ECONNREFUSED) {
			return Reply{}, ErrNotRunning
		}
		return Reply{}, fmt.Errorf("connect to panel: %w", err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		conn.SetDeadline(deadline)
	}

	body, err := json.Marshal(req)
	if err != nil {
		return Reply{}, err
	}
	if err := protocol.WriteFrame(conn, body); err != nil {
		return Reply{}, fmt.Errorf("send request: %w", err)
	}

	out, err := protocol.ReadFrame(bufio.NewReader(conn))
	if err != nil {
		return Reply{}, fmt.Errorf("read reply: %w", err)
	}
	var reply Reply
	if err := json.Unmarshal(out, &reply); err != nil {
		return Reply{}, fmt.Errorf("decode reply: %w", err)
	}
	return reply, nil
}
