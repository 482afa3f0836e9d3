// Package uri reveals file positions through an editor's URL handler, for
// editors that are already running.
package uri

import (
	"context"
	"fmt"
	"net/url"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// Opener opens <scheme>://file/<path>:<line>:<column> URIs
type Opener struct {
	scheme string
}

// NewOpener creates an opener for the given URL scheme ("vscode",
// "cursor", ...)
func NewOpener(scheme string) *Opener {
	return &Opener{scheme: scheme}
}

// Launch opens path at line and 1-based column
func (o *Opener) Launch(ctx context.Context, path string, line, column int) error {
	uri, err := o.BuildURI(path, line, column)
	if err != nil {
		return err
	}
	return o.openURI(ctx, uri)
}

// BuildURI constructs the URI for a file position
func (o *Opener) BuildURI(path string, line, column int) (string, error) {
	if o.scheme == "" {
		return "", fmt.Errorf("no URI scheme configured")
	}
	if !filepath.IsAbs(path) {
		return "", fmt.Errorf("path is not absolute: %s", path)
	}

	// URIs always use forward slashes, Windows drives included
	p := filepath.ToSlash(path)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	escaped := (&url.URL{Path: p}).EscapedPath()

	return fmt.Sprintf("%s://file%s:%d:%d", o.scheme, escaped, line, column), nil
}

func (o *Opener) openURI(ctx context.Context, uri string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.CommandContext(ctx, "open", uri)
	case "linux":
		cmd = exec.CommandContext(ctx, "xdg-open", uri)
	case "windows":
		cmd = exec.CommandContext(ctx, "cmd", "/c", "start", "", uri)
	default:
		return fmt.Errorf("unsupported operating system: %s", runtime.GOOS)
	}

	return cmd.Run()
}
