package tui

import (
	"fmt"
	"io"
	"sync"

	"codemindmap/internal/adapters/tui/styles"
)

// Notifier prints styled one-line notifications
type Notifier struct {
	out io.Writer
	mu  sync.Mutex
}

// NewNotifier creates a notifier writing to out, usually stderr
func NewNotifier(out io.Writer) *Notifier {
	return &Notifier{out: out}
}

// Info shows an informational message
func (n *Notifier) Info(msg string) {
	n.print(styles.InfoBadge.Render("codemindmap"), styles.Success.Render(msg))
}

// Error shows an error message
func (n *Notifier) Error(msg string) {
	n.print(styles.ErrorBadge.Render("codemindmap"), styles.ErrorMsg.Render(msg))
}

func (n *Notifier) print(badge, msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprintln(n.out, badge+msg)
}
