package cli

import (
	"fmt"
	"io"
	"sync"

	"github.com/dmitrijs2005/fsbackup/internal/client/session"
)

// lockedWriter serialises writes from the REPL and from background
// notifications.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

// consoleNotifier prints notifications as "[severity] message" lines.
type consoleNotifier struct {
	w io.Writer
}

func (n consoleNotifier) Notify(msg string, sev session.Severity) {
	fmt.Fprintf(n.w, "[%s] %s\n", sev, msg)
}
