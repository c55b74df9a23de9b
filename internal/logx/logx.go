// Package logx provides the apex/log handler used for diagnostics. All
// diagnostics go to a side channel (normally stderr) so they never mix
// with report output on stdout.
package logx

import (
	"fmt"
	"io"
	"sync"

	"github.com/apex/log"
)

// Handler writes log entries as single lines: level, message, then any
// fields in sorted order.
type Handler struct {
	mu sync.Mutex
	w  io.Writer
}

// NewHandler creates a Handler writing to w.
func NewHandler(w io.Writer) *Handler {
	return &Handler{w: w}
}

// HandleLog implements log.Handler.
func (h *Handler) HandleLog(e *log.Entry) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, err := fmt.Fprintf(h.w, "%s: %s", e.Level.String(), e.Message); err != nil {
		return err
	}
	for _, name := range e.Fields.Names() {
		if _, err := fmt.Fprintf(h.w, " %s=%v", name, e.Fields.Get(name)); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(h.w)
	return err
}
