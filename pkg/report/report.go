// Package report defines the message sink used by long-running board
// operations such as netlist reconciliation. Callers that do not care about
// progress pass a nil Reporter.
package report

import (
	"fmt"
	"io"
	"sync"
)

// Severity classifies a reported line.
type Severity int

const (
	// Info lines describe progress with no consequence for the board.
	Info Severity = iota
	// Action lines describe a change the operation made (or would make in
	// a dry run).
	Action
	// Warning lines flag suspicious but non-fatal conditions.
	Warning
	// Error lines flag conditions that left part of the work undone.
	Error
)

func (s Severity) String() string {
	switch s {
	case Info:
		return "info"
	case Action:
		return "action"
	case Warning:
		return "warning"
	case Error:
		return "error"
	default:
		return fmt.Sprintf("severity(%d)", int(s))
	}
}

// Reporter receives the message stream of an operation.
type Reporter interface {
	Report(sev Severity, msg string)
}

// Reportf formats and forwards a message. A nil Reporter discards it, so
// operations can report unconditionally.
func Reportf(r Reporter, sev Severity, format string, args ...any) {
	if r == nil {
		return
	}
	r.Report(sev, fmt.Sprintf(format, args...))
}

// Writer adapts an io.Writer into a Reporter, one line per message.
type Writer struct {
	W io.Writer
}

// Report implements Reporter.
func (w *Writer) Report(sev Severity, msg string) {
	fmt.Fprintf(w.W, "%s: %s\n", sev, msg)
}

// Entry is one collected message.
type Entry struct {
	Severity Severity
	Message  string
}

// Collector is a Reporter that records every message. It is safe for
// concurrent use.
type Collector struct {
	mu      sync.Mutex
	entries []Entry
}

// Report implements Reporter.
func (c *Collector) Report(sev Severity, msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = append(c.entries, Entry{Severity: sev, Message: msg})
}

// Entries returns a copy of the collected messages in arrival order.
func (c *Collector) Entries() []Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Messages returns just the message strings, in arrival order.
func (c *Collector) Messages() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.entries))
	for i, e := range c.entries {
		out[i] = e.Message
	}
	return out
}

// CountSeverity returns how many collected entries carry sev.
func (c *Collector) CountSeverity(sev Severity) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, e := range c.entries {
		if e.Severity == sev {
			n++
		}
	}
	return n
}
