package sink

import (
	"fmt"
	"io"
)

// Ledger is the ordered, append-only list of diagnostics for rejected
// entries. It is not safe for concurrent use.
type Ledger struct {
	lines []string
}

// Add appends one diagnostic line.
func (l *Ledger) Add(line string) {
	l.lines = append(l.lines, line)
}

// Len returns the number of recorded lines.
func (l *Ledger) Len() int {
	return len(l.lines)
}

// Lines returns a copy of the recorded lines in order.
func (l *Ledger) Lines() []string {
	out := make([]string, len(l.lines))
	copy(out, l.lines)
	return out
}

// WriteTo writes every line followed by a newline.
func (l *Ledger) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for _, line := range l.lines {
		n, err := io.WriteString(w, line+"\n")
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// Flush writes the whole ledger to path in one atomic replace.
// It does nothing when path is empty or the ledger has no lines.
// Parent directories are created as needed.
func (l *Ledger) Flush(path string) error {
	if path == "" || len(l.lines) == 0 {
		return nil
	}

	c, err := newCommitter(path)
	if err != nil {
		return fmt.Errorf("write errors file: %w", err)
	}
	if _, err := l.WriteTo(c); err != nil {
		_ = c.Discard() //nolint:errcheck // the write error takes precedence
		return fmt.Errorf("write errors file: %w", err)
	}
	if err := c.Commit(chmodDefault); err != nil {
		return fmt.Errorf("write errors file: %w", err)
	}
	return nil
}
