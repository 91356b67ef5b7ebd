package sink

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// MappingWriter appends one "<original> <safe name>" line per accepted entry.
//
// A field containing a space is wrapped in single quotes. Embedded quote
// characters are not escaped, so a field containing both a space and a quote
// cannot be parsed back unambiguously.
type MappingWriter struct {
	w      *bufio.Writer
	closer io.Closer
	count  int
}

// NewMappingWriter writes mapping records to w. If w is an io.Closer it is
// closed by Close.
func NewMappingWriter(w io.Writer) *MappingWriter {
	m := &MappingWriter{w: bufio.NewWriter(w)}
	if c, ok := w.(io.Closer); ok {
		m.closer = c
	}
	return m
}

// CreateMapping creates (or truncates) the mapping file at path, creating
// parent directories as needed.
func CreateMapping(path string) (*MappingWriter, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, dirPerm); err != nil {
			return nil, fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create mapping file: %w", err)
	}
	return NewMappingWriter(f), nil
}

// Record writes the line for one accepted entry.
func (m *MappingWriter) Record(original, name string) error {
	if _, err := m.w.WriteString(FormatRecord(original, name) + "\n"); err != nil {
		return fmt.Errorf("write mapping record: %w", err)
	}
	m.count++
	return nil
}

// Count returns the number of records written.
func (m *MappingWriter) Count() int {
	return m.count
}

// Close flushes buffered records and closes the underlying writer.
func (m *MappingWriter) Close() error {
	err := m.w.Flush()
	if err != nil {
		err = fmt.Errorf("flush mapping file: %w", err)
	}
	if m.closer != nil {
		if cerr := m.closer.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("close mapping file: %w", cerr)
		}
	}
	return err
}

// FormatRecord renders a mapping line without the trailing newline.
func FormatRecord(original, name string) string {
	return quoteField(original) + " " + quoteField(name)
}

func quoteField(s string) string {
	if strings.Contains(s, " ") {
		return "'" + s + "'"
	}
	return s
}
