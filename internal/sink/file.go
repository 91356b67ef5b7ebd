package sink

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/opencontainers/go-digest"
)

// defaultFilePerm is the mode of written files when modes are not preserved.
const defaultFilePerm fs.FileMode = 0o644

var (
	// ErrUnsafePath is returned when a name would resolve outside the output root.
	ErrUnsafePath = errors.New("renametar: path escapes output directory")

	// ErrPathConflict is returned when two names resolve to the same file
	// below the output root, e.g. "./a.txt" and "a.txt".
	ErrPathConflict = errors.New("renametar: output path already written")
)

// Meta carries the archive metadata the sink may apply to a written file.
type Meta struct {
	Mode    fs.FileMode
	ModTime time.Time
}

// Written describes a file produced by FileSink.Write.
type Written struct {
	// Path is the final filesystem path of the file.
	Path string

	// Size is the number of content bytes written.
	Size uint64

	// Digest is the canonical digest of the written content.
	Digest digest.Digest
}

// FileSink writes renamed entries below a root directory with atomic writes.
//
// Content is streamed to a temp file in the target directory and renamed to
// the final path once complete. A file left by an earlier run is replaced,
// but a path written earlier by the same FileSink is refused with
// ErrPathConflict. FileSink is not safe for concurrent use.
type FileSink struct {
	root          string
	preserveMode  bool
	preserveTimes bool
	buf           []byte

	// written maps each committed destination path to the name that
	// produced it.
	written map[string]string
}

// FileSinkOption configures a FileSink.
type FileSinkOption func(*FileSink)

// WithPreserveMode applies permission bits from the archive.
// By default, files are created with mode 0644.
func WithPreserveMode(preserve bool) FileSinkOption {
	return func(s *FileSink) {
		s.preserveMode = preserve
	}
}

// WithPreserveTimes applies modification times from the archive.
// By default, times are not preserved (files use current time).
func WithPreserveTimes(preserve bool) FileSinkOption {
	return func(s *FileSink) {
		s.preserveTimes = preserve
	}
}

// NewFileSink creates a FileSink that writes below root.
// root and any intermediate directories are created on demand.
func NewFileSink(root string, opts ...FileSinkOption) *FileSink {
	s := &FileSink{
		root:    root,
		buf:     make([]byte, copyBufferSize),
		written: make(map[string]string),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the destination for a slash-separated safe name.
//
// Leading slashes are dropped, so "/index.html" lands at the top of the
// root. It returns ErrUnsafePath if name is empty or climbs out of the root.
func (s *FileSink) Path(name string) (string, error) {
	local := filepath.FromSlash(strings.TrimLeft(name, "/"))
	if !filepath.IsLocal(local) {
		return "", fmt.Errorf("%w: %s", ErrUnsafePath, name)
	}
	return filepath.Join(s.root, local), nil
}

// Write streams content to the file for name.
func (s *FileSink) Write(ctx context.Context, name string, meta Meta, content io.Reader) (Written, error) {
	destPath, err := s.Path(name)
	if err != nil {
		return Written{}, err
	}
	if prev, ok := s.written[destPath]; ok {
		return Written{}, fmt.Errorf("%w: %s and %s both map to %s", ErrPathConflict, prev, name, destPath)
	}

	c, err := newCommitter(destPath)
	if err != nil {
		return Written{}, err
	}

	digester := digest.Canonical.Digester()
	n, err := copyWithContext(ctx, io.MultiWriter(c, digester.Hash()), content, s.buf)
	if err != nil {
		_ = c.Discard() //nolint:errcheck // the copy error takes precedence
		return Written{}, fmt.Errorf("write %s: %w", destPath, err)
	}

	if err := c.Commit(s.applyMeta(meta)); err != nil {
		return Written{}, fmt.Errorf("write %s: %w", destPath, err)
	}

	s.written[destPath] = name
	return Written{Path: destPath, Size: n, Digest: digester.Digest()}, nil
}

func (s *FileSink) applyMeta(meta Meta) func(string) error {
	return func(tempPath string) error {
		mode := defaultFilePerm
		if s.preserveMode {
			mode = meta.Mode.Perm()
		}
		if err := os.Chmod(tempPath, mode); err != nil {
			return fmt.Errorf("chmod: %w", err)
		}
		if s.preserveTimes && !meta.ModTime.IsZero() {
			if err := os.Chtimes(tempPath, meta.ModTime, meta.ModTime); err != nil {
				return fmt.Errorf("chtimes: %w", err)
			}
		}
		return nil
	}
}
