// Package testutil builds tar archives for tests.
package testutil

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/stretchr/testify/require"
	"github.com/vbatts/tar-split/archive/tar"
)

// ModTime is the modification time stamped on every test entry.
var ModTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

// Entry describes one record of a test archive.
type Entry struct {
	Name     string
	Typeflag byte
	Content  string
	Linkname string
	Mode     int64
}

// File returns a regular file entry.
func File(name, content string) Entry {
	return Entry{Name: name, Typeflag: tar.TypeReg, Content: content, Mode: 0o644}
}

// Dir returns a directory entry.
func Dir(name string) Entry {
	return Entry{Name: name, Typeflag: tar.TypeDir, Mode: 0o755}
}

// Symlink returns a symbolic link entry.
func Symlink(name, target string) Entry {
	return Entry{Name: name, Typeflag: tar.TypeSymlink, Linkname: target, Mode: 0o777}
}

// Tar encodes entries as an uncompressed tar stream.
func Tar(tb testing.TB, entries ...Entry) []byte {
	tb.Helper()

	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	for _, e := range entries {
		hdr := &tar.Header{
			Name:     e.Name,
			Typeflag: e.Typeflag,
			Linkname: e.Linkname,
			Mode:     e.Mode,
			ModTime:  ModTime,
		}
		if e.Typeflag == tar.TypeReg {
			hdr.Size = int64(len(e.Content))
		}
		require.NoError(tb, tw.WriteHeader(hdr))
		if hdr.Size > 0 {
			_, err := tw.Write([]byte(e.Content))
			require.NoError(tb, err)
		}
	}
	require.NoError(tb, tw.Close())
	return buf.Bytes()
}

// Gzip compresses data with gzip.
func Gzip(tb testing.TB, data []byte) []byte {
	tb.Helper()

	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	_, err := w.Write(data)
	require.NoError(tb, err)
	require.NoError(tb, w.Close())
	return buf.Bytes()
}

// Zstd compresses data with zstd.
func Zstd(tb testing.TB, data []byte) []byte {
	tb.Helper()

	var buf bytes.Buffer
	w, err := zstd.NewWriter(&buf)
	require.NoError(tb, err)
	_, err = w.Write(data)
	require.NoError(tb, err)
	require.NoError(tb, w.Close())
	return buf.Bytes()
}

// LZ4 compresses data with the LZ4 frame format.
func LZ4(tb testing.TB, data []byte) []byte {
	tb.Helper()

	var buf bytes.Buffer
	w := lz4.NewWriter(&buf)
	_, err := w.Write(data)
	require.NoError(tb, err)
	require.NoError(tb, w.Close())
	return buf.Bytes()
}

// WriteFile writes data to dir/name and returns the full path.
func WriteFile(tb testing.TB, dir, name string, data []byte) string {
	tb.Helper()

	path := filepath.Join(dir, name)
	require.NoError(tb, os.WriteFile(path, data, 0o644))
	return path
}
