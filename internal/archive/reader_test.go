package archive

import (
	"bytes"
	"errors"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meigma/renametar/internal/testutil"
)

func compress(t *testing.T, data []byte, c Compression) []byte {
	t.Helper()

	switch c {
	case CompressionNone:
		return data
	case CompressionGzip:
		return testutil.Gzip(t, data)
	case CompressionZstd:
		return testutil.Zstd(t, data)
	case CompressionLZ4:
		return testutil.LZ4(t, data)
	default:
		t.Fatalf("unsupported compression %s", c)
		return nil
	}
}

func readAll(t *testing.T, r *Reader) map[string]string {
	t.Helper()

	got := map[string]string{}
	for {
		entry, err := r.Next()
		if errors.Is(err, io.EOF) {
			return got
		}
		require.NoError(t, err)
		if entry.Kind != KindFile {
			continue
		}
		content, err := io.ReadAll(entry.Content)
		require.NoError(t, err)
		got[entry.Path] = string(content)
	}
}

func TestReaderCompressions(t *testing.T) {
	t.Parallel()

	raw := testutil.Tar(t,
		testutil.File("a.txt", "alpha"),
		testutil.Dir("dir/"),
		testutil.File("dir/b.bin", "bravo"),
	)

	for _, c := range []Compression{CompressionNone, CompressionGzip, CompressionZstd, CompressionLZ4} {
		t.Run(c.String(), func(t *testing.T) {
			t.Parallel()

			data := compress(t, raw, c)
			for _, mode := range []Compression{c, CompressionAuto} {
				r, err := NewReader(bytes.NewReader(data), int64(len(data)), mode)
				require.NoError(t, err)
				assert.Equal(t, c, r.Compression())

				got := readAll(t, r)
				assert.Equal(t, map[string]string{"a.txt": "alpha", "dir/b.bin": "bravo"}, got)
				assert.Positive(t, r.Offset())
				assert.LessOrEqual(t, r.Offset(), uint64(len(data)))
				require.NoError(t, r.Close())
			}
		})
	}
}

func TestReaderEntryKinds(t *testing.T) {
	t.Parallel()

	raw := testutil.Tar(t,
		testutil.Dir("dir/"),
		testutil.Symlink("link", "file.txt"),
		testutil.File("file.txt", "x"),
	)
	r, err := NewReader(bytes.NewReader(raw), int64(len(raw)), CompressionNone)
	require.NoError(t, err)
	defer r.Close()

	var kinds []Kind
	for {
		entry, err := r.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		kinds = append(kinds, entry.Kind)
		if entry.Kind == KindFile {
			assert.Equal(t, int64(1), entry.Size)
			assert.Equal(t, os.FileMode(0o644), entry.Mode)
			assert.True(t, entry.ModTime.Equal(testutil.ModTime))
		}
	}
	assert.Equal(t, []Kind{KindOther, KindOther, KindFile}, kinds)
}

func TestReaderSkipsUnreadContent(t *testing.T) {
	t.Parallel()

	raw := testutil.Tar(t,
		testutil.File("first.txt", "not read"),
		testutil.File("second.txt", "read"),
	)
	r, err := NewReader(bytes.NewReader(raw), 0, CompressionNone)
	require.NoError(t, err)
	defer r.Close()

	_, err = r.Next()
	require.NoError(t, err)
	entry, err := r.Next()
	require.NoError(t, err)
	content, err := io.ReadAll(entry.Content)
	require.NoError(t, err)
	assert.Equal(t, "read", string(content))
}

func TestOpenDetectsCompression(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	raw := testutil.Tar(t, testutil.File("a.txt", "alpha"))

	// Magic bytes win over a misleading extension.
	mislabeled := filepath.Join(dir, "archive.tar")
	require.NoError(t, os.WriteFile(mislabeled, compress(t, raw, CompressionZstd), 0o644))

	r, err := Open(mislabeled, CompressionAuto)
	require.NoError(t, err)
	assert.Equal(t, CompressionZstd, r.Compression())
	assert.Equal(t, map[string]string{"a.txt": "alpha"}, readAll(t, r))
	require.NoError(t, r.Close())

	plain := filepath.Join(dir, "plain.tar")
	require.NoError(t, os.WriteFile(plain, raw, 0o644))

	r, err = Open(plain, CompressionAuto)
	require.NoError(t, err)
	assert.Equal(t, CompressionNone, r.Compression())
	assert.Equal(t, int64(len(raw)), r.Size())
	require.NoError(t, r.Close())
}

func TestOpenMissingFile(t *testing.T) {
	t.Parallel()

	_, err := Open(filepath.Join(t.TempDir(), "missing.tar"), CompressionAuto)
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestOpenCorruptGzip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "broken.tar.gz")
	require.NoError(t, os.WriteFile(path, []byte("definitely not gzip"), 0o644))

	_, err := Open(path, CompressionGzip)
	require.ErrorIs(t, err, ErrDecompression)
}

func TestReaderTruncatedArchive(t *testing.T) {
	t.Parallel()

	raw := testutil.Tar(t, testutil.File("a.txt", "alpha"))
	truncated := raw[:100]

	r, err := NewReader(bytes.NewReader(truncated), 0, CompressionNone)
	require.NoError(t, err)
	defer r.Close()

	_, err = r.Next()
	require.Error(t, err)
	assert.NotErrorIs(t, err, io.EOF)
	assert.NotErrorIs(t, err, ErrDecompression)
}

// drain reads every entry and its content, returning the first error.
func drain(r *Reader) error {
	for {
		entry, err := r.Next()
		if err != nil {
			return err
		}
		if _, err := io.Copy(io.Discard, entry.Content); err != nil {
			return err
		}
	}
}

func TestReaderCorruptStream(t *testing.T) {
	t.Parallel()

	content := make([]byte, 64<<10)
	_, _ = rand.New(rand.NewSource(1)).Read(content) //nolint:errcheck // never fails
	raw := testutil.Tar(t,
		testutil.File("a.bin", string(content)),
		testutil.File("b.bin", string(content)),
	)

	for _, c := range []Compression{CompressionGzip, CompressionZstd, CompressionLZ4} {
		t.Run(c.String(), func(t *testing.T) {
			t.Parallel()

			data := compress(t, raw, c)
			truncated := data[:len(data)/2]

			r, err := NewReader(bytes.NewReader(truncated), int64(len(truncated)), c)
			require.NoError(t, err)
			defer r.Close()

			err = drain(r)
			require.ErrorIs(t, err, ErrDecompression)
		})
	}
}

func TestParseCompression(t *testing.T) {
	t.Parallel()

	for _, c := range []Compression{CompressionAuto, CompressionNone, CompressionGzip, CompressionZstd, CompressionLZ4} {
		got, err := ParseCompression(c.String())
		require.NoError(t, err)
		assert.Equal(t, c, got)
	}

	_, err := ParseCompression("bzip2")
	require.ErrorIs(t, err, ErrUnknownCompression)
	assert.Equal(t, "unknown(42)", Compression(42).String())
}

func TestSniffAndExtension(t *testing.T) {
	t.Parallel()

	assert.Equal(t, CompressionGzip, Sniff([]byte{0x1f, 0x8b, 0x08, 0x00}))
	assert.Equal(t, CompressionZstd, Sniff([]byte{0x28, 0xb5, 0x2f, 0xfd}))
	assert.Equal(t, CompressionLZ4, Sniff([]byte{0x04, 0x22, 0x4d, 0x18}))
	assert.Equal(t, CompressionNone, Sniff([]byte("ustar")))
	assert.Equal(t, CompressionNone, Sniff(nil))

	assert.Equal(t, CompressionGzip, FromExtension("a.tar.gz"))
	assert.Equal(t, CompressionGzip, FromExtension("a.TGZ"))
	assert.Equal(t, CompressionZstd, FromExtension("a.tar.zst"))
	assert.Equal(t, CompressionLZ4, FromExtension("a.tar.lz4"))
	assert.Equal(t, CompressionNone, FromExtension("a.tar"))
}
