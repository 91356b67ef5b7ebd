// Package archive reads a single, possibly compressed, tar stream as a
// forward-only sequence of entries.
package archive

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/vbatts/tar-split/archive/tar"
)

// Sentinel errors for archive reading.
var (
	// ErrUnknownCompression is returned for an unsupported compression name.
	ErrUnknownCompression = errors.New("renametar: unknown compression")

	// ErrDecompression is returned when the compression framing cannot be decoded.
	ErrDecompression = errors.New("renametar: decompression failed")
)

// sniffLen is the number of leading bytes inspected for magic numbers.
const sniffLen = 4

// Kind classifies an archive entry.
type Kind uint8

const (
	// KindFile is a regular file with byte content.
	KindFile Kind = iota

	// KindOther is anything else: directories, links, devices, metadata records.
	KindOther
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	if k == KindFile {
		return "file"
	}
	return "other"
}

// Entry is one record of the archive.
//
// Content is only valid until the next call to Reader.Next and can be read
// once.
type Entry struct {
	Path    string
	Kind    Kind
	Size    int64
	Mode    fs.FileMode
	ModTime time.Time
	Content io.Reader
}

// Reader yields the entries of a tar stream in order.
//
// Reader is not safe for concurrent use.
type Reader struct {
	closer      io.Closer
	counter     *CountingReader
	tr          *tar.Reader
	closeDec    func() error
	size        int64
	compression Compression
}

// Open opens the archive file at path. With CompressionAuto the framing is
// detected from the first bytes of the file, falling back to its extension.
func Open(path string, c Compression) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("stat archive: %w", err)
	}
	if c == CompressionAuto {
		c, err = detect(f, path)
		if err != nil {
			_ = f.Close()
			return nil, err
		}
	}

	r, err := NewReader(f, info.Size(), c)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	r.closer = f
	return r, nil
}

// NewReader reads an archive from r. size is the total input length used for
// progress reporting; pass 0 when unknown. CompressionAuto sniffs r.
func NewReader(r io.Reader, size int64, c Compression) (*Reader, error) {
	if c == CompressionAuto {
		br := bufio.NewReader(r)
		head, _ := br.Peek(sniffLen) //nolint:errcheck // short streams are sniffed as-is
		c = Sniff(head)
		r = br
	}
	return newReader(r, size, c)
}

func newReader(r io.Reader, size int64, c Compression) (*Reader, error) {
	counter := &CountingReader{R: r}
	dec, closeDec, err := decoder(counter, c)
	if err != nil {
		return nil, err
	}
	if c != CompressionNone {
		dec = &decodeReader{r: dec}
	}
	return &Reader{
		counter:     counter,
		tr:          tar.NewReader(dec),
		closeDec:    closeDec,
		size:        size,
		compression: c,
	}, nil
}

// detect sniffs the magic bytes of f, then rewinds it.
func detect(f *os.File, path string) (Compression, error) {
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return 0, fmt.Errorf("read archive header: %w", err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return 0, fmt.Errorf("rewind archive: %w", err)
	}
	if c := Sniff(head[:n]); c != CompressionNone {
		return c, nil
	}
	return FromExtension(path), nil
}

// Next advances to the next entry. It returns io.EOF when the archive is
// exhausted. Any other error is fatal for the stream.
func (r *Reader) Next() (*Entry, error) {
	hdr, err := r.tr.Next()
	if err == io.EOF {
		return nil, io.EOF
	}
	if err != nil {
		return nil, fmt.Errorf("read archive entry: %w", err)
	}

	entry := &Entry{
		Path:    hdr.Name,
		Kind:    kindOf(hdr.Typeflag),
		Size:    hdr.Size,
		Mode:    hdr.FileInfo().Mode().Perm(),
		ModTime: hdr.ModTime,
		Content: r.tr,
	}
	return entry, nil
}

func kindOf(flag byte) Kind {
	switch flag {
	case tar.TypeReg, tar.TypeRegA, tar.TypeCont:
		return KindFile
	default:
		return KindOther
	}
}

// Offset returns the number of input bytes consumed so far, before
// decompression.
func (r *Reader) Offset() uint64 {
	return r.counter.N
}

// Size returns the total input size given at construction, or 0 if unknown.
func (r *Reader) Size() int64 {
	return r.size
}

// Compression returns the framing in use after detection.
func (r *Reader) Compression() Compression {
	return r.compression
}

// Close releases the decoder and, for readers created by Open, the file.
func (r *Reader) Close() error {
	err := r.closeDec()
	if r.closer != nil {
		if cerr := r.closer.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// decodeReader wraps decompressor errors other than io.EOF with
// ErrDecompression.
type decodeReader struct {
	r io.Reader
}

func (d *decodeReader) Read(p []byte) (int, error) {
	n, err := d.r.Read(p)
	if err != nil && err != io.EOF {
		err = fmt.Errorf("%w: %w", ErrDecompression, err)
	}
	return n, err
}
