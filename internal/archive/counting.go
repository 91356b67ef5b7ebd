package archive

import "io"

// CountingReader wraps a reader and counts bytes read.
type CountingReader struct {
	R io.Reader
	N uint64
}

// Read implements io.Reader.
func (cr *CountingReader) Read(p []byte) (int, error) {
	n, err := cr.R.Read(p)
	if n > 0 {
		cr.N += uint64(n) //nolint:gosec // n is non-negative by io.Reader contract
	}
	return n, err
}
