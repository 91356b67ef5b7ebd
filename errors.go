package renametar

import (
	"errors"

	"github.com/meigma/renametar/internal/archive"
	"github.com/meigma/renametar/internal/sink"
)

var (
	// ErrNoOutput is returned by New when neither an output directory nor a
	// mapping file is configured.
	ErrNoOutput = errors.New("renametar: no output directory or mapping file configured")

	// ErrEmptyInput is returned by Run when the input path is empty.
	ErrEmptyInput = errors.New("renametar: no input archive")
)

// Errors re-exported from internal packages.
var (
	// ErrUnsafePath is returned when a safe name would be written outside the
	// output directory.
	ErrUnsafePath = sink.ErrUnsafePath

	// ErrPathConflict is returned when two safe names resolve to the same
	// file below the output directory.
	ErrPathConflict = sink.ErrPathConflict

	// ErrUnknownCompression is returned for an unsupported compression name.
	ErrUnknownCompression = archive.ErrUnknownCompression

	// ErrDecompression is returned when the compression framing cannot be decoded.
	ErrDecompression = archive.ErrDecompression
)
