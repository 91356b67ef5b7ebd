package renametar

import (
	"log/slog"

	"github.com/meigma/renametar/internal/archive"
	"github.com/meigma/renametar/internal/naming"
)

// Option configures a Renamer.
type Option func(*Renamer) error

// DefaultFilterChars is the default set of characters removed by path cleaning.
const DefaultFilterChars = naming.DefaultFilterChars

// Compression names accepted by WithCompression.
const (
	CompressionAuto = "auto"
	CompressionNone = "none"
	CompressionGzip = "gzip"
	CompressionZstd = "zstd"
	CompressionLZ4  = "lz4"
)

// --- Output Options ---

// WithOutputDir writes every accepted entry below dir under its safe name.
// Intermediate directories are created as needed.
func WithOutputDir(dir string) Option {
	return func(r *Renamer) error {
		r.outputDir = dir
		return nil
	}
}

// WithMappingFile records one "<original> <safe name>" line per accepted entry
// in the file at path. The file is truncated at the start of the run.
func WithMappingFile(path string) Option {
	return func(r *Renamer) error {
		r.mappingFile = path
		return nil
	}
}

// WithErrorFile writes the diagnostics of rejected entries to path at the end
// of the run. No file is written when nothing was rejected.
func WithErrorFile(path string) Option {
	return func(r *Renamer) error {
		r.errorFile = path
		return nil
	}
}

// WithPreserveMode applies permission bits from the archive to written files.
func WithPreserveMode(preserve bool) Option {
	return func(r *Renamer) error {
		r.preserveMode = preserve
		return nil
	}
}

// WithPreserveTimes applies modification times from the archive to written files.
func WithPreserveTimes(preserve bool) Option {
	return func(r *Renamer) error {
		r.preserveTimes = preserve
		return nil
	}
}

// --- Naming Options ---

// WithCleanPaths enables path cleaning: whitespace and dot trimming,
// character filtering, and space-to-underscore replacement.
func WithCleanPaths(enabled bool) Option {
	return func(r *Renamer) error {
		r.naming.Clean = enabled
		return nil
	}
}

// WithStripPrefix removes prefix from the start of every lower-cased path.
func WithStripPrefix(prefix string) Option {
	return func(r *Renamer) error {
		r.naming.StripPrefix = prefix
		return nil
	}
}

// WithFilterChars sets the characters removed when cleaning is enabled.
// The default is DefaultFilterChars.
func WithFilterChars(chars string) Option {
	return func(r *Renamer) error {
		r.naming.FilterChars = chars
		return nil
	}
}

// --- Input Options ---

// WithCompression selects the input framing by name: "auto" (default),
// "none", "gzip", "zstd" or "lz4".
func WithCompression(name string) Option {
	return func(r *Renamer) error {
		c, err := archive.ParseCompression(name)
		if err != nil {
			return err
		}
		r.compression = c
		return nil
	}
}

// --- Observability Options ---

// WithLogger sets a logger for the renamer.
// If nil, a discard logger is used (default behavior).
func WithLogger(logger *slog.Logger) Option {
	return func(r *Renamer) error {
		r.logger = logger
		return nil
	}
}

// WithProgress sets a callback invoked after every entry and at the end of
// the run.
func WithProgress(fn ProgressFunc) Option {
	return func(r *Renamer) error {
		r.progress = fn
		return nil
	}
}
