package renametar

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/meigma/renametar/internal/archive"
	"github.com/meigma/renametar/internal/naming"
	"github.com/meigma/renametar/internal/sink"
)

// Renamer renames the entries of tar archives according to its options.
//
// A Renamer holds configuration only; each call to Run starts from an empty
// name registry and error ledger.
type Renamer struct {
	outputDir     string
	mappingFile   string
	errorFile     string
	preserveMode  bool
	preserveTimes bool
	naming        naming.Config
	compression   archive.Compression
	logger        *slog.Logger
	progress      ProgressFunc
}

// Assignment is the safe name given to one original archive path.
type Assignment struct {
	Original string
	Name     string
}

// Result summarizes a completed run.
type Result struct {
	// Renamed, Rejected and Skipped count regular files accepted, rejected
	// with a diagnostic, and ignored silently. Skipped also counts
	// non-file entries.
	Renamed  int
	Rejected int
	Skipped  int

	// BytesWritten is the total content written below the output directory.
	BytesWritten uint64

	// Assignments lists accepted entries in archive order.
	Assignments []Assignment

	// Diagnostics lists one line per rejected entry in archive order.
	Diagnostics []string

	// Compression is the input framing used after detection.
	Compression string

	// Elapsed is the wall time of the run.
	Elapsed time.Duration
}

// New creates a Renamer. At least one of WithOutputDir or WithMappingFile
// is required.
func New(opts ...Option) (*Renamer, error) {
	r := &Renamer{
		naming:      naming.DefaultConfig(),
		compression: archive.CompressionAuto,
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	if r.outputDir == "" && r.mappingFile == "" {
		return nil, ErrNoOutput
	}
	return r, nil
}

// log returns the logger, falling back to a discard logger if nil.
func (r *Renamer) log() *slog.Logger {
	if r.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return r.logger
}

// Run processes the archive at input.
//
// Entries are handled strictly in archive order, one at a time. Rejected
// entries never stop the run. Any I/O failure on the input or an output
// aborts the run; files already written stay on disk.
func (r *Renamer) Run(ctx context.Context, input string) (*Result, error) {
	if input == "" {
		return nil, ErrEmptyInput
	}
	start := time.Now()

	ar, err := archive.Open(input, r.compression)
	if err != nil {
		return nil, err
	}
	defer ar.Close()

	s := &session{
		renamer:  r,
		log:      r.log(),
		reader:   ar,
		resolver: naming.NewResolver(r.naming, filepath.Base(input)),
		ledger:   &sink.Ledger{},
	}
	if r.outputDir != "" {
		s.files = sink.NewFileSink(r.outputDir,
			sink.WithPreserveMode(r.preserveMode),
			sink.WithPreserveTimes(r.preserveTimes),
		)
	}
	if r.mappingFile != "" {
		s.mapping, err = sink.CreateMapping(r.mappingFile)
		if err != nil {
			return nil, err
		}
	}
	defer s.closeMapping() //nolint:errcheck // closed explicitly on success

	s.log.Debug("processing archive",
		"input", input,
		"compression", ar.Compression().String(),
		"size", ar.Size(),
	)

	if err := s.stream(ctx); err != nil {
		return nil, err
	}

	s.emit(StageDraining, "")
	records, err := s.closeMapping()
	if err != nil {
		return nil, err
	}
	if r.mappingFile != "" {
		s.log.Debug("mapping file written", "path", r.mappingFile, "records", records)
	}
	if err := s.ledger.Flush(r.errorFile); err != nil {
		return nil, err
	}

	res := s.result()
	res.Compression = ar.Compression().String()
	res.Elapsed = time.Since(start)
	s.emit(StageDone, "")
	return res, nil
}

// session is the state of one run. It owns the registry (via resolver) and
// the ledger exclusively.
type session struct {
	renamer  *Renamer
	log      *slog.Logger
	reader   *archive.Reader
	resolver *naming.Resolver
	ledger   *sink.Ledger
	files    *sink.FileSink
	mapping  *sink.MappingWriter

	renamed  int
	rejected int
	skipped  int
	written  uint64
}

// stream consumes the archive until it is exhausted.
func (s *session) stream(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		entry, err := s.reader.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := s.process(ctx, entry); err != nil {
			return err
		}
		s.emit(StageStreaming, entry.Path)
	}
}

// process handles a single entry. Only fatal errors are returned.
func (s *session) process(ctx context.Context, entry *archive.Entry) error {
	if entry.Kind != archive.KindFile {
		s.skipped++
		return nil
	}

	d := s.resolver.Resolve(entry.Path)
	switch d.Verdict {
	case naming.Skipped:
		s.skipped++
		s.log.Debug("skipping archive itself", "path", entry.Path)
		return nil
	case naming.Rejected:
		s.rejected++
		s.ledger.Add(d.Message)
		s.log.Warn(d.Message, "cause", d.Cause.String())
		return nil
	default:
		return s.accept(ctx, entry, d.Name)
	}
}

// accept writes the entry's content and mapping record.
func (s *session) accept(ctx context.Context, entry *archive.Entry, name string) error {
	if s.files != nil {
		meta := sink.Meta{Mode: entry.Mode, ModTime: entry.ModTime}
		w, err := s.files.Write(ctx, name, meta, entry.Content)
		if err != nil {
			return fmt.Errorf("extract %s: %w", entry.Path, err)
		}
		s.written += w.Size
		s.log.Debug("wrote entry",
			"path", entry.Path,
			"name", name,
			"size", w.Size,
			"digest", w.Digest.String(),
		)
	}

	if s.mapping != nil {
		if err := s.mapping.Record(entry.Path, name); err != nil {
			return err
		}
	}

	s.renamed++
	return nil
}

// closeMapping flushes and closes the mapping file once and returns the
// number of records written.
func (s *session) closeMapping() (int, error) {
	if s.mapping == nil {
		return 0, nil
	}
	records := s.mapping.Count()
	err := s.mapping.Close()
	s.mapping = nil
	return records, err
}

func (s *session) emit(stage ProgressStage, path string) {
	fn := s.renamer.progress
	if fn == nil {
		return
	}
	var total uint64
	if size := s.reader.Size(); size > 0 {
		total = uint64(size)
	}
	fn(ProgressEvent{
		Stage:      stage,
		Path:       path,
		BytesDone:  s.reader.Offset(),
		BytesTotal: total,
		Renamed:    s.renamed,
		Rejected:   s.rejected,
		Skipped:    s.skipped,
	})
}

func (s *session) result() *Result {
	pairs := s.resolver.Pairs()
	assignments := make([]Assignment, len(pairs))
	for i, p := range pairs {
		assignments[i] = Assignment{Original: p.Original, Name: p.Name}
	}
	return &Result{
		Renamed:      s.renamed,
		Rejected:     s.rejected,
		Skipped:      s.skipped,
		BytesWritten: s.written,
		Assignments:  assignments,
		Diagnostics:  s.ledger.Lines(),
	}
}
