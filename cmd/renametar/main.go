// renametar renames the entries of a tar archive to deterministic,
// collision-free, filesystem-safe names.
//
// Usage:
//
//	renametar [flags] <input.tar[.gz|.zst|.lz4]>
//
// At least one of --output or --mapping-file is required. Entries that cannot
// be renamed are reported on stderr and, with --errors-file, collected in a
// file at the end of the run.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/meigma/renametar"
	"github.com/meigma/renametar/internal/config"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	inv, err := parseArgs(args)
	if err != nil {
		return err
	}
	if inv.help {
		printHelp(stdout, inv)
		return nil
	}
	if inv.version {
		fmt.Fprintf(stdout, "renametar %s\n", version)
		return nil
	}

	cfg := inv.cfg
	opts := []renametar.Option{
		renametar.WithOutputDir(cfg.Output),
		renametar.WithMappingFile(cfg.MappingFile),
		renametar.WithErrorFile(cfg.ErrorsFile),
		renametar.WithCleanPaths(cfg.CleanPaths),
		renametar.WithStripPrefix(cfg.RemovePrefix),
		renametar.WithFilterChars(cfg.FilterChars),
		renametar.WithCompression(cfg.Compression),
		renametar.WithPreserveMode(cfg.PreserveMode),
		renametar.WithPreserveTimes(cfg.PreserveTimes),
		renametar.WithLogger(newLogger(stderr, cfg.LogFormat, cfg.Verbose)),
	}
	if cfg.Progress && isTerminal(stderr) {
		bar := newProgressBar(stderr)
		defer bar.Close()
		opts = append(opts, renametar.WithProgress(bar.Update))
	}

	r, err := renametar.New(opts...)
	if err != nil {
		return err
	}
	res, err := r.Run(ctx, inv.input)
	if err != nil {
		return err
	}

	printSummary(stdout, res)
	return nil
}

func printSummary(w io.Writer, res *renametar.Result) {
	fmt.Fprintf(w, "Done! (%s)\n", res.Elapsed.Round(time.Millisecond))
	fmt.Fprintf(w, "%s renamed, %s rejected, %s skipped, %s written\n",
		humanize.Comma(int64(res.Renamed)),
		humanize.Comma(int64(res.Rejected)),
		humanize.Comma(int64(res.Skipped)),
		humanize.IBytes(res.BytesWritten),
	)
}

func printHelp(w io.Writer, inv *invocation) {
	fmt.Fprintf(w, `renametar renames tar archive entries to safe, unique names.

Every regular file is lower-cased, optionally cleaned, and given a name no
other entry in the archive has. Entries without an extension, with non-ASCII
paths, or repeating an earlier path are skipped and reported.

Usage:
  renametar [flags] <input>

Flags:
%s
A YAML config file may set any flag; see --config. Flags given on the command
line take precedence. The file is also read from $%s.
`, inv.flags.FlagUsages(), config.EnvVar)
}
