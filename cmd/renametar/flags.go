package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/pflag"

	"github.com/meigma/renametar/internal/config"
)

// invocation is a parsed command line.
type invocation struct {
	cfg     *config.Config
	input   string
	help    bool
	version bool
	flags   *pflag.FlagSet
}

// overrides copies each flag value into the loaded config when the flag was
// set explicitly, so file values survive unset flags.
var overrides = map[string]func(dst, src *config.Config){
	"output":         func(d, s *config.Config) { d.Output = s.Output },
	"mapping-file":   func(d, s *config.Config) { d.MappingFile = s.MappingFile },
	"errors-file":    func(d, s *config.Config) { d.ErrorsFile = s.ErrorsFile },
	"clean-paths":    func(d, s *config.Config) { d.CleanPaths = s.CleanPaths },
	"remove-prefix":  func(d, s *config.Config) { d.RemovePrefix = s.RemovePrefix },
	"filter-chars":   func(d, s *config.Config) { d.FilterChars = s.FilterChars },
	"compression":    func(d, s *config.Config) { d.Compression = s.Compression },
	"preserve-mode":  func(d, s *config.Config) { d.PreserveMode = s.PreserveMode },
	"preserve-times": func(d, s *config.Config) { d.PreserveTimes = s.PreserveTimes },
	"no-progress":    func(d, s *config.Config) { d.Progress = s.Progress },
	"log-format":     func(d, s *config.Config) { d.LogFormat = s.LogFormat },
	"verbose":        func(d, s *config.Config) { d.Verbose = s.Verbose },
}

func newFlagSet(values *config.Config, configPath *string, noProgress *bool) *pflag.FlagSet {
	defaults := config.Default()

	fs := pflag.NewFlagSet("renametar", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.SortFlags = false

	fs.StringVarP(&values.Output, "output", "o", "", "directory receiving renamed files")
	fs.StringVar(&values.MappingFile, "mapping-file", "", "write \"<original> <safe name>\" lines to this file")
	fs.StringVar(&values.ErrorsFile, "errors-file", "", "write rejected-entry diagnostics to this file")
	fs.BoolVar(&values.CleanPaths, "clean-paths", false, "trim, filter characters and replace spaces with underscores")
	fs.StringVar(&values.RemovePrefix, "remove-prefix", "", "strip this prefix from every lower-cased path")
	fs.StringVar(&values.FilterChars, "filter-chars", defaults.FilterChars, "characters removed by --clean-paths")
	fs.StringVar(&values.Compression, "compression", defaults.Compression, "input compression: auto, none, gzip, zstd, lz4")
	fs.BoolVar(&values.PreserveMode, "preserve-mode", false, "apply permission bits from the archive")
	fs.BoolVar(&values.PreserveTimes, "preserve-times", false, "apply modification times from the archive")
	fs.BoolVar(noProgress, "no-progress", false, "disable the progress bar")
	fs.StringVar(&values.LogFormat, "log-format", defaults.LogFormat, "log format: auto, text, json")
	fs.BoolVarP(&values.Verbose, "verbose", "v", false, "log every written file")
	fs.StringVar(configPath, "config", "", "YAML config file (default: $"+config.EnvVar+")")
	fs.Bool("version", false, "print version and exit")
	fs.BoolP("help", "h", false, "show help")
	return fs
}

// parseArgs parses args and merges explicitly set flags over the config file.
func parseArgs(args []string) (*invocation, error) {
	values := config.Default()
	var configPath string
	var noProgress bool

	fs := newFlagSet(values, &configPath, &noProgress)
	inv := &invocation{flags: fs}
	if err := fs.Parse(args); err != nil {
		return inv, err
	}
	values.Progress = !noProgress

	inv.help, _ = fs.GetBool("help")
	inv.version, _ = fs.GetBool("version")
	if inv.help || inv.version {
		return inv, nil
	}

	switch rest := fs.Args(); len(rest) {
	case 1:
		inv.input = rest[0]
	case 0:
		return inv, errors.New("missing input archive")
	default:
		return inv, fmt.Errorf("unexpected argument: %s", rest[1])
	}

	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.LoadFile(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return inv, err
	}

	fs.Visit(func(f *pflag.Flag) {
		if apply, ok := overrides[f.Name]; ok {
			apply(cfg, values)
		}
	})

	if err := cfg.Validate(); err != nil {
		return inv, err
	}
	inv.cfg = cfg
	return inv, nil
}
