// Package renametar renames the files of a tar archive into a flat,
// deterministic, collision-free set of filesystem-safe names.
//
// A run reads one archive (raw, gzip, zstd or lz4 framed) as a stream and
// processes every regular file in order:
//   - the original path is lower-cased and, optionally, cleaned
//   - entries that are non-ASCII, duplicated, or lack an extension after
//     cleaning are rejected with one diagnostic line each
//   - names that collide with an earlier entry get '_' prepended until unique
//   - accepted entries are written below an output directory and/or recorded
//     in a mapping file
//
// Directories, links and other non-file entries are skipped silently, as is
// any entry named like the archive itself.
//
// # Quick Start
//
//	r, err := renametar.New(
//	    renametar.WithOutputDir("./out"),
//	    renametar.WithMappingFile("./mapping.txt"),
//	    renametar.WithErrorFile("./errors.txt"),
//	    renametar.WithCleanPaths(true),
//	)
//	if err != nil {
//	    return err
//	}
//	res, err := r.Run(ctx, "export.tar.gz")
//
// Given the same archive and options, two runs assign identical names and
// record identical diagnostics.
package renametar
