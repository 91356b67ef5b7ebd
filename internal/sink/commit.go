// Package sink writes the outputs of a rename run: renamed file contents,
// the mapping file, and the error ledger.
package sink

import (
	"fmt"
	"os"
	"path/filepath"
)

// dirPerm is used for every directory created on demand.
const dirPerm = 0o750

// committer writes to a temp file and renames it to the final path on Commit.
//
// Partially written files are never visible at the final path.
type committer struct {
	destPath string
	tempFile *os.File
}

// newCommitter creates destPath's parent directories and a temp file next to
// destPath.
func newCommitter(destPath string) (*committer, error) {
	dir := filepath.Dir(destPath)
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return nil, fmt.Errorf("create directory %s: %w", dir, err)
	}

	// Same directory as the destination so the rename stays on one filesystem.
	tempFile, err := os.CreateTemp(dir, ".renametar-*")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	return &committer{destPath: destPath, tempFile: tempFile}, nil
}

// Write implements io.Writer.
func (c *committer) Write(p []byte) (int, error) {
	return c.tempFile.Write(p)
}

// Commit closes the temp file, applies optional metadata, and renames it to
// the final path.
func (c *committer) Commit(apply func(tempPath string) error) error {
	tempPath := c.tempFile.Name()

	if err := c.tempFile.Close(); err != nil {
		_ = os.Remove(tempPath) //nolint:errcheck // best-effort cleanup
		return fmt.Errorf("close temp file: %w", err)
	}

	if apply != nil {
		if err := apply(tempPath); err != nil {
			_ = os.Remove(tempPath) //nolint:errcheck // best-effort cleanup
			return err
		}
	}

	if err := os.Rename(tempPath, c.destPath); err != nil {
		_ = os.Remove(tempPath) //nolint:errcheck // best-effort cleanup
		return fmt.Errorf("rename to %s: %w", c.destPath, err)
	}
	return nil
}

// Discard closes and removes the temp file.
func (c *committer) Discard() error {
	tempPath := c.tempFile.Name()
	_ = c.tempFile.Close() //nolint:errcheck // we're cleaning up
	return os.Remove(tempPath)
}

// chmodDefault gives a committed file the default mode instead of the
// temp file's 0600.
func chmodDefault(tempPath string) error {
	if err := os.Chmod(tempPath, defaultFilePerm); err != nil {
		return fmt.Errorf("chmod: %w", err)
	}
	return nil
}
