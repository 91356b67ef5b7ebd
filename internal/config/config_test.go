package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meigma/renametar/internal/naming"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "renametar.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefault(t *testing.T) {
	t.Parallel()

	cfg := Default()
	assert.Equal(t, naming.DefaultFilterChars, cfg.FilterChars)
	assert.Equal(t, "auto", cfg.Compression)
	assert.Equal(t, LogFormatAuto, cfg.LogFormat)
	assert.True(t, cfg.Progress)
	assert.False(t, cfg.CleanPaths)

	// Defaults alone name no output.
	require.Error(t, cfg.Validate())
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
output: /srv/renamed
mapping_file: /srv/mapping.txt
errors_file: /srv/errors.txt
clean_paths: true
remove_prefix: export/
compression: zstd
preserve_times: true
log_format: json
`)

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "/srv/renamed", cfg.Output)
	assert.Equal(t, "/srv/mapping.txt", cfg.MappingFile)
	assert.Equal(t, "/srv/errors.txt", cfg.ErrorsFile)
	assert.True(t, cfg.CleanPaths)
	assert.Equal(t, "export/", cfg.RemovePrefix)
	assert.Equal(t, "zstd", cfg.Compression)
	assert.True(t, cfg.PreserveTimes)
	assert.False(t, cfg.PreserveMode)
	assert.Equal(t, LogFormatJSON, cfg.LogFormat)

	// Unset keys keep their defaults.
	assert.Equal(t, naming.DefaultFilterChars, cfg.FilterChars)
	assert.True(t, cfg.Progress)

	require.NoError(t, cfg.Validate())
}

func TestLoadFileExpandsPaths(t *testing.T) {
	t.Setenv("RENAMETAR_TEST_ROOT", "/data")

	cfg, err := LoadFile(writeConfig(t, "output: ${RENAMETAR_TEST_ROOT}/out\n"))
	require.NoError(t, err)
	assert.Equal(t, "/data/out", cfg.Output)
}

func TestLoadFileErrors(t *testing.T) {
	t.Parallel()

	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)

	_, err = LoadFile(writeConfig(t, "output: [unterminated\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}

func TestLoad(t *testing.T) {
	t.Setenv(EnvVar, "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	t.Setenv(EnvVar, writeConfig(t, "mapping_file: m.txt\n"))
	cfg, err = Load()
	require.NoError(t, err)
	assert.Equal(t, "m.txt", cfg.MappingFile)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr string
	}{
		{
			name:   "output only",
			modify: func(c *Config) { c.Output = "out" },
		},
		{
			name:   "mapping only",
			modify: func(c *Config) { c.MappingFile = "m.txt" },
		},
		{
			name:    "no output",
			modify:  func(*Config) {},
			wantErr: "one of output or mapping_file is required",
		},
		{
			name: "bad log format",
			modify: func(c *Config) {
				c.Output = "out"
				c.LogFormat = "xml"
			},
			wantErr: "log_format must be one of",
		},
		{
			name: "bad compression",
			modify: func(c *Config) {
				c.Output = "out"
				c.Compression = "bzip2"
			},
			wantErr: `compression must be one of`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := Default()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateJoinsErrors(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.LogFormat = "xml"
	cfg.Compression = "rar"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "one of output or mapping_file is required")
	assert.Contains(t, err.Error(), "log_format")
	assert.Contains(t, err.Error(), "compression")
}
