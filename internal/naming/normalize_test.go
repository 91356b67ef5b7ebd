package naming

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	clean := Config{FilterChars: DefaultFilterChars, Clean: true}

	tests := []struct {
		name     string
		original string
		cfg      Config
		want     string
	}{
		{
			name:     "lowercase only",
			original: "Docs/Notes.TXT",
			cfg:      DefaultConfig(),
			want:     "docs/notes.txt",
		},
		{
			name:     "no cleaning keeps punctuation and spaces",
			original: " My (Copy).txt ",
			cfg:      DefaultConfig(),
			want:     " my (copy).txt ",
		},
		{
			name:     "strip prefix after lowercasing",
			original: "Export/Data/a.csv",
			cfg:      Config{StripPrefix: "export/"},
			want:     "data/a.csv",
		},
		{
			name:     "strip prefix only once",
			original: "x/x/a.csv",
			cfg:      Config{StripPrefix: "x/"},
			want:     "x/a.csv",
		},
		{
			name:     "prefix not matching is ignored",
			original: "other/a.csv",
			cfg:      Config{StripPrefix: "export/"},
			want:     "other/a.csv",
		},
		{
			name:     "prefix is compared against lowercased text",
			original: "EXPORT/a.csv",
			cfg:      Config{StripPrefix: "EXPORT/"},
			want:     "export/a.csv",
		},
		{
			name:     "clean trims whitespace and dots",
			original: "  ..hidden.file..  ",
			cfg:      clean,
			want:     "hidden.file",
		},
		{
			name:     "clean filters characters and replaces spaces",
			original: "My (Copy) #2.txt",
			cfg:      clean,
			want:     "my_copy_2.txt",
		},
		{
			name:     "space in filter set is removed instead of replaced",
			original: "a b.txt",
			cfg:      Config{FilterChars: " ", Clean: true},
			want:     "ab.txt",
		},
		{
			name:     "double underscore collapses",
			original: "a__b.txt",
			cfg:      clean,
			want:     "a_b.txt",
		},
		{
			name:     "triple underscore collapses in a single pass",
			original: "a___b.txt",
			cfg:      clean,
			want:     "a__b.txt",
		},
		{
			name:     "quadruple underscore collapses in a single pass",
			original: "a____b.txt",
			cfg:      clean,
			want:     "a__b.txt",
		},
		{
			name:     "leading dots of a parent reference are trimmed",
			original: "../escape.bin",
			cfg:      clean,
			want:     "/escape.bin",
		},
		{
			name:     "non-ascii letters are not folded",
			original: "CAFÉ.bin",
			cfg:      DefaultConfig(),
			want:     "cafÉ.bin",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Normalize(tt.original, tt.cfg))
		})
	}
}

func TestNormalizeFixedPointOnCleanInput(t *testing.T) {
	t.Parallel()

	cfg := Config{FilterChars: DefaultFilterChars, Clean: true}
	for _, name := range []string{
		"a.txt",
		"docs/readme.md",
		"archive_2024.tar.gz",
		"dir/sub/file_name.bin",
	} {
		once := Normalize(name, cfg)
		assert.Equal(t, name, once, "clean input %q changed", name)
		assert.Equal(t, once, Normalize(once, cfg), "normalize is not a fixed point for %q", name)
	}
}

func TestIsASCII(t *testing.T) {
	t.Parallel()

	assert.True(t, IsASCII(""))
	assert.True(t, IsASCII("plain/path-1.txt"))
	assert.False(t, IsASCII("café.bin"))
	assert.False(t, IsASCII(string([]byte{'a', 0xff, '.', 'b'})))
}

func TestHasExtension(t *testing.T) {
	t.Parallel()

	assert.True(t, HasExtension("a.txt"))
	assert.True(t, HasExtension("dir.d/readme"))
	assert.False(t, HasExtension("readme"))
	assert.False(t, HasExtension(""))
}
