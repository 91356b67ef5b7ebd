// Package naming maps raw archive paths to safe, collision-free output names.
package naming

import "strings"

// DefaultFilterChars is the character set removed from paths when cleaning
// is enabled: common punctuation, brackets and quote characters.
const DefaultFilterChars = "()[]{}-+*=&@!?'#$%^~´`:,;<>|\"\\"

// Config controls how original paths are normalized.
//
// A Config is fixed before processing starts and must not be modified
// while a Resolver is using it.
type Config struct {
	// StripPrefix is removed once from the start of the lower-cased path.
	// Empty disables stripping.
	StripPrefix string

	// FilterChars lists characters deleted from the path when Clean is set.
	FilterChars string

	// Clean enables whitespace trimming, dot trimming, character filtering
	// and underscore substitution.
	Clean bool
}

// DefaultConfig returns a Config with cleaning disabled and the default
// filter set.
func DefaultConfig() Config {
	return Config{FilterChars: DefaultFilterChars}
}

// Normalize maps an original archive path to a candidate safe name.
//
// The steps run in a fixed order:
//   - ASCII lower-casing
//   - removal of cfg.StripPrefix, once, if the lower-cased path starts with it
//   - when cfg.Clean is set: trimming of surrounding whitespace, trimming of
//     leading and trailing '.', removal of cfg.FilterChars, replacement of
//     spaces with '_', and a single pass collapsing "__" into "_"
//
// The "__" collapse is one non-overlapping substitution pass, so "___"
// becomes "__" rather than "_".
func Normalize(original string, cfg Config) string {
	name := lowerASCII(original)

	if cfg.StripPrefix != "" {
		name = strings.TrimPrefix(name, cfg.StripPrefix)
	}

	if !cfg.Clean {
		return name
	}

	name = strings.TrimSpace(name)
	name = strings.Trim(name, ".")
	name = strings.Map(func(r rune) rune {
		if strings.ContainsRune(cfg.FilterChars, r) {
			return -1
		}
		if r == ' ' {
			return '_'
		}
		return r
	}, name)
	return strings.ReplaceAll(name, "__", "_")
}

// lowerASCII folds 'A'-'Z' to lower case and leaves every other rune as is.
func lowerASCII(s string) string {
	return strings.Map(func(r rune) rune {
		if 'A' <= r && r <= 'Z' {
			return r + ('a' - 'A')
		}
		return r
	}, s)
}

// IsASCII reports whether s contains only 7-bit ASCII bytes.
func IsASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}

// HasExtension reports whether name contains at least one '.'.
func HasExtension(name string) bool {
	return strings.Contains(name, ".")
}
