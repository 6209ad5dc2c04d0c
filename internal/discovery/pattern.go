package discovery

import (
	"fmt"
	"path/filepath"

	"github.com/gobwas/glob"
)

// Pattern is a compiled exclude glob. Patterns are matched against a file's
// match-relative fragment with '/' as the separator, so '*' stays within one
// path component while '**' crosses directories.
type Pattern struct {
	raw      string
	compiled glob.Glob
}

// CompilePattern compiles a single exclude glob. An invalid pattern is a
// configuration error owned by the caller, surfaced before any traversal.
func CompilePattern(raw string) (Pattern, error) {
	compiled, err := glob.Compile(raw, '/')
	if err != nil {
		return Pattern{}, fmt.Errorf("invalid exclude pattern %q: %w", raw, err)
	}
	return Pattern{raw: raw, compiled: compiled}, nil
}

// CompilePatterns compiles each exclude glob in order, stopping at the first
// invalid one.
func CompilePatterns(raws []string) ([]Pattern, error) {
	patterns := make([]Pattern, 0, len(raws))
	for _, raw := range raws {
		pattern, err := CompilePattern(raw)
		if err != nil {
			return nil, err
		}
		patterns = append(patterns, pattern)
	}
	return patterns, nil
}

// Match reports whether the match-relative fragment matches this pattern.
func (p Pattern) Match(rel string) bool {
	return p.compiled.Match(filepath.ToSlash(rel))
}

// String returns the original pattern text.
func (p Pattern) String() string {
	return p.raw
}
