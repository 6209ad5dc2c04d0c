// Package ignorefile compiles .gitignore-syntax files into matchers that
// report a tri-state decision for a path: no opinion, ignore, or whitelist.
//
// The tri-state result is what makes cascading resolution possible: "no
// opinion" must stay distinguishable from "explicitly re-include" when folding
// decisions across multiple ignore files.
package ignorefile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	gitignore "github.com/sabhiram/go-gitignore"
)

// Decision is the outcome of testing one path against one matcher.
type Decision int

const (
	// DecisionNone means no pattern in the file applies to the path.
	DecisionNone Decision = iota
	// DecisionIgnore means the path is matched by an ignore pattern.
	DecisionIgnore
	// DecisionWhitelist means the path is matched by a negated (!) pattern.
	DecisionWhitelist
)

// String returns a human-readable decision name.
func (d Decision) String() string {
	switch d {
	case DecisionIgnore:
		return "ignore"
	case DecisionWhitelist:
		return "whitelist"
	default:
		return "none"
	}
}

// pattern is one effective ignore-file line. Negation is tracked here rather
// than delegated so that a lone whitelist pattern still produces a
// DecisionWhitelist instead of collapsing into "no match".
type pattern struct {
	matcher *gitignore.GitIgnore
	negate  bool
}

// Matcher is a compiled .gitignore-syntax file. A nil *Matcher is valid and
// matches nothing.
type Matcher struct {
	patterns []pattern
}

// Compile builds a Matcher from raw ignore-file lines. Returns nil when no
// line survives comment/blank stripping, so callers can treat "empty file"
// and "no file" uniformly.
func Compile(lines []string) *Matcher {
	var patterns []pattern
	for _, line := range lines {
		trimmed := strings.TrimSuffix(line, "\r")
		if !strings.HasPrefix(trimmed, `\ `) {
			trimmed = strings.TrimSpace(trimmed)
		}
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		negate := false
		if strings.HasPrefix(trimmed, "!") {
			negate = true
			trimmed = trimmed[1:]
			if trimmed == "" {
				continue
			}
		}
		patterns = append(patterns, pattern{
			matcher: gitignore.CompileIgnoreLines(trimmed),
			negate:  negate,
		})
	}
	if len(patterns) == 0 {
		return nil
	}
	return &Matcher{patterns: patterns}
}

// CompileFile reads and compiles the ignore file at path. A missing file is
// not an error: the result is simply a nil Matcher. Unreadable files return
// an error for the caller to log; malformed lines are tolerated by the
// underlying compiler.
func CompileFile(path string) (*Matcher, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading ignore file %s: %w", path, err)
	}
	return Compile(strings.Split(string(data), "\n")), nil
}

// Match tests rel, a path relative to the directory the ignore file lives in,
// against the compiled patterns. isDir must be true when rel names a
// directory so that trailing-slash patterns ("logs/") apply to the directory
// itself. The last matching pattern wins, mirroring gitignore semantics.
func (m *Matcher) Match(rel string, isDir bool) Decision {
	if m == nil {
		return DecisionNone
	}
	probe := filepath.ToSlash(rel)
	if isDir && !strings.HasSuffix(probe, "/") {
		probe += "/"
	}
	decision := DecisionNone
	for _, p := range m.patterns {
		if !p.matcher.MatchesPath(probe) {
			continue
		}
		if p.negate {
			decision = DecisionWhitelist
		} else {
			decision = DecisionIgnore
		}
	}
	return decision
}
